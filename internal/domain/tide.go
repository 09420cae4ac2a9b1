package domain

import (
	"sort"
	"time"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "15:04:05"
)

// RawHeightSample is one hydrometric reading: a naive local timestamp and the
// measured height in meters.
type RawHeightSample struct {
	Timestamp time.Time
	Value     float64
}

// HourlyTideStat aggregates the readings sharing a (fecha, hora) key.
type HourlyTideStat struct {
	Fecha string // "2006-01-02"
	Hora  string // "15:04:05"
	Min   float64
	Avg   float64
	Max   float64
}

// AggregationWindow returns the fetch window for a run: [today 00:00, today+3
// 23:59:59] in the given civil timezone. "Today" is evaluated at call time
// through the injectable clock, never cached.
func AggregationWindow(loc *time.Location) (start, end time.Time) {
	now := clock.Now().In(loc)
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 3).Add(86399 * time.Second)
	return start, end
}

// AggregateHeights reduces raw readings to hourly min/avg/max statistics.
// Readings outside [windowStart, windowStart+4d) are discarded. For every
// aggregated midnight row after the window's own start date, a synthetic
// 23:59:00 row of the previous date is appended with the same statistics so
// charts carry each day through its end; 23:59:00 is never itself an
// aggregation key, which keeps (fecha, hora) unique. The result is sorted
// ascending by (fecha, hora). An empty input (after filtering) yields nil.
func AggregateHeights(samples []RawHeightSample, windowStart time.Time) []HourlyTideStat {
	windowEnd := windowStart.AddDate(0, 0, 4)

	type key struct{ fecha, hora string }
	type acc struct {
		min, max, sum float64
		n             int
	}
	groups := make(map[key]*acc)

	for _, s := range samples {
		if s.Timestamp.Before(windowStart) || !s.Timestamp.Before(windowEnd) {
			continue
		}
		k := key{s.Timestamp.Format(dateLayout), s.Timestamp.Format(hourLayout)}
		g, ok := groups[k]
		if !ok {
			groups[k] = &acc{min: s.Value, max: s.Value, sum: s.Value, n: 1}
			continue
		}
		if s.Value < g.min {
			g.min = s.Value
		}
		if s.Value > g.max {
			g.max = s.Value
		}
		g.sum += s.Value
		g.n++
	}

	if len(groups) == 0 {
		return nil
	}

	stats := make([]HourlyTideStat, 0, len(groups))
	for k, g := range groups {
		stats = append(stats, HourlyTideStat{
			Fecha: k.fecha,
			Hora:  k.hora,
			Min:   g.min,
			Avg:   g.sum / float64(g.n),
			Max:   g.max,
		})
	}

	startFecha := windowStart.Format(dateLayout)
	for _, st := range stats {
		if st.Hora != "00:00:00" || st.Fecha <= startFecha {
			continue
		}
		d, err := time.Parse(dateLayout, st.Fecha)
		if err != nil {
			continue
		}
		stats = append(stats, HourlyTideStat{
			Fecha: d.AddDate(0, 0, -1).Format(dateLayout),
			Hora:  "23:59:00",
			Min:   st.Min,
			Avg:   st.Avg,
			Max:   st.Max,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Fecha != stats[j].Fecha {
			return stats[i].Fecha < stats[j].Fecha
		}
		return stats[i].Hora < stats[j].Hora
	})
	return stats
}
