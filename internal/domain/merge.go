package domain

// MergeSnapshot joins one station's aggregated tide rows with the run's
// forecast outcome into the persisted snapshot shape.
//
// Decision policy, in order:
//  1. Forecast unavailable for the whole run (fetch/decode failure or zero
//     observations): left-join each tide row against the previous snapshot's
//     weather by (fecha, hora), so a transient SMN outage does not blank out
//     weather that was already known. Unmatched rows get null weather.
//  2. Station has no forecast locality, or the locality is absent from this
//     run's bulletin: every row gets null weather.
//  3. Otherwise: left-join against the current bulletin's observations for
//     the station's locality; unmatched rows keep null weather.
//
// Tide fields are always populated; weather fields are all-or-nothing.
func MergeSnapshot(stats []HourlyTideStat, station Station, outcome ForecastOutcome, previous *Snapshot) Snapshot {
	rows := make([]SnapshotRow, 0, len(stats))

	switch {
	case !outcome.Available():
		prevWeather := indexPreviousWeather(previous)
		for _, st := range stats {
			rows = append(rows, mergedRow(st, prevWeather[st.Fecha+" "+st.Hora]))
		}

	case station.ForecastLocality == "" || !outcome.Table().HasLocality(station.ForecastLocality):
		for _, st := range stats {
			rows = append(rows, mergedRow(st, WeatherFields{}))
		}

	default:
		table := outcome.Table()
		for _, st := range stats {
			var w WeatherFields
			if o, ok := table.Lookup(station.ForecastLocality, st.Fecha, st.Hora); ok {
				w = WeatherFromObservation(o)
			}
			rows = append(rows, mergedRow(st, w))
		}
	}

	return Snapshot{Datos: rows}
}

// indexPreviousWeather maps (fecha, hora) to the weather fields of a prior
// snapshot. The most recent occurrence of a duplicated key wins.
func indexPreviousWeather(previous *Snapshot) map[string]WeatherFields {
	if previous == nil {
		return nil
	}
	idx := make(map[string]WeatherFields, len(previous.Datos))
	for _, r := range previous.Datos {
		idx[r.Fecha+" "+r.Hora] = r.WeatherFields
	}
	return idx
}

func mergedRow(st HourlyTideStat, w WeatherFields) SnapshotRow {
	return SnapshotRow{
		Fecha:          st.Fecha,
		Hora:           st.Hora,
		AlturaMinima:   st.Min,
		AlturaPromedio: st.Avg,
		AlturaMaxima:   st.Max,
		WeatherFields:  w,
	}
}
