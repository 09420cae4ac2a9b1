package domain_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipap/mareas-service/internal/domain"
)

func TestAggregationWindow(t *testing.T) {
	loc := time.FixedZone("-03", -3*3600)
	fake := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 14, 30, 0, 0, loc))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	start, end := domain.AggregationWindow(loc)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 1, 18, 23, 59, 59, 0, loc), end)
}

func TestAggregationWindow_NotCached(t *testing.T) {
	loc := time.UTC
	fake := clockwork.NewFakeClockAt(time.Date(2024, 1, 15, 23, 0, 0, 0, loc))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	first, _ := domain.AggregationWindow(loc)
	fake.Advance(2 * time.Hour) // past midnight
	second, _ := domain.AggregationWindow(loc)

	assert.Equal(t, 24*time.Hour, second.Sub(first))
}

func TestAggregateHeights_GroupsByHour(t *testing.T) {
	loc := time.UTC
	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	samples := []domain.RawHeightSample{
		{Timestamp: time.Date(2024, 1, 1, 6, 0, 0, 0, loc), Value: 1.0},
		{Timestamp: time.Date(2024, 1, 1, 6, 0, 0, 0, loc), Value: 1.4},
		{Timestamp: time.Date(2024, 1, 1, 6, 0, 0, 0, loc), Value: 1.2},
		{Timestamp: time.Date(2024, 1, 1, 7, 0, 0, 0, loc), Value: 0.8},
	}

	got := domain.AggregateHeights(samples, windowStart)
	want := []domain.HourlyTideStat{
		{Fecha: "2024-01-01", Hora: "06:00:00", Min: 1.0, Avg: 1.2, Max: 1.4},
		{Fecha: "2024-01-01", Hora: "07:00:00", Min: 0.8, Avg: 0.8, Max: 0.8},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateHeights_SynthesizesDayBoundaryRows(t *testing.T) {
	loc := time.UTC
	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	samples := []domain.RawHeightSample{
		{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, loc), Value: 1.1},
		{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, loc), Value: 1.3},
		{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, loc), Value: 1.2},
	}

	got := domain.AggregateHeights(samples, windowStart)
	require.Len(t, got, 2)

	// The synthesized 23:59:00 row sorts before the midnight row it mirrors.
	assert.Equal(t, "2024-01-01", got[0].Fecha)
	assert.Equal(t, "23:59:00", got[0].Hora)
	assert.Equal(t, "2024-01-02", got[1].Fecha)
	assert.Equal(t, "00:00:00", got[1].Hora)

	for _, st := range got {
		assert.Equal(t, 1.1, st.Min)
		assert.InDelta(t, 1.2, st.Avg, 1e-9)
		assert.Equal(t, 1.3, st.Max)
	}
}

func TestAggregateHeights_NoSyntheticRowForWindowStartMidnight(t *testing.T) {
	loc := time.UTC
	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	samples := []domain.RawHeightSample{
		{Timestamp: windowStart, Value: 0.9},
	}

	got := domain.AggregateHeights(samples, windowStart)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-01", got[0].Fecha)
	assert.Equal(t, "00:00:00", got[0].Hora)
}

func TestAggregateHeights_FiltersOutsideWindow(t *testing.T) {
	loc := time.UTC
	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	samples := []domain.RawHeightSample{
		{Timestamp: windowStart.Add(-time.Second), Value: 9.9},
		{Timestamp: windowStart.AddDate(0, 0, 4), Value: 9.9},
		{Timestamp: windowStart.AddDate(0, 0, 4).Add(-time.Second), Value: 1.5},
	}

	got := domain.AggregateHeights(samples, windowStart)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-04", got[0].Fecha)
	assert.Equal(t, "23:59:59", got[0].Hora)
}

func TestAggregateHeights_Empty(t *testing.T) {
	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, domain.AggregateHeights(nil, windowStart))
	assert.Nil(t, domain.AggregateHeights([]domain.RawHeightSample{
		{Timestamp: windowStart.Add(-time.Hour), Value: 1.0},
	}, windowStart))
}

func TestAggregateHeights_SortedByDateThenHour(t *testing.T) {
	loc := time.UTC
	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	samples := []domain.RawHeightSample{
		{Timestamp: time.Date(2024, 1, 2, 3, 0, 0, 0, loc), Value: 1.0},
		{Timestamp: time.Date(2024, 1, 1, 22, 0, 0, 0, loc), Value: 1.0},
		{Timestamp: time.Date(2024, 1, 2, 1, 0, 0, 0, loc), Value: 1.0},
		{Timestamp: time.Date(2024, 1, 1, 4, 0, 0, 0, loc), Value: 1.0},
	}

	got := domain.AggregateHeights(samples, windowStart)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		prev := got[i-1].Fecha + " " + got[i-1].Hora
		cur := got[i].Fecha + " " + got[i].Hora
		assert.Less(t, prev, cur)
	}
}
