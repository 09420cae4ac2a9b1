package domain_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipap/mareas-service/internal/domain"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
func iptr(v int) *int         { return &v }

func testStation() domain.Station {
	return domain.Station{
		ID:               "sf",
		SeriesID:         1,
		SiteCode:         "A",
		CalID:            9,
		ForecastLocality: "SAN_FERNANDO",
	}
}

func testStats() []domain.HourlyTideStat {
	return []domain.HourlyTideStat{
		{Fecha: "2024-01-02", Hora: "00:00:00", Min: 1.1, Avg: 1.2, Max: 1.3},
		{Fecha: "2024-01-02", Hora: "06:00:00", Min: 0.8, Avg: 0.9, Max: 1.0},
	}
}

func sampleWeather() domain.WeatherFields {
	return domain.WeatherFields{
		Temperatura:                fptr(22.5),
		VientoDireccion:            fptr(40),
		VientoDireccionAbreviatura: sptr("NE"),
		VientoDireccionNombre:      sptr("Nordeste"),
		VientoDireccionGrados:      fptr(45),
		VientoKmH:                  iptr(14),
		PrecipitacionMM:            fptr(0.2),
	}
}

func assertNullWeather(t *testing.T, w domain.WeatherFields) {
	t.Helper()
	if diff := cmp.Diff(domain.WeatherFields{}, w); diff != "" {
		t.Errorf("weather not null (-want +got):\n%s", diff)
	}
}

func TestMergeSnapshot_LeftJoin(t *testing.T) {
	obs := domain.ForecastObservation{
		Locality:                   "SAN_FERNANDO",
		Fecha:                      "2024-01-02",
		Hora:                       "06:00:00",
		Temperatura:                22.5,
		VientoDireccion:            40,
		VientoDireccionAbreviatura: "NE",
		VientoDireccionNombre:      "Nordeste",
		VientoDireccionGrados:      45,
		VientoKmH:                  14,
		PrecipitacionMM:            0.2,
	}
	outcome := domain.ParsedForecast(domain.NewForecastTable([]domain.ForecastObservation{obs}))

	snap := domain.MergeSnapshot(testStats(), testStation(), outcome, nil)
	require.Len(t, snap.Datos, 2)

	// Tide statistics are always carried over.
	assert.Equal(t, "2024-01-02", snap.Datos[0].Fecha)
	assert.Equal(t, "00:00:00", snap.Datos[0].Hora)
	assert.Equal(t, 1.1, snap.Datos[0].AlturaMinima)
	assert.Equal(t, 1.2, snap.Datos[0].AlturaPromedio)
	assert.Equal(t, 1.3, snap.Datos[0].AlturaMaxima)

	assertNullWeather(t, snap.Datos[0].WeatherFields)

	matched := snap.Datos[1].WeatherFields
	require.NotNil(t, matched.Temperatura)
	assert.Equal(t, 22.5, *matched.Temperatura)
	assert.Equal(t, "NE", *matched.VientoDireccionAbreviatura)
	assert.Equal(t, "Nordeste", *matched.VientoDireccionNombre)
	assert.Equal(t, 40.0, *matched.VientoDireccion)
	assert.Equal(t, 45.0, *matched.VientoDireccionGrados)
	assert.Equal(t, 14, *matched.VientoKmH)
	assert.Equal(t, 0.2, *matched.PrecipitacionMM)
}

func TestMergeSnapshot_UnavailableFallsBackToPrevious(t *testing.T) {
	previous := &domain.Snapshot{Datos: []domain.SnapshotRow{
		{Fecha: "2024-01-02", Hora: "06:00:00", AlturaMinima: 0.1, AlturaPromedio: 0.2, AlturaMaxima: 0.3,
			WeatherFields: sampleWeather()},
	}}
	outcome := domain.ForecastUnavailable(errors.New("bulletin fetch: connection refused"))

	snap := domain.MergeSnapshot(testStats(), testStation(), outcome, previous)
	require.Len(t, snap.Datos, 2)

	// The row without a prior match stays null.
	assertNullWeather(t, snap.Datos[0].WeatherFields)

	// The matched row carries the previous weather unchanged, but the tide
	// statistics come from this run, not the old snapshot.
	if diff := cmp.Diff(sampleWeather(), snap.Datos[1].WeatherFields); diff != "" {
		t.Errorf("fallback weather mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0.8, snap.Datos[1].AlturaMinima)
	assert.Equal(t, 1.0, snap.Datos[1].AlturaMaxima)
}

func TestMergeSnapshot_UnavailableWithoutPrevious(t *testing.T) {
	outcome := domain.ForecastUnavailable(errors.New("decode failed"))

	snap := domain.MergeSnapshot(testStats(), testStation(), outcome, nil)
	require.Len(t, snap.Datos, 2)
	for _, row := range snap.Datos {
		assertNullWeather(t, row.WeatherFields)
	}
}

func TestMergeSnapshot_EmptyTableCountsAsUnavailable(t *testing.T) {
	outcome := domain.ParsedForecast(domain.NewForecastTable(nil))
	assert.False(t, outcome.Available())

	previous := &domain.Snapshot{Datos: []domain.SnapshotRow{
		{Fecha: "2024-01-02", Hora: "00:00:00", WeatherFields: sampleWeather()},
	}}
	snap := domain.MergeSnapshot(testStats(), testStation(), outcome, previous)
	require.Len(t, snap.Datos, 2)
	require.NotNil(t, snap.Datos[0].Temperatura)
	assert.Equal(t, 22.5, *snap.Datos[0].Temperatura)
}

func TestMergeSnapshot_StationWithoutLocality(t *testing.T) {
	obs := domain.ForecastObservation{Locality: "SAN_FERNANDO", Fecha: "2024-01-02", Hora: "00:00:00"}
	outcome := domain.ParsedForecast(domain.NewForecastTable([]domain.ForecastObservation{obs}))

	station := testStation()
	station.ForecastLocality = ""

	snap := domain.MergeSnapshot(testStats(), station, outcome, nil)
	require.Len(t, snap.Datos, 2)
	for _, row := range snap.Datos {
		assertNullWeather(t, row.WeatherFields)
	}
}

func TestMergeSnapshot_LocalityMissingFromBulletin(t *testing.T) {
	obs := domain.ForecastObservation{Locality: "BUENOS_AIRES", Fecha: "2024-01-02", Hora: "00:00:00"}
	outcome := domain.ParsedForecast(domain.NewForecastTable([]domain.ForecastObservation{obs}))

	snap := domain.MergeSnapshot(testStats(), testStation(), outcome, nil)
	require.Len(t, snap.Datos, 2)
	for _, row := range snap.Datos {
		assertNullWeather(t, row.WeatherFields)
	}
}

func TestMergeSnapshot_PreviousDuplicateKeyLastWins(t *testing.T) {
	first := sampleWeather()
	second := sampleWeather()
	second.Temperatura = fptr(30.0)

	previous := &domain.Snapshot{Datos: []domain.SnapshotRow{
		{Fecha: "2024-01-02", Hora: "06:00:00", WeatherFields: first},
		{Fecha: "2024-01-02", Hora: "06:00:00", WeatherFields: second},
	}}
	outcome := domain.ForecastUnavailable(errors.New("unavailable"))

	snap := domain.MergeSnapshot(testStats(), testStation(), outcome, previous)
	require.Len(t, snap.Datos, 2)
	require.NotNil(t, snap.Datos[1].Temperatura)
	assert.Equal(t, 30.0, *snap.Datos[1].Temperatura)
}
