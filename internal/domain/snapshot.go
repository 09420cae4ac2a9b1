package domain

// WeatherFields are the seven nullable weather columns of a snapshot row.
// They are populated all together from a single matched forecast (or
// previous-snapshot) row, or all null; never a partial subset. The zero value
// is the all-null case.
type WeatherFields struct {
	Temperatura                *float64 `json:"temperatura"`
	VientoDireccion            *float64 `json:"viento_direccion"`
	VientoDireccionAbreviatura *string  `json:"viento_direccion_abreviatura"`
	VientoDireccionNombre      *string  `json:"viento_direccion_nombre"`
	VientoDireccionGrados      *float64 `json:"viento_direccion_grados"`
	VientoKmH                  *int     `json:"viento_km_h"`
	PrecipitacionMM            *float64 `json:"precipitacion_mm"`
}

// SnapshotRow is one merged hourly record. The JSON field names are the
// persisted wire contract consumed by the frontend.
type SnapshotRow struct {
	Fecha          string  `json:"fecha"`
	Hora           string  `json:"hora"`
	AlturaMinima   float64 `json:"altura_minima"`
	AlturaPromedio float64 `json:"altura_promedio"`
	AlturaMaxima   float64 `json:"altura_maxima"`
	WeatherFields
}

// Snapshot is the full merged record set for one station, sorted ascending by
// (fecha, hora) and overwritten wholesale each run.
type Snapshot struct {
	Datos []SnapshotRow `json:"datos"`
}

// WeatherFromObservation copies a forecast observation into snapshot weather
// fields.
func WeatherFromObservation(o ForecastObservation) WeatherFields {
	return WeatherFields{
		Temperatura:                ptr(o.Temperatura),
		VientoDireccion:            ptr(o.VientoDireccion),
		VientoDireccionAbreviatura: ptr(o.VientoDireccionAbreviatura),
		VientoDireccionNombre:      ptr(o.VientoDireccionNombre),
		VientoDireccionGrados:      ptr(o.VientoDireccionGrados),
		VientoKmH:                  ptr(o.VientoKmH),
		PrecipitacionMM:            ptr(o.PrecipitacionMM),
	}
}

func ptr[T any](v T) *T { return &v }
