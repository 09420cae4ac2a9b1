package domain

// ForecastObservation is one parsed bulletin row for a locality.
type ForecastObservation struct {
	Locality string
	Fecha    string // "2006-01-02"
	Hora     string // "15:00:00", normalized to the hour

	Temperatura float64

	// VientoDireccion is the raw bearing from the bulletin. When the source
	// carried a cardinal code instead of degrees, this is the sector's base
	// angle.
	VientoDireccion            float64
	VientoDireccionAbreviatura string
	VientoDireccionNombre      string
	VientoDireccionGrados      float64 // sector base angle, not the raw bearing
	VientoKmH                  int
	PrecipitacionMM            float64
}

type forecastKey struct {
	locality, fecha, hora string
}

// ForecastTable indexes a run's observations by (locality, fecha, hora).
// Duplicate keys are tolerated upstream; the first occurrence wins so lookups
// stay deterministic.
type ForecastTable struct {
	byKey      map[forecastKey]ForecastObservation
	localities map[string]struct{}
}

// NewForecastTable builds a lookup table from parsed observations.
func NewForecastTable(observations []ForecastObservation) *ForecastTable {
	t := &ForecastTable{
		byKey:      make(map[forecastKey]ForecastObservation, len(observations)),
		localities: make(map[string]struct{}),
	}
	for _, o := range observations {
		k := forecastKey{o.Locality, o.Fecha, o.Hora}
		if _, exists := t.byKey[k]; !exists {
			t.byKey[k] = o
		}
		t.localities[o.Locality] = struct{}{}
	}
	return t
}

// Lookup returns the observation for (locality, fecha, hora), if any.
func (t *ForecastTable) Lookup(locality, fecha, hora string) (ForecastObservation, bool) {
	o, ok := t.byKey[forecastKey{locality, fecha, hora}]
	return o, ok
}

// HasLocality reports whether any observation was parsed for the locality.
func (t *ForecastTable) HasLocality(locality string) bool {
	_, ok := t.localities[locality]
	return ok
}

// Len returns the number of distinct indexed observations.
func (t *ForecastTable) Len() int { return len(t.byKey) }

// ForecastOutcome is the run-level result of fetching and parsing the
// bulletin, threaded explicitly from the parser into the merge engine instead
// of any ambient "parse succeeded" state.
type ForecastOutcome struct {
	table  *ForecastTable
	reason error
}

// ParsedForecast wraps a successfully parsed table. A table with zero
// observations still counts as unavailable for merging purposes.
func ParsedForecast(table *ForecastTable) ForecastOutcome {
	return ForecastOutcome{table: table}
}

// ForecastUnavailable records why no forecast exists for this run.
func ForecastUnavailable(reason error) ForecastOutcome {
	return ForecastOutcome{reason: reason}
}

// Available reports whether the run produced at least one observation.
func (o ForecastOutcome) Available() bool {
	return o.table != nil && o.table.Len() > 0
}

// Table returns the parsed table, or nil when unavailable.
func (o ForecastOutcome) Table() *ForecastTable { return o.table }

// Reason returns the unavailability cause, or nil.
func (o ForecastOutcome) Reason() error { return o.reason }
