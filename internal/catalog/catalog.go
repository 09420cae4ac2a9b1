// Package catalog loads the static station list. Inability to load it is the
// only fatal error in the service: everything downstream degrades per station
// or per run instead.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chipap/mareas-service/internal/domain"
)

// Catalog is the immutable in-memory station list, keyed by id and ordered as
// in the source file.
type Catalog struct {
	stations []domain.Station
	byID     map[string]domain.Station
}

// Load reads the stations JSON file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stations file: %w", err)
	}

	var stations []domain.Station
	if err := json.Unmarshal(raw, &stations); err != nil {
		return nil, fmt.Errorf("parse stations file %s: %w", path, err)
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("stations file %s defines no stations", path)
	}

	byID := make(map[string]domain.Station, len(stations))
	for _, st := range stations {
		if st.ID == "" {
			return nil, fmt.Errorf("stations file %s: station with empty id", path)
		}
		if _, dup := byID[st.ID]; dup {
			return nil, fmt.Errorf("stations file %s: duplicate station id %q", path, st.ID)
		}
		byID[st.ID] = st
	}

	return &Catalog{stations: stations, byID: byID}, nil
}

// Get returns the station with the given id.
func (c *Catalog) Get(id string) (domain.Station, bool) {
	st, ok := c.byID[id]
	return st, ok
}

// All returns the stations in file order. Callers must not mutate the slice.
func (c *Catalog) All() []domain.Station { return c.stations }

// Localities returns the distinct forecast localities referenced by the
// catalog, in first-appearance order.
func (c *Catalog) Localities() []string {
	seen := make(map[string]struct{})
	var localities []string
	for _, st := range c.stations {
		if st.ForecastLocality == "" {
			continue
		}
		if _, ok := seen[st.ForecastLocality]; ok {
			continue
		}
		seen[st.ForecastLocality] = struct{}{}
		localities = append(localities, st.ForecastLocality)
	}
	return localities
}
