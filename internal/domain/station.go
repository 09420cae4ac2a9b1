package domain

// Station is one catalog entry linking a hydrometric series to an optional
// forecast locality. Loaded once at startup and treated as immutable.
type Station struct {
	ID       string `json:"id"`
	SeriesID int    `json:"series_id"`
	SiteCode string `json:"site_code"`
	CalID    int    `json:"cal_id"`

	// ForecastLocality names this station's section in the SMN bulletin.
	// Empty means the station gets tide statistics with null weather.
	ForecastLocality string `json:"pronostico_id,omitempty"`
}
