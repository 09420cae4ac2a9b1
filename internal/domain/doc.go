// Package domain models tide height and weather forecast data for the
// Río de la Plata monitoring stations.
//
// # Data Sources
//
// Tide heights come from the INA (Instituto Nacional del Agua) public JSON
// API. Each station in the catalog identifies one hydrometric series via
// (series_id, site_code, cal_id). Readings are naive local timestamps
// (America/Argentina/Buenos_Aires) paired with a height in meters, fetched
// for a forward window of [today 00:00, today+3 23:59:59].
//
// Weather comes from the SMN (Servicio Meteorológico Nacional) five-day
// forecast bulletin ("pron5d"), a ZIP archive containing a single plain-text
// file with one section per locality. The bulletin's encoding varies between
// publications; see the bulletin package for the decoding and parsing rules.
//
// # Conventions
//
// Dates and hours are carried as strings throughout: dates as zero-padded ISO
// ("2024-01-02") and times of day as "HH:MM:SS". Lexicographic order on the
// (fecha, hora) pair is therefore chronological order, which is what the
// aggregation, merge, and persisted snapshot all sort by.
//
// Wind direction in the bulletin is inconsistently encoded: some rows carry a
// numeric bearing in degrees, others a cardinal abbreviation ("NE"). Both are
// resolved against a fixed wind rose (see [Rose16]); a parsed observation
// keeps the raw bearing plus the resolved sector's abbreviation, display
// name, and base angle.
//
// # Snapshot Contract
//
// The persisted snapshot per station is {"datos": [...]} where every row
// carries the three tide statistics (never null) and all seven weather fields
// (all null together when no forecast matched). Field names are the Spanish
// wire names consumed by the frontend and must not change.
package domain
