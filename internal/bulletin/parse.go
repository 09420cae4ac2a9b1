package bulletin

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chipap/mareas-service/internal/domain"
)

// rowRe matches one forecast data line:
//
//	26/ENE/2024  06Hs.   22.5   NE | 14    0.0
//
// date DD/MON/YYYY, hour "HHHs.", signed temperature, wind direction as a
// bearing or a 1-3 letter cardinal code, pipe-delimited wind speed, and a
// decimal precipitation amount.
var rowRe = regexp.MustCompile(
	`(\d{2}/[A-Z]{3}/\d{4})\s+(\d{2})Hs\.\s+(-?\d+(?:\.\d+)?)` +
		`\s+([A-Z]{1,3}|\d+(?:\.\d+)?)\s*\|\s*(\d+)\s+([\d.]+)`,
)

// months maps SMN month abbreviations (source locale, Spanish) to their
// number. The runtime locale is never consulted.
var months = map[string]int{
	"ENE": 1, "FEB": 2, "MAR": 3, "ABR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AGO": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DIC": 12,
}

// ParseRows extracts one observation per matching data line of a locality's
// block. Lines that do not match the pattern, or whose date does not parse
// against the month table, are skipped: data-quality tolerance, not an error.
func ParseRows(locality string, block []string, rose []domain.WindSector) []domain.ForecastObservation {
	matches := rowRe.FindAllStringSubmatch(strings.Join(block, "\n"), -1)
	observations := make([]domain.ForecastObservation, 0, len(matches))

	for _, m := range matches {
		fecha, err := parseDate(m[1])
		if err != nil {
			continue
		}

		temp, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		speed, err := strconv.Atoi(m[5])
		if err != nil {
			continue
		}
		precip, err := strconv.ParseFloat(m[6], 64)
		if err != nil {
			continue
		}

		bearing, sector := resolveWind(m[4], rose)

		observations = append(observations, domain.ForecastObservation{
			Locality:                   locality,
			Fecha:                      fecha,
			Hora:                       m[2] + ":00:00",
			Temperatura:                temp,
			VientoDireccion:            bearing,
			VientoDireccionAbreviatura: sector.Abbrev,
			VientoDireccionNombre:      sector.Name,
			VientoDireccionGrados:      sector.Degrees,
			VientoKmH:                  speed,
			PrecipitacionMM:            precip,
		})
	}
	return observations
}

// parseDate converts "DD/MON/YYYY" to ISO "YYYY-MM-DD" via the explicit
// month table.
func parseDate(s string) (string, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed date %q", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return "", fmt.Errorf("malformed day in %q", s)
	}
	month, ok := months[parts[1]]
	if !ok {
		return "", fmt.Errorf("unknown month in %q", s)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", fmt.Errorf("malformed year in %q", s)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// resolveWind interprets the wind-direction token. A numeric token is a raw
// bearing resolved through the rose; a recognized cardinal code resolves to
// its sector with the base angle doubling as the raw bearing; anything else
// falls back to the rose's north sector at 0°.
func resolveWind(token string, rose []domain.WindSector) (float64, domain.WindSector) {
	if deg, err := strconv.ParseFloat(token, 64); err == nil {
		return deg, domain.SectorFor(rose, deg)
	}
	if sector, ok := domain.SectorByAbbrev(rose, token); ok {
		return sector.Degrees, sector
	}
	return 0, domain.SectorFor(rose, 0)
}
