// Command validate checks persisted snapshot files against the wire
// contract: tide statistics present on every row, weather fields null or
// populated as a whole, (fecha, hora) keys unique and sorted ascending, and
// min ≤ avg ≤ max. It reads every marea_*.json in a cache directory and
// reports per-file results.
//
// Usage:
//
//	go run ./cmd/validate -cache-dir cache
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chipap/mareas-service/internal/domain"
)

// phase tracks pass/fail for one snapshot file.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	cacheDir := flag.String("cache-dir", "cache", "directory containing marea_*.json snapshots")
	flag.Parse()

	if code := run(*cacheDir); code != 0 {
		os.Exit(code)
	}
}

func run(cacheDir string) int {
	paths, err := filepath.Glob(filepath.Join(cacheDir, "marea_*.json"))
	if err != nil || len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "no snapshots found in %s\n", cacheDir)
		return 1
	}

	failed := 0
	for _, path := range paths {
		p := validateFile(path)
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Printf("%d/%d snapshots valid\n", len(paths)-failed, len(paths))
	if failed > 0 {
		return 1
	}
	return 0
}

func validateFile(path string) *phase {
	p := &phase{name: filepath.Base(path)}

	raw, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read: %v", err)
		return p
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		p.errorf("parse: %v", err)
		return p
	}
	if len(snap.Datos) == 0 {
		p.errorf("no rows")
		return p
	}

	seen := make(map[string]bool, len(snap.Datos))
	prevKey := ""
	for i, row := range snap.Datos {
		key := row.Fecha + " " + row.Hora

		if len(row.Fecha) != 10 || strings.Count(row.Fecha, "-") != 2 {
			p.errorf("row %d: malformed fecha %q", i, row.Fecha)
		}
		if len(row.Hora) != 8 || strings.Count(row.Hora, ":") != 2 {
			p.errorf("row %d: malformed hora %q", i, row.Hora)
		}
		if seen[key] {
			p.errorf("row %d: duplicate key %s", i, key)
		}
		seen[key] = true
		if key < prevKey {
			p.errorf("row %d: out of order (%s after %s)", i, key, prevKey)
		}
		prevKey = key

		if row.AlturaMinima > row.AlturaPromedio || row.AlturaPromedio > row.AlturaMaxima {
			p.errorf("row %d: heights violate min<=avg<=max (%g, %g, %g)",
				i, row.AlturaMinima, row.AlturaPromedio, row.AlturaMaxima)
		}
		checkWeather(p, i, row.WeatherFields)
	}
	return p
}

// checkWeather enforces the all-or-nothing weather invariant.
func checkWeather(p *phase, i int, w domain.WeatherFields) {
	set := 0
	for _, isSet := range []bool{
		w.Temperatura != nil,
		w.VientoDireccion != nil,
		w.VientoDireccionAbreviatura != nil,
		w.VientoDireccionNombre != nil,
		w.VientoDireccionGrados != nil,
		w.VientoKmH != nil,
		w.PrecipitacionMM != nil,
	} {
		if isSet {
			set++
		}
	}
	if set != 0 && set != 7 {
		p.errorf("row %d: %d of 7 weather fields set; must be all or none", i, set)
	}
}
