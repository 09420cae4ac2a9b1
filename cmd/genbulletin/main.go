// Command genbulletin generates a synthetic SMN-style bulletin for local
// development and fixtures: one separator-framed section per cataloged
// locality with four days of data rows, written either as plain text or as
// the ZIP shape the real feed serves. It uses the actual domain packages so
// generated rows always match what the parser accepts.
//
// Usage:
//
//	go run ./cmd/genbulletin -stations data/estaciones.json -out pron5d.zip
//	go run ./cmd/genbulletin -stations data/estaciones.json -out pron5d.txt -plain
package main

import (
	"archive/zip"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/chipap/mareas-service/internal/catalog"
	"github.com/chipap/mareas-service/internal/domain"
)

var monthAbbrev = [13]string{"", "ENE", "FEB", "MAR", "ABR", "MAY", "JUN",
	"JUL", "AGO", "SEP", "OCT", "NOV", "DIC"}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	stationsFile := flag.String("stations", "data/estaciones.json", "station catalog to take localities from")
	out := flag.String("out", "", "output path (.zip unless -plain)")
	plain := flag.Bool("plain", false, "write the raw text file instead of a ZIP")
	days := flag.Int("days", 4, "days of forecast rows per locality")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	cat, err := catalog.Load(*stationsFile)
	if err != nil {
		return err
	}
	localities := cat.Localities()
	if len(localities) == 0 {
		return fmt.Errorf("catalog %s references no forecast localities", *stationsFile)
	}

	text := render(localities, time.Now(), *days)

	if *plain {
		return os.WriteFile(*out, []byte(text), 0o644)
	}
	return writeZip(*out, text)
}

// render builds the bulletin text: header block per locality, caption line,
// and rows every three hours with smoothly varying values.
func render(localities []string, from time.Time, days int) string {
	var b strings.Builder
	b.WriteString("PRONOSTICO DE 5 DIAS\n\n")

	for i, locality := range localities {
		sep := strings.Repeat("=", len(locality)+4)
		fmt.Fprintf(&b, "%s\n%s\n%s\n", sep, locality, sep)
		b.WriteString("  FECHA       HORA  TEMPERATURA  VIENTO  PRECIPITACION\n")

		for d := 0; d < days; d++ {
			day := from.AddDate(0, 0, d)
			for hour := 0; hour < 24; hour += 3 {
				phase := float64(d*24+hour+i*7) * math.Pi / 36
				temp := 18 + 8*math.Sin(phase)
				bearing := math.Mod(float64(i*45+d*30+hour*5), 360)
				speed := 8 + (d+hour/3)%14
				precip := math.Max(0, 4*math.Sin(phase/2))

				// Alternate encodings the way the real bulletin does.
				wind := fmt.Sprintf("%3.0f", bearing)
				if hour%6 == 3 {
					wind = fmt.Sprintf("%3s", domain.SectorFor(domain.Rose16, bearing).Abbrev)
				}

				fmt.Fprintf(&b, "%02d/%s/%d  %02dHs.  %5.1f  %s | %2d  %4.1f\n",
					day.Day(), monthAbbrev[int(day.Month())], day.Year(),
					hour, temp, wind, speed, precip)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// writeZip wraps the text in the single-entry ZIP shape of the real feed.
func writeZip(path, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("pron5d.txt")
	if err != nil {
		f.Close()
		return err
	}
	if _, err := w.Write([]byte(text)); err != nil {
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
