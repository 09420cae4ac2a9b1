// Package bulletin decodes and parses the SMN five-day forecast bulletin: an
// unpredictably encoded plain-text file with one separator-framed section per
// locality and fixed-format data rows.
package bulletin

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrUndecodable marks a bulletin that no candidate encoding could turn into
// text. Callers treat the forecast as unavailable for the run; it is never
// fatal.
var ErrUndecodable = errors.New("bulletin could not be decoded")

// Candidate is one entry of the decoding ladder.
type Candidate struct {
	Name     string
	Encoding encoding.Encoding
}

// DefaultEncodings is the ranked ladder of candidate encodings. The first
// candidate that yields at least one line wins; this is a heuristic tuned
// against observed SMN output, not a guarantee, so the chosen name is
// surfaced for diagnosability.
var DefaultEncodings = []Candidate{
	{"latin1", charmap.ISO8859_1},
	{"utf-8", unicode.UTF8},
	{"cp1252", charmap.Windows1252},
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{"utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{"utf-16be", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

// Document is a decoded bulletin plus decoding diagnostics.
type Document struct {
	Text     string
	Lines    []string
	Encoding string
}

// Decode turns raw bulletin bytes into text by trying each candidate in rank
// order, with invalid byte sequences replaced rather than rejected. Returns
// ErrUndecodable when the input is empty or no candidate yields a line.
func Decode(raw []byte, candidates []Candidate) (Document, error) {
	if len(raw) == 0 {
		return Document{}, fmt.Errorf("%w: empty input", ErrUndecodable)
	}
	if len(candidates) == 0 {
		candidates = DefaultEncodings
	}

	for _, c := range candidates {
		decoded, err := c.Encoding.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		lines := splitLines(string(decoded))
		if len(lines) == 0 {
			continue
		}
		return Document{Text: string(decoded), Lines: lines, Encoding: c.Name}, nil
	}
	return Document{}, fmt.Errorf("%w: no candidate encoding yielded lines", ErrUndecodable)
}

// splitLines splits on \n, \r\n, and \r, without a trailing empty line, so an
// empty text counts as zero lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
