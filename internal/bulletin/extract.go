package bulletin

import (
	"errors"
	"regexp"
	"strings"
)

// ErrLocalityNotFound marks a locality absent from this run's bulletin.
// Callers proceed with null weather for the affected station.
var ErrLocalityNotFound = errors.New("locality not present in bulletin")

var (
	separatorRe = regexp.MustCompile(`^\s*=+\s*$`)
	nonAlnumRe  = regexp.MustCompile(`[^A-Z0-9]+`)
)

// CaptionTokens marks table-caption lines excluded from a locality's data
// block. Substring match, like the vendor captions themselves, which vary in
// spacing and column order.
var CaptionTokens = []string{"FECHA", "TEMPERATURA", "VIENTO", "PRECIPITACION"}

// SeparatorSlack is how many blank lines may sit between a header name and
// its framing separator line on either side.
const SeparatorSlack = 1

// NormalizeLocality uppercases and collapses every run of non-alphanumeric
// characters to a single underscore, trimmed at the ends, so punctuation and
// spacing noise in the vendor source cannot break matching:
// "San  Fernando" -> "SAN_FERNANDO".
func NormalizeLocality(s string) string {
	return strings.Trim(nonAlnumRe.ReplaceAllString(strings.ToUpper(s), "_"), "_")
}

// header is one detected section title.
type header struct {
	norm string
	raw  string
	idx  int
}

// detectHeaders finds every line framed by separator lines ("====") above and
// below, allowing up to SeparatorSlack blank lines before each separator.
// This shape heuristic is how the SMN bulletin titles its sections; it is
// tolerant by construction rather than anchored to a known locality list.
func detectHeaders(lines []string) []header {
	var headers []header
	for i, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" || separatorRe.MatchString(line) {
			continue
		}
		if NormalizeLocality(name) == "" {
			continue
		}
		if separatorNear(lines, i, -1) && separatorNear(lines, i, +1) {
			headers = append(headers, header{norm: NormalizeLocality(name), raw: name, idx: i})
		}
	}
	return headers
}

// separatorNear reports whether a separator line sits next to lines[i] in the
// given direction, skipping at most SeparatorSlack blank lines.
func separatorNear(lines []string, i, dir int) bool {
	j := i + dir
	for skipped := 0; j >= 0 && j < len(lines); j += dir {
		if separatorRe.MatchString(lines[j]) {
			return true
		}
		if strings.TrimSpace(lines[j]) != "" || skipped >= SeparatorSlack {
			return false
		}
		skipped++
	}
	return false
}

// ExtractBlock isolates the data lines of the named locality: every line
// after its header/separator run up to the next detected header (of any
// locality) or end of document, excluding blanks, separator lines, and
// caption lines.
func ExtractBlock(lines []string, locality string) ([]string, error) {
	target := NormalizeLocality(locality)
	headers := detectHeaders(lines)

	start := -1
	for _, h := range headers {
		if h.norm == target {
			start = h.idx
			break
		}
	}
	if start < 0 {
		return nil, ErrLocalityNotFound
	}

	end := len(lines)
	for _, h := range headers {
		if h.idx > start {
			end = h.idx
			break
		}
	}

	var block []string
	for _, line := range lines[start+1 : end] {
		if strings.TrimSpace(line) == "" || separatorRe.MatchString(line) {
			continue
		}
		if isCaption(line) {
			continue
		}
		block = append(block, line)
	}
	return block, nil
}

func isCaption(line string) bool {
	for _, tok := range CaptionTokens {
		if strings.Contains(line, tok) {
			return true
		}
	}
	return false
}
