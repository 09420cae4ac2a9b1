package bulletin

import (
	"errors"
	"log/slog"

	"github.com/chipap/mareas-service/internal/domain"
)

// Diagnostics records what the decoder chose, for logs and debugging.
type Diagnostics struct {
	Encoding string
	Lines    int
}

// Parse decodes a raw bulletin and extracts observations for every requested
// locality. A locality missing from the bulletin, or a block without matching
// rows, is skipped at that granularity; only a decode failure is reported as
// an error, and even that one is non-fatal to the caller's run.
func Parse(raw []byte, localities []string, rose []domain.WindSector, logger *slog.Logger) ([]domain.ForecastObservation, Diagnostics, error) {
	doc, err := Decode(raw, DefaultEncodings)
	if err != nil {
		return nil, Diagnostics{}, err
	}
	diag := Diagnostics{Encoding: doc.Encoding, Lines: len(doc.Lines)}
	logger.Info("bulletin decoded", "encoding", doc.Encoding, "lines", len(doc.Lines))

	var observations []domain.ForecastObservation
	for _, locality := range localities {
		block, err := ExtractBlock(doc.Lines, locality)
		if err != nil {
			if errors.Is(err, ErrLocalityNotFound) {
				logger.Warn("locality missing from bulletin", "locality", locality)
				continue
			}
			return nil, diag, err
		}
		rows := ParseRows(locality, block, rose)
		logger.Debug("locality block parsed",
			"locality", locality,
			"block_lines", len(block),
			"rows", len(rows),
		)
		observations = append(observations, rows...)
	}
	return observations, diag, nil
}
