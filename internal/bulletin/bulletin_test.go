package bulletin

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipap/mareas-service/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	raw := []byte(strings.Join(fixtureLines, "\n") + "\n")

	obs, diag, err := Parse(raw, []string{"SAN_FERNANDO", "BUENOS_AIRES"}, domain.Rose16, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "latin1", diag.Encoding)
	assert.Equal(t, len(fixtureLines), diag.Lines)
	require.Len(t, obs, 3)
	assert.Equal(t, "SAN_FERNANDO", obs[0].Locality)
	assert.Equal(t, "SAN_FERNANDO", obs[1].Locality)
	assert.Equal(t, "BUENOS_AIRES", obs[2].Locality)
}

func TestParse_MissingLocalitySkipped(t *testing.T) {
	raw := []byte(strings.Join(fixtureLines, "\n") + "\n")

	obs, _, err := Parse(raw, []string{"ROSARIO", "BUENOS_AIRES"}, domain.Rose16, discardLogger())
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "BUENOS_AIRES", obs[0].Locality)
}

func TestParse_UndecodableInput(t *testing.T) {
	_, _, err := Parse(nil, []string{"SAN_FERNANDO"}, domain.Rose16, discardLogger())
	assert.ErrorIs(t, err, ErrUndecodable)
}
