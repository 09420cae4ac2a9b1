// Package ina fetches hydrometric height series from the INA public API.
package ina

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chipap/mareas-service/internal/domain"
)

// The feed has returned several timestamp shapes over time; naive wall-clock
// layouts are interpreted in the configured civil timezone.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Client implements the hydrometric feed against INA's datosProno endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	loc        *time.Location
	logger     *slog.Logger
}

// NewClient creates an INA client with a bounded request timeout. Requests
// are single-shot; there is no retry.
func NewClient(baseURL string, timeout time.Duration, loc *time.Location, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		loc:        loc,
		logger:     logger,
	}
}

// response mirrors the INA JSON payload.
type response struct {
	Data []reading `json:"data"`
}

type reading struct {
	TimeStart string  `json:"timestart"`
	Valor     float64 `json:"valor"`
}

// FetchHeights returns the station's raw readings for [start, end]. A non-2xx
// status, malformed payload, or unparseable timestamps produce an error; the
// caller skips only this station for the run.
func (c *Client) FetchHeights(ctx context.Context, station domain.Station, start, end time.Time) ([]domain.RawHeightSample, error) {
	params := url.Values{
		"timeStart": {start.Format("2006-01-02")},
		"timeEnd":   {end.Format("2006-01-02")},
		"seriesId":  {strconv.Itoa(station.SeriesID)},
		"calId":     {strconv.Itoa(station.CalID)},
		"siteCode":  {station.SiteCode},
		"varId":     {"2"},
		"all":       {"false"},
		"format":    {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("heights request for %s: %w", station.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("INA API error for %s: status %d: %s", station.ID, resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode heights for %s: %w", station.ID, err)
	}

	samples := make([]domain.RawHeightSample, 0, len(payload.Data))
	for _, r := range payload.Data {
		ts, err := c.parseTimestamp(r.TimeStart)
		if err != nil {
			c.logger.Warn("skipping reading with bad timestamp",
				"station_id", station.ID, "timestart", r.TimeStart, "error", err)
			continue
		}
		samples = append(samples, domain.RawHeightSample{Timestamp: ts, Value: r.Valor})
	}
	return samples, nil
}

// parseTimestamp tries each known layout; zoned timestamps are converted to
// the civil timezone and the offset dropped, matching the naive-local model.
func (c *Client) parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, c.loc)
		if err != nil {
			continue
		}
		return t.In(c.loc), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
