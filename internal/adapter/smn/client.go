// Package smn fetches the SMN five-day forecast bulletin: a ZIP archive
// containing exactly one plain-text file.
package smn

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client downloads and unpacks the bulletin archive.
type Client struct {
	bulletinURL string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates an SMN client with a bounded request timeout. Requests
// are single-shot; there is no retry.
func NewClient(bulletinURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		bulletinURL: bulletinURL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// FetchBulletin downloads the archive and returns the raw bytes of its text
// file, still undecoded. Any failure makes the forecast unavailable for the
// run; it never aborts tide processing.
func (c *Client) FetchBulletin(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bulletinURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bulletin request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SMN API error: status %d", resp.StatusCode)
	}

	archive, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read bulletin archive: %w", err)
	}

	return extractText(archive, c.logger)
}

// extractText opens the ZIP and reads its first .txt entry.
func extractText(archive []byte, logger *slog.Logger) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("open bulletin archive: %w", err)
	}

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in archive: %w", f.Name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s in archive: %w", f.Name, err)
		}
		logger.Debug("bulletin extracted", "name", f.Name, "bytes", len(raw))
		return raw, nil
	}
	return nil, fmt.Errorf("bulletin archive has no .txt entry")
}
