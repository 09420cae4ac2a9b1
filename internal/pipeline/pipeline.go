// Package pipeline orchestrates one update run: fetch and parse the forecast
// bulletin once, then fetch, aggregate, merge, and persist each station
// independently. One station's failure never aborts the others.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/chipap/mareas-service/internal/adapter/store"
	"github.com/chipap/mareas-service/internal/bulletin"
	"github.com/chipap/mareas-service/internal/catalog"
	"github.com/chipap/mareas-service/internal/domain"
	"github.com/chipap/mareas-service/internal/observability"
)

// ErrUnknownStation marks a refresh request for an id not in the catalog.
var ErrUnknownStation = errors.New("station not defined in catalog")

// ErrNoReadings marks a station whose feed returned nothing usable for the
// window; the previous snapshot is left untouched.
var ErrNoReadings = errors.New("no readings in window")

// HeightFetcher reads one station's raw hydrometric series for a window.
type HeightFetcher interface {
	FetchHeights(ctx context.Context, station domain.Station, start, end time.Time) ([]domain.RawHeightSample, error)
}

// BulletinFetcher downloads the raw forecast bulletin text.
type BulletinFetcher interface {
	FetchBulletin(ctx context.Context) ([]byte, error)
}

// SnapshotStore persists and recalls per-station snapshots.
type SnapshotStore interface {
	Read(stationID string) (*domain.Snapshot, error)
	Write(stationID string, snap domain.Snapshot) error
}

// Notifier announces a refreshed snapshot. May be nil when disabled.
type Notifier interface {
	SnapshotUpdated(ctx context.Context, stationID string, rows int) error
}

// StationError pairs a failed station with its cause.
type StationError struct {
	StationID string
	Err       error
}

// Summary is the aggregated outcome of one run.
type Summary struct {
	OK     []string
	Failed []StationError
}

// Pipeline runs the tide/forecast merge for the catalog.
type Pipeline struct {
	catalog   *catalog.Catalog
	heights   HeightFetcher
	bulletins BulletinFetcher
	store     SnapshotStore
	notifier  Notifier
	rose      []domain.WindSector
	loc       *time.Location
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. notifier may be nil.
func New(cat *catalog.Catalog, heights HeightFetcher, bulletins BulletinFetcher, st SnapshotStore, notifier Notifier, loc *time.Location, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		catalog:   cat,
		heights:   heights,
		bulletins: bulletins,
		store:     st,
		notifier:  notifier,
		rose:      domain.Rose16,
		loc:       loc,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one station snapshot has been
// refreshed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no snapshot refreshed yet")
	}
	return nil
}

// RefreshAll processes every cataloged station against one shared forecast
// parse. Stations are processed sequentially; each failure is recorded and
// the run continues.
func (p *Pipeline) RefreshAll(ctx context.Context) Summary {
	start := time.Now()
	p.metrics.RunsTotal.Inc()

	outcome := p.fetchForecast(ctx)

	var summary Summary
	for _, station := range p.catalog.All() {
		if ctx.Err() != nil {
			summary.Failed = append(summary.Failed, StationError{StationID: station.ID, Err: ctx.Err()})
			continue
		}
		if err := p.processStation(ctx, station, outcome); err != nil {
			p.logger.Error("station update failed", "station_id", station.ID, "error", err)
			p.metrics.StationErrors.Inc()
			summary.Failed = append(summary.Failed, StationError{StationID: station.ID, Err: err})
			continue
		}
		summary.OK = append(summary.OK, station.ID)
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("run finished",
		"ok", len(summary.OK),
		"failed", len(summary.Failed),
		"forecast_available", outcome.Available(),
		"duration", time.Since(start),
	)
	return summary
}

// RefreshStation processes a single station, still paying for one bulletin
// fetch; the forecast is shared state only within a run.
func (p *Pipeline) RefreshStation(ctx context.Context, stationID string) error {
	station, ok := p.catalog.Get(stationID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStation, stationID)
	}
	outcome := p.fetchForecast(ctx)
	if err := p.processStation(ctx, station, outcome); err != nil {
		p.metrics.StationErrors.Inc()
		return err
	}
	return nil
}

// fetchForecast downloads and parses the bulletin once per run. Every failure
// mode collapses into an unavailable outcome; the merge engine handles the
// degradation.
func (p *Pipeline) fetchForecast(ctx context.Context) domain.ForecastOutcome {
	raw, err := p.bulletins.FetchBulletin(ctx)
	if err != nil {
		p.logger.Warn("bulletin fetch failed, proceeding without forecast", "error", err)
		p.metrics.BulletinDecodeFailures.Inc()
		p.metrics.ForecastAvailable.Set(0)
		return domain.ForecastUnavailable(err)
	}

	observations, diag, err := bulletin.Parse(raw, p.catalog.Localities(), p.rose, p.logger)
	if err != nil {
		p.logger.Warn("bulletin parse failed, proceeding without forecast", "error", err)
		p.metrics.BulletinDecodeFailures.Inc()
		p.metrics.ForecastAvailable.Set(0)
		return domain.ForecastUnavailable(err)
	}

	table := domain.NewForecastTable(observations)
	outcome := domain.ParsedForecast(table)
	if !outcome.Available() {
		p.logger.Warn("bulletin yielded no observations", "encoding", diag.Encoding, "lines", diag.Lines)
		p.metrics.ForecastAvailable.Set(0)
		return outcome
	}

	p.logger.Info("forecast parsed", "observations", table.Len(), "encoding", diag.Encoding)
	p.metrics.ForecastAvailable.Set(1)
	return outcome
}

// processStation runs the per-station path: fetch heights, aggregate, merge
// against the shared forecast (or the previous snapshot), persist, notify.
func (p *Pipeline) processStation(ctx context.Context, station domain.Station, outcome domain.ForecastOutcome) error {
	windowStart, windowEnd := domain.AggregationWindow(p.loc)

	samples, err := p.heights.FetchHeights(ctx, station, windowStart, windowEnd)
	if err != nil {
		return fmt.Errorf("fetch heights: %w", err)
	}

	stats := domain.AggregateHeights(samples, windowStart)
	if len(stats) == 0 {
		return fmt.Errorf("%w: %s", ErrNoReadings, station.ID)
	}

	previous := p.previousSnapshot(station.ID, outcome)

	snap := domain.MergeSnapshot(stats, station, outcome, previous)

	if err := p.store.Write(station.ID, snap); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	p.metrics.StationsUpdated.Inc()
	p.metrics.SnapshotRows.Observe(float64(len(snap.Datos)))
	p.ready.Store(true)

	p.logger.Info("snapshot refreshed", "station_id", station.ID, "rows", len(snap.Datos))

	if p.notifier != nil {
		if err := p.notifier.SnapshotUpdated(ctx, station.ID, len(snap.Datos)); err != nil {
			p.logger.Warn("snapshot notification failed", "station_id", station.ID, "error", err)
		}
	}
	return nil
}

// previousSnapshot is a best-effort read, only attempted when the merge will
// need the fallback. Absence or corruption degrades to null weather.
func (p *Pipeline) previousSnapshot(stationID string, outcome domain.ForecastOutcome) *domain.Snapshot {
	if outcome.Available() {
		return nil
	}
	previous, err := p.store.Read(stationID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.logger.Warn("previous snapshot unreadable, weather resets to null",
				"station_id", stationID, "error", err)
		}
		return nil
	}
	return previous
}
