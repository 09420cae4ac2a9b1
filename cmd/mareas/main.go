// Command mareas serves the tide/forecast merge service. Without flags it
// runs the HTTP server; -all or -station run a one-shot update and exit,
// matching the old cron-driven job.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/chipap/mareas-service/internal/adapter/http"
	"github.com/chipap/mareas-service/internal/adapter/ina"
	kafkaadapter "github.com/chipap/mareas-service/internal/adapter/kafka"
	"github.com/chipap/mareas-service/internal/adapter/smn"
	"github.com/chipap/mareas-service/internal/adapter/store"
	"github.com/chipap/mareas-service/internal/catalog"
	"github.com/chipap/mareas-service/internal/config"
	"github.com/chipap/mareas-service/internal/observability"
	"github.com/chipap/mareas-service/internal/pipeline"
)

func main() {
	runAll := flag.Bool("all", false, "update every station once and exit")
	stationID := flag.String("station", "", "update one station once and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	cat, err := catalog.Load(cfg.StationsFile)
	if err != nil {
		logger.Error("failed to load station catalog", "error", err)
		os.Exit(1)
	}

	snapshots, closeStore, err := newStore(cfg)
	if err != nil {
		logger.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	loc := cfg.Location()
	heights := ina.NewClient(cfg.INABaseURL, cfg.RequestTimeout, loc, logger)
	bulletins := smn.NewClient(cfg.SMNBulletinURL, cfg.RequestTimeout, logger)

	var notifier pipeline.Notifier
	if len(cfg.KafkaBrokers) > 0 {
		n := kafkaadapter.NewNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer n.Close()
		notifier = n
		logger.Info("snapshot notifications enabled", "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(cat, heights, bulletins, snapshots, notifier, loc, logger, metrics)

	if *runAll || *stationID != "" {
		code := runOnce(p, logger, *stationID)
		closeStore()
		os.Exit(code)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:     p,
		Catalog:   cat,
		Snapshots: snapshots,
		Refresher: p,
		JobToken:  cfg.JobToken,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

// runOnce executes a single update pass, CLI-style.
func runOnce(p *pipeline.Pipeline, logger *slog.Logger, stationID string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if stationID != "" {
		if err := p.RefreshStation(ctx, stationID); err != nil {
			logger.Error("station update failed", "station_id", stationID, "error", err)
			return 1
		}
		return 0
	}

	summary := p.RefreshAll(ctx)
	if len(summary.Failed) > 0 {
		return 1
	}
	return 0
}

// newStore selects the snapshot backend per config.
func newStore(cfg *config.Config) (pipeline.SnapshotStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		s, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.StoreFile:
		s, err := store.NewFileStore(cfg.CacheDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
