package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backends for persisted snapshots.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	StationsFile string
	Timezone     string

	INABaseURL     string
	SMNBulletinURL string
	RequestTimeout time.Duration

	// JobToken protects the refresh trigger endpoint. Empty means every
	// refresh request is rejected.
	JobToken string

	StoreBackend string
	CacheDir     string
	SQLitePath   string

	// Kafka notifier configuration. No brokers means notifications are off.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	requestTimeout, err := parseDurationEnv("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StationsFile: envOrDefault("STATIONS_FILE", "data/estaciones.json"),
		Timezone:     envOrDefault("TIMEZONE", "America/Argentina/Buenos_Aires"),

		INABaseURL:     envOrDefault("INA_BASE_URL", "https://alerta.ina.gob.ar/pub/datos/datosProno"),
		SMNBulletinURL: envOrDefault("SMN_BULLETIN_URL", "https://ssl.smn.gob.ar/dpd/zipopendata.php?dato=pron5d"),
		RequestTimeout: requestTimeout,

		JobToken: os.Getenv("JOB_TOKEN"),

		StoreBackend: envOrDefault("STORE_BACKEND", StoreFile),
		CacheDir:     envOrDefault("CACHE_DIR", "cache"),
		SQLitePath:   envOrDefault("SQLITE_PATH", "cache/mareas.db"),

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "snapshot-updates"),
	}

	if cfg.StationsFile == "" {
		return nil, errors.New("STATIONS_FILE is required")
	}
	if cfg.INABaseURL == "" {
		return nil, errors.New("INA_BASE_URL is required")
	}
	if cfg.SMNBulletinURL == "" {
		return nil, errors.New("SMN_BULLETIN_URL is required")
	}
	switch cfg.StoreBackend {
	case StoreFile, StoreSQLite:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (allowed: %s, %s)", cfg.StoreBackend, StoreFile, StoreSQLite)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// Location resolves the configured civil timezone. Load already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
