// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Ingest modes.
const (
	// IngestModeRow commits every CSV row on its own; a failure keeps the
	// rows already written.
	IngestModeRow = "row"
	// IngestModeAtomic writes a whole upload in one transaction.
	IngestModeAtomic = "atomic"
)

var yearPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Config is the service configuration. Domain groups live in their own
// files:
//   - database.go: store driver, connection and pool settings
//   - http.go: HTTP server settings
type Config struct {
	HTTP HTTPConfig
	DB   DBConfig `envPrefix:"DB_"`

	// DatabaseURL is accepted as an alias for DB_DSN.
	DatabaseURL string `env:"DATABASE_URL"`

	// IngestMode is "row" or "atomic".
	IngestMode string `env:"INGEST_MODE" envDefault:"row"`

	// ReportYear is the year the reports use when the request names none.
	ReportYear string `env:"REPORT_YEAR" envDefault:"2021"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file, then parses the environment.
// Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Sanitize normalizes values loaded from env.
func (c *Config) Sanitize() {
	c.HTTP.Sanitize()
	c.DB.Sanitize()
	if c.DB.DSN == "" {
		c.DB.DSN = strings.TrimSpace(c.DatabaseURL)
	}
	c.IngestMode = strings.ToLower(strings.TrimSpace(c.IngestMode))
	c.ReportYear = strings.TrimSpace(c.ReportYear)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if err := c.DB.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.IngestMode {
	case IngestModeRow, IngestModeAtomic:
	default:
		errs = append(errs, fmt.Errorf("INGEST_MODE: unknown mode %q", c.IngestMode))
	}
	if !ValidYear(c.ReportYear) {
		errs = append(errs, fmt.Errorf("REPORT_YEAR: %q is not a 4-digit year", c.ReportYear))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT: unknown format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// ValidYear reports whether s is a 4-digit year.
func ValidYear(s string) bool {
	return yearPattern.MatchString(s)
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: unknown level %q", s)
}

// NewLogger builds the process logger on stdout.
func (c *Config) NewLogger() *slog.Logger {
	level, _ := ParseLogLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
