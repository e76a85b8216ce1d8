package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultOutputDir   = "visualizacoes"
	defaultTopN        = 10
	defaultDensityBins = 40
	maxDensityBins     = 500
)

// Config holds all report settings, populated from environment variables.
// Command-line flags override these values after Load.
type Config struct {
	InputPath         string
	OutputDir         string
	TopMunicipalities int
	DensityBins       int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	topN, err := parseInt("TOP_MUNICIPALITIES", defaultTopN)
	if err != nil {
		return nil, err
	}
	bins, err := parseInt("DENSITY_BINS", defaultDensityBins)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:         sharedcfg.EnvOrDefault("INPUT_PATH", ""),
		OutputDir:         sharedcfg.EnvOrDefault("OUTPUT_DIR", defaultOutputDir),
		TopMunicipalities: topN,
		DensityBins:       bins,
		HTTPAddr:          sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. It is called by Load and again by the CLI
// once flags have been applied.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("OUTPUT_DIR is required")
	}
	if c.TopMunicipalities <= 0 {
		return fmt.Errorf("TOP_MUNICIPALITIES must be positive, got %d", c.TopMunicipalities)
	}
	if c.DensityBins < 2 || c.DensityBins > maxDensityBins {
		return fmt.Errorf("DENSITY_BINS must be between 2 and %d, got %d", maxDensityBins, c.DensityBins)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid LOG_FORMAT %q (want json or text)", c.LogFormat)
	}
	return nil
}

func parseInt(key string, def int) (int, error) {
	s := sharedcfg.EnvOrDefault(key, strconv.Itoa(def))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}
