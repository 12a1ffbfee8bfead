// Package config loads console configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultLogDir is the directory under the user's home holding the log file.
	DefaultLogDir = ".rpsadmin"
	// DefaultLogName is the log file name inside DefaultLogDir.
	DefaultLogName = "rpsadmin.log"
	// StderrLogFile routes logs to stderr instead of a file (headless commands only).
	StderrLogFile = "stderr"
)

// Config holds the resolved console configuration.
type Config struct {
	APIBaseURL      string        `env:"RPS_API_URL"           envDefault:"http://localhost:5000/api/v1"`
	RequestTimeout  time.Duration `env:"RPS_REQUEST_TIMEOUT"   envDefault:"10s"`
	SearchDebounce  time.Duration `env:"RPS_SEARCH_DEBOUNCE"   envDefault:"500ms"`
	PageSizes       []int         `env:"RPS_PAGE_SIZES"        envDefault:"10,20,50" envSeparator:","`
	DefaultPageSize int           `env:"RPS_DEFAULT_PAGE_SIZE" envDefault:"10"`
	CacheTTL        time.Duration `env:"RPS_CACHE_TTL"         envDefault:"30s"`
	LogFile         string        `env:"RPS_LOG_FILE"`
	LogLevel        string        `env:"RPS_LOG_LEVEL"         envDefault:"info"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName     string        `env:"OTEL_SERVICE_NAME"     envDefault:"rpsadmin"`
}

// Load parses the process environment and validates the result.
func Load() (Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.LogFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve log dir: %w", err)
		}
		cfg.LogFile = filepath.Join(home, DefaultLogDir, DefaultLogName)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first inconsistency in cfg.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("RPS_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("RPS_API_URL: unsupported scheme %q", u.Scheme)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("RPS_REQUEST_TIMEOUT must be positive")
	}
	if c.SearchDebounce < 0 {
		return errors.New("RPS_SEARCH_DEBOUNCE must not be negative")
	}
	if len(c.PageSizes) == 0 {
		return errors.New("RPS_PAGE_SIZES must list at least one size")
	}
	for _, n := range c.PageSizes {
		if n <= 0 {
			return fmt.Errorf("RPS_PAGE_SIZES: invalid size %d", n)
		}
	}
	if !slices.Contains(c.PageSizes, c.DefaultPageSize) {
		return fmt.Errorf("RPS_DEFAULT_PAGE_SIZE %d is not one of %v", c.DefaultPageSize, c.PageSizes)
	}
	if c.CacheTTL < 0 {
		return errors.New("RPS_CACHE_TTL must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("RPS_LOG_LEVEL: unknown level %q", c.LogLevel)
	}
	return nil
}
