// Package config loads server configuration from defaults, an optional YAML
// file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Driver names the database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is empty")
	ErrUnknownDriver      = errors.New("unknown DATABASE_DRIVER")
	ErrPageSize           = errors.New("PAGE_SIZE must be between 1 and MAX_PAGE_SIZE")
)

// Config holds everything the server reads at startup.
type Config struct {
	Port            string        `yaml:"port"            envconfig:"PORT"`
	DatabaseURL     string        `yaml:"databaseUrl"     envconfig:"DATABASE_URL"`
	DatabaseDriver  Driver        `yaml:"databaseDriver"  envconfig:"DATABASE_DRIVER"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"  envconfig:"ALLOWED_ORIGINS"`
	PageSize        int           `yaml:"pageSize"        envconfig:"PAGE_SIZE"`
	MaxPageSize     int           `yaml:"maxPageSize"     envconfig:"MAX_PAGE_SIZE"`
	SearchConfig    string        `yaml:"searchConfig"    envconfig:"SEARCH_CONFIG"`
	RateLimit       float64       `yaml:"rateLimit"       envconfig:"RATE_LIMIT"`
	RateBurst       int           `yaml:"rateBurst"       envconfig:"RATE_BURST"`
	SessionTTL      time.Duration `yaml:"sessionTtl"      envconfig:"SESSION_TTL"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	SlowQuery       time.Duration `yaml:"slowQuery"       envconfig:"SLOW_QUERY"`
	Tracing         bool          `yaml:"tracing"         envconfig:"TRACING"`
	TracingStdout   bool          `yaml:"tracingStdout"   envconfig:"TRACING_STDOUT"`
	Debug           bool          `yaml:"debug"           envconfig:"DEBUG"`
	Metrics         bool          `yaml:"metrics"         envconfig:"METRICS"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port:           "5050",
		DatabaseDriver: DriverPostgres,
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		PageSize:        6,
		MaxPageSize:     50,
		SearchConfig:    "simple",
		RateLimit:       1,
		RateBurst:       5,
		SessionTTL:      6 * time.Hour,
		ShutdownTimeout: 30 * time.Second,
		SlowQuery:       100 * time.Millisecond,
		Metrics:         true,
	}
}

// Load reads defaults, then path (if non-empty), then the environment, and
// validates the result.
//
// Environment variables:
//   - PORT: listen port (default: 5050)
//   - DATABASE_URL: connection string, or a file path for sqlite
//   - DATABASE_DRIVER: "postgres" or "sqlite" (default: "postgres")
//   - ALLOWED_ORIGINS: comma-separated CORS origins
//   - PAGE_SIZE / MAX_PAGE_SIZE: list page size default and cap (6 / 50)
//   - SEARCH_CONFIG: Postgres text search configuration (default: "simple")
//   - RATE_LIMIT / RATE_BURST: per-client requests per second on write routes
//   - SESSION_TTL, SHUTDOWN_TIMEOUT, SLOW_QUERY: durations
//   - TRACING, TRACING_STDOUT, DEBUG, METRICS: booleans
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	cfg.DatabaseDriver = Driver(strings.ToLower(strings.TrimSpace(string(cfg.DatabaseDriver))))
	for i, o := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(o)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.DatabaseDriver)
	}
	if c.MaxPageSize < 1 || c.PageSize < 1 || c.PageSize > c.MaxPageSize {
		return ErrPageSize
	}
	return nil
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}
