// Package db opens the council database. The handle is returned to the
// caller and passed explicitly to every module that needs it.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/EmpoweredVote/SB-Backend/internal/config"
)

// memoryDSN keeps an unnamed SQLite database alive across pooled
// connections.
const memoryDSN = "file::memory:?cache=shared"

// Connect opens the database named by cfg and configures the pool.
func Connect(cfg config.Config, log *slog.Logger) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}
	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}
	// Slow queries surface in the JSON log stream alongside everything else.
	lg := logger.New(
		slog.NewLogLogger(log.With("component", "gorm").Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             cfg.SlowQuery,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = memoryDSN
		}
		dialector = sqlite.Open(dsn)
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	d, err := gorm.Open(dialector, &gorm.Config{Logger: lg})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DatabaseDriver, err)
	}
	if cfg.Tracing {
		if err := d.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("install tracing plugin: %w", err)
		}
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.DatabaseDriver == config.DriverSQLite {
		// SQLite serializes writers; more connections only add lock contention.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	log.Info("connected to database", "component", "db", "driver", string(cfg.DatabaseDriver))
	return d, nil
}

// Close releases the pool behind d.
func Close(d *gorm.DB) error {
	sqlDB, err := d.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
