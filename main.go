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
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/EmpoweredVote/SB-Backend/internal/config"
	"github.com/EmpoweredVote/SB-Backend/internal/db"
	"github.com/EmpoweredVote/SB-Backend/internal/metrics"
	"github.com/EmpoweredVote/SB-Backend/internal/server"
	"github.com/EmpoweredVote/SB-Backend/internal/telemetry"
)

const programName = "sb-backend"

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", programName)
}

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config file")
	flag.Parse()
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: cfg.Debug,
		Level:     level,
	}))
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		logger.Error(err.Error(), "component", programName)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "component", programName, "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:     cfg.Tracing,
		Stdout:      cfg.TracingStdout,
		ServiceName: programName,
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	d, err := db.Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		if err := db.Close(d); err != nil {
			logger.Error("close database", "component", programName, "error", err)
		}
	}()

	var m *metrics.Metrics
	if cfg.Metrics {
		m = metrics.New()
	}
	handler, err := server.Build(d, cfg, logger, m)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "component", programName, "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down", "component", programName)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("flush traces", "component", programName, "error", err)
	}
	return nil
}
