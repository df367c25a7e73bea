package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	seedPath    = flag.String("file", "seeds/council.yaml", "path to the seed file")
	dsn         = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "parse and validate only; no DB writes")
	replace     = flag.Bool("replace", false, "clear site content tables before seeding")
	confirm     = flag.Bool("confirm", false, "required with --replace")
	advisoryKey = flag.Int64("advisory-lock", 0, "optional Postgres advisory lock key; 0 disables")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("component", "seed")

	if err := run(logger); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	f, err := loadFile(*seedPath)
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("validate %s: %w", *seedPath, err)
	}
	logger.Info("seed file loaded", "path", *seedPath,
		"members", len(f.Members), "committees", len(f.Committees), "news", len(f.News),
		"resolutions", len(f.Resolutions), "slides", len(f.Slides), "users", len(f.Users))
	if *dryRun {
		logger.Info("dry run complete, no changes made")
		return nil
	}
	if *replace && !*confirm {
		return fmt.Errorf("refusing to --replace without --confirm; add --dry-run to preview")
	}
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		return fmt.Errorf("--dsn not provided and DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			return fmt.Errorf("advisory lock: %w", err)
		}
	}
	if *replace {
		if err := wipe(ctx, tx); err != nil {
			return err
		}
		logger.Info("cleared site content")
	}
	counts, err := apply(ctx, tx, f, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logger.Info("seeded", "counts", counts.String())
	return nil
}
