// migrate creates the jobs and job_applications tables, loads the sample
// corpus and, when CLICKHOUSE_DSN is set, creates the search analytics
// table. Safe to re-run.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jobverse/internal/analytics"
	"jobverse/internal/applications"
	"jobverse/internal/config"
	"jobverse/internal/db"
	"jobverse/internal/logger"
	"jobverse/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	l, err := logger.New(cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer l.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.DatabaseURL == "" {
		l.Fatal("DATABASE_URL is required")
	}
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	jobs := store.NewPostgresStore(pool)
	if err := jobs.Migrate(ctx); err != nil {
		l.Fatal("jobs migration failed", zap.Error(err))
	}
	n, err := jobs.Seed(ctx, store.SeedJobs())
	if err != nil {
		l.Fatal("seeding jobs failed", zap.Error(err))
	}
	l.Info("jobs table ready", zap.Int("inserted", n))

	if err := applications.NewPostgresStore(pool).Migrate(ctx); err != nil {
		l.Fatal("applications migration failed", zap.Error(err))
	}
	l.Info("job_applications table ready")

	if cfg.ClickHouseDSN == "" {
		l.Info("CLICKHOUSE_DSN not set, skipping analytics migration")
		return
	}
	conn, err := db.NewClickHouseConn(ctx, db.ClickHouseOptions{
		DSN:      cfg.ClickHouseDSN,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	})
	if err != nil {
		l.Fatal("clickhouse connection failed", zap.Error(err))
	}
	defer conn.Close()

	if err := analytics.NewClickHouseRecorder(conn, l).Migrate(ctx); err != nil {
		l.Fatal("analytics migration failed", zap.Error(err))
	}
	l.Info("search_events table ready")
}
