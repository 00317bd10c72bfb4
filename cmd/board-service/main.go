// jobverse board-service
//
// Job search for the job board. Exposes:
//   - REST (gin) on BOARD_PORT: filtered/paginated job list, job detail,
//     similar/recommended jobs, server-side filter sessions, job posting
//     and job applications
//   - gRPC on GRPC_PORT: jobverse.v1.JobSearch + grpc.health.v1
//
// Runs an hourly cron sweep closing postings past their deadline.
// Publishes jobs.viewed / jobs.searched / applications.moved to NATS and records searches in
// ClickHouse when those are configured.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"jobverse/internal/analytics"
	"jobverse/internal/applications"
	"jobverse/internal/config"
	"jobverse/internal/db"
	"jobverse/internal/events"
	"jobverse/internal/grpcserver"
	"jobverse/internal/httpapi"
	"jobverse/internal/jobs"
	"jobverse/internal/logger"
	"jobverse/internal/query"
	"jobverse/internal/scheduler"
	"jobverse/internal/session"
	"jobverse/internal/store"
	"jobverse/internal/telemetry"
)

const version = "1.0.0"

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.LogFormat)
}

// newPostgresPool returns nil when the memory store is selected.
func newPostgresPool(lc fx.Lifecycle, cfg *config.Config, l *zap.Logger) (*pgxpool.Pool, error) {
	if cfg.StoreDriver == config.StoreMemory {
		return nil, nil
	}

	l.Info("connecting to PostgreSQL")
	pool, err := db.NewPostgresPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	lc.Append(fx.StopHook(pool.Close))
	l.Info("PostgreSQL connected")
	return pool, nil
}

func newJobStore(pool *pgxpool.Pool, l *zap.Logger) store.JobStore {
	if pool == nil {
		l.Info("using in-memory job store with sample data")
		return store.NewMemoryStore(store.SeedJobs())
	}
	return store.NewPostgresStore(pool)
}

func newApplicationStore(pool *pgxpool.Pool) applications.Store {
	if pool == nil {
		return applications.NewMemoryStore()
	}
	return applications.NewPostgresStore(pool)
}

func newSessionStore(lc fx.Lifecycle, cfg *config.Config, l *zap.Logger) (session.Store, error) {
	if cfg.RedisURL == "" {
		l.Warn("REDIS_URL not set, sessions are kept in process memory")
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}

	l.Info("connecting to Redis")
	rdb, err := db.NewRedisClient(context.Background(), cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	lc.Append(fx.StopHook(rdb.Close))
	l.Info("Redis connected")
	return session.NewRedisStore(rdb, cfg.SessionTTL), nil
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, l *zap.Logger) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		l.Warn("NATS_URL not set, domain events are disabled")
		return events.NopPublisher(), nil
	}

	nc, err := db.NewNATSConn(cfg.NATSURL, cfg.NATSConnTimeout)
	if err != nil {
		return nil, err
	}
	p := events.NewNATSPublisher(nc, l)
	lc.Append(fx.StopHook(p.Close))
	return p, nil
}

func newRecorder(lc fx.Lifecycle, cfg *config.Config, l *zap.Logger) (analytics.Recorder, error) {
	if cfg.ClickHouseDSN == "" {
		l.Warn("CLICKHOUSE_DSN not set, search analytics are disabled")
		return analytics.NopRecorder(), nil
	}

	conn, err := db.NewClickHouseConn(context.Background(), db.ClickHouseOptions{
		DSN:      cfg.ClickHouseDSN,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}
	lc.Append(fx.StopHook(conn.Close))
	return analytics.NewClickHouseRecorder(conn, l), nil
}

func newService(cfg *config.Config, st store.JobStore, sessions session.Store, pub events.Publisher, rec analytics.Recorder, l *zap.Logger) *jobs.Service {
	return jobs.NewService(jobs.Options{
		Store:     st,
		Sessions:  sessions,
		Engine:    query.NewEngine(time.Now),
		Publisher: pub,
		Recorder:  rec,
		Logger:    l,
		PageSize:  cfg.PageSize,
	})
}

func newApplicationService(st applications.Store, jobStore store.JobStore, pub events.Publisher, l *zap.Logger) *applications.Service {
	return applications.NewService(applications.Options{
		Store:     st,
		Jobs:      jobStore,
		Publisher: pub,
		Logger:    l,
	})
}

func registerTracer(lc fx.Lifecycle, cfg *config.Config, l *zap.Logger) error {
	if cfg.OTelCollectorURL == "" {
		return nil
	}
	shutdown, err := telemetry.InitTracer(context.Background(), "board-service", version, cfg.OTelCollectorURL)
	if err != nil {
		return err
	}
	lc.Append(fx.StopHook(shutdown))
	l.Info("tracing enabled", zap.String("collector", cfg.OTelCollectorURL))
	return nil
}

func registerHTTP(lc fx.Lifecycle, cfg *config.Config, svc *jobs.Service, apps *applications.Service, l *zap.Logger) {
	var extra []gin.HandlerFunc
	if cfg.RateLimitRPS > 0 {
		extra = append(extra, httpapi.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      httpapi.NewRouter(httpapi.NewHandler(svc, apps, l, version), extra...),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				l.Info("HTTP listening", zap.String("addr", srv.Addr), zap.String("version", version))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					l.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: srv.Shutdown,
	})
}

func registerGRPC(lc fx.Lifecycle, cfg *config.Config, svc *jobs.Service, l *zap.Logger) {
	srv, hs := grpcserver.New(svc, l)
	addr := fmt.Sprintf(":%s", cfg.GRPCPort)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			go func() {
				l.Info("gRPC listening", zap.String("addr", addr))
				if err := srv.Serve(ln); err != nil {
					l.Error("gRPC server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			hs.Shutdown()
			stopped := make(chan struct{})
			go func() {
				srv.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-ctx.Done():
				srv.Stop()
			}
			return nil
		},
	})
}

func registerSweeper(lc fx.Lifecycle, cfg *config.Config, st store.JobStore, l *zap.Logger) {
	sw := scheduler.New(st, l, cfg.ExpirySweepInterval)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return sw.Start(ctx) },
		OnStop: func(context.Context) error {
			cancel()
			sw.Stop()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newPostgresPool,
			newJobStore,
			newApplicationStore,
			newSessionStore,
			newPublisher,
			newRecorder,
			newService,
			newApplicationService,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Invoke(
			registerTracer,
			registerHTTP,
			registerGRPC,
			registerSweeper,
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("[board-service] start: %v", err)
	}

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("[board-service] shutdown: %v", err)
	}
}
