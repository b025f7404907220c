package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/yx-aesthete/sejm-info/internal/analytics"
	"github.com/yx-aesthete/sejm-info/internal/config"
	"github.com/yx-aesthete/sejm-info/internal/infrastructure/parser"
	"github.com/yx-aesthete/sejm-info/internal/infrastructure/scheduler"
	"github.com/yx-aesthete/sejm-info/internal/infrastructure/source"
	"github.com/yx-aesthete/sejm-info/internal/infrastructure/storage"
	"github.com/yx-aesthete/sejm-info/internal/infrastructure/telegram"
	"github.com/yx-aesthete/sejm-info/internal/logging"
	"github.com/yx-aesthete/sejm-info/internal/ports"
	"github.com/yx-aesthete/sejm-info/internal/transport/httpapi"
	"github.com/yx-aesthete/sejm-info/internal/usecase"
)

// Version is reported by the health endpoint; overridden at build time.
var Version = "1.0.0"

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	source    ports.RecordSource
	runner    *usecase.Runner
	scheduler *usecase.Scheduler
	closers   []func() error
}

// New builds the application from configuration. Call Close when done.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.NewWithWriter(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	}
	a := &Application{cfg: cfg, logger: baseLogger}

	src, err := a.buildSource()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.source = src

	repo, err := a.buildRepository()
	if err != nil {
		a.Close()
		return nil, err
	}

	registry := analytics.DefaultRegistry()
	registry.Register(analytics.PrintReferences{Text: parser.PrintText})

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram); tg.Configured() {
		notifier = tg
	}

	a.runner = usecase.NewRunner(usecase.RunnerDeps{
		Source:     src,
		Registry:   registry,
		Repository: repo,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "runner"),
		Clock:      func() time.Time { return time.Now().In(cfg.Scheduler.Location()) },
	})

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval, cfg.Scheduler.Location())
	a.scheduler = usecase.NewScheduler(driver, a.runner, baseLogger.With("component", "scheduler"))

	return a, nil
}

// Runner returns the analysis runner.
func (a *Application) Runner() *usecase.Runner {
	return a.runner
}

// Source returns the configured record source.
func (a *Application) Source() ports.RecordSource {
	return a.source
}

// Serve starts the refresh scheduler and the HTTP API, blocking until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.scheduler.Stop(stopCtx); err != nil {
			a.logger.Warn("stop scheduler", "error", err)
		}
	}()

	server := httpapi.NewServer(a.runner, Version, a.cfg.Server.RequestsPerSecond, a.logger.With("component", "http"))
	return server.ListenAndServe(ctx, a.cfg.Server.Addr)
}

// Refresh performs a single refresh run at the current time.
func (a *Application) Refresh(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.runner.Refresh(ctx, now)
}

// Close releases database handles.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *Application) buildSource() (ports.RecordSource, error) {
	logger := a.logger.With("component", "source")

	switch a.cfg.Source.Kind {
	case config.SourcePostgREST, "":
		return source.NewPostgRESTSource(a.cfg.Source.PostgREST, logger), nil
	case config.SourcePostgres:
		db, err := a.openPostgres(a.cfg.Source.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		return source.NewPostgresSource(db), nil
	case config.SourceFile:
		if a.cfg.Source.SnapshotPath == "" {
			return nil, fmt.Errorf("source: snapshotPath is required for kind %q", config.SourceFile)
		}
		return source.NewFileSource(a.cfg.Source.SnapshotPath), nil
	default:
		return nil, fmt.Errorf("source: unknown kind %q", a.cfg.Source.Kind)
	}
}

func (a *Application) buildRepository() (ports.ReportRepository, error) {
	switch a.cfg.Storage.Kind {
	case config.StorageNone, "":
		return nil, nil
	case config.StoragePostgres:
		db, err := a.openPostgres(a.cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		repo, err := storage.NewPostgresRepository(db, a.cfg.Storage.Table)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		return repo, nil
	case config.StorageSQLite:
		repo, err := storage.OpenSQLite(a.cfg.Storage.SQLitePath, a.cfg.Storage.Table)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	default:
		return nil, fmt.Errorf("storage: unknown kind %q", a.cfg.Storage.Kind)
	}
}

func (a *Application) openPostgres(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	return db, nil
}
