package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ArticleScorer/internal/config"
	"ArticleScorer/internal/infrastructure/httpapi"
	"ArticleScorer/internal/infrastructure/metrics"
	"ArticleScorer/internal/infrastructure/storage"
	"ArticleScorer/internal/logging"
	"ArticleScorer/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *storage.DB
	members *storage.MembershipStore
	metrics *metrics.Recorder
	rubrics *usecase.RubricService
	scorer  *usecase.Scorer
}

// New connects the database, applies migrations when enabled and builds the
// use cases.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	db, err := storage.Connect(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.Database.Migrate() {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		baseLogger.Debug("schema applied", "driver", db.Driver)
	}

	recorder := metrics.New()
	members := storage.NewMembershipStore(db)

	rubrics := usecase.NewRubricService(usecase.RubricDeps{
		Criteria: storage.NewCriteriaStore(db),
		Members:  members,
		Metrics:  recorder,
		Logger:   baseLogger.With("component", "rubric"),
	})
	scorer := usecase.NewScorer(usecase.ScorerDeps{
		Rubrics: rubrics,
		Metrics: recorder,
		Logger:  baseLogger.With("component", "scorer"),
	})

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		db:      db,
		members: members,
		metrics: recorder,
		rubrics: rubrics,
		scorer:  scorer,
	}, nil
}

// Rubrics exposes the rubric use case.
func (a *Application) Rubrics() *usecase.RubricService { return a.rubrics }

// Scorer exposes the scoring use case.
func (a *Application) Scorer() *usecase.Scorer { return a.scorer }

// Members exposes organization membership administration.
func (a *Application) Members() *storage.MembershipStore { return a.members }

// Handler builds the HTTP API.
func (a *Application) Handler() http.Handler {
	return httpapi.NewRouter(httpapi.Deps{
		Rubrics:        a.rubrics,
		Scorer:         a.scorer,
		Metrics:        a.metrics.Handler(),
		Health:         a.db.Ping,
		AllowedOrigins: a.cfg.HTTP.AllowedOrigins,
		Logger:         a.logger.With("component", "http"),
	})
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.Handler(),
		ReadTimeout:       a.cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: a.cfg.HTTP.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close releases the database.
func (a *Application) Close() error {
	return a.db.Close()
}
