// Package runtime builds the store gateway and services from configuration
// and owns their lifecycle.
package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/riskboard/internal/config"
	"github.com/alexanderramin/riskboard/internal/db"
	"github.com/alexanderramin/riskboard/internal/repository"
	"github.com/alexanderramin/riskboard/internal/service"
)

// Runtime is opened once in main and closed on exit.
type Runtime struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Repo    repository.TaskRepo
	Tasks   service.TaskService
	Backend string

	closers []func() error
}

// New connects the configured backend and wires the task service on top.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Runtime, error) {
	rt := &Runtime{Config: cfg, Logger: logger, Backend: cfg.Backend}

	var repo repository.TaskRepo
	switch cfg.Backend {
	case config.BackendREST:
		repo = repository.NewRESTTaskRepo(repository.RESTConfig{
			BaseURL: cfg.Store.URL,
			APIKey:  cfg.Store.Key,
			Table:   cfg.Store.Table,
			Timeout: cfg.Store.Timeout,
		})
	case config.BackendPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.Postgres.URL, cfg.Store.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
		}
		rt.addCloser(func() error {
			pool.Close()
			return nil
		})
		repo = repository.NewPostgresTaskRepo(pool, cfg.Store.Table, cfg.Store.Timeout)
	case config.BackendSQLite:
		database, err := db.OpenDB(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		rt.addCloser(database.Close)
		repo = repository.NewSQLiteTaskRepo(database, db.NewSQLiteUnitOfWork(database))
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	rt.Repo = repository.WithLogging(repo, logger, cfg.Backend)
	rt.Tasks = service.NewTaskService(rt.Repo, service.NewLogUseCaseObserver(logger))

	logger.Info().Str("backend", cfg.Backend).Msg("runtime ready")
	return rt, nil
}

func (rt *Runtime) addCloser(fn func() error) {
	rt.closers = append(rt.closers, fn)
}

// Close releases every resource in reverse order of acquisition.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
