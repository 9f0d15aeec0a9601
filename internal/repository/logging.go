package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/rs/zerolog"
)

type loggingTaskRepo struct {
	next   TaskRepo
	logger zerolog.Logger
}

// WithLogging wraps repo so every gateway call logs its outcome and latency.
func WithLogging(repo TaskRepo, logger zerolog.Logger, backend string) TaskRepo {
	return &loggingTaskRepo{
		next:   repo,
		logger: logger.With().Str("component", "gateway").Str("backend", backend).Logger(),
	}
}

func (r *loggingTaskRepo) log(op string, start time.Time, err error) *zerolog.Event {
	if err != nil {
		return r.logger.Error().Err(err).Str("op", op).Dur("latency", time.Since(start))
	}
	return r.logger.Debug().Str("op", op).Dur("latency", time.Since(start))
}

func (r *loggingTaskRepo) FetchAll(ctx context.Context) ([]*domain.Task, error) {
	start := time.Now()
	tasks, err := r.next.FetchAll(ctx)
	r.log("fetch_all", start, err).Int("rows", len(tasks)).Msg("store call")
	return tasks, err
}

func (r *loggingTaskRepo) Insert(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	start := time.Now()
	t, err := r.next.Insert(ctx, in)
	ev := r.log("insert", start, err)
	if t != nil {
		ev = ev.Str("task_id", t.ID)
	}
	ev.Msg("store call")
	return t, err
}

func (r *loggingTaskRepo) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	start := time.Now()
	err := r.next.Update(ctx, id, patch)
	r.log("update", start, err).Str("task_id", id).Int("columns", len(patch.Columns())).Msg("store call")
	return err
}

func (r *loggingTaskRepo) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := r.next.Delete(ctx, id)
	r.log("delete", start, err).Str("task_id", id).Msg("store call")
	return err
}
