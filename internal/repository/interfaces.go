package repository

import (
	"context"

	"github.com/alexanderramin/riskboard/internal/domain"
)

// TaskRepo is the store gateway. Rows come back in no particular order;
// callers sort locally.
type TaskRepo interface {
	FetchAll(ctx context.Context) ([]*domain.Task, error)
	// Insert stores a new task and returns it with the store-assigned ID.
	Insert(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	// Update applies the patch to task id. It returns ErrNotFound when no
	// row matches.
	Update(ctx context.Context, id string, patch domain.TaskPatch) error
	// Delete removes task id. It returns ErrNotFound when no row matches.
	Delete(ctx context.Context, id string) error
}

var (
	_ TaskRepo = (*SQLiteTaskRepo)(nil)
	_ TaskRepo = (*PostgresTaskRepo)(nil)
	_ TaskRepo = (*RESTTaskRepo)(nil)
	_ TaskRepo = (*loggingTaskRepo)(nil)
)
