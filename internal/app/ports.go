package app

import (
	"context"

	"github.com/alexanderramin/riskboard/internal/domain"
)

type BoardUseCase interface {
	Load(ctx context.Context, req BoardRequest) (*BoardResponse, error)
}

type TaskMutationUseCase interface {
	Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) error
	Delete(ctx context.Context, id string) error
}

type TaskLookupUseCase interface {
	Get(ctx context.Context, id string) (*domain.Task, error)
	ResolveID(ctx context.Context, input string) (string, error)
}
