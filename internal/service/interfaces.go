package service

import (
	"context"

	"github.com/alexanderramin/riskboard/internal/contract"
	"github.com/alexanderramin/riskboard/internal/domain"
)

// TaskService is the dashboard controller. It holds no state between calls;
// callers reload the board after every mutation.
type TaskService interface {
	Load(ctx context.Context, req contract.BoardRequest) (*contract.BoardResponse, error)
	Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Task, error)
	// ResolveID accepts a full ID or a unique ID prefix.
	ResolveID(ctx context.Context, input string) (string, error)
}
