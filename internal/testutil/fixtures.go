package testutil

import (
	"time"

	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/google/uuid"
)

// TaskOption customizes a fixture task.
type TaskOption func(*domain.Task)

func WithID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithAssignee(a string) TaskOption {
	return func(t *domain.Task) {
		t.Assignee = a
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = &p
	}
}

// WithoutProgress leaves progress unrecorded.
func WithoutProgress() TaskOption {
	return func(t *domain.Task) {
		t.Progress = nil
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

// WithDueIn sets the due date to now plus days.
func WithDueIn(now time.Time, days int) TaskOption {
	return WithDueDate(now.AddDate(0, 0, days))
}

func WithDelay(days int) TaskOption {
	return func(t *domain.Task) {
		t.PastDelayDays = &days
	}
}

func WithDependencies(deps string) TaskOption {
	return func(t *domain.Task) {
		t.Dependencies = deps
	}
}

func WithRiskFactors(rf string) TaskOption {
	return func(t *domain.Task) {
		t.RiskFactors = rf
	}
}

// NewTestTask returns a medium-priority task at 50% with no deadline, delay
// or dependencies.
func NewTestTask(name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	progress := 50
	delay := 0
	t := &domain.Task{
		ID:            uuid.New().String(),
		TaskName:      name,
		Priority:      domain.PriorityMedium,
		Progress:      &progress,
		PastDelayDays: &delay,
		Dependencies:  domain.NoDependencies,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// InputOption customizes a fixture insert payload.
type InputOption func(*domain.TaskInput)

func InputAssignee(a string) InputOption {
	return func(in *domain.TaskInput) {
		in.Assignee = a
	}
}

func InputPriority(p domain.Priority) InputOption {
	return func(in *domain.TaskInput) {
		in.Priority = p
	}
}

func InputProgress(p int) InputOption {
	return func(in *domain.TaskInput) {
		in.Progress = p
	}
}

func InputDueDate(d time.Time) InputOption {
	return func(in *domain.TaskInput) {
		in.DueDate = &d
	}
}

func InputDependencies(deps string) InputOption {
	return func(in *domain.TaskInput) {
		in.Dependencies = deps
	}
}

// NewTestInput returns a valid insert payload with the form defaults.
func NewTestInput(name string, opts ...InputOption) domain.TaskInput {
	in := domain.NewTaskInput(name)
	for _, opt := range opts {
		opt(&in)
	}
	return in
}
