package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/contract"
	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/alexanderramin/riskboard/internal/repository"
)

// ErrAmbiguousID is returned by ResolveID when a prefix matches several tasks.
var ErrAmbiguousID = errors.New("ambiguous task ID")

type taskService struct {
	tasks    repository.TaskRepo
	observer UseCaseObserver
	clock    func() time.Time
}

func NewTaskService(tasks repository.TaskRepo, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		observer: useCaseObserverOrNoop(observers),
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *taskService) Load(ctx context.Context, req contract.BoardRequest) (resp *contract.BoardResponse, err error) {
	start := time.Now()
	fields := map[string]any{"sort": string(req.Sort), "filter": req.Filter.Describe()}
	defer observe(ctx, s.observer, "load_board", start, fields, &err)

	now := s.clock()
	if req.Now != nil {
		now = *req.Now
	}
	if req.Sort == "" {
		req.Sort = board.SortRisk
	}

	tasks, err := s.tasks.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	snap := board.NewSnapshot(tasks, now, req.Sort)
	filtered := snap.Apply(req.Filter)
	fields["rows"] = snap.Len()
	fields["visible"] = len(filtered)

	resp = &contract.BoardResponse{
		GeneratedAt: now,
		Snapshot:    snap,
		Tasks:       filtered,
		Summary:     board.Summarize(filtered),
		Assignees:   snap.Assignees(),
		Priorities:  snap.PriorityBreakdown(),
		Progress:    snap.ProgressDistribution(),
		Filter:      req.Filter,
		Sort:        req.Sort,
		Empty:       snap.Empty(),
	}
	if resp.Empty {
		resp.Warnings = append(resp.Warnings, contract.EmptyTableWarning)
	}
	return resp, nil
}

func (s *taskService) Create(ctx context.Context, in domain.TaskInput) (task *domain.Task, err error) {
	start := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "create_task", start, fields, &err)

	in.TaskName = strings.TrimSpace(in.TaskName)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Priority = in.Priority.Normalize()

	task, err = s.tasks.Insert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	fields["task_id"] = task.ID
	return task, nil
}

func (s *taskService) Update(ctx context.Context, id string, patch domain.TaskPatch) (err error) {
	start := time.Now()
	defer observe(ctx, s.observer, "update_task", start, map[string]any{"task_id": id}, &err)

	if patch.TaskName != nil {
		name := strings.TrimSpace(*patch.TaskName)
		patch.TaskName = &name
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	if patch.Priority != nil {
		p := patch.Priority.Normalize()
		patch.Priority = &p
	}

	if err := s.tasks.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer observe(ctx, s.observer, "delete_task", start, map[string]any{"task_id": id}, &err)

	if err := s.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// Get fetches every task and picks id. The gateway has no single-row read.
func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	tasks, err := s.tasks.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task %q: %w", id, repository.ErrNotFound)
}

func (s *taskService) ResolveID(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}

	tasks, err := s.tasks.FetchAll(ctx)
	if err != nil {
		return "", fmt.Errorf("loading tasks: %w", err)
	}
	return resolveTaskID(tasks, input)
}

// resolveTaskID matches an exact ID first, then a unique case-insensitive
// prefix.
func resolveTaskID(tasks []*domain.Task, input string) (string, error) {
	for _, t := range tasks {
		if t.ID == input {
			return t.ID, nil
		}
	}

	var matches []string
	lower := strings.ToLower(input)
	for _, t := range tasks {
		if strings.HasPrefix(strings.ToLower(t.ID), lower) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: prefix %q matches %d tasks", ErrAmbiguousID, input, len(matches))
	}
}
