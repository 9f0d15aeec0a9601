package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/contract"
	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/alexanderramin/riskboard/internal/repository"
	"github.com/alexanderramin/riskboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

func setupTaskService(t *testing.T, observers ...UseCaseObserver) (TaskService, repository.TaskRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteTaskRepo(database, testutil.NewTestUoW(database))
	return NewTaskService(repo, observers...), repo
}

func boardRequest() contract.BoardRequest {
	req := contract.NewBoardRequest()
	now := testNow
	req.Now = &now
	return req
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type failingRepo struct {
	err error
}

func (f failingRepo) FetchAll(context.Context) ([]*domain.Task, error) { return nil, f.err }
func (f failingRepo) Insert(context.Context, domain.TaskInput) (*domain.Task, error) {
	return nil, f.err
}
func (f failingRepo) Update(context.Context, string, domain.TaskPatch) error { return f.err }
func (f failingRepo) Delete(context.Context, string) error                   { return f.err }

func TestLoad_EmptyTable(t *testing.T) {
	svc, _ := setupTaskService(t)

	resp, err := svc.Load(context.Background(), boardRequest())
	require.NoError(t, err)
	assert.True(t, resp.Empty)
	assert.Equal(t, []string{contract.EmptyTableWarning}, resp.Warnings)
	assert.Empty(t, resp.Tasks)
	assert.Equal(t, board.Stats{}, resp.Summary)
	assert.Empty(t, resp.Assignees)
}

func TestLoad_InsertThenFetchRecomputesScore(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testutil.NewTestInput("Launch",
		testutil.InputPriority(domain.PriorityHigh),
		testutil.InputProgress(50),
		testutil.InputDueDate(testNow.AddDate(0, 0, 3)),
	))
	require.NoError(t, err)

	resp, err := svc.Load(ctx, boardRequest())
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	e := resp.Tasks[0]
	assert.Equal(t, created.ID, e.Task.ID)
	// 30 + 15 + 30
	assert.Equal(t, 75, e.Score)
	assert.Equal(t, domain.RiskHigh, e.Level)
	assert.False(t, resp.Empty)
	assert.Empty(t, resp.Warnings)
}

func TestLoad_FiltersAndAggregates(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := context.Background()

	for _, in := range []domain.TaskInput{
		testutil.NewTestInput("API gateway", testutil.InputAssignee("Sato"), testutil.InputPriority(domain.PriorityHigh), testutil.InputProgress(10)),
		testutil.NewTestInput("Docs", testutil.InputAssignee("Tanaka"), testutil.InputPriority(domain.PriorityLow), testutil.InputProgress(90)),
		testutil.NewTestInput("api tests", testutil.InputAssignee("Sato"), testutil.InputPriority(domain.PriorityMedium), testutil.InputProgress(60)),
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	req := boardRequest()
	req.Filter.Search = "API"
	resp, err := svc.Load(ctx, req)
	require.NoError(t, err)

	require.Len(t, resp.Tasks, 2)
	assert.Equal(t, "API gateway", resp.Tasks[0].Task.TaskName, "risk order preserved")
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 35, resp.Summary.AvgProgress)
	assert.Equal(t, []string{"Sato", "Tanaka"}, resp.Assignees)
	assert.Equal(t, 3, resp.Priorities.Total(), "chart data ignores the filter")
}

func TestLoad_StoreFailure(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewTaskService(failingRepo{err: repository.ErrStoreUnavailable}, obs)

	_, err := svc.Load(context.Background(), boardRequest())
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)

	ev := obs.last()
	assert.Equal(t, "load_board", ev.Name)
	assert.False(t, ev.Success)
	assert.ErrorIs(t, ev.Err, repository.ErrStoreUnavailable)
}

func TestCreate_ValidationFailsBeforeStore(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewTaskService(failingRepo{err: errors.New("store must not be called")}, obs)

	_, err := svc.Create(context.Background(), domain.TaskInput{TaskName: "   ", Priority: "medium"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "task_name", verr.Fields[0].Field)
	assert.Equal(t, "create_task", obs.last().Name)
}

func TestCreate_NormalizesAliasPriority(t *testing.T) {
	svc, repo := setupTaskService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, testutil.NewTestInput("Alias", testutil.InputPriority("低")))
	require.NoError(t, err)

	tasks, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, tasks[0].Priority)
}

func TestUpdate(t *testing.T) {
	obs := &recordingObserver{}
	svc, _ := setupTaskService(t, obs)
	ctx := context.Background()

	created, err := svc.Create(ctx, testutil.NewTestInput("Refactor"))
	require.NoError(t, err)

	high := domain.Priority("高")
	require.NoError(t, svc.Update(ctx, created.ID, domain.TaskPatch{Progress: domain.IntPtr(70), Priority: &high}))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, *got.Progress)
	assert.Equal(t, domain.PriorityHigh, got.Priority)

	ev := obs.last()
	assert.Equal(t, "update_task", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, created.ID, ev.Fields["task_id"])
}

func TestUpdate_RejectsInvalidPatch(t *testing.T) {
	svc, _ := setupTaskService(t)

	err := svc.Update(context.Background(), "any", domain.TaskPatch{Progress: domain.IntPtr(-1)})
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := setupTaskService(t)

	err := svc.Update(context.Background(), "missing", domain.TaskPatch{Progress: domain.IntPtr(5)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDelete_RemovesFromNextLoad(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := context.Background()

	keep, err := svc.Create(ctx, testutil.NewTestInput("Keep", testutil.InputAssignee("Sato")))
	require.NoError(t, err)
	drop, err := svc.Create(ctx, testutil.NewTestInput("Drop", testutil.InputAssignee("Sato")))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, drop.ID))

	req := boardRequest()
	req.Filter.Assignee = "Sato"
	resp, err := svc.Load(ctx, req)
	require.NoError(t, err)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, keep.ID, resp.Tasks[0].Task.ID)
	_, found := resp.Snapshot.Find(drop.ID)
	assert.False(t, found)

	assert.ErrorIs(t, svc.Delete(ctx, drop.ID), repository.ErrNotFound)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := setupTaskService(t)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResolveTaskID(t *testing.T) {
	tasks := []*domain.Task{
		{ID: "a1b2c3"},
		{ID: "a1ffff"},
		{ID: "7"},
		{ID: "70"},
	}

	id, err := resolveTaskID(tasks, "a1b")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3", id)

	id, err = resolveTaskID(tasks, "A1F")
	require.NoError(t, err)
	assert.Equal(t, "a1ffff", id)

	id, err = resolveTaskID(tasks, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", id, "exact match wins over prefix")

	_, err = resolveTaskID(tasks, "a1")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = resolveTaskID(tasks, "zz")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResolveID_RequiresInput(t *testing.T) {
	svc, _ := setupTaskService(t)

	_, err := svc.ResolveID(context.Background(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}
