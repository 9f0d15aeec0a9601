package cli

import (
	"context"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/contract"
	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/alexanderramin/riskboard/internal/repository"
	"github.com/alexanderramin/riskboard/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyService fails Load while failing is set.
type flakyService struct {
	service.TaskService
	failing atomic.Bool
}

func (f *flakyService) Load(ctx context.Context, req contract.BoardRequest) (*contract.BoardResponse, error) {
	if f.failing.Load() {
		return nil, repository.ErrStoreUnavailable
	}
	return f.TaskService.Load(ctx, req)
}

// rejectingService fails every Update and counts Load calls.
type rejectingService struct {
	service.TaskService
	loads atomic.Int32
}

func (r *rejectingService) Load(ctx context.Context, req contract.BoardRequest) (*contract.BoardResponse, error) {
	r.loads.Add(1)
	return r.TaskService.Load(ctx, req)
}

func (r *rejectingService) Update(context.Context, string, domain.TaskPatch) error {
	return repository.ErrNotFound
}

func taskCount(t *testing.T, app *App) int {
	t.Helper()
	resp, err := app.Tasks.Load(context.Background(), contract.NewBoardRequest())
	require.NoError(t, err)
	return resp.Snapshot.Len()
}

// =============================================================================
// Loading
// =============================================================================

func TestTUI_LoadShowsCardsInRiskOrder(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)

	d := NewTestDriver(t, app)

	assert.Equal(t, ViewDashboard, d.ActiveViewID())
	assert.Equal(t, []string{"Payment API", "Refactor auth", "Write docs"}, d.VisibleNames())

	view := d.View()
	assert.Contains(t, view, "riskboard")
	assert.Contains(t, view, "Dashboard")
	assert.Contains(t, view, "Payment API")
	assert.Contains(t, view, "HIGH")
	assert.NotContains(t, view, "[read-only]")
}

func TestTUI_EmptyTable(t *testing.T) {
	d := NewTestDriver(t, testApp(t))

	view := d.View()
	assert.Contains(t, view, "No tasks found.")
	assert.Contains(t, view, "Press n to add one.")
}

func TestTUI_InitialLoadFailure(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	flaky := &flakyService{TaskService: app.Tasks}
	flaky.failing.Store(true)
	app.Tasks = flaky

	d := NewTestDriver(t, app)
	view := d.View()
	assert.Contains(t, view, "store unavailable")
	assert.Contains(t, view, "Press r to retry.")

	flaky.failing.Store(false)
	d.PressKey('r')
	assert.Len(t, d.VisibleNames(), 3)
	assert.Empty(t, d.Dashboard().errMsg)
}

func TestTUI_RefreshFailureKeepsSnapshot(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	flaky := &flakyService{TaskService: app.Tasks}
	app.Tasks = flaky

	d := NewTestDriver(t, app)
	require.Len(t, d.VisibleNames(), 3)

	flaky.failing.Store(true)
	d.PressKey('r')

	assert.Len(t, d.VisibleNames(), 3)
	view := d.View()
	assert.Contains(t, view, "store unavailable")
	assert.Contains(t, view, "Payment API")
}

// =============================================================================
// Filtering and sorting
// =============================================================================

func TestTUI_PriorityCycle(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('p')
	assert.Equal(t, []string{"Payment API"}, d.VisibleNames())
	d.PressKey('p')
	assert.Equal(t, []string{"Refactor auth"}, d.VisibleNames())
	d.PressKey('p')
	assert.Equal(t, []string{"Write docs"}, d.VisibleNames())
	d.PressKey('p')
	assert.Len(t, d.VisibleNames(), 3)
}

func TestTUI_AssigneeCycleAndClear(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('a')
	assert.Equal(t, []string{"Payment API", "Refactor auth"}, d.VisibleNames())
	d.PressKey('a')
	assert.Equal(t, []string{"Write docs"}, d.VisibleNames())

	d.PressKey('p')
	assert.Empty(t, d.VisibleNames())
	assert.Contains(t, d.View(), "No tasks match the filters.")

	d.PressKey('x')
	assert.Len(t, d.VisibleNames(), 3)
}

func TestTUI_SearchIsLiveAndEscRestores(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('/')
	d.Type("DOC")
	assert.Equal(t, []string{"Write docs"}, d.VisibleNames())
	d.PressEnter()
	assert.False(t, d.Dashboard().searching)
	assert.Equal(t, "DOC", d.Dashboard().filter.Search)

	d.PressKey('/')
	d.PressBackspace()
	d.PressBackspace()
	d.PressBackspace()
	assert.Len(t, d.VisibleNames(), 3)
	d.PressEsc()

	assert.Equal(t, "DOC", d.Dashboard().filter.Search)
	assert.Equal(t, []string{"Write docs"}, d.VisibleNames())
	assert.Equal(t, 1, d.ViewStackLen())
}

func TestTUI_SearchCapturesQuitKey(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('/')
	d.PressKey('q')

	assert.False(t, d.IsQuitting())
	assert.Equal(t, "q", d.Dashboard().filter.Search)
}

func TestTUI_SortToggle(t *testing.T) {
	app := testApp(t)
	s := seedTasks(t, app)
	d := NewTestDriver(t, app)

	byID := []*domain.Task{s.payment, s.docs, s.refactor}
	sort.Slice(byID, func(i, j int) bool { return byID[i].ID < byID[j].ID })

	d.PressKey('s')
	assert.Equal(t, board.SortID, d.Dashboard().sort)
	assert.Equal(t, []string{byID[0].TaskName, byID[1].TaskName, byID[2].TaskName}, d.VisibleNames())

	d.PressKey('s')
	assert.Equal(t, []string{"Payment API", "Refactor auth", "Write docs"}, d.VisibleNames())
}

func TestTUI_CursorStaysInBounds(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('k')
	assert.Equal(t, 0, d.Dashboard().cursor)
	for range 5 {
		d.PressKey('j')
	}
	assert.Equal(t, 2, d.Dashboard().cursor)
	d.PressUp()
	assert.Equal(t, 1, d.Dashboard().cursor)
	d.PressDown()
	assert.Equal(t, 2, d.Dashboard().cursor)

	d.PressKey('p')
	assert.Equal(t, 0, d.Dashboard().cursor, "cursor clamps to the filtered list")
}

func TestTUI_ChartsToggle(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	assert.Contains(t, d.View(), "PRIORITY")
	d.PressKey('c')
	assert.NotContains(t, d.View(), "PRIORITY")
	d.PressKey('c')
	assert.Contains(t, d.View(), "PROGRESS")
}

func TestTUI_ChartsDisabled(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := newTestDriverWith(t, app, tuiOptions{caps: board.Capabilities{Edit: true}, sort: board.SortRisk})

	assert.NotContains(t, d.View(), "PRIORITY")
	d.PressKey('c')
	assert.NotContains(t, d.View(), "PRIORITY")
}

// =============================================================================
// Mutations
// =============================================================================

func TestTUI_NudgeProgress(t *testing.T) {
	app := testApp(t)
	s := seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('+')
	got, err := app.Tasks.Get(context.Background(), s.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, *got.Progress)
	assert.Contains(t, d.View(), "Progress 20%")

	d.PressKey('-')
	d.PressKey('-')
	d.PressKey('-')
	got, err = app.Tasks.Get(context.Background(), s.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, *got.Progress, "progress clamps at zero")
}

func TestTUI_NudgeProgressAppliesBeforeStoreReplies(t *testing.T) {
	app := testApp(t)
	s := seedTasks(t, app)
	d := NewTestDriver(t, app)

	plus := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}}
	m, first := d.Model.Update(plus)
	d.Model = m
	require.NotNil(t, first)

	e, ok := d.Dashboard().snap.Find(s.payment.ID)
	require.True(t, ok)
	assert.Equal(t, 20, *e.Task.Progress, "snapshot moves before the store call runs")

	m, second := d.Model.Update(plus)
	d.Model = m
	require.NotNil(t, second)

	d.Send(first())
	d.Send(second())

	got, err := app.Tasks.Get(context.Background(), s.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, *got.Progress, "both nudges are kept")
}

func TestTUI_NudgeProgressRefetchesOnFailure(t *testing.T) {
	app := testApp(t)
	s := seedTasks(t, app)
	rejecting := &rejectingService{TaskService: app.Tasks}
	app.Tasks = rejecting

	d := NewTestDriver(t, app)
	loads := rejecting.loads.Load()

	d.PressKey('+')

	assert.Greater(t, rejecting.loads.Load(), loads, "a refused nudge reloads the board")
	e, ok := d.Dashboard().snap.Find(s.payment.ID)
	require.True(t, ok)
	assert.Equal(t, 10, *e.Task.Progress, "the reload drops the local patch")
	assert.Contains(t, d.View(), "task no longer exists")
}

func TestTUI_NudgeProgressClampsAtHundred(t *testing.T) {
	app := testApp(t)
	s := seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('j')
	d.PressKey('j')
	require.Equal(t, "Write docs", d.VisibleNames()[d.Dashboard().cursor])

	d.PressKey('+')
	d.PressKey('+')
	got, err := app.Tasks.Get(context.Background(), s.docs.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, *got.Progress)
}

func TestTUI_DeleteConfirmed(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('d')
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, 2, d.ViewStackLen())
	assert.Contains(t, d.View(), "Confirm Delete")

	d.PressKey('y')
	assert.Equal(t, 1, d.ViewStackLen())
	assert.Equal(t, []string{"Refactor auth", "Write docs"}, d.VisibleNames())
	assert.Equal(t, 2, taskCount(t, app))
	assert.Contains(t, d.View(), "Deleted")
}

func TestTUI_DeleteCancelled(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('d')
	d.PressEsc()

	assert.Equal(t, 1, d.ViewStackLen())
	assert.Len(t, d.VisibleNames(), 3)
	assert.Equal(t, 3, taskCount(t, app))
	assert.Contains(t, d.View(), "Cancelled.")
}

func TestTUI_DeleteRejected(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('d')
	d.PressKey('n')

	assert.Equal(t, 1, d.ViewStackLen())
	assert.Equal(t, 3, taskCount(t, app))
}

func TestTUI_AddTask(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('n')
	require.Equal(t, ViewForm, d.ActiveViewID())
	assert.Contains(t, d.View(), "New Task")

	d.Type("Ship release")
	// name, assignee, due, priority, progress, delay, deps, risk factors
	for range 8 {
		d.PressEnter()
	}

	assert.Equal(t, 1, d.ViewStackLen())
	assert.Equal(t, 4, taskCount(t, app))
	assert.Contains(t, d.VisibleNames(), "Ship release")
	assert.Contains(t, d.View(), "Created")

	for _, e := range d.Dashboard().visible {
		if e.Task.TaskName == "Ship release" {
			assert.Equal(t, domain.PriorityMedium, e.Task.Priority)
			assert.Equal(t, 0, e.Task.ProgressOrZero())
			assert.Equal(t, domain.NoDependencies, e.Task.Dependencies)
			// 20 + 30
			assert.Equal(t, 50, e.Score)
		}
	}
}

func TestTUI_AddTaskRequiresName(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('n')
	d.PressEnter()

	assert.Equal(t, ViewForm, d.ActiveViewID(), "empty name keeps the form open")
	d.PressEsc()
	assert.Equal(t, 0, taskCount(t, app))
}

func TestTUI_QuitKeyGoesToForm(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)

	d.PressKey('n')
	d.PressKey('q')

	assert.False(t, d.IsQuitting())
	assert.Equal(t, ViewForm, d.ActiveViewID())
}

func TestTUI_EditTask(t *testing.T) {
	app := testApp(t)
	s := seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.PressKey('e')
	require.Equal(t, ViewForm, d.ActiveViewID())
	assert.Contains(t, d.View(), "Edit Task")

	d.Type(" v2")
	for range 8 {
		d.PressEnter()
	}

	assert.Equal(t, 1, d.ViewStackLen())
	got, err := app.Tasks.Get(context.Background(), s.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Payment API v2", got.TaskName)
	assert.Equal(t, "Sato", got.Assignee)
	assert.Equal(t, 10, *got.Progress)
	assert.Equal(t, s.payment.DueDateString(), got.DueDateString())
	assert.Contains(t, d.VisibleNames(), "Payment API v2")
}

func TestTUI_MutationErrorShowsLine(t *testing.T) {
	app := testApp(t)
	seedTasks(t, app)
	d := NewTestDriver(t, app)

	d.Send(mutationDoneMsg{verb: "Updated", name: "Gone", id: "x", err: repository.ErrNotFound})

	assert.Contains(t, d.View(), "task no longer exists")
	assert.Len(t, d.VisibleNames(), 3)
}

func TestTUI_ReadOnly(t *testing.T) {
	app := testApp(t)
	s := seedTasks(t, app)
	d := newTestDriverWith(t, app, tuiOptions{caps: board.Capabilities{Chart: true}, sort: board.SortRisk})

	assert.Contains(t, d.View(), "[read-only]")

	d.PressKey('n')
	d.PressKey('e')
	d.PressKey('d')
	assert.Equal(t, 1, d.ViewStackLen())

	d.PressKey('+')
	got, err := app.Tasks.Get(context.Background(), s.payment.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, *got.Progress)
}

// =============================================================================
// Quit
// =============================================================================

func TestTUI_QuitWithQ(t *testing.T) {
	d := NewTestDriver(t, testApp(t))
	d.PressKey('q')
	assert.True(t, d.IsQuitting())
}

func TestTUI_QuitWithCtrlC(t *testing.T) {
	app := testApp(t)
	d := NewTestDriver(t, app)
	d.PressKey('n')
	d.PressCtrlC()
	assert.True(t, d.IsQuitting())
}
