package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/cli/formatter"
	"github.com/alexanderramin/riskboard/internal/contract"
	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── messages ─────────────────────────────────────────────────────────────────

// boardLoadedMsg carries the result of a fetch.
type boardLoadedMsg struct {
	resp *contract.BoardResponse
	err  error
}

// mutationDoneMsg reports a finished create, update or delete. patch is set
// for updates so the change shows before the reload lands. applied means the
// patch was already made to the snapshot before the store call.
type mutationDoneMsg struct {
	verb    string
	name    string
	id      string
	patch   *domain.TaskPatch
	applied bool
	err     error
}

// priorityCycle is the order the p key steps through.
var priorityCycle = []string{
	board.FilterAll,
	string(domain.PriorityHigh),
	string(domain.PriorityMedium),
	string(domain.PriorityLow),
}

const (
	progressStep = 10
	cardHeight   = 9
)

// ── view ─────────────────────────────────────────────────────────────────────

// dashboardView is the single board screen. What it offers depends on
// SharedState.Caps: without Edit the mutation keys do nothing, without Chart
// the chart panel never opens.
type dashboardView struct {
	state *SharedState

	sort   board.SortMode
	filter board.Filter

	snap       *board.Snapshot
	fetchedAt  time.Time
	visible    []board.Entry
	summary    board.Stats
	assignees  []string
	priorities board.PriorityCounts
	progress   []board.Band

	loading bool
	errMsg  string
	loadErr bool
	notice  string

	cursor int
	offset int

	showCharts bool
	searching  bool
	prevSearch string
	search     textinput.Model
	spinner    spinner.Model
}

func newDashboardView(state *SharedState, sort board.SortMode) *dashboardView {
	if sort == "" {
		sort = board.SortRisk
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "task name"
	ti.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple

	return &dashboardView{
		state:      state,
		sort:       sort,
		filter:     board.Filter{Priority: board.FilterAll, Assignee: board.FilterAll},
		showCharts: state.Caps.Chart,
		search:     ti,
		spinner:    sp,
		loading:    true,
	}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "Dashboard" }

func (v *dashboardView) CapturesInput() bool { return v.searching }

func (v *dashboardView) ShortHelp() []key.Binding {
	if v.searching {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", "move")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assignee")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	}
	if v.state.Caps.Chart {
		bindings = append(bindings, key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "charts")))
	}
	if v.state.Caps.Edit {
		bindings = append(bindings,
			key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
			key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
			key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
			key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "progress")),
		)
	}
	return append(bindings,
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	)
}

func (v *dashboardView) Init() tea.Cmd {
	return v.startLoad()
}

// ── data loading ─────────────────────────────────────────────────────────────

func (v *dashboardView) startLoad() tea.Cmd {
	v.loading = true
	return tea.Batch(v.loadData(), v.spinner.Tick)
}

func (v *dashboardView) loadData() tea.Cmd {
	tasks := v.state.App.Tasks
	req := contract.NewBoardRequest()
	req.Sort = v.sort
	req.Filter = v.filter
	return func() tea.Msg {
		resp, err := tasks.Load(context.Background(), req)
		return boardLoadedMsg{resp: resp, err: err}
	}
}

// mutate runs fn off the event loop and reports the outcome.
func (v *dashboardView) mutate(msg mutationDoneMsg, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		msg.err = fn(context.Background())
		return msg
	}
}

// recompute re-applies the local filter to the snapshot. Filtering and
// sorting never go back to the store.
func (v *dashboardView) recompute() {
	v.visible = nil
	if v.snap != nil {
		v.visible = v.snap.Apply(v.filter)
	}
	v.summary = board.Summarize(v.visible)
	if v.cursor >= len(v.visible) {
		v.cursor = max(0, len(v.visible)-1)
	}
	v.clampOffset()
}

// indexOf returns the visible position of id, or def when it is filtered out.
func (v *dashboardView) indexOf(id string, def int) int {
	for i, e := range v.visible {
		if e.Task.ID == id {
			return i
		}
	}
	return def
}

func (v *dashboardView) selected() (board.Entry, bool) {
	if v.cursor < 0 || v.cursor >= len(v.visible) {
		return board.Entry{}, false
	}
	return v.visible[v.cursor], true
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		v.loading = false
		if msg.err != nil {
			// The previous snapshot stays on screen.
			v.errMsg = errorLine(msg.err)
			v.loadErr = true
			return v, nil
		}
		if v.loadErr {
			v.errMsg = ""
			v.loadErr = false
		}
		resp := msg.resp
		v.snap = resp.Snapshot
		v.fetchedAt = resp.GeneratedAt
		v.assignees = resp.Assignees
		v.priorities = resp.Priorities
		v.progress = resp.Progress
		v.recompute()
		return v, nil

	case mutationDoneMsg:
		if msg.err != nil {
			v.notice = ""
			v.errMsg = errorLine(msg.err)
			v.loadErr = false
			if msg.applied {
				// Refetch to drop the local patch the store refused.
				return v, v.startLoad()
			}
			return v, nil
		}
		v.errMsg = ""
		v.loadErr = false
		v.notice = fmt.Sprintf("%s %s %s", formatter.StyleGreen.Render("✔"), msg.verb, formatter.Bold(msg.name))
		if msg.patch != nil && !msg.applied && v.snap != nil {
			v.snap.Patch(msg.id, *msg.patch)
			v.recompute()
		}
		return v, v.startLoad()

	case noticeMsg:
		v.notice = msg.text
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.searching {
			return v.updateSearch(msg)
		}
		return v.handleKey(msg)
	}

	if v.searching {
		var cmd tea.Cmd
		v.search, cmd = v.search.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *dashboardView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.searching = false
		v.search.Blur()
		return v, nil
	case tea.KeyEsc:
		v.searching = false
		v.search.Blur()
		v.filter.Search = v.prevSearch
		v.recompute()
		return v, nil
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.filter.Search = v.search.Value()
	v.recompute()
	return v, cmd
}

func (v *dashboardView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.notice = ""

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
			v.clampOffset()
		}
	case "down", "j":
		if v.cursor < len(v.visible)-1 {
			v.cursor++
			v.clampOffset()
		}
	case "/":
		v.searching = true
		v.prevSearch = v.filter.Search
		v.search.SetValue(v.filter.Search)
		v.search.CursorEnd()
		return v, v.search.Focus()
	case "p":
		v.filter.Priority = nextInCycle(priorityCycle, v.filter.Priority)
		v.recompute()
	case "a":
		v.filter.Assignee = nextInCycle(append([]string{board.FilterAll}, v.assignees...), v.filter.Assignee)
		v.recompute()
	case "x":
		v.filter = board.Filter{Priority: board.FilterAll, Assignee: board.FilterAll}
		v.recompute()
	case "s":
		v.sort = v.sort.Toggle()
		if v.snap != nil {
			v.snap.Resort(v.sort)
		}
		v.recompute()
	case "c":
		if v.state.Caps.Chart {
			v.showCharts = !v.showCharts
		}
	case "r":
		return v, v.startLoad()
	}

	if !v.state.Caps.Edit {
		return v, nil
	}

	switch msg.String() {
	case "n":
		return v, v.openAddForm()
	case "e":
		return v, v.openEditForm()
	case "d":
		return v, v.confirmDelete()
	case "+", "=":
		return v, v.nudgeProgress(progressStep)
	case "-", "_":
		return v, v.nudgeProgress(-progressStep)
	}
	return v, nil
}

// nextInCycle returns the value after cur, wrapping to the first. A value
// not in the cycle restarts it.
func nextInCycle(cycle []string, cur string) string {
	if board.IsAll(cur) {
		cur = board.FilterAll
	}
	for i, c := range cycle {
		if c == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// ── mutations ────────────────────────────────────────────────────────────────

func (v *dashboardView) openAddForm() tea.Cmd {
	tasks := v.state.App.Tasks
	vals := newTaskFormValues(nil)
	return pushView(newWizardView(v.state, "New Task", taskForm(vals), func() tea.Cmd {
		in, err := vals.input()
		done := mutationDoneMsg{verb: "Created", name: strings.TrimSpace(vals.Name)}
		if err != nil {
			done.err = err
			return func() tea.Msg { return done }
		}
		return v.mutate(done, func(ctx context.Context) error {
			_, err := tasks.Create(ctx, in)
			return err
		})
	}))
}

func (v *dashboardView) openEditForm() tea.Cmd {
	e, ok := v.selected()
	if !ok {
		return nil
	}
	tasks := v.state.App.Tasks
	id := e.Task.ID
	vals := newTaskFormValues(e.Task)
	return pushView(newWizardView(v.state, "Edit Task", taskForm(vals), func() tea.Cmd {
		patch, err := vals.patch()
		done := mutationDoneMsg{verb: "Updated", name: strings.TrimSpace(vals.Name), id: id}
		if err != nil {
			done.err = err
			return func() tea.Msg { return done }
		}
		done.patch = &patch
		return v.mutate(done, func(ctx context.Context) error {
			return tasks.Update(ctx, id, patch)
		})
	}))
}

func (v *dashboardView) confirmDelete() tea.Cmd {
	e, ok := v.selected()
	if !ok {
		return nil
	}
	tasks := v.state.App.Tasks
	id, name := e.Task.ID, e.Task.TaskName
	var confirmed bool
	form := wizardConfirm(fmt.Sprintf("Delete %q?", name), &confirmed)
	return pushView(newWizardView(v.state, "Confirm Delete", form, func() tea.Cmd {
		if !confirmed {
			return noticeCmd(formatter.Dim("Cancelled."))
		}
		return v.mutate(mutationDoneMsg{verb: "Deleted", name: name, id: id}, func(ctx context.Context) error {
			return tasks.Delete(ctx, id)
		})
	}))
}

func (v *dashboardView) nudgeProgress(delta int) tea.Cmd {
	e, ok := v.selected()
	if !ok {
		return nil
	}
	next := min(max(e.Task.ProgressOrZero()+delta, 0), 100)
	if e.Task.Progress != nil && *e.Task.Progress == next {
		return nil
	}
	tasks := v.state.App.Tasks
	id := e.Task.ID
	patch := progressPatch(next)

	// The next nudge starts from the patched value, not the stored one.
	v.snap.Patch(id, patch)
	v.recompute()
	v.cursor = v.indexOf(id, v.cursor)
	v.clampOffset()

	done := mutationDoneMsg{verb: fmt.Sprintf("Progress %d%%", next), name: e.Task.TaskName, id: id, patch: &patch, applied: true}
	return v.mutate(done, func(ctx context.Context) error {
		return tasks.Update(ctx, id, patch)
	})
}

// ── view rendering ───────────────────────────────────────────────────────────

func (v *dashboardView) View() string {
	width := v.state.ContentWidth()

	if v.snap == nil {
		if v.errMsg != "" {
			return "\n  " + formatter.StyleRed.Render(v.errMsg) + "\n  " + formatter.Dim("Press r to retry.")
		}
		return "\n  " + v.spinner.View() + " " + formatter.Dim("Loading tasks...")
	}

	var top strings.Builder
	top.WriteString(formatter.FormatSummaryCards(v.summary, width) + "\n")

	bar := formatter.FormatFilterBar(v.filter, v.sort, v.fetchedAt, time.Now())
	if v.loading {
		bar += "  " + v.spinner.View()
	}
	top.WriteString(bar + "\n")
	if v.searching {
		top.WriteString(v.search.View() + "\n")
	}
	if v.errMsg != "" {
		top.WriteString(formatter.StyleRed.Render("✖ "+v.errMsg) + "\n")
	} else if v.notice != "" {
		top.WriteString(v.notice + "\n")
	}
	if v.showCharts && v.state.Caps.Chart && !v.snap.Empty() {
		top.WriteString("\n" + formatter.FormatCharts(v.priorities, v.progress, width) + "\n")
	}

	var b strings.Builder
	b.WriteString(top.String())
	b.WriteString("\n")

	switch {
	case v.snap.Empty():
		b.WriteString("  " + formatter.Dim(formatter.NoTasksMessage))
		if v.state.Caps.Edit {
			b.WriteString(" " + formatter.Dim("Press n to add one."))
		}
		b.WriteString("\n")
		return b.String()
	case len(v.visible) == 0:
		b.WriteString("  " + formatter.Dim(formatter.NoMatchesMessage) + " " + formatter.Dim("Press x to clear filters."))
		b.WriteString("\n")
		return b.String()
	}

	cardWidth := min(width-2, 100)
	end := min(v.offset+v.perPage(lipgloss.Height(top.String())), len(v.visible))
	for i := v.offset; i < end; i++ {
		b.WriteString(formatter.FormatTaskCard(v.visible[i], cardWidth, i == v.cursor) + "\n")
	}
	if end-v.offset < len(v.visible) {
		b.WriteString(formatter.Dim(fmt.Sprintf("  %d-%d of %d", v.offset+1, end, len(v.visible))) + "\n")
	}
	return b.String()
}

// perPage is how many cards fit under a header of topLines rows. Before the
// terminal size is known every card is shown.
func (v *dashboardView) perPage(topLines int) int {
	if v.state.Height <= 0 {
		return len(v.visible)
	}
	return max((v.state.ContentHeight()-topLines-2)/cardHeight, 1)
}

// clampOffset scrolls so the cursor stays on screen.
func (v *dashboardView) clampOffset() {
	per := max(v.perPage(8), 1)
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+per {
		v.offset = v.cursor - per + 1
	}
	v.offset = max(0, min(v.offset, max(len(v.visible)-1, 0)))
}
