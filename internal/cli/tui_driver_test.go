package cli

import (
	"testing"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/teatest"
)

// TestDriver wraps teatest.Driver with riskboard-specific inspection methods
// for the view stack and the dashboard state.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the app model with every capability, sets the
// terminal size and drains Init, which loads the board from the in-memory
// store.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	return newTestDriverWith(t, app, tuiOptions{caps: board.FullCapabilities, sort: board.SortRisk})
}

func newTestDriverWith(t *testing.T, app *App, opts tuiOptions) *TestDriver {
	t.Helper()

	m := newAppModel(app, opts)
	d := teatest.New(t, m, teatest.WithSize(120, 200))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() *appModel {
	m := d.Model.(appModel)
	return &m
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// Dashboard returns the bottom view.
func (d *TestDriver) Dashboard() *dashboardView {
	return d.appModel().viewStack[0].(*dashboardView)
}

// VisibleNames lists the task names on the dashboard in display order.
func (d *TestDriver) VisibleNames() []string {
	var out []string
	for _, e := range d.Dashboard().visible {
		out = append(out, e.Task.TaskName)
	}
	return out
}

// IsQuitting reports whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}
