// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is executed and fed back
// until nothing is left, so a test sees the model after all store calls and
// form transitions have settled. Cmds that block on timers (cursor blink,
// spinner ticks) are run with a short timeout and dropped.
package teatest

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many follow-up Cmds one message may chain.
const MaxDrainDepth = 100

// cmdTimeout is how long a Cmd may run before it is dropped. In-memory store
// calls return well inside it; spinner ticks (~100ms) and cursor blinks
// (~530ms) do not.
const cmdTimeout = 40 * time.Millisecond

// Driver feeds messages to a tea.Model and settles it.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg comes out of a Cmd. The real
	// program swallows that message, so the model may never see it.
	Quitting bool

	// Dropped counts Cmds abandoned for exceeding cmdTimeout.
	Dropped int
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model. Call DrainInit to run its Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs Init and settles the model.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.settle(d.Model.Init(), 0)
}

// Send delivers msg and settles the model. Nothing is delivered after quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.settle(cmd, 0)
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── keys ─────────────────────────────────────────────────────────────────────

// SendKey delivers a key event.
func (d *Driver) SendKey(msg tea.KeyMsg) {
	d.T.Helper()
	d.Send(msg)
}

func (d *Driver) pressType(kt tea.KeyType) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: kt})
}

// PressKey sends a single printable rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

func (d *Driver) PressEnter()     { d.T.Helper(); d.pressType(tea.KeyEnter) }
func (d *Driver) PressEsc()       { d.T.Helper(); d.pressType(tea.KeyEsc) }
func (d *Driver) PressCtrlC()     { d.T.Helper(); d.pressType(tea.KeyCtrlC) }
func (d *Driver) PressTab()       { d.T.Helper(); d.pressType(tea.KeyTab) }
func (d *Driver) PressBackspace() { d.T.Helper(); d.pressType(tea.KeyBackspace) }
func (d *Driver) PressUp()        { d.T.Helper(); d.pressType(tea.KeyUp) }
func (d *Driver) PressDown()      { d.T.Helper(); d.pressType(tea.KeyDown) }

// Resize delivers a new terminal size.
func (d *Driver) Resize(w, h int) {
	d.T.Helper()
	d.Send(tea.WindowSizeMsg{Width: w, Height: h})
}

// ── settling ─────────────────────────────────────────────────────────────────

// settle runs cmd and feeds its message back through Update, recursively.
func (d *Driver) settle(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: stopped settling after %d chained commands", MaxDrainDepth)
		return
	}

	msg, ok := runWithTimeout(cmd)
	if !ok {
		d.Dropped++
		return
	}
	if msg == nil || isBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		d.settleAll(batch, depth)
		return
	}
	// tea.Sequence yields an unexported []tea.Cmd; it runs in order too.
	if seq, ok := asCmdSlice(msg); ok {
		d.settleAll(seq, depth)
		return
	}

	if _, quit := msg.(tea.QuitMsg); quit {
		d.Quitting = true
		d.Model, _ = d.Model.Update(msg)
		return
	}

	var next tea.Cmd
	d.Model, next = d.Model.Update(msg)
	d.settle(next, depth+1)
}

func (d *Driver) settleAll(cmds []tea.Cmd, depth int) {
	d.T.Helper()
	for _, c := range cmds {
		d.settle(c, depth+1)
	}
}

// runWithTimeout reports false when cmd did not return within cmdTimeout.
// The goroutine is left to finish on its own.
func runWithTimeout(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

var cmdType = reflect.TypeOf((*tea.Cmd)(nil)).Elem()

func asCmdSlice(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != cmdType {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

// isBlink matches the cursor package's unexported blink messages, which
// would otherwise chain into timer Cmds.
func isBlink(msg tea.Msg) bool {
	name := strings.ToLower(reflect.TypeOf(msg).String())
	return strings.Contains(name, "blink")
}
