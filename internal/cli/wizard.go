package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/riskboard/internal/cli/formatter"
	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// riskboardHuhTheme returns a huh theme using the formatter palette.
func riskboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// taskFormValues backs the add and edit forms. Numbers stay strings until
// the form is submitted.
type taskFormValues struct {
	Name        string
	Assignee    string
	Due         string
	Priority    string
	Progress    string
	Delay       string
	Deps        string
	RiskFactors string
}

// newTaskFormValues pre-fills the form from t, or with the add defaults when
// t is nil. A priority that is not recognized falls back to medium.
func newTaskFormValues(t *domain.Task) *taskFormValues {
	if t == nil {
		return &taskFormValues{
			Priority: string(domain.PriorityMedium),
			Progress: "0",
			Delay:    "0",
			Deps:     domain.NoDependencies,
		}
	}
	prio := t.Priority.Normalize()
	if prio == "" {
		prio = domain.PriorityMedium
	}
	return &taskFormValues{
		Name:        t.TaskName,
		Assignee:    t.Assignee,
		Due:         t.DueDateString(),
		Priority:    string(prio),
		Progress:    strconv.Itoa(t.ProgressOrZero()),
		Delay:       strconv.Itoa(t.DelayOrZero()),
		Deps:        domain.CoalesceStr(t.Dependencies, domain.NoDependencies),
		RiskFactors: t.RiskFactors,
	}
}

func (v *taskFormValues) task() (*domain.Task, error) {
	due, err := parseDue(v.Due)
	if err != nil {
		return nil, err
	}
	progress, err := parseBounded(v.Progress, "progress", 0, 100)
	if err != nil {
		return nil, err
	}
	delay, err := parseBounded(v.Delay, "past delay", 0, -1)
	if err != nil {
		return nil, err
	}
	return &domain.Task{
		TaskName:      strings.TrimSpace(v.Name),
		Assignee:      strings.TrimSpace(v.Assignee),
		DueDate:       due,
		Priority:      domain.Priority(v.Priority),
		Progress:      &progress,
		PastDelayDays: &delay,
		Dependencies:  domain.CoalesceStr(strings.TrimSpace(v.Deps), domain.NoDependencies),
		RiskFactors:   strings.TrimSpace(v.RiskFactors),
	}, nil
}

// input converts the submitted form into an insert.
func (v *taskFormValues) input() (domain.TaskInput, error) {
	t, err := v.task()
	if err != nil {
		return domain.TaskInput{}, err
	}
	return domain.TaskInput{
		TaskName:      t.TaskName,
		Assignee:      t.Assignee,
		DueDate:       t.DueDate,
		Priority:      t.Priority,
		Progress:      *t.Progress,
		PastDelayDays: *t.PastDelayDays,
		Dependencies:  t.Dependencies,
		RiskFactors:   t.RiskFactors,
	}, nil
}

// patch converts the submitted form into an update of every editable field.
func (v *taskFormValues) patch() (domain.TaskPatch, error) {
	t, err := v.task()
	if err != nil {
		return domain.TaskPatch{}, err
	}
	return domain.PatchFromTask(t), nil
}

// parseBounded parses a whole number in [lo, hi]. hi < 0 means no upper bound.
func parseBounded(s, field string, lo, hi int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", field)
	}
	if n < lo || (hi >= 0 && n > hi) {
		if hi < 0 {
			return 0, fmt.Errorf("%s must be at least %d", field, lo)
		}
		return 0, fmt.Errorf("%s must be between %d and %d", field, lo, hi)
	}
	return n, nil
}

func validateDue(s string) error {
	_, err := parseDue(s)
	return err
}

// taskForm builds the single-group add/edit form bound to vals.
func taskForm(vals *taskFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task name").
				Value(&vals.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("task name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Assignee").
				Placeholder("unassigned").
				Value(&vals.Assignee),
			huh.NewInput().
				Title("Due date").
				Placeholder("YYYY-MM-DD").
				Value(&vals.Due).
				Validate(validateDue),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("high", string(domain.PriorityHigh)),
					huh.NewOption("medium", string(domain.PriorityMedium)),
					huh.NewOption("low", string(domain.PriorityLow)),
				).
				Value(&vals.Priority),
			huh.NewInput().
				Title("Progress (%)").
				Value(&vals.Progress).
				Validate(func(s string) error {
					_, err := parseBounded(s, "progress", 0, 100)
					return err
				}),
			huh.NewInput().
				Title("Past delay (days)").
				Value(&vals.Delay).
				Validate(func(s string) error {
					_, err := parseBounded(s, "past delay", 0, -1)
					return err
				}),
			huh.NewInput().
				Title("Dependencies").
				Description("\"none\" when there are none").
				Value(&vals.Deps),
			huh.NewInput().
				Title("Risk factors").
				Value(&vals.RiskFactors),
		),
	).WithTheme(riskboardHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a yes/no confirmation form.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(riskboardHuhTheme()).WithShowHelp(false)
}

func progressPatch(p int) domain.TaskPatch {
	return domain.TaskPatch{Progress: &p}
}
