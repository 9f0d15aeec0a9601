package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// priorityValue is a pflag.Value accepting high, medium, low and their
// aliases. The canonical priority is stored.
type priorityValue struct {
	p domain.Priority
}

var _ pflag.Value = (*priorityValue)(nil)

func newPriorityValue(def domain.Priority) *priorityValue {
	return &priorityValue{p: def}
}

func (v *priorityValue) String() string { return string(v.p) }
func (v *priorityValue) Type() string   { return "priority" }

func (v *priorityValue) Set(s string) error {
	p, ok := domain.ParsePriority(s)
	if !ok {
		return fmt.Errorf("must be one of high, medium, low (or 高, 中, 低)")
	}
	v.p = p
	return nil
}

// priorityFilterValue also accepts the "all" sentinel. Known priorities are
// canonicalized; anything else is rejected.
type priorityFilterValue struct {
	s string
}

func (v *priorityFilterValue) String() string { return v.s }
func (v *priorityFilterValue) Type() string   { return "priority" }

func (v *priorityFilterValue) Set(s string) error {
	if board.IsAll(s) {
		v.s = board.FilterAll
		return nil
	}
	p, ok := domain.ParsePriority(s)
	if !ok {
		return fmt.Errorf("must be all, high, medium or low")
	}
	v.s = string(p)
	return nil
}

type sortValue struct {
	mode board.SortMode
}

func (v *sortValue) String() string { return string(v.mode) }
func (v *sortValue) Type() string   { return "risk|id" }

func (v *sortValue) Set(s string) error {
	mode, ok := board.ParseSortMode(s)
	if !ok {
		return fmt.Errorf("must be risk or id")
	}
	v.mode = mode
	return nil
}

type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputYAML  outputFormat = "yaml"
)

type outputValue struct {
	f outputFormat
}

func (v *outputValue) String() string { return string(v.f) }
func (v *outputValue) Type() string   { return "table|json|yaml" }

func (v *outputValue) Set(s string) error {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case outputTable, outputJSON, outputYAML:
		v.f = f
		return nil
	}
	return fmt.Errorf("must be table, json or yaml")
}

// filterFlags are shared by list and stats.
type filterFlags struct {
	priority priorityFilterValue
	assignee string
	search   string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	f.priority.s = board.FilterAll
	fs.Var(&f.priority, "priority", "Only tasks with this priority (all, high, medium, low)")
	fs.StringVar(&f.assignee, "assignee", board.FilterAll, "Only tasks assigned to this person")
	fs.StringVar(&f.search, "search", "", "Case-insensitive substring of the task name")
}

func (f *filterFlags) filter() board.Filter {
	return board.Filter{Priority: f.priority.s, Assignee: f.assignee, Search: f.search}
}

// taskFlags are the editable task fields shared by add and edit.
type taskFlags struct {
	name        string
	assignee    string
	due         string
	priority    *priorityValue
	progress    int
	delay       int
	deps        string
	riskFactors string
}

func (f *taskFlags) register(cmd *cobra.Command) {
	f.priority = newPriorityValue(domain.PriorityMedium)
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "Task name")
	fs.StringVar(&f.assignee, "assignee", "", "Assignee")
	fs.StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD); \"none\" clears it on edit")
	fs.Var(f.priority, "priority", "Priority (high, medium, low)")
	fs.IntVar(&f.progress, "progress", 0, "Progress percent (0-100)")
	fs.IntVar(&f.delay, "delay", 0, "Past delay in days")
	fs.StringVar(&f.deps, "deps", domain.NoDependencies, "Dependencies, or \"none\"")
	fs.StringVar(&f.riskFactors, "risk-factors", "", "Free-text risk factors")
}

// parseDue parses a due date flag. The empty string and "none" mean no date.
func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", s)
	}
	return &d, nil
}

func (f *taskFlags) input() (domain.TaskInput, error) {
	due, err := parseDue(f.due)
	if err != nil {
		return domain.TaskInput{}, err
	}
	return domain.TaskInput{
		TaskName:      f.name,
		Assignee:      strings.TrimSpace(f.assignee),
		DueDate:       due,
		Priority:      f.priority.p,
		Progress:      f.progress,
		PastDelayDays: f.delay,
		Dependencies:  f.deps,
		RiskFactors:   f.riskFactors,
	}, nil
}

// patch builds a patch from the flags the user actually set.
func (f *taskFlags) patch(fs *pflag.FlagSet) (domain.TaskPatch, error) {
	var p domain.TaskPatch
	if fs.Changed("name") {
		p.TaskName = &f.name
	}
	if fs.Changed("assignee") {
		a := strings.TrimSpace(f.assignee)
		p.Assignee = &a
	}
	if fs.Changed("due") {
		due, err := parseDue(f.due)
		if err != nil {
			return p, err
		}
		if due == nil {
			p.ClearDueDate = true
		} else {
			p.DueDate = due
		}
	}
	if fs.Changed("priority") {
		prio := f.priority.p
		p.Priority = &prio
	}
	if fs.Changed("progress") {
		p.Progress = &f.progress
	}
	if fs.Changed("delay") {
		p.PastDelayDays = &f.delay
	}
	if fs.Changed("deps") {
		p.Dependencies = &f.deps
	}
	if fs.Changed("risk-factors") {
		p.RiskFactors = &f.riskFactors
	}
	return p, nil
}
