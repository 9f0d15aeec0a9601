package domain

import "time"

// DateLayout is the wire and storage format of Task.DueDate.
const DateLayout = "2006-01-02"

// Task is a unit of work as stored by the task table. Risk is never stored
// alongside it; see the risk package.
type Task struct {
	ID            string
	TaskName      string
	Assignee      string
	DueDate       *time.Time
	Priority      Priority
	Progress      *int
	PastDelayDays *int
	Dependencies  string
	RiskFactors   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProgressOrZero returns the recorded progress, treating a missing value as 0.
func (t *Task) ProgressOrZero() int {
	return IntOr(t.Progress, 0)
}

// DelayOrZero returns the recorded past delay in days, treating a missing value as 0.
func (t *Task) DelayOrZero() int {
	return IntOr(t.PastDelayDays, 0)
}

// DueDateString formats the due date, or returns "" when there is none.
func (t *Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.Progress != nil {
		p := *t.Progress
		c.Progress = &p
	}
	if t.PastDelayDays != nil {
		d := *t.PastDelayDays
		c.PastDelayDays = &d
	}
	return &c
}

// Apply copies every field set on patch into t.
func (t *Task) Apply(patch TaskPatch) {
	if patch.TaskName != nil {
		t.TaskName = *patch.TaskName
	}
	if patch.Assignee != nil {
		t.Assignee = *patch.Assignee
	}
	if patch.ClearDueDate {
		t.DueDate = nil
	} else if patch.DueDate != nil {
		d := *patch.DueDate
		t.DueDate = &d
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Progress != nil {
		p := *patch.Progress
		t.Progress = &p
	}
	if patch.PastDelayDays != nil {
		d := *patch.PastDelayDays
		t.PastDelayDays = &d
	}
	if patch.Dependencies != nil {
		t.Dependencies = *patch.Dependencies
	}
	if patch.RiskFactors != nil {
		t.RiskFactors = *patch.RiskFactors
	}
}

// TaskInput holds the fields of a task to be inserted. The store assigns the ID.
type TaskInput struct {
	TaskName      string     `validate:"required"`
	Assignee      string
	DueDate       *time.Time
	Priority      Priority `validate:"required,priority"`
	Progress      int      `validate:"min=0,max=100"`
	PastDelayDays int      `validate:"min=0"`
	Dependencies  string
	RiskFactors   string
}

// NewTaskInput returns an input with the form defaults: medium priority, no
// progress, no delay and the "none" dependency sentinel.
func NewTaskInput(name string) TaskInput {
	return TaskInput{
		TaskName:     name,
		Priority:     PriorityMedium,
		Dependencies: NoDependencies,
	}
}

// Columns returns the column/value pairs to insert, in table order.
func (in TaskInput) Columns() []Column {
	deps := in.Dependencies
	if deps == "" {
		deps = NoDependencies
	}
	return []Column{
		{Name: "task_name", Value: in.TaskName},
		{Name: "assignee", Value: nullableString(in.Assignee)},
		{Name: "due_date", Value: nullableDate(in.DueDate)},
		{Name: "priority", Value: string(in.Priority)},
		{Name: "progress", Value: in.Progress},
		{Name: "past_delay_days", Value: in.PastDelayDays},
		{Name: "dependencies", Value: deps},
		{Name: "risk_factors", Value: nullableString(in.RiskFactors)},
	}
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	TaskName      *string `validate:"omitempty,min=1"`
	Assignee      *string
	DueDate       *time.Time
	ClearDueDate  bool
	Priority      *Priority `validate:"omitempty,priority"`
	Progress      *int      `validate:"omitempty,min=0,max=100"`
	PastDelayDays *int      `validate:"omitempty,min=0"`
	Dependencies  *string
	RiskFactors   *string
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return len(p.Columns()) == 0
}

// Column is a single column assignment shared by every storage backend.
// Value is nil for SQL NULL, a string, or an int.
type Column struct {
	Name  string
	Value any
}

// Columns returns the column assignments for the fields set on the patch, in
// table order. Dates are rendered with DateLayout.
func (p TaskPatch) Columns() []Column {
	var cols []Column
	if p.TaskName != nil {
		cols = append(cols, Column{Name: "task_name", Value: *p.TaskName})
	}
	if p.Assignee != nil {
		cols = append(cols, Column{Name: "assignee", Value: nullableString(*p.Assignee)})
	}
	if p.ClearDueDate {
		cols = append(cols, Column{Name: "due_date", Value: nil})
	} else if p.DueDate != nil {
		cols = append(cols, Column{Name: "due_date", Value: p.DueDate.Format(DateLayout)})
	}
	if p.Priority != nil {
		cols = append(cols, Column{Name: "priority", Value: string(*p.Priority)})
	}
	if p.Progress != nil {
		cols = append(cols, Column{Name: "progress", Value: *p.Progress})
	}
	if p.PastDelayDays != nil {
		cols = append(cols, Column{Name: "past_delay_days", Value: *p.PastDelayDays})
	}
	if p.Dependencies != nil {
		cols = append(cols, Column{Name: "dependencies", Value: *p.Dependencies})
	}
	if p.RiskFactors != nil {
		cols = append(cols, Column{Name: "risk_factors", Value: nullableString(*p.RiskFactors)})
	}
	return cols
}

// PatchFromTask builds a patch that overwrites every editable field with the
// values on t, the way the edit form submits.
func PatchFromTask(t *Task) TaskPatch {
	prio := t.Priority
	progress := t.ProgressOrZero()
	delay := t.DelayOrZero()
	deps := CoalesceStr(t.Dependencies, NoDependencies)
	p := TaskPatch{
		TaskName:      &t.TaskName,
		Assignee:      &t.Assignee,
		Priority:      &prio,
		Progress:      &progress,
		PastDelayDays: &delay,
		Dependencies:  &deps,
		RiskFactors:   &t.RiskFactors,
	}
	if t.DueDate == nil {
		p.ClearDueDate = true
	} else {
		d := *t.DueDate
		p.DueDate = &d
	}
	return p
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(DateLayout)
}
