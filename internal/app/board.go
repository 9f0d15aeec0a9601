package app

import (
	"time"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/domain"
)

// EmptyTableWarning is reported when the store returns no rows at all.
const EmptyTableWarning = "no tasks found"

type BoardRequest struct {
	Now    *time.Time
	Filter board.Filter
	Sort   board.SortMode
}

func NewBoardRequest() BoardRequest {
	return BoardRequest{
		Filter: board.Filter{Priority: board.FilterAll, Assignee: board.FilterAll},
		Sort:   board.SortRisk,
	}
}

// BoardResponse is one loaded dashboard. Tasks and Summary cover the filtered
// view; Assignees and the chart data cover every fetched task.
type BoardResponse struct {
	GeneratedAt time.Time
	Snapshot    *board.Snapshot
	Tasks       []board.Entry
	Summary     board.Stats
	Assignees   []string
	Priorities  board.PriorityCounts
	Progress    []board.Band
	Filter      board.Filter
	Sort        board.SortMode
	Empty       bool
	Warnings    []string
}

// TaskView is the serializable form of an evaluated task.
type TaskView struct {
	ID            string           `json:"id" yaml:"id"`
	TaskName      string           `json:"task_name" yaml:"task_name"`
	Assignee      string           `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	DueDate       *string          `json:"due_date" yaml:"due_date"`
	Priority      domain.Priority  `json:"priority" yaml:"priority"`
	Progress      *int             `json:"progress" yaml:"progress"`
	PastDelayDays *int             `json:"past_delay_days" yaml:"past_delay_days"`
	Dependencies  string           `json:"dependencies" yaml:"dependencies"`
	RiskFactors   string           `json:"risk_factors,omitempty" yaml:"risk_factors,omitempty"`
	RiskScore     int              `json:"risk_score" yaml:"risk_score"`
	RiskLevel     domain.RiskLevel `json:"risk_level" yaml:"risk_level"`
	DaysLeft      *int             `json:"days_left" yaml:"days_left"`
}

func NewTaskView(e board.Entry) TaskView {
	v := TaskView{
		ID:            e.Task.ID,
		TaskName:      e.Task.TaskName,
		Assignee:      e.Task.Assignee,
		Priority:      e.Task.Priority,
		Progress:      e.Task.Progress,
		PastDelayDays: e.Task.PastDelayDays,
		Dependencies:  e.Task.Dependencies,
		RiskFactors:   e.Task.RiskFactors,
		RiskScore:     e.Score,
		RiskLevel:     e.Level,
		DaysLeft:      e.DaysLeft,
	}
	if d := e.Task.DueDateString(); d != "" {
		v.DueDate = &d
	}
	return v
}

// TaskViews converts entries in order.
func TaskViews(entries []board.Entry) []TaskView {
	out := make([]TaskView, len(entries))
	for i, e := range entries {
		out[i] = NewTaskView(e)
	}
	return out
}
