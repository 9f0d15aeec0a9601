package board

import (
	"strings"

	"github.com/alexanderramin/riskboard/internal/domain"
)

// FilterAll is the sentinel that disables a priority or assignee predicate.
const FilterAll = "all"

// Filter narrows a snapshot. The predicates combine with AND.
type Filter struct {
	Priority string
	Assignee string
	Search   string
}

// IsAll reports whether v disables its predicate. The empty string and the
// Japanese label 全て are accepted alongside "all".
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, FilterAll) || v == "全て"
}

// Active reports whether any predicate is enabled.
func (f Filter) Active() bool {
	return !IsAll(f.Priority) || !IsAll(f.Assignee) || strings.TrimSpace(f.Search) != ""
}

// Match reports whether e passes every enabled predicate.
func (f Filter) Match(e Entry) bool {
	return f.matchPriority(e.Task) && f.matchAssignee(e.Task) && f.matchSearch(e.Task)
}

func (f Filter) matchPriority(t *domain.Task) bool {
	if IsAll(f.Priority) {
		return true
	}
	want := domain.Priority(f.Priority).Normalize()
	if want == "" {
		// Unrecognized filter values only match the identical raw label.
		return string(t.Priority) == f.Priority
	}
	return t.Priority.Normalize() == want
}

func (f Filter) matchAssignee(t *domain.Task) bool {
	if IsAll(f.Assignee) {
		return true
	}
	return t.Assignee == f.Assignee
}

func (f Filter) matchSearch(t *domain.Task) bool {
	term := strings.TrimSpace(f.Search)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.TaskName), strings.ToLower(term))
}

// Describe renders the enabled predicates, e.g. `priority=high search="api"`.
func (f Filter) Describe() string {
	var parts []string
	if !IsAll(f.Priority) {
		parts = append(parts, "priority="+f.Priority)
	}
	if !IsAll(f.Assignee) {
		parts = append(parts, "assignee="+f.Assignee)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		parts = append(parts, "search=\""+term+"\"")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
