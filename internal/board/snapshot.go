// Package board holds the in-memory view of the task table: evaluated
// entries, their sort order, filter predicates and the aggregates shown on
// the dashboard.
package board

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/alexanderramin/riskboard/internal/risk"
)

// SortMode selects the order of a snapshot.
type SortMode string

const (
	// SortRisk orders by score descending, ties by ID ascending.
	SortRisk SortMode = "risk"
	// SortID orders by ID ascending. Numeric IDs compare numerically.
	SortID SortMode = "id"
)

// ParseSortMode resolves s to a SortMode.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortRisk:
		return SortRisk, true
	case SortID:
		return SortID, true
	}
	return "", false
}

// Toggle returns the other sort mode.
func (m SortMode) Toggle() SortMode {
	if m == SortID {
		return SortRisk
	}
	return SortID
}

// Entry is a task together with its derived risk.
type Entry struct {
	Task     *domain.Task
	Score    int
	Level    domain.RiskLevel
	DaysLeft *int
}

func evaluate(t *domain.Task, now time.Time) Entry {
	a := risk.Evaluate(t, now)
	return Entry{Task: t, Score: a.Score, Level: a.Level, DaysLeft: a.DaysLeft}
}

// Snapshot is the fully replaced result of one fetch. It is not safe for
// concurrent mutation; the dashboard owns it on the event loop.
type Snapshot struct {
	now     time.Time
	mode    SortMode
	entries []Entry
}

// NewSnapshot evaluates every task as of now and orders the entries by mode.
// The tasks are cloned so later patches never alias the caller's records.
func NewSnapshot(tasks []*domain.Task, now time.Time, mode SortMode) *Snapshot {
	if mode == "" {
		mode = SortRisk
	}
	s := &Snapshot{now: now, mode: mode, entries: make([]Entry, 0, len(tasks))}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		s.entries = append(s.entries, evaluate(t.Clone(), now))
	}
	s.sortEntries()
	return s
}

// Now returns the evaluation time of the snapshot.
func (s *Snapshot) Now() time.Time { return s.now }

// Mode returns the current sort order.
func (s *Snapshot) Mode() SortMode { return s.mode }

// Len returns the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// Empty reports whether the fetch returned no tasks.
func (s *Snapshot) Empty() bool { return len(s.entries) == 0 }

// Entries returns every entry in snapshot order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Find returns the entry for id.
func (s *Snapshot) Find(id string) (Entry, bool) {
	for _, e := range s.entries {
		if e.Task.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Resort reorders the snapshot in place.
func (s *Snapshot) Resort(mode SortMode) {
	s.mode = mode
	s.sortEntries()
}

// Apply returns the entries matching f, preserving snapshot order.
func (s *Snapshot) Apply(f Filter) []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// Patch applies an optimistic local update to the entry for id, re-evaluates
// its risk and restores the sort order. It reports false when id is unknown.
func (s *Snapshot) Patch(id string, patch domain.TaskPatch) (Entry, bool) {
	for i, e := range s.entries {
		if e.Task.ID != id {
			continue
		}
		t := e.Task.Clone()
		t.Apply(patch)
		updated := evaluate(t, s.now)
		s.entries[i] = updated
		s.sortEntries()
		return updated, true
	}
	return Entry{}, false
}

func (s *Snapshot) sortEntries() {
	switch s.mode {
	case SortID:
		sort.SliceStable(s.entries, func(i, j int) bool {
			return CompareIDs(s.entries[i].Task.ID, s.entries[j].Task.ID) < 0
		})
	default:
		sort.SliceStable(s.entries, func(i, j int) bool {
			if s.entries[i].Score != s.entries[j].Score {
				return s.entries[i].Score > s.entries[j].Score
			}
			return CompareIDs(s.entries[i].Task.ID, s.entries[j].Task.ID) < 0
		})
	}
}

// CompareIDs orders store identifiers. Two integer IDs compare numerically,
// integers sort before non-integers, and everything else compares as text.
func CompareIDs(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
