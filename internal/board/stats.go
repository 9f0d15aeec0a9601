package board

import (
	"math"

	"github.com/alexanderramin/riskboard/internal/domain"
)

// Stats summarizes a set of entries, usually the filtered view.
type Stats struct {
	Total       int
	High        int
	Medium      int
	Low         int
	AvgProgress int
}

// Summarize counts entries per risk level and averages their progress.
// Missing progress counts as 0; an empty set yields all zeros.
func Summarize(entries []Entry) Stats {
	var s Stats
	sum := 0
	for _, e := range entries {
		s.Total++
		switch e.Level {
		case domain.RiskHigh:
			s.High++
		case domain.RiskMedium:
			s.Medium++
		default:
			s.Low++
		}
		sum += e.Task.ProgressOrZero()
	}
	if s.Total > 0 {
		s.AvgProgress = int(math.Floor(float64(sum)/float64(s.Total) + 0.5))
	}
	return s
}

// Assignees lists the distinct non-empty assignees of the whole snapshot in
// first-seen order.
func (s *Snapshot) Assignees() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range s.entries {
		a := e.Task.Assignee
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// PriorityCounts is the chart data for task priorities.
type PriorityCounts struct {
	High   int
	Medium int
	Low    int
	Other  int
}

// Total returns the sum of every bucket.
func (c PriorityCounts) Total() int { return c.High + c.Medium + c.Low + c.Other }

// PriorityBreakdown counts the whole snapshot per normalized priority.
func (s *Snapshot) PriorityBreakdown() PriorityCounts {
	var c PriorityCounts
	for _, e := range s.entries {
		switch e.Task.Priority.Normalize() {
		case domain.PriorityHigh:
			c.High++
		case domain.PriorityMedium:
			c.Medium++
		case domain.PriorityLow:
			c.Low++
		default:
			c.Other++
		}
	}
	return c
}

// Band is one progress bucket. Min and Max are inclusive.
type Band struct {
	Label string
	Min   int
	Max   int
	Count int
}

// ProgressBands returns the empty buckets, which cover 0..100 without overlap.
func ProgressBands() []Band {
	return []Band{
		{Label: "0-25%", Min: 0, Max: 24},
		{Label: "25-50%", Min: 25, Max: 49},
		{Label: "50-75%", Min: 50, Max: 74},
		{Label: "75-100%", Min: 75, Max: 100},
	}
}

// ProgressDistribution buckets the whole snapshot by progress. Values outside
// 0..100 land in the nearest edge band.
func (s *Snapshot) ProgressDistribution() []Band {
	bands := ProgressBands()
	for _, e := range s.entries {
		p := e.Task.ProgressOrZero()
		bands[bandIndex(p, bands)].Count++
	}
	return bands
}

func bandIndex(p int, bands []Band) int {
	if p < bands[0].Min {
		return 0
	}
	for i, b := range bands {
		if p >= b.Min && p <= b.Max {
			return i
		}
	}
	return len(bands) - 1
}
