// Package risk scores tasks for delivery risk.
//
// The score is a weighted sum of priority, remaining progress, deadline
// proximity, past delay and dependency presence. Two inputs are lenient by
// policy: a priority outside high/medium/low weighs 0, and a task with no
// recorded progress is scored as if it were at 0%.
package risk

import (
	"math"
	"time"

	"github.com/alexanderramin/riskboard/internal/domain"
)

// Priority weights.
const (
	WeightHigh   = 30
	WeightMedium = 20
	WeightLow    = 10
)

// Deadline penalties, chosen by whole days left until the due date.
const (
	PenaltyOverdue  = 50 // days left < 0
	PenaltyThisWeek = 30 // days left < 7
	PenaltyNextWeek = 15 // days left < 14
)

const (
	// DelayPerDay is added for each day of recorded past delay.
	DelayPerDay = 5
	// DependencyPenalty is added when the task has real dependencies.
	DependencyPenalty = 10
	// progressTenths is the weight of each missing progress point, in tenths.
	progressTenths = 3
)

// Level thresholds.
const (
	HighThreshold   = 70
	MediumThreshold = 50
)

// Assessment is the derived risk view of a task. It is recomputed on every
// load and never stored.
type Assessment struct {
	Score    int
	Level    domain.RiskLevel
	DaysLeft *int
}

// Evaluate scores and classifies t as of now.
func Evaluate(t *domain.Task, now time.Time) Assessment {
	score := Score(t, now)
	return Assessment{
		Score:    score,
		Level:    Classify(score),
		DaysLeft: DaysUntil(t.DueDate, now),
	}
}

// Score computes the integer risk score of t as of now. The result is rounded
// half-up and is not clamped.
func Score(t *domain.Task, now time.Time) int {
	// Accumulate in tenths so the 0.3 progress weight stays exact.
	tenths := PriorityWeight(t.Priority) * 10
	tenths += (100 - t.ProgressOrZero()) * progressTenths
	tenths += DeadlinePenalty(DaysUntil(t.DueDate, now)) * 10
	tenths += t.DelayOrZero() * DelayPerDay * 10
	if domain.HasDependencies(t.Dependencies) {
		tenths += DependencyPenalty * 10
	}
	return int(math.Floor(float64(tenths+5) / 10))
}

// PriorityWeight returns the base weight for p. Aliases are normalized first;
// anything unrecognized weighs 0.
func PriorityWeight(p domain.Priority) int {
	switch p.Normalize() {
	case domain.PriorityHigh:
		return WeightHigh
	case domain.PriorityMedium:
		return WeightMedium
	case domain.PriorityLow:
		return WeightLow
	default:
		return 0
	}
}

// DeadlinePenalty maps a days-left count to its penalty. A nil count (no due
// date) carries no penalty.
func DeadlinePenalty(daysLeft *int) int {
	if daysLeft == nil {
		return 0
	}
	switch d := *daysLeft; {
	case d < 0:
		return PenaltyOverdue
	case d < 7:
		return PenaltyThisWeek
	case d < 14:
		return PenaltyNextWeek
	default:
		return 0
	}
}

// DaysUntil returns floor((due - now) / 24h), or nil when due is nil.
func DaysUntil(due *time.Time, now time.Time) *int {
	if due == nil {
		return nil
	}
	days := int(math.Floor(due.Sub(now).Hours() / 24))
	return &days
}

// Classify maps a score to its level.
func Classify(score int) domain.RiskLevel {
	switch {
	case score >= HighThreshold:
		return domain.RiskHigh
	case score >= MediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
