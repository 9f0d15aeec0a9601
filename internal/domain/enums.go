package domain

import "strings"

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// priorityAliases maps the Japanese labels some task tables were seeded with
// onto the canonical priorities.
var priorityAliases = map[string]Priority{
	"high":   PriorityHigh,
	"medium": PriorityMedium,
	"low":    PriorityLow,
	"高":      PriorityHigh,
	"中":      PriorityMedium,
	"低":      PriorityLow,
}

// ValidPriorities is the canonical set of accepted priority strings, aliases included.
var ValidPriorities = map[string]bool{
	"high": true, "medium": true, "low": true,
	"高": true, "中": true, "低": true,
}

// Normalize returns the canonical priority for p, or "" when p is not a known
// priority or alias.
func (p Priority) Normalize() Priority {
	return priorityAliases[strings.ToLower(strings.TrimSpace(string(p)))]
}

// Known reports whether p is a recognized priority or alias.
func (p Priority) Known() bool {
	return p.Normalize() != ""
}

// ParsePriority resolves s to a canonical priority.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(s).Normalize()
	return p, p != ""
}

// NoDependencies is the sentinel stored in the dependencies column when a task
// has none.
const NoDependencies = "none"

// HasDependencies reports whether a dependencies value names real dependencies.
// Empty values and both sentinels ("none", "なし") count as no dependency.
func HasDependencies(deps string) bool {
	d := strings.TrimSpace(deps)
	if d == "" {
		return false
	}
	return !strings.EqualFold(d, NoDependencies) && d != "なし"
}
