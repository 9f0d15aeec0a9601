package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/alexanderramin/riskboard/internal/domain"
)

// taskColumns is the column list every SQL backend selects, in scan order.
var taskColumns = []string{
	"task_name", "assignee", "due_date", "priority", "progress",
	"past_delay_days", "dependencies", "risk_factors",
}

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	return parseDate(s.String, layout)
}

// parseDate accepts a bare date or any longer timestamp that starts with one.
func parseDate(s, layout string) *time.Time {
	s = strings.TrimSpace(s)
	if len(s) > len(layout) && layout == domain.DateLayout {
		s = s[:len(layout)]
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}
	return &t
}

func nullableIntFromSQL(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
