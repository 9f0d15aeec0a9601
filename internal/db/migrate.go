package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// TasksTable is the table every local query targets.
const TasksTable = "tasks"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		task_name       TEXT NOT NULL,
		assignee        TEXT,
		due_date        TEXT,
		priority        TEXT NOT NULL DEFAULT 'medium',
		progress        INTEGER CHECK(progress IS NULL OR progress BETWEEN 0 AND 100),
		past_delay_days INTEGER DEFAULT 0 CHECK(past_delay_days IS NULL OR past_delay_days >= 0),
		dependencies    TEXT DEFAULT 'none',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	// risk_factors arrived after the first release.
	`ALTER TABLE tasks ADD COLUMN risk_factors TEXT`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date)`,
}

// Migrate runs all schema migrations. Every statement is re-run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := backfillDependencies(db); err != nil {
		return fmt.Errorf("backfilling dependencies: %w", err)
	}
	return nil
}

// backfillDependencies replaces NULL or blank dependencies with the "none"
// sentinel so every row reads the same way the forms write it.
func backfillDependencies(db *sql.DB) error {
	_, err := db.Exec(`UPDATE tasks SET dependencies = 'none'
		WHERE dependencies IS NULL OR TRIM(dependencies) = ''`)
	return err
}
