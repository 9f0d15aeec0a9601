package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/riskboard/internal/db"
	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/google/uuid"
)

// SQLiteTaskRepo implements TaskRepo against the local tasks table.
type SQLiteTaskRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteTaskRepo creates a repo that runs multi-statement updates through uow.
func NewSQLiteTaskRepo(database *sql.DB, uow db.UnitOfWork) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: database, uow: uow}
}

var sqliteSelect = `SELECT id, ` + strings.Join(taskColumns, ", ") + `, created_at, updated_at FROM tasks`

func (r *SQLiteTaskRepo) FetchAll(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, sqliteSelect)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Insert(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	id := uuid.New().String()
	now := nowUTC()

	cols := in.Columns()
	names := []string{"id"}
	args := []any{id}
	for _, c := range cols {
		names = append(names, c.Name)
		args = append(args, c.Value)
	}
	names = append(names, "created_at", "updated_at")
	args = append(args, now, now)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	query := fmt.Sprintf(`INSERT INTO tasks (%s) VALUES (%s)`, strings.Join(names, ", "), placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}
	return r.getByID(ctx, id)
}

// Update checks the row exists and writes the patch in one transaction.
func (r *SQLiteTaskRepo) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("updating task %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("checking task %s: %w", id, err)
		}

		cols := patch.Columns()
		if len(cols) == 0 {
			return nil
		}
		sets := make([]string, 0, len(cols)+1)
		args := make([]any, 0, len(cols)+2)
		for _, c := range cols {
			sets = append(sets, c.Name+" = ?")
			args = append(args, c.Value)
		}
		sets = append(sets, "updated_at = ?")
		args = append(args, nowUTC(), id)

		query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("updating task %s: %w", id, err)
		}
		return nil
	})
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting task %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteTaskRepo) getByID(ctx context.Context, id string) (*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, sqliteSelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting task %s: %w", id, err)
		}
		return nil, fmt.Errorf("getting task %s: %w", id, ErrNotFound)
	}
	return scanSQLiteTask(rows)
}

func scanSQLiteTask(rows *sql.Rows) (*domain.Task, error) {
	var (
		t                                    domain.Task
		assignee, dueDate, deps, riskFactors sql.NullString
		priority                             string
		progress, delay                      sql.NullInt64
		createdAt, updatedAt                 string
	)
	err := rows.Scan(&t.ID, &t.TaskName, &assignee, &dueDate, &priority, &progress,
		&delay, &deps, &riskFactors, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Assignee = assignee.String
	t.DueDate = parseNullableTime(dueDate, domain.DateLayout)
	t.Priority = domain.Priority(priority)
	t.Progress = nullableIntFromSQL(progress)
	t.PastDelayDays = nullableIntFromSQL(delay)
	t.Dependencies = deps.String
	t.RiskFactors = riskFactors.String
	t.CreatedAt = parseTimestamp(createdAt)
	t.UpdatedAt = parseTimestamp(updatedAt)
	return &t, nil
}
