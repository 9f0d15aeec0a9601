package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is the part of *pgxpool.Pool the repo uses.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresTaskRepo implements TaskRepo directly against the hosted Postgres
// database behind the REST API. IDs are compared as text so both bigint and
// uuid keys work.
type PostgresTaskRepo struct {
	pool    pgxQuerier
	table   string
	timeout time.Duration
}

// NewPostgresTaskRepo creates a repo for table. A zero timeout leaves calls
// bounded only by the caller's context.
func NewPostgresTaskRepo(pool pgxQuerier, table string, timeout time.Duration) *PostgresTaskRepo {
	return &PostgresTaskRepo{pool: pool, table: quoteTable(table), timeout: timeout}
}

func quoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

func pgSelectList() string {
	cols := make([]string, 0, len(taskColumns)+1)
	cols = append(cols, "id::text")
	for _, c := range taskColumns {
		if c == "due_date" {
			c = "due_date::text"
		}
		cols = append(cols, c)
	}
	return strings.Join(cols, ", ")
}

func (r *PostgresTaskRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresTaskRepo) FetchAll(ctx context.Context) ([]*domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+pgSelectList()+` FROM `+r.table)
	if err != nil {
		return nil, pgError("listing tasks", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanPgTask(rows)
		if err != nil {
			return nil, pgError("scanning task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError("iterating tasks", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepo) Insert(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args := buildPgInsert(r.table, in.Columns())
	t, err := scanPgTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, pgError("inserting task", err)
	}
	return t, nil
}

func (r *PostgresTaskRepo) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cols := patch.Columns()
	if len(cols) == 0 {
		var one int
		err := r.pool.QueryRow(ctx, `SELECT 1 FROM `+r.table+` WHERE id::text = $1`, id).Scan(&one)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("updating task %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return pgError("checking task "+id, err)
		}
		return nil
	}

	query, args := buildPgUpdate(r.table, id, cols)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return pgError("updating task "+id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating task %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *PostgresTaskRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM `+r.table+` WHERE id::text = $1`, id)
	if err != nil {
		return pgError("deleting task "+id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deleting task %s: %w", id, ErrNotFound)
	}
	return nil
}

func buildPgInsert(table string, cols []domain.Column) (string, []any) {
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = c.Value
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		table, strings.Join(names, ", "), strings.Join(params, ", "), pgSelectList())
	return query, args
}

func buildPgUpdate(table, id string, cols []domain.Column) (string, []any) {
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c.Name, i+1)
		args = append(args, c.Value)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id::text = $%d`, table, strings.Join(sets, ", "), len(args))
	return query, args
}

func scanPgTask(row pgx.Row) (*domain.Task, error) {
	var (
		t                                              domain.Task
		name, assignee, dueDate, prio, deps, riskNotes *string
		progress, delay                                *int
	)
	// Scan errors are returned as is so callers classify them once.
	if err := row.Scan(&t.ID, &name, &assignee, &dueDate, &prio, &progress, &delay, &deps, &riskNotes); err != nil {
		return nil, err
	}
	t.TaskName = deref(name)
	t.Assignee = deref(assignee)
	if dueDate != nil {
		t.DueDate = parseDate(*dueDate, domain.DateLayout)
	}
	t.Priority = domain.Priority(deref(prio))
	t.Progress = progress
	t.PastDelayDays = delay
	t.Dependencies = deref(deps)
	t.RiskFactors = deref(riskNotes)
	return &t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// pgError classifies a pgx error: server rejections become *StoreError,
// connection failures wrap ErrStoreUnavailable.
func pgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{
			Op:      op,
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
