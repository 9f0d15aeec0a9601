package testutil

import (
	"context"
	"database/sql"

	"github.com/alexanderramin/riskboard/internal/db"
)

// ExecFaultUoW wraps a real unit of work and makes the Nth ExecContext call
// inside each transaction fail with Err. Reads are passed through, so a
// repository gets as far as its write before the failure lands and the
// transaction is rolled back.
type ExecFaultUoW struct {
	Inner  db.UnitOfWork
	FailOn int
	Err    error
}

// NewExecFaultUoW fails the first write of every transaction on database.
func NewExecFaultUoW(database *sql.DB, err error) *ExecFaultUoW {
	return &ExecFaultUoW{Inner: db.NewSQLiteUnitOfWork(database), FailOn: 1, Err: err}
}

func (u *ExecFaultUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &faultyTx{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type faultyTx struct {
	db.DBTX
	execs  int
	failOn int
	err    error
}

func (f *faultyTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execs++
	if f.execs == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
