package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/mlfs/internal/db"
)

// FailingExecUoW runs transactions like the real unit of work but fails
// the first statement containing Match with Err. Reads are untouched.
type FailingExecUoW struct {
	DB    *sql.DB
	Match string
	Err   error
}

func (u *FailingExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingExec{DBTX: tx, match: u.Match, err: u.Err})
	})
}

type failingExec struct {
	db.DBTX
	match  string
	err    error
	failed bool
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !f.failed && strings.Contains(query, f.match) {
		f.failed = true
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
