package db_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/mlfs/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

const insertDraft = `INSERT INTO drafts (id, kind, record_json, created_at, updated_at) VALUES (?, 'project', '{}', '', '')`

// countRows counts rows of a table through a read-only transaction.
func countRows(t *testing.T, uow *db.SQLiteUnitOfWork, table string) int {
	t.Helper()
	var n int
	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	})
	require.NoError(t, err)
	return n
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertDraft, "d1"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO draft_touched_fields (draft_id, field_name) VALUES (?, ?)`, "d1", "title")
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, uow, "drafts"))
	assert.Equal(t, 1, countRows(t, uow, "draft_touched_fields"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertDraft, "d2"); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.Equal(t, 0, countRows(t, uow, "drafts"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertDraft, "d3")
			panic("boom")
		})
	})
	assert.Equal(t, 0, countRows(t, uow, "drafts"))
}

func TestWithinTx_TouchedFieldsCascade(t *testing.T) {
	uow := openTestUoW(t)
	ctx := context.Background()

	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertDraft, "d4"); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO draft_touched_fields (draft_id, field_name) VALUES ('d4', 'title'), ('d4', 'sector')`)
		return err
	}))
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM drafts WHERE id = 'd4'`)
		return err
	}))
	assert.Equal(t, 0, countRows(t, uow, "draft_touched_fields"))
}
