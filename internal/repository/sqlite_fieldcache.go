package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/mlfs/internal/db"
	"github.com/alexanderramin/mlfs/internal/domain"
)

// SQLiteFieldCacheRepo implements FieldCacheRepo using a SQLite database.
type SQLiteFieldCacheRepo struct {
	db db.DBTX
}

// NewSQLiteFieldCacheRepo creates a new SQLiteFieldCacheRepo.
func NewSQLiteFieldCacheRepo(conn db.DBTX) *SQLiteFieldCacheRepo {
	return &SQLiteFieldCacheRepo{db: conn}
}

func (r *SQLiteFieldCacheRepo) Get(ctx context.Context, key string) (*CachedFields, error) {
	var raw, fetched string
	err := r.db.QueryRowContext(ctx,
		`SELECT fields_json, fetched_at FROM field_cache WHERE cache_key = ?`, key,
	).Scan(&raw, &fetched)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("field cache %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("reading field cache: %w", err)
	}

	var fs []domain.FieldDescriptor
	if err := json.Unmarshal([]byte(raw), &fs); err != nil {
		return nil, fmt.Errorf("decoding cached fields %s: %w", key, err)
	}
	return &CachedFields{Fields: fs, FetchedAt: parseTimestamp(fetched)}, nil
}

func (r *SQLiteFieldCacheRepo) Put(ctx context.Context, key string, fs []domain.FieldDescriptor) error {
	data, err := json.Marshal(fs)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO field_cache (cache_key, fields_json, fetched_at) VALUES (?, ?, ?)`,
		key, string(data), timestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("writing field cache: %w", err)
	}
	return nil
}

func (r *SQLiteFieldCacheRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM field_cache WHERE cache_key = ?`, key); err != nil {
		return fmt.Errorf("deleting field cache %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteFieldCacheRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM field_cache`); err != nil {
		return fmt.Errorf("clearing field cache: %w", err)
	}
	return nil
}
