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

// SQLiteSessionProfileRepo implements SessionProfileRepo using a SQLite database.
type SQLiteSessionProfileRepo struct {
	db db.DBTX
}

// NewSQLiteSessionProfileRepo creates a new SQLiteSessionProfileRepo.
func NewSQLiteSessionProfileRepo(conn db.DBTX) *SQLiteSessionProfileRepo {
	return &SQLiteSessionProfileRepo{db: conn}
}

func (r *SQLiteSessionProfileRepo) Get(ctx context.Context) (*domain.SessionProfile, error) {
	var (
		p       domain.SessionProfile
		raw     string
		fetched string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT base_url, permissions_json, fetched_at FROM session_profile WHERE id = 1`,
	).Scan(&p.BaseURL, &raw, &fetched)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session profile: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &p.Permissions); err != nil {
		return nil, fmt.Errorf("decoding permissions: %w", err)
	}
	p.FetchedAt = parseTimestamp(fetched)
	return &p, nil
}

func (r *SQLiteSessionProfileRepo) Upsert(ctx context.Context, p *domain.SessionProfile) error {
	data, err := json.Marshal(p.Permissions)
	if err != nil {
		return fmt.Errorf("encoding permissions: %w", err)
	}
	fetched := p.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now().UTC().Truncate(time.Second)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO session_profile (id, base_url, username, permissions_json, fetched_at)
		VALUES (1, ?, ?, ?, ?)`,
		p.BaseURL, p.Permissions.Username, string(data), timestamp(fetched),
	)
	if err != nil {
		return fmt.Errorf("upserting session profile: %w", err)
	}
	return nil
}

func (r *SQLiteSessionProfileRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_profile`); err != nil {
		return fmt.Errorf("clearing session profile: %w", err)
	}
	return nil
}
