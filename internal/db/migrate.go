package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Field descriptors per (cluster, type, sector[, project]) query.
	`CREATE TABLE IF NOT EXISTS field_cache (
		cache_key   TEXT PRIMARY KEY,
		fields_json TEXT NOT NULL,
		fetched_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS drafts (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL
		            CHECK(kind IN ('project','enterprise','project_enterprise')),
		record_id   INTEGER,
		title       TEXT NOT NULL DEFAULT '',
		record_json TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_drafts_kind_record ON drafts(kind, record_id)`,

	`CREATE TABLE IF NOT EXISTS draft_touched_fields (
		draft_id   TEXT NOT NULL REFERENCES drafts(id) ON DELETE CASCADE,
		field_name TEXT NOT NULL,
		PRIMARY KEY (draft_id, field_name)
	)`,

	// Single-row table: the permission set of the last authenticated user.
	`CREATE TABLE IF NOT EXISTS session_profile (
		id               INTEGER PRIMARY KEY CHECK(id = 1),
		base_url         TEXT NOT NULL,
		username         TEXT NOT NULL DEFAULT '',
		permissions_json TEXT NOT NULL,
		fetched_at       TEXT NOT NULL
	)`,

	`ALTER TABLE drafts ADD COLUMN field_query TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE drafts ADD COLUMN status TEXT NOT NULL DEFAULT ''`,
}
