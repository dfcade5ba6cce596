package repository

import (
	"database/sql"
	"time"
)

// Timestamps are stored as RFC3339 text in UTC, to the second.

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTimestamp reads a timestamp column; a malformed value reads as the
// zero time, which every cache treats as stale.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// recordIDColumn stores an unsaved record's missing id as NULL.
func recordIDColumn(id *int) sql.Null[int] {
	if id == nil {
		return sql.Null[int]{}
	}
	return sql.Null[int]{V: *id, Valid: true}
}

func recordIDFrom(n sql.Null[int]) *int {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}
