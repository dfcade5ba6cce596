package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/mlfs/internal/db"
	"github.com/alexanderramin/mlfs/internal/domain"
)

// SQLiteDraftRepo implements DraftRepo using a SQLite database. Save writes
// two tables; run it inside a UnitOfWork to keep them consistent.
type SQLiteDraftRepo struct {
	db db.DBTX
}

// NewSQLiteDraftRepo creates a new SQLiteDraftRepo.
func NewSQLiteDraftRepo(conn db.DBTX) *SQLiteDraftRepo {
	return &SQLiteDraftRepo{db: conn}
}

const draftColumns = `id, kind, record_id, title, status, field_query, record_json, created_at, updated_at`

func (r *SQLiteDraftRepo) Save(ctx context.Context, d *domain.Draft) error {
	data, err := json.Marshal(d.Record)
	if err != nil {
		return fmt.Errorf("encoding draft record: %w", err)
	}
	query := `INSERT INTO drafts (` + draftColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			record_id = excluded.record_id,
			title = excluded.title,
			status = excluded.status,
			field_query = excluded.field_query,
			record_json = excluded.record_json,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		d.ID,
		string(d.Kind),
		recordIDColumn(d.RecordID),
		d.Title,
		string(d.Status),
		d.FieldQuery,
		string(data),
		timestamp(d.CreatedAt),
		timestamp(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving draft %s: %w", d.ID, err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM draft_touched_fields WHERE draft_id = ?`, d.ID); err != nil {
		return fmt.Errorf("clearing touched fields: %w", err)
	}
	for _, name := range d.Touched {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO draft_touched_fields (draft_id, field_name) VALUES (?, ?)`, d.ID, name,
		); err != nil {
			return fmt.Errorf("saving touched field %s: %w", name, err)
		}
	}
	return nil
}

func (r *SQLiteDraftRepo) GetByID(ctx context.Context, id string) (*domain.Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = ?`, id)
	d, err := scanDraft(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadTouched(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// FindByRecord returns the newest draft for a saved record, or for an
// unsaved record of the kind when recordID is nil.
func (r *SQLiteDraftRepo) FindByRecord(ctx context.Context, kind domain.RecordKind, recordID *int) (*domain.Draft, error) {
	var row *sql.Row
	if recordID == nil {
		row = r.db.QueryRowContext(ctx,
			`SELECT `+draftColumns+` FROM drafts WHERE kind = ? AND record_id IS NULL ORDER BY updated_at DESC LIMIT 1`,
			string(kind))
	} else {
		row = r.db.QueryRowContext(ctx,
			`SELECT `+draftColumns+` FROM drafts WHERE kind = ? AND record_id = ? ORDER BY updated_at DESC LIMIT 1`,
			string(kind), *recordID)
	}
	d, err := scanDraft(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadTouched(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *SQLiteDraftRepo) List(ctx context.Context) ([]*domain.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+draftColumns+` FROM drafts ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	var out []*domain.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}
	rows.Close()

	for _, d := range out {
		if err := r.loadTouched(ctx, d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteDraftRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteDraftRepo) loadTouched(ctx context.Context, d *domain.Draft) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT field_name FROM draft_touched_fields WHERE draft_id = ? ORDER BY field_name`, d.ID)
	if err != nil {
		return fmt.Errorf("loading touched fields: %w", err)
	}
	defer rows.Close()
	d.Touched = nil
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scanning touched field: %w", err)
		}
		d.Touched = append(d.Touched, name)
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (*domain.Draft, error) {
	var (
		d                 domain.Draft
		kind, status, raw string
		created, updated  string
		recordID          sql.Null[int]
	)
	err := s.Scan(&d.ID, &kind, &recordID, &d.Title, &status, &d.FieldQuery, &raw, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("draft: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning draft: %w", err)
	}
	d.Kind = domain.RecordKind(kind)
	d.Status = domain.SubmissionStatus(status)
	d.RecordID = recordIDFrom(recordID)
	d.CreatedAt = parseTimestamp(created)
	d.UpdatedAt = parseTimestamp(updated)

	if err := json.Unmarshal([]byte(raw), &d.Record); err != nil {
		return nil, fmt.Errorf("decoding draft record %s: %w", d.ID, err)
	}
	d.Record = normalizeRecord(d.Record)
	return &d, nil
}

// normalizeRecord restores ints that JSON decoding turned into float64 and
// allocates maps that were empty when stored.
func normalizeRecord(r domain.Record) domain.Record {
	out := domain.NewRecord(r.Kind)
	out.ID, out.Status, out.Tranche = r.ID, r.Status, r.Tranche
	for k, v := range r.Values {
		out.Values[k] = domain.NormalizeID(v)
	}
	for key, vals := range r.Sections {
		sec := domain.Values{}
		for k, v := range vals {
			sec[k] = domain.NormalizeID(v)
		}
		out.Sections[key] = sec
	}
	for key, rows := range r.Rows {
		list := make([]domain.Values, len(rows))
		for i, row := range rows {
			item := domain.Values{}
			for k, v := range row {
				item[k] = domain.NormalizeID(v)
			}
			list[i] = item
		}
		out.Rows[key] = list
	}
	for k, v := range r.Nested {
		out.Nested[k] = v
	}
	return out
}
