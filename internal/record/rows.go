package record

import (
	"slices"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
)

// AddRow appends a row seeded with default values for rowFields. New rows
// get a client-side id of len+1 and are marked local until saved.
func AddRow(r domain.Record, section string, rowFields []domain.FieldDescriptor) domain.Record {
	out := r.Clone()
	rows := out.Rows[section]
	row := fields.DefaultValues(rowFields, nil)
	row["id"] = len(rows) + 1
	row[domain.LocalRowKey] = true
	out.Rows[section] = append(slices.Clone(rows), row)
	return out
}

// RemoveRowAt drops the row at index. Used for unsaved rows, whose ids are
// positional and not stable.
func RemoveRowAt(r domain.Record, section string, index int) domain.Record {
	rows := r.Rows[section]
	if index < 0 || index >= len(rows) {
		return r
	}
	out := r.Clone()
	kept := make([]domain.Values, 0, len(rows)-1)
	for i, row := range out.Rows[section] {
		if i != index {
			kept = append(kept, row)
		}
	}
	out.Rows[section] = kept
	return out
}

// RemoveRowByID drops the saved row with the given server id. Local rows are
// never matched by id.
func RemoveRowByID(r domain.Record, section string, id int) domain.Record {
	out := r.Clone()
	kept := make([]domain.Values, 0, len(out.Rows[section]))
	for _, row := range out.Rows[section] {
		if !domain.IsLocalRow(row) && domain.SameID(row["id"], id) {
			continue
		}
		kept = append(kept, row)
	}
	out.Rows[section] = kept
	return out
}

// RemoveRow removes a row by id when it has a server id and by index
// otherwise.
func RemoveRow(r domain.Record, section string, index int) domain.Record {
	rows := r.Rows[section]
	if index < 0 || index >= len(rows) {
		return r
	}
	row := rows[index]
	if domain.IsLocalRow(row) {
		return RemoveRowAt(r, section, index)
	}
	id, ok := domain.NormalizeID(row["id"]).(int)
	if !ok {
		return RemoveRowAt(r, section, index)
	}
	return RemoveRowByID(r, section, id)
}
