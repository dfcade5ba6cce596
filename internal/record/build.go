package record

import (
	"cmp"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
)

// SectionLayout tells Build where a group of fields lives in the record.
type SectionLayout struct {
	Key        string
	Fields     []domain.FieldDescriptor
	Repeatable bool
	Nested     bool
}

// Build creates a record for a form session. With a nil entity every
// section starts from default values ("create" flows); otherwise values are
// copied from the fetched entity ("edit"/"view" flows).
func Build(kind domain.RecordKind, layout []SectionLayout, entity domain.Values) domain.Record {
	r := domain.NewRecord(kind)
	for _, sec := range layout {
		if sec.Nested {
			r.Nested[sec.Key] = true
		}
		if sec.Repeatable {
			r.Rows[sec.Key] = buildRows(sec, entity)
			continue
		}
		src := entity
		if sec.Nested && entity != nil {
			src = nestedValues(entity[sec.Key])
		}
		vals := fields.DefaultValues(sec.Fields, src)
		// Nested sections reference another entity; keep its id.
		if sec.Nested && src != nil {
			if id, ok := domain.NormalizeID(src["id"]).(int); ok {
				vals["id"] = id
			}
		}
		r.Sections[sec.Key] = vals
	}
	if entity == nil {
		return r
	}
	if id, ok := domain.NormalizeID(entity["id"]).(int); ok {
		r.ID = &id
	}
	r.Status = domain.SubmissionStatus(cmp.Or(entity.Str("submission_status"), entity.Str("status")))
	if tr, ok := domain.NormalizeID(entity["tranche"]).(int); ok {
		r.Tranche = tr
	}
	return Derive(r)
}

func buildRows(sec SectionLayout, entity domain.Values) []domain.Values {
	if entity == nil {
		return []domain.Values{}
	}
	raw, _ := entity[sec.Key].([]any)
	rows := make([]domain.Values, 0, len(raw))
	for _, item := range raw {
		src := nestedValues(item)
		row := fields.DefaultValues(sec.Fields, src)
		row["id"] = domain.NormalizeID(src["id"])
		if key := CurrentSubstanceKey(src); key != "" {
			row, _ = ChooseSubstance(row, key)
		}
		rows = append(rows, row)
	}
	return rows
}

func nestedValues(v any) domain.Values {
	switch m := v.(type) {
	case map[string]any:
		return domain.Values(m)
	case domain.Values:
		return m
	default:
		return domain.Values{}
	}
}

// Relayout fits r to a new layout, as when the field descriptor set changes
// after a cluster, type or sector is picked. Values of fields present in
// both layouts are kept, rows of repeatable sections are kept, and new
// fields start from their defaults.
func Relayout(r domain.Record, layout []SectionLayout) domain.Record {
	prev := r.Clone()
	out := r.Clone()
	out.Sections = make(map[string]domain.Values, len(layout))
	out.Rows = map[string][]domain.Values{}
	out.Nested = map[string]bool{}
	for _, sec := range layout {
		if sec.Nested {
			out.Nested[sec.Key] = true
		}
		if sec.Repeatable {
			rows := prev.Rows[sec.Key]
			if rows == nil {
				rows = []domain.Values{}
			}
			out.Rows[sec.Key] = rows
			continue
		}
		vals := fields.DefaultValues(sec.Fields, nil)
		old := prev.Sections[sec.Key]
		for k := range vals {
			if v, ok := old[k]; ok {
				vals[k] = v
			}
		}
		if id, ok := old["id"]; ok && sec.Nested {
			vals["id"] = id
		}
		out.Sections[sec.Key] = vals
	}
	return Derive(out)
}
