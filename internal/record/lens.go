// Package record holds the single mutation path for form records. Every
// function returns a new Record with exactly the requested change applied
// and all sibling data preserved; the input is never modified.
package record

import (
	"github.com/alexanderramin/mlfs/internal/domain"
)

// Set writes value under field. An empty section writes a top-level key,
// otherwise the key inside that section.
func Set(r domain.Record, section, field string, value any) domain.Record {
	out := r.Clone()
	if section == "" {
		out.Values[field] = value
		return out
	}
	vals := out.Sections[section]
	if vals == nil {
		vals = domain.Values{}
	}
	vals[field] = value
	out.Sections[section] = vals
	return out
}

// Merge shallow-merges values into a section.
func Merge(r domain.Record, section string, values domain.Values) domain.Record {
	out := r.Clone()
	target := out.Values
	if section != "" {
		target = out.Sections[section]
		if target == nil {
			target = domain.Values{}
		}
	}
	for k, v := range values {
		target[k] = v
	}
	if section != "" {
		out.Sections[section] = target
	}
	return out
}

// ReplaceSection swaps a whole section's values.
func ReplaceSection(r domain.Record, section string, values domain.Values) domain.Record {
	out := r.Clone()
	out.Sections[section] = values.Clone()
	return out
}

// SetRowField writes one field of the row at index in a repeatable section.
// An out-of-range index leaves the record unchanged.
func SetRowField(r domain.Record, section string, index int, field string, value any) domain.Record {
	rows := r.Rows[section]
	if index < 0 || index >= len(rows) {
		return r
	}
	out := r.Clone()
	out.Rows[section][index][field] = value
	return out
}

// SetRow replaces the row at index.
func SetRow(r domain.Record, section string, index int, row domain.Values) domain.Record {
	rows := r.Rows[section]
	if index < 0 || index >= len(rows) {
		return r
	}
	out := r.Clone()
	out.Rows[section][index] = row.Clone()
	return out
}
