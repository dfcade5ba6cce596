// Package fields turns the API's field metadata into the lookups the form
// composer and validators need: section membership, default values,
// normalized drop-down options and label mappings.
package fields

import (
	"slices"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// SortFields returns a copy of fields stably sorted by sort order, with a
// nil sort order treated as 0. Fields with equal order keep server order.
func SortFields(fields []domain.FieldDescriptor) []domain.FieldDescriptor {
	out := slices.Clone(fields)
	slices.SortStableFunc(out, func(a, b domain.FieldDescriptor) int {
		return a.Order() - b.Order()
	})
	return out
}

// SectionFields returns the fields whose section equals section exactly,
// preserving their order in fields.
func SectionFields(fields []domain.FieldDescriptor, section string) []domain.FieldDescriptor {
	var out []domain.FieldDescriptor
	for _, f := range fields {
		if f.Section == section {
			out = append(out, f)
		}
	}
	return out
}

// Sections lists the distinct section names in first-seen order.
func Sections(fields []domain.FieldDescriptor) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range fields {
		if !seen[f.Section] {
			seen[f.Section] = true
			out = append(out, f.Section)
		}
	}
	return out
}

// DefaultValues builds the initial values for fields. Without an existing
// entity, drop-down and boolean fields start as nil and everything else as
// "". With an entity, each field copies the entity's value under its read
// name; drop-downs are resolved from the stored display name back to the
// matching option id.
func DefaultValues(fields []domain.FieldDescriptor, existing domain.Values) domain.Values {
	out := make(domain.Values, len(fields))
	for _, f := range fields {
		if existing == nil {
			out[f.Name()] = emptyValue(f.DataType)
			continue
		}
		val := existing[f.ReadName()]
		if f.DataType == domain.DataDropDown {
			out[f.Name()] = dropDownDefault(f, val)
			continue
		}
		out[f.Name()] = val
	}
	return out
}

// dropDownDefault resolves an entity value to an option id. Lookup fields
// whose options are not loaded keep a numeric id as is.
func dropDownDefault(f domain.FieldDescriptor, val any) any {
	if len(f.Options) == 0 {
		if id, ok := domain.NormalizeID(val).(int); ok {
			return id
		}
		return nil
	}
	return ResolveOptionID(FormatOptions(f), val)
}

func emptyValue(dt domain.DataType) any {
	switch dt {
	case domain.DataDropDown, domain.DataBoolean:
		return nil
	default:
		return ""
	}
}

// LabelMapping maps each field's write name to its label.
func LabelMapping(fields []domain.FieldDescriptor) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Name()] = f.Label
	}
	return out
}

// ByName indexes fields by write name.
func ByName(fields []domain.FieldDescriptor) map[string]domain.FieldDescriptor {
	out := make(map[string]domain.FieldDescriptor, len(fields))
	for _, f := range fields {
		out[f.Name()] = f
	}
	return out
}

// WithOptions returns a copy of fields where the named field carries opts.
func WithOptions(fields []domain.FieldDescriptor, name string, opts []domain.Option) []domain.FieldDescriptor {
	out := slices.Clone(fields)
	for i := range out {
		if out[i].Name() == name {
			out[i].Options = slices.Clone(opts)
		}
	}
	return out
}
