package fields

import (
	"fmt"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// FormatOptions returns the field's options in the uniform {id, name} shape.
// Options decoded from the API are already normalized, so calling this on
// its own output yields the same list.
func FormatOptions(f domain.FieldDescriptor) []domain.Option {
	out := make([]domain.Option, 0, len(f.Options))
	for _, o := range f.Options {
		out = append(out, domain.Option{ID: domain.NormalizeID(o.ID), Name: o.Name})
	}
	return out
}

// NormalizeOptions converts loosely typed option values, as found in
// generic JSON documents, into options. Each item may be an Option, a
// {"id", "name"} map or an [id, name] tuple; anything else is skipped.
func NormalizeOptions(raw []any) []domain.Option {
	out := make([]domain.Option, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case domain.Option:
			out = append(out, domain.Option{ID: domain.NormalizeID(v.ID), Name: v.Name})
		case map[string]any:
			out = append(out, domain.Option{ID: domain.NormalizeID(v["id"]), Name: toName(v["name"])})
		case []any:
			if len(v) >= 2 {
				out = append(out, domain.Option{ID: domain.NormalizeID(v[0]), Name: toName(v[1])})
			}
		}
	}
	return out
}

func toName(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ResolveOptionID finds the option matching value. A string value is first
// matched against option names (entity payloads store display names for
// legacy drop-downs), then against ids. No match means no selection.
func ResolveOptionID(options []domain.Option, value any) any {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok {
		if s == "" {
			return nil
		}
		for _, o := range options {
			if o.Name == s {
				return o.ID
			}
		}
	}
	for _, o := range options {
		if domain.SameID(o.ID, value) {
			return o.ID
		}
	}
	return nil
}

// OptionName returns the display name of the option with the given id, or
// "" when there is none.
func OptionName(options []domain.Option, id any) string {
	if id == nil {
		return ""
	}
	for _, o := range options {
		if domain.SameID(o.ID, id) {
			return o.Name
		}
	}
	return ""
}
