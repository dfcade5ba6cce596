// Package access decides which fields a user may see or edit. The field
// lists come from the session's permission set; section-level permission
// flags are combined with these checks by the caller.
package access

import (
	"slices"
	"strings"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// CanViewField reports whether name is in the viewable field list.
func CanViewField(viewable []string, name string) bool {
	return slices.Contains(viewable, name)
}

// CanEditField reports whether name is in the editable field list.
func CanEditField(editable []string, name string) bool {
	return slices.Contains(editable, name)
}

// FieldEditable combines a section or record level permission with the
// field-level check and the ambient disabled flag.
func FieldEditable(permitted bool, editable []string, name string, disabled bool) bool {
	return permitted && !disabled && CanEditField(editable, name)
}

// MatchAttribute selects which descriptor attribute HasFields compares.
type MatchAttribute string

const (
	MatchSection MatchAttribute = "section"
	MatchTable   MatchAttribute = "table"
)

type hasFieldsConfig struct {
	substring bool
	exclude   []string
	attribute MatchAttribute
}

// HasFieldsOption configures HasFields.
type HasFieldsOption func(*hasFieldsConfig)

// MatchBySubstring matches when the attribute contains the name instead of
// equalling it.
func MatchBySubstring() HasFieldsOption {
	return func(c *hasFieldsConfig) { c.substring = true }
}

// Excluding ignores the named fields.
func Excluding(names ...string) HasFieldsOption {
	return func(c *hasFieldsConfig) { c.exclude = append(c.exclude, names...) }
}

// MatchOn compares the given attribute instead of the section.
func MatchOn(attr MatchAttribute) HasFieldsOption {
	return func(c *hasFieldsConfig) { c.attribute = attr }
}

// HasFields reports whether at least one field matching name on the chosen
// attribute, and not excluded, has its write name in viewable. A section
// for which this is false contributes no tab or heading.
func HasFields(all []domain.FieldDescriptor, viewable []string, name string, opts ...HasFieldsOption) bool {
	cfg := hasFieldsConfig{attribute: MatchSection}
	for _, opt := range opts {
		opt(&cfg)
	}

	for _, f := range all {
		if slices.Contains(cfg.exclude, f.Name()) {
			continue
		}
		attr := f.Section
		if cfg.attribute == MatchTable {
			attr = f.Table
		}
		matched := attr == name
		if cfg.substring {
			matched = strings.Contains(attr, name)
		}
		if matched && CanViewField(viewable, f.Name()) {
			return true
		}
	}
	return false
}

// ViewableFields filters fields down to those the user may see.
func ViewableFields(all []domain.FieldDescriptor, viewable []string) []domain.FieldDescriptor {
	var out []domain.FieldDescriptor
	for _, f := range all {
		if CanViewField(viewable, f.Name()) {
			out = append(out, f)
		}
	}
	return out
}
