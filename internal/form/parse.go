package form

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// Assignment is one scripted edit, "section.field=value" or
// "section[row].field=value" for repeatable rows.
type Assignment struct {
	Section string
	Row     int
	Field   string
	Raw     string
}

// ParseAssignment splits one --set argument.
func ParseAssignment(s string) (Assignment, error) {
	path, raw, ok := strings.Cut(s, "=")
	if !ok {
		return Assignment{}, fmt.Errorf("assignment %q: expected section.field=value", s)
	}
	section, field, ok := strings.Cut(strings.TrimSpace(path), ".")
	if !ok || section == "" || field == "" {
		return Assignment{}, fmt.Errorf("assignment %q: expected section.field=value", s)
	}
	a := Assignment{Section: section, Row: -1, Field: field, Raw: raw}
	if open := strings.IndexByte(section, '['); open > 0 && strings.HasSuffix(section, "]") {
		var row int
		if _, err := fmt.Sscanf(section[open+1:len(section)-1], "%d", &row); err != nil || row < 1 {
			return Assignment{}, fmt.Errorf("assignment %q: row index must be a positive number", s)
		}
		a.Section = section[:open]
		a.Row = row - 1
	}
	return a, nil
}

// String renders the assignment back in flag form.
func (a Assignment) String() string {
	if a.Row >= 0 {
		return fmt.Sprintf("%s[%d].%s=%s", a.Section, a.Row+1, a.Field, a.Raw)
	}
	return fmt.Sprintf("%s.%s=%s", a.Section, a.Field, a.Raw)
}

// ParseValue converts raw text into the stored value for f.
func ParseValue(f domain.FieldDescriptor, raw string) (any, error) {
	w, err := WidgetFor(f.DataType)
	if err != nil {
		return nil, err
	}
	return w.Parse(f, raw)
}

// Apply performs scripted assignments against the session, checking that
// each target section is visible and each field is editable. Rows past the
// end of a repeatable section are appended.
func Apply(s *Session, sections []Section, perms domain.Permissions, assignments []Assignment) error {
	permitted := SectionPermitted(s.Kind(), s.record.Status, perms)
	for _, a := range assignments {
		sec, ok := FindSection(sections, a.Section)
		if !ok {
			return fmt.Errorf("%s: unknown or hidden section %q", a, a.Section)
		}
		var desc *domain.FieldDescriptor
		for i := range sec.Fields {
			if sec.Fields[i].Name() == a.Field {
				desc = &sec.Fields[i]
				break
			}
		}
		if desc == nil {
			return fmt.Errorf("%s: no field %q in section %s", a, a.Field, a.Section)
		}

		var b *Binding
		w, err := WidgetFor(desc.DataType)
		if err != nil {
			return err
		}
		switch {
		case sec.Repeatable:
			if a.Row < 0 {
				return fmt.Errorf("%s: section %s needs a row index", a, a.Section)
			}
			for len(s.record.Rows[sec.Key]) <= a.Row {
				s.AddRow(sec.Key, sec.Fields)
			}
			b = RenderRowField(w, s, *desc, perms.EditableFields, permitted, sec.Key, a.Row)
		default:
			b = RenderField(w, s, *desc, perms.EditableFields, permitted, sec.Key)
		}
		if !b.Editable {
			return fmt.Errorf("%s: field is read-only", a)
		}
		if err := b.SetText(a.Raw); err != nil {
			return fmt.Errorf("%s: %w", a, err)
		}
		if err := b.Commit(); err != nil {
			return fmt.Errorf("%s: %w", a, err)
		}
	}
	return nil
}
