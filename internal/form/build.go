package form

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// ErrNothingToEdit is returned by BuildForm when no section has a field.
var ErrNothingToEdit = errors.New("nothing to edit")

// Bindings is the set of field bindings of one form.
type Bindings []*Binding

// Commit writes every binding back through the session and joins the
// parse errors.
func (bs Bindings) Commit() error {
	var errs []error
	for _, b := range bs {
		if err := b.Commit(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Editable reports whether any binding accepts input.
func (bs Bindings) Editable() bool {
	for _, b := range bs {
		if b.Editable {
			return true
		}
	}
	return false
}

// BindSection binds every field of a section, one binding per row field
// for repeatable sections.
func BindSection(s *Session, sec Section, perms domain.Permissions, permitted bool) (Bindings, error) {
	var out Bindings
	if sec.Repeatable {
		for i := range s.record.Rows[sec.Key] {
			for _, f := range sec.Fields {
				w, err := WidgetFor(f.DataType)
				if err != nil {
					return nil, err
				}
				out = append(out, RenderRowField(w, s, f, perms.EditableFields, permitted, sec.Key, i))
			}
		}
		return out, nil
	}
	for _, f := range sec.Fields {
		w, err := WidgetFor(f.DataType)
		if err != nil {
			return nil, err
		}
		out = append(out, RenderField(w, s, f, perms.EditableFields, permitted, sec.Key))
	}
	return out, nil
}

// BuildForm groups the bindings of each visible section into one huh group.
// Repeatable sections get one group per row.
func BuildForm(s *Session, sections []Section, perms domain.Permissions) (*huh.Form, Bindings, error) {
	permitted := SectionPermitted(s.Kind(), s.record.Status, perms)

	var groups []*huh.Group
	var all Bindings
	for _, sec := range sections {
		bs, err := BindSection(s, sec, perms, permitted)
		if err != nil {
			return nil, nil, fmt.Errorf("section %s: %w", sec.Key, err)
		}
		all = append(all, bs...)

		if !sec.Repeatable {
			if len(bs) > 0 {
				groups = append(groups, huh.NewGroup(huhFields(bs)...).Title(sec.Title))
			}
			continue
		}
		for i := range s.record.Rows[sec.Key] {
			var row Bindings
			for _, b := range bs {
				if b.Row == i {
					row = append(row, b)
				}
			}
			if len(row) > 0 {
				groups = append(groups, huh.NewGroup(huhFields(row)...).Title(fmt.Sprintf("%s #%d", sec.Title, i+1)))
			}
		}
	}
	if len(groups) == 0 {
		return nil, nil, ErrNothingToEdit
	}
	return huh.NewForm(groups...).WithShowHelp(false), all, nil
}

func huhFields(bs Bindings) []huh.Field {
	out := make([]huh.Field, len(bs))
	for i, b := range bs {
		out[i] = b.HuhField()
	}
	return out
}
