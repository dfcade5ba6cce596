package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/mlfs/internal/access"
	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/record"
)

// readOnlyFields are computed by the client and never typed in.
var readOnlyFields = map[string]bool{
	fields.FieldFundsApproved:     true,
	fields.FieldCostEffectiveness: true,
}

// Binding ties one huh field to one record field. The huh field edits a
// local buffer; Commit writes the buffer back through the session.
type Binding struct {
	Section  string
	Row      int
	Field    domain.FieldDescriptor
	Widget   Widget
	Editable bool

	session *Session
	text    string
	flag    bool
	// explicit is set when a boolean was assigned rather than left as is.
	explicit bool
	unset    bool
	field    huh.Field
}

// RenderField binds a section field. The field is read-only when the user
// may not edit it or the session is disabled.
func RenderField(w Widget, s *Session, f domain.FieldDescriptor, editable []string, permitted bool, section string) *Binding {
	b := &Binding{Section: section, Row: -1, Field: f, Widget: w, session: s}
	b.init(editable, permitted)
	return b
}

// RenderRowField binds a field of one repeatable row.
func RenderRowField(w Widget, s *Session, f domain.FieldDescriptor, editable []string, permitted bool, section string, row int) *Binding {
	b := &Binding{Section: section, Row: row, Field: f, Widget: w, session: s}
	b.init(editable, permitted)
	return b
}

func (b *Binding) init(editable []string, permitted bool) {
	b.Editable = access.FieldEditable(permitted, editable, b.Field.Name(), b.session.Disabled()) &&
		!readOnlyFields[b.Field.Name()]

	current := b.current()
	switch b.Widget.(type) {
	case BooleanWidget:
		b.flag = current == true
	case DropDownWidget:
		b.text = optionKey(current)
	default:
		b.text = str(current)
	}

	if !b.Editable {
		b.field = huh.NewNote().
			Title(b.title()).
			Description(b.Widget.Format(b.Field, current) + b.errorSuffix())
		return
	}
	b.field = b.Widget.input(b)
}

func (b *Binding) current() any {
	if b.Row >= 0 {
		rows := b.session.record.Rows[b.Section]
		if b.Row >= len(rows) {
			return nil
		}
		if b.Field.Name() == fields.FieldSubstanceChoice {
			if key := record.CurrentSubstanceKey(rows[b.Row]); key != "" {
				return key
			}
			return nil
		}
		return rows[b.Row][b.Field.Name()]
	}
	return b.session.Get(b.Section, b.Field.Name())
}

// HuhField returns the huh field to place in a group.
func (b *Binding) HuhField() huh.Field { return b.field }

// Name is the record key this binding writes.
func (b *Binding) Name() string { return b.Field.Name() }

// Commit writes the edited value back through the session when it differs
// from the record. Read-only bindings never write.
func (b *Binding) Commit() error {
	if !b.Editable {
		return nil
	}
	next, err := b.value()
	if err != nil {
		return fmt.Errorf("%s: %w", b.Field.Label, err)
	}
	cur := b.current()
	if sameValue(cur, next) {
		return nil
	}

	switch {
	case b.Row >= 0 && b.Field.Name() == fields.FieldSubstanceChoice:
		key, ok := next.(string)
		if next != nil && !ok {
			return fmt.Errorf("%s: expected a substance or blend key, got %v", b.Field.Label, next)
		}
		if err := b.session.ChooseSubstance(b.Section, b.Row, key); err != nil {
			return fmt.Errorf("%s: %w", b.Field.Label, err)
		}
		return nil
	case b.Row >= 0:
		b.session.SetRowField(b.Section, b.Row, b.Field.Name(), next)
	default:
		b.session.Set(b.Section, b.Field.Name(), next)
	}
	return nil
}

func (b *Binding) value() (any, error) {
	switch b.Widget.(type) {
	case BooleanWidget:
		if b.unset {
			return nil, nil
		}
		// A confirm cannot express "unset"; an untouched unset value stays nil.
		if !b.explicit && b.current() == nil && !b.flag {
			return nil, nil
		}
		return b.flag, nil
	default:
		return b.Widget.Parse(b.Field, b.text)
	}
}

// SetText assigns user text to the binding's buffer, as a scripted edit
// would. The value is parsed immediately so errors surface per field.
func (b *Binding) SetText(raw string) error {
	v, err := b.Widget.Parse(b.Field, raw)
	if err != nil {
		return err
	}
	switch b.Widget.(type) {
	case BooleanWidget:
		b.flag = v == true
		b.unset = v == nil
		b.explicit = true
	case DropDownWidget:
		b.text = optionKey(v)
	default:
		b.text = str(v)
	}
	return nil
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return (a == nil || a == "") && (b == nil || b == "")
	}
	return fmt.Sprint(domain.NormalizeID(a)) == fmt.Sprint(domain.NormalizeID(b))
}

func (b *Binding) title() string {
	if b.session.ShowError(b.Field.Name()) {
		return b.Field.Label + " !"
	}
	return b.Field.Label
}

func (b *Binding) description() string {
	return strings.TrimPrefix(b.errorSuffix(), "\n")
}

func (b *Binding) errorSuffix() string {
	if !b.session.ShowError(b.Field.Name()) {
		return ""
	}
	return "\n" + strings.Join(b.session.FieldErrors(b.Field.Name()), " ")
}
