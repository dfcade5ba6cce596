package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/fields"
	"github.com/alexanderramin/mlfs/internal/record"
	"github.com/alexanderramin/mlfs/internal/validation"
)

// noneKey is the select key for "no selection" on drop-downs.
const noneKey = ""

// Widget renders one data type. The set of widgets is closed: the
// unexported method keeps other packages from adding cases.
type Widget interface {
	DataType() domain.DataType
	// Format renders a stored value for display.
	Format(f domain.FieldDescriptor, v any) string
	// Parse converts user text into the stored value.
	Parse(f domain.FieldDescriptor, raw string) (any, error)

	input(b *Binding) huh.Field
}

type (
	TextWidget     struct{}
	NumberWidget   struct{}
	DecimalWidget  struct{}
	BooleanWidget  struct{}
	DropDownWidget struct{}
)

// WidgetFor returns the widget for a data type.
func WidgetFor(dt domain.DataType) (Widget, error) {
	switch dt {
	case domain.DataText:
		return TextWidget{}, nil
	case domain.DataNumber:
		return NumberWidget{}, nil
	case domain.DataDecimal:
		return DecimalWidget{}, nil
	case domain.DataBoolean:
		return BooleanWidget{}, nil
	case domain.DataDropDown:
		return DropDownWidget{}, nil
	default:
		return nil, fmt.Errorf("no widget for data type %q", dt)
	}
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (TextWidget) DataType() domain.DataType { return domain.DataText }

func (TextWidget) Format(_ domain.FieldDescriptor, v any) string { return str(v) }

func (TextWidget) Parse(f domain.FieldDescriptor, raw string) (any, error) {
	if err := textValidator(f)(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func textValidator(f domain.FieldDescriptor) func(string) error {
	if f.Name() == fields.FieldStartDate || f.Name() == fields.FieldEndDate {
		return validation.OptionalDateInput
	}
	return func(string) error { return nil }
}

func (TextWidget) input(b *Binding) huh.Field {
	validate := textValidator(b.Field)
	return huh.NewInput().
		Title(b.title()).
		Description(b.description()).
		Placeholder(b.Field.Label).
		Value(&b.text).
		Validate(validate)
}

func (NumberWidget) DataType() domain.DataType { return domain.DataNumber }

func (NumberWidget) Format(_ domain.FieldDescriptor, v any) string { return str(v) }

// Parse keeps whole numbers as the text the user typed so that values
// round-trip unchanged.
func (NumberWidget) Parse(_ domain.FieldDescriptor, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if err := validation.IntegerInput(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (NumberWidget) input(b *Binding) huh.Field {
	return huh.NewInput().
		Title(b.title()).
		Description(b.description()).
		Placeholder("0").
		Value(&b.text).
		Validate(validation.IntegerInput)
}

func (DecimalWidget) DataType() domain.DataType { return domain.DataDecimal }

func (DecimalWidget) Format(_ domain.FieldDescriptor, v any) string { return str(v) }

// Parse preserves the decimal string; no float conversion happens.
func (DecimalWidget) Parse(_ domain.FieldDescriptor, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if err := validation.DecimalInput(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (DecimalWidget) input(b *Binding) huh.Field {
	return huh.NewInput().
		Title(b.title()).
		Description(b.description()).
		Placeholder("0.00").
		Value(&b.text).
		Validate(validation.DecimalInput)
}

func (BooleanWidget) DataType() domain.DataType { return domain.DataBoolean }

func (BooleanWidget) Format(_ domain.FieldDescriptor, v any) string {
	switch v {
	case true:
		return "Yes"
	case false:
		return "No"
	default:
		return "-"
	}
}

func (BooleanWidget) Parse(_ domain.FieldDescriptor, raw string) (any, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	switch raw {
	case "", "null", "none":
		return nil, nil
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("expected yes or no, got %q", raw)
	}
	return b, nil
}

func (BooleanWidget) input(b *Binding) huh.Field {
	return huh.NewConfirm().
		Title(b.title()).
		Description(b.description()).
		Affirmative("Yes").
		Negative("No").
		Value(&b.flag)
}

func (DropDownWidget) DataType() domain.DataType { return domain.DataDropDown }

func (DropDownWidget) Format(f domain.FieldDescriptor, v any) string {
	if v == nil {
		return "-"
	}
	if name := fields.OptionName(fields.FormatOptions(f), v); name != "" {
		return name
	}
	return str(v)
}

// Parse accepts either an option id or an option name. Lookups whose
// options are not loaded take a numeric id, or a substance_N/blend_N key
// for the substance choice.
func (DropDownWidget) Parse(f domain.FieldDescriptor, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	opts := fields.FormatOptions(f)
	if len(opts) == 0 {
		if f.Name() == fields.FieldSubstanceChoice {
			if err := substanceKeyInput(raw); err != nil {
				return nil, fmt.Errorf("%s: %w", f.Label, err)
			}
			return raw, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s takes a numeric id, got %q", f.Label, raw)
		}
		return n, nil
	}
	for _, o := range opts {
		if optionKey(o.ID) == raw {
			return o.ID, nil
		}
	}
	if id := fields.ResolveOptionID(opts, raw); id != nil {
		return id, nil
	}
	return nil, fmt.Errorf("%q is not an option of %s", raw, f.Label)
}

func substanceKeyInput(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	_, _, err := record.ParseSubstanceKey(strings.TrimSpace(raw))
	return err
}

func optionKey(id any) string {
	if id == nil {
		return noneKey
	}
	return fmt.Sprint(domain.NormalizeID(id))
}

func (DropDownWidget) input(b *Binding) huh.Field {
	opts := fields.FormatOptions(b.Field)
	if len(opts) == 0 {
		placeholder, validate := "id", validation.IntegerInput
		if b.Field.Name() == fields.FieldSubstanceChoice {
			placeholder, validate = "substance_1 or blend_1", substanceKeyInput
		}
		return huh.NewInput().
			Title(b.title()).
			Description(b.description()).
			Placeholder(placeholder).
			Value(&b.text).
			Validate(validate)
	}
	choices := make([]huh.Option[string], 0, len(opts)+1)
	choices = append(choices, huh.NewOption("-", noneKey))
	for _, o := range opts {
		choices = append(choices, huh.NewOption(o.Name, optionKey(o.ID)))
	}
	return huh.NewSelect[string]().
		Title(b.title()).
		Description(b.description()).
		Options(choices...).
		Value(&b.text)
}
