package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mlfs/internal/domain"
	"github.com/alexanderramin/mlfs/internal/form"
)

// FieldValue formats a field value with the widget of its data type.
func FieldValue(f domain.FieldDescriptor, v any) string {
	w, err := form.WidgetFor(f.DataType)
	if err != nil {
		return fmt.Sprint(v)
	}
	return w.Format(f, v)
}

// RecordHeading renders "Project #12  Title  ● Draft".
func RecordHeading(r domain.Record) string {
	name := r.Name()
	if name == "" {
		name = "Untitled"
	}
	return fmt.Sprintf("%s %s  %s  %s", Bold(KindLabel(r.Kind)), RecordID(r.ID), StyleFg.Render(name), StatusPill(r.Status))
}

// FormatSection renders one section's fields as label/value lines, with the
// session's errors under the field they belong to. Errors are shown only
// once the session has been submitted.
func FormatSection(s *form.Session, sec form.Section) string {
	if sec.Repeatable {
		return formatRows(s, sec)
	}
	if len(sec.Fields) == 0 {
		return Dim("No fields.")
	}
	rows := make([][]string, 0, len(sec.Fields))
	for _, f := range sec.Fields {
		rows = append(rows, fieldRow(f, s.Get(sec.Key, f.Name()), s.ShowError(f.Name()), s.FieldErrors(f.Name())))
	}
	return RenderTable([]string{"FIELD", "VALUE"}, rows)
}

func fieldRow(f domain.FieldDescriptor, v any, show bool, errs []string) []string {
	val := FieldValue(f, v)
	if val == "" {
		val = Dim("--")
	}
	if show && len(errs) > 0 {
		val += "  " + StyleRed.Render("! "+strings.Join(errs, "; "))
	}
	return []string{StyleDim.Render(f.Label), val}
}

func formatRows(s *form.Session, sec form.Section) string {
	rows := s.Record().Rows[sec.Key]
	if len(rows) == 0 {
		return Dim("No entries.")
	}
	rowErrs := s.RowErrors(sec.Key)
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StylePurple.Render(fmt.Sprintf("#%d", i+1)) + "\n")
		var errs domain.ErrorMap
		if i < len(rowErrs) {
			errs = rowErrs[i]
		}
		lines := make([][]string, 0, len(sec.Fields))
		for _, f := range sec.Fields {
			lines = append(lines, fieldRow(f, row[f.Name()], s.HasSubmitted(), errs[f.Name()]))
		}
		b.WriteString(RenderTable([]string{"FIELD", "VALUE"}, lines))
	}
	return b.String()
}

// FormatRecord renders every visible section of a session in order.
func FormatRecord(s *form.Session, sections []form.Section) string {
	var b strings.Builder
	b.WriteString(RecordHeading(s.Record()) + "\n\n")
	for _, sec := range sections {
		b.WriteString(Header(sec.Title) + "\n")
		b.WriteString(FormatSection(s, sec) + "\n")
	}
	if w := FormatWarnings(s.Warnings()); w != "" {
		b.WriteString(w)
	}
	return b.String()
}

// FormatWarnings lists non-blocking warnings, or "" when there are none.
func FormatWarnings(m domain.ErrorMap) string {
	if len(m) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render("Warnings:") + "\n")
	for _, key := range m.Keys() {
		for _, msg := range m[key] {
			b.WriteString(StyleYellow.Render("  ! ") + key + ": " + msg + "\n")
		}
	}
	return b.String()
}
