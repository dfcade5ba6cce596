package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/mlfs/internal/form"
	"github.com/alexanderramin/mlfs/internal/validation"
)

// FormatSessionErrors lists every error slot of a session: field errors
// under the section holding the field, then errors no visible section
// holds, then row, file and page-level messages. It returns "" when the
// session holds no errors.
func FormatSessionErrors(s *form.Session, sections []form.Section) string {
	labels := map[string]string{}
	for _, f := range form.AllFields(sections) {
		labels[f.Name()] = f.Label
	}

	var lines []string
	errs, rec := s.Errors(), s.Record()
	for _, sec := range sections {
		if sec.Repeatable {
			continue
		}
		own := validation.SectionErrors(rec.Section(sec.Key), errs)
		for _, m := range validation.FormatErrors(own, labels) {
			lines = append(lines, sec.Title+" > "+m.Message)
		}
		for k := range own {
			delete(errs, k)
		}
	}
	for _, m := range validation.FormatErrors(errs, labels) {
		lines = append(lines, m.Message)
	}
	for _, sec := range sections {
		for i, row := range s.RowErrors(sec.Key) {
			for _, m := range validation.FormatErrors(row, labels) {
				lines = append(lines, sec.Title+" #"+strconv.Itoa(i+1)+" "+m.Message)
			}
		}
	}
	for _, msg := range s.FileErrors() {
		lines = append(lines, "Files: "+msg)
	}
	lines = append(lines, s.OtherErrors()...)
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleRed.Render("Please fix the following:") + "\n")
	for _, l := range lines {
		b.WriteString(StyleRed.Render("  - ") + l + "\n")
	}
	return b.String()
}
