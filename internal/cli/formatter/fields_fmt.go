package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// FormatFieldList renders field descriptors grouped by section.
func FormatFieldList(fs []domain.FieldDescriptor) string {
	if len(fs) == 0 {
		return RenderBox("Fields", Dim("No specific fields for this combination."))
	}
	headers := []string{"SECTION", "FIELD", "LABEL", "TYPE", "TABLE", "OPTIONS"}
	rows := make([][]string, 0, len(fs))
	for _, f := range fs {
		table := Dim("--")
		if f.Table != "" {
			table = f.Table
		}
		kind := StyleBlue.Render(string(f.DataType))
		if f.IsActual {
			kind += " " + StyleYellow.Render("actual")
		}
		rows = append(rows, []string{
			StylePurple.Render(f.Section),
			f.Name(),
			StyleFg.Render(f.Label),
			kind,
			table,
			optionSummary(f.Options),
		})
	}
	return RenderBox("Fields", RenderTable(headers, rows))
}

func optionSummary(opts []domain.Option) string {
	if len(opts) == 0 {
		return Dim("--")
	}
	names := make([]string, 0, 3)
	for i, o := range opts {
		if i == 3 {
			break
		}
		names = append(names, o.Name)
	}
	s := strings.Join(names, ", ")
	if len(opts) > 3 {
		s += fmt.Sprintf(" (+%d)", len(opts)-3)
	}
	return s
}

// FormatPermissions renders the capability flags of a session profile.
func FormatPermissions(p domain.Permissions) string {
	flags := []struct {
		label string
		on    bool
	}{
		{"view projects", p.CanViewProjects},
		{"edit projects", p.CanEditProjects},
		{"submit projects", p.CanSubmitProjects},
		{"recommend projects", p.CanRecommendProjects},
		{"approve projects", p.CanApproveProjects},
		{"withdraw projects", p.CanWithdrawProjects},
		{"associate projects", p.CanAssociateProjects},
		{"delete projects", p.CanDeleteProjects},
		{"upload files", p.CanUploadFiles},
		{"view enterprises", p.CanViewEnterprises},
		{"edit enterprises", p.CanEditEnterprise},
		{"approve enterprises", p.CanApproveEnterprise},
		{"edit project enterprises", p.CanEditProjectEnterprise},
		{"approve project enterprises", p.CanApproveProjectEnterprise},
	}
	var b strings.Builder
	b.WriteString(Bold(p.Username) + "\n\n")
	for _, f := range flags {
		mark := StyleDim.Render("✖")
		if f.on {
			mark = StyleGreen.Render("✔")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mark, f.label))
	}
	b.WriteString(fmt.Sprintf("\n%s %d viewable, %d editable fields",
		Dim("FIELDS"), len(p.ViewableFields), len(p.EditableFields)))
	return RenderBox("Session", b.String())
}
