package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the style for a workflow status.
func StatusStyle(s domain.SubmissionStatus) lipgloss.Style {
	switch s {
	case domain.StatusApproved:
		return StyleGreen
	case domain.StatusSubmitted, domain.StatusRecommended, domain.StatusPendingApproval:
		return StyleBlue
	case domain.StatusNotApproved:
		return StyleRed
	case domain.StatusWithdrawn, domain.StatusObsolete:
		return StyleDim
	default:
		return StyleYellow
	}
}

// StatusPill returns a colored status indicator such as "● Submitted".
func StatusPill(s domain.SubmissionStatus) string {
	if s == "" {
		return StyleDim.Render("○ New")
	}
	switch s {
	case domain.StatusWithdrawn, domain.StatusObsolete, domain.StatusNotApproved:
		return StatusStyle(s).Render("✖ " + string(s))
	case domain.StatusApproved:
		return StatusStyle(s).Render("✔ " + string(s))
	default:
		return StatusStyle(s).Render("● " + string(s))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
