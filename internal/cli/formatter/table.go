package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable aligns rows under styled headers. Widths are measured on
// visible text, so styled cells line up. A cell holding several lines
// (free-text remarks) makes its row that many lines tall.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	split := make([][][]string, len(rows))
	for r, row := range rows {
		split[r] = make([][]string, len(headers))
		for c := range headers {
			if c < len(row) {
				split[r][c] = strings.Split(row[c], "\n")
			}
		}
	}
	widths := columnWidths(headers, split)

	var b strings.Builder
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = StyleHeader.Render(h)
	}
	writeLine(&b, styled, widths)

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	writeLine(&b, rule, widths)

	for _, cells := range split {
		height := 1
		for _, lines := range cells {
			height = max(height, len(lines))
		}
		for l := 0; l < height; l++ {
			line := make([]string, len(cells))
			for c, lines := range cells {
				if l < len(lines) {
					line[c] = lines[l]
				}
			}
			writeLine(&b, line, widths)
		}
	}
	return b.String()
}

func columnWidths(headers []string, rows [][][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, cells := range rows {
		for c, lines := range cells {
			for _, l := range lines {
				widths[c] = max(widths[c], lipgloss.Width(l))
			}
		}
	}
	return widths
}

// writeLine pads every cell but the last to its column width.
func writeLine(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", max(0, widths[i]-lipgloss.Width(cell))+colGap))
		}
	}
	b.WriteString("\n")
}
