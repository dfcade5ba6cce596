package formatter

import (
	"strconv"
	"time"

	"github.com/alexanderramin/mlfs/internal/domain"
)

// FormatDraftList renders locally saved drafts, newest first.
func FormatDraftList(drafts []*domain.Draft, now time.Time) string {
	if len(drafts) == 0 {
		return RenderBox("Drafts", Dim("No drafts saved."))
	}
	headers := []string{"ID", "KIND", "RECORD", "TITLE", "STATUS", "CHANGED", "UPDATED"}
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		title := d.Title
		if title == "" {
			title = "Untitled"
		}
		rows = append(rows, []string{
			TruncID(d.ID),
			StylePurple.Render(KindLabel(d.Kind)),
			RecordID(d.RecordID),
			Bold(Truncate(title, 32)),
			StatusPill(d.Status),
			StyleFg.Render(changedCount(len(d.Touched))),
			HumanTimestampFrom(d.UpdatedAt, now),
		})
	}
	return RenderBox("Drafts", RenderTable(headers, rows))
}

func changedCount(n int) string {
	if n == 1 {
		return "1 field"
	}
	return strconv.Itoa(n) + " fields"
}
