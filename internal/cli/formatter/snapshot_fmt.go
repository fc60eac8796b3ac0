package formatter

import (
	"github.com/colemturner/bidlevel/internal/domain"
)

// FormatSnapshotList renders the snapshot history for a project, newest first.
func FormatSnapshotList(snapshots []*domain.LevelingSnapshot) string {
	headers := []string{"ID", "TITLE", "CREATED", "BY"}
	rows := make([][]string, 0, len(snapshots))

	for _, s := range snapshots {
		by := Dim("--")
		if s.CreatedBy != "" {
			by = StyleFg.Render(s.CreatedBy)
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Title),
			HumanDate(s.CreatedAt),
			by,
		})
	}

	table := RenderTable(headers, rows)
	return RenderBox("Snapshots", table)
}
