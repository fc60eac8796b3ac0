package formatter

import (
	"fmt"
	"strings"

	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/leveling"
)

const coverageBarWidth = 10

// FormatCoverage renders the project coverage dashboard: the health badge,
// the coverage score with a bar, awaiting-response count and the list of
// thin trades needing attention.
func FormatCoverage(project *domain.Project, report leveling.CoverageReport, health domain.ProjectHealth) string {
	var b strings.Builder

	b.WriteString(Bold(project.Name))
	if project.DueDate != nil {
		b.WriteString(Dim("  due "))
		b.WriteString(RelativeDateStyled(*project.DueDate))
	}
	b.WriteString("\n")
	b.WriteString(HealthIndicator(health))
	b.WriteString("\n\n")

	bar := RenderProgress(float64(report.CoveragePct)/100, coverageBarWidth)
	b.WriteString(fmt.Sprintf("Coverage %s  %s\n",
		bar,
		Dim(fmt.Sprintf("(%d of %d target bids)", report.CoverageNumerator, report.CoverageDenominator))))
	b.WriteString(fmt.Sprintf("Awaiting %s\n",
		StyleBlue.Render(fmt.Sprintf("%d responses", report.AwaitingResponsesCount))))

	if len(report.TradesThin) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleYellow.Render(fmt.Sprintf("%d thin trades:", len(report.TradesThin))))
		b.WriteString("\n")
		for _, trade := range report.TradesThin {
			b.WriteString(fmt.Sprintf("  %s %s\n", StyleYellow.Render("▲"), trade.Name))
		}
	}

	return RenderBox("Bid Coverage", strings.TrimRight(b.String(), "\n"))
}

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "DUE"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		dueStr := Dim("--")
		if p.DueDate != nil {
			dueStr = RelativeDateStyled(*p.DueDate)
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Name),
			dueStr,
		})
	}

	table := RenderTable(headers, rows)
	return RenderBox("Projects", table)
}
