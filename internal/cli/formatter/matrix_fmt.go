package formatter

import (
	"fmt"
	"strings"

	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/leveling"
)

// FormatMatrix renders the leveling grid: one row per trade, one column per
// invited sub, with the trade's budget alongside. The low bid in each trade
// is marked with a star. Cells without a bid render as a dimmed dash.
func FormatMatrix(m *leveling.Matrix, budgets map[string]*domain.Budget) string {
	headers := make([]string, 0, len(m.Subs)+2)
	headers = append(headers, "TRADE", "BUDGET")
	for _, sub := range m.Subs {
		headers = append(headers, strings.ToUpper(sub.CompanyName))
	}

	rows := make([][]string, 0, len(m.Trades))
	for _, trade := range m.Trades {
		row := make([]string, 0, len(headers))
		row = append(row, Bold(trade.Name))

		if b, ok := budgets[trade.ID]; ok && b.Amount != nil {
			row = append(row, StyleFg.Render(MoneyPlain(*b.Amount)))
		} else {
			row = append(row, Dim("--"))
		}

		for _, sub := range m.Subs {
			cell := m.BidsByTradeSub[leveling.CellKey(trade.ID, sub.ID)]
			row = append(row, formatCell(cell))
		}
		rows = append(rows, row)
	}

	return RenderTable(headers, rows)
}

func formatCell(cell *leveling.Cell) string {
	if cell == nil {
		return Dim("--")
	}
	bid := cell.Bid
	if bid.BaseBidAmount == nil {
		return cellStatusMark(bid.Status)
	}
	amount := MoneyPlain(*bid.BaseBidAmount)
	if cell.IsLow {
		return StyleGreen.Render("★ " + amount)
	}
	return StyleFg.Render(amount)
}

func cellStatusMark(status domain.BidStatus) string {
	switch status {
	case domain.BidInvited:
		return StyleBlue.Render("invited")
	case domain.BidBidding:
		return StyleYellow.Render("bidding")
	case domain.BidDeclined:
		return Dim("declined")
	case domain.BidNoResponse:
		return Dim("no resp")
	default:
		return Dim(string(status))
	}
}

// FormatTradeStats renders the per-trade roll-up table: low bid, spread and
// coverage with a risk flag on thin or widely spread trades.
func FormatTradeStats(m *leveling.Matrix) string {
	headers := []string{"TRADE", "LOW", "SPREAD", "COVERAGE", ""}
	rows := make([][]string, 0, len(m.Trades))

	for _, trade := range m.Trades {
		stats := m.Stats(trade.ID)

		low := Dim("--")
		if stats.Low != nil {
			low = StyleGreen.Render(MoneyPlain(*stats.Low))
		}

		spread := Dim("--")
		if stats.SpreadAmount != nil {
			spread = MoneyPlain(*stats.SpreadAmount)
			if stats.SpreadPercent != nil {
				spread += Dim(fmt.Sprintf(" (%.0f%%)", *stats.SpreadPercent))
			}
		}

		flag := ""
		if stats.AtRisk() {
			flag = StyleRed.Render("▲ risk")
		}

		rows = append(rows, []string{
			Bold(trade.Name),
			low,
			spread,
			fmt.Sprintf("%d bids", stats.CoverageCount),
			flag,
		})
	}

	return RenderTable(headers, rows)
}

// FormatMatrixView renders the full matrix view: the grid, the trade
// roll-ups, and an optional snapshot banner when viewing historical state.
func FormatMatrixView(m *leveling.Matrix, budgets map[string]*domain.Budget, snapshot *domain.LevelingSnapshot) string {
	var b strings.Builder

	if snapshot != nil {
		banner := fmt.Sprintf("Viewing snapshot %q from %s (read-only)", snapshot.Title, HumanDate(snapshot.CreatedAt))
		b.WriteString(StyleYellow.Render(banner))
		b.WriteString("\n\n")
	}

	b.WriteString(FormatMatrix(m, budgets))
	b.WriteString("\n")
	b.WriteString(FormatTradeStats(m))

	return b.String()
}
