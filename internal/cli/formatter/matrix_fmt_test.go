package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/leveling"
)

func buildTestMatrix() *leveling.Matrix {
	trade := &domain.Trade{ID: "t1", ProjectID: "p1", Name: "Electrical", SortOrder: 1}
	subA := &domain.ProjectSub{ID: "ps1", ProjectID: "p1", SubcontractorID: "s1", CompanyName: "Acme Electric", SortOrder: 1}
	subB := &domain.ProjectSub{ID: "ps2", ProjectID: "p1", SubcontractorID: "s2", CompanyName: "Bolt Power", SortOrder: 2}

	low := dec("100000")
	high := dec("120000")
	bids := []*domain.Bid{
		{ID: "b1", ProjectID: "p1", TradeID: "t1", SubID: "ps1", Status: domain.BidSubmitted, BaseBidAmount: &low},
		{ID: "b2", ProjectID: "p1", TradeID: "t1", SubID: "ps2", Status: domain.BidSubmitted, BaseBidAmount: &high},
	}

	return leveling.BuildMatrix(
		[]*domain.Trade{trade},
		[]*domain.ProjectSub{subA, subB},
		bids,
	)
}

func TestFormatMatrix_MarksLowBid(t *testing.T) {
	m := buildTestMatrix()
	out := FormatMatrix(m, nil)

	lines := strings.Split(out, "\n")
	var tradeLine string
	for _, l := range lines {
		if strings.Contains(l, "Electrical") {
			tradeLine = l
		}
	}
	assert.NotEmpty(t, tradeLine)
	assert.Contains(t, tradeLine, "★ $100,000")
	assert.Contains(t, tradeLine, "$120,000")
}

func TestFormatMatrix_ShowsBudgetColumn(t *testing.T) {
	m := buildTestMatrix()
	amount := dec("110000")
	budgets := map[string]*domain.Budget{
		"t1": {ProjectID: "p1", TradeID: "t1", Amount: &amount},
	}

	out := FormatMatrix(m, budgets)
	assert.Contains(t, out, "$110,000")
	assert.Contains(t, out, "BUDGET")
}

func TestFormatMatrixView_SnapshotBanner(t *testing.T) {
	m := buildTestMatrix()
	snap := &domain.LevelingSnapshot{
		ID:        "snap1",
		Title:     "Pre-award review",
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	out := FormatMatrixView(m, nil, snap)
	assert.Contains(t, out, "Pre-award review")
	assert.Contains(t, out, "read-only")

	live := FormatMatrixView(m, nil, nil)
	assert.NotContains(t, live, "read-only")
}

func TestFormatTradeStats_FlagsRisk(t *testing.T) {
	trade := &domain.Trade{ID: "t1", ProjectID: "p1", Name: "Roofing", SortOrder: 1}
	sub := &domain.ProjectSub{ID: "ps1", ProjectID: "p1", SubcontractorID: "s1", CompanyName: "Topline", SortOrder: 1}
	amount := dec("80000")
	m := leveling.BuildMatrix(
		[]*domain.Trade{trade},
		[]*domain.ProjectSub{sub},
		[]*domain.Bid{{ID: "b1", ProjectID: "p1", TradeID: "t1", SubID: "ps1", Status: domain.BidSubmitted, BaseBidAmount: &amount}},
	)

	// A single bid is thin coverage.
	out := FormatTradeStats(m)
	assert.Contains(t, out, "risk")
	assert.Contains(t, out, "1 bids")
}
