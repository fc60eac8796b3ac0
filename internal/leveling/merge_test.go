package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/testutil"
)

func TestMergeSnapshot_OverridesAmountAndNotes(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	sub := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	bid := testutil.NewTestBid("p1", trade.ID, sub.ID, testutil.WithAmount(150_000), testutil.WithNotes("revised"))

	live := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{sub}, []*domain.Bid{bid})
	items := []domain.SnapshotItem{
		{ID: "i1", SnapshotID: "snap1", TradeID: trade.ID, SubID: sub.ID,
			BaseBidAmount: testutil.Money(140_000), Notes: "as frozen"},
	}

	effective := MergeSnapshot(live, items)

	cell := effective.BidsByTradeSub[CellKey(trade.ID, sub.ID)]
	require.NotNil(t, cell)
	assert.True(t, cell.Bid.BaseBidAmount.Equal(*testutil.Money(140_000)), "amount comes from the item")
	assert.Equal(t, "as frozen", cell.Bid.Notes)
	assert.Equal(t, bid.ID, cell.Bid.ID, "live identity passes through")
	assert.Equal(t, domain.BidSubmitted, cell.Bid.Status, "live status passes through")
}

func TestMergeSnapshot_DoesNotMutateLive(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	sub := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	bid := testutil.NewTestBid("p1", trade.ID, sub.ID, testutil.WithAmount(150_000))

	live := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{sub}, []*domain.Bid{bid})
	items := []domain.SnapshotItem{
		{ID: "i1", SnapshotID: "snap1", TradeID: trade.ID, SubID: sub.ID,
			BaseBidAmount: testutil.Money(1)},
	}

	_ = MergeSnapshot(live, items)

	liveCell := live.BidsByTradeSub[CellKey(trade.ID, sub.ID)]
	assert.True(t, liveCell.Bid.BaseBidAmount.Equal(*testutil.Money(150_000)),
		"returning to live view must show the matrix as before selection")
}

// Scenario: snapshot taken with SubA at $50,000 and SubB empty; SubB's bid
// is then deleted and a SubC bid added. The snapshot view must show exactly
// SubA at $50,000 and SubB empty, and never SubC.
func TestMergeSnapshot_HistoricalShape(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Trade1", 1)
	subA := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("SubA"), 1)
	subB := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("SubB"), 2)
	subC := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("SubC"), 3)

	// Live state after the edits: SubB's bid removed, SubC added.
	liveBids := []*domain.Bid{
		testutil.NewTestBid("p1", trade.ID, subA.ID, testutil.WithAmount(50_000)),
		testutil.NewTestBid("p1", trade.ID, subC.ID, testutil.WithAmount(47_000)),
	}
	live := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{subA, subB, subC}, liveBids)

	items := []domain.SnapshotItem{
		{ID: "iA", SnapshotID: "snap1", TradeID: trade.ID, SubID: subA.ID, BaseBidAmount: testutil.Money(50_000)},
		{ID: "iB", SnapshotID: "snap1", TradeID: trade.ID, SubID: subB.ID},
	}

	effective := MergeSnapshot(live, items)

	cells := effective.BidsByTradeID[trade.ID]
	require.Len(t, cells, 2)

	cellA := effective.BidsByTradeSub[CellKey(trade.ID, subA.ID)]
	require.NotNil(t, cellA)
	assert.True(t, cellA.Bid.BaseBidAmount.Equal(*testutil.Money(50_000)))

	cellB := effective.BidsByTradeSub[CellKey(trade.ID, subB.ID)]
	require.NotNil(t, cellB)
	assert.Nil(t, cellB.Bid.BaseBidAmount, "empty frozen cell stays empty")

	_, hasC := effective.BidsByTradeSub[CellKey(trade.ID, subC.ID)]
	assert.False(t, hasC, "a sub added after the freeze never appears in history")
}

func TestMergeSnapshot_PlaceholderForRemovedPairing(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	live := BuildMatrix([]*domain.Trade{trade}, nil, nil)

	items := []domain.SnapshotItem{
		{ID: "item9", SnapshotID: "snap1", TradeID: trade.ID, SubID: "gone-sub",
			BaseBidAmount: testutil.Money(80_000), Notes: "was here"},
	}

	effective := MergeSnapshot(live, items)

	cell := effective.BidsByTradeSub[CellKey(trade.ID, "gone-sub")]
	require.NotNil(t, cell)
	assert.Equal(t, PlaceholderIDPrefix+"item9", cell.Bid.ID)
	assert.Equal(t, domain.BidSubmitted, cell.Bid.Status)
	assert.Equal(t, "was here", cell.Bid.Notes)
}

func TestMergeSnapshot_RecomputesLows(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	subA := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	subB := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Best"), 2)

	// Live: A is low. Frozen amounts flip it: B was low at freeze time.
	liveBids := []*domain.Bid{
		testutil.NewTestBid("p1", trade.ID, subA.ID, testutil.WithAmount(90_000)),
		testutil.NewTestBid("p1", trade.ID, subB.ID, testutil.WithAmount(100_000)),
	}
	live := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{subA, subB}, liveBids)
	require.True(t, live.BidsByTradeSub[CellKey(trade.ID, subA.ID)].IsLow)

	items := []domain.SnapshotItem{
		{ID: "iA", SnapshotID: "s", TradeID: trade.ID, SubID: subA.ID, BaseBidAmount: testutil.Money(110_000)},
		{ID: "iB", SnapshotID: "s", TradeID: trade.ID, SubID: subB.ID, BaseBidAmount: testutil.Money(100_000)},
	}
	effective := MergeSnapshot(live, items)

	assert.False(t, effective.BidsByTradeSub[CellKey(trade.ID, subA.ID)].IsLow)
	assert.True(t, effective.BidsByTradeSub[CellKey(trade.ID, subB.ID)].IsLow)
}

func TestMergeSnapshot_PlaceholderNeverMarkedLow(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	subA := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	subGone := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Gone Corp"), 2)

	// Live: only A remains; the other sub's pairing was removed after the
	// freeze, but its frozen amount was the trade low.
	liveBids := []*domain.Bid{
		testutil.NewTestBid("p1", trade.ID, subA.ID, testutil.WithAmount(100_000)),
	}
	live := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{subA}, liveBids)

	items := []domain.SnapshotItem{
		{ID: "iA", SnapshotID: "s", TradeID: trade.ID, SubID: subA.ID, BaseBidAmount: testutil.Money(100_000)},
		{ID: "iGone", SnapshotID: "s", TradeID: trade.ID, SubID: subGone.ID, BaseBidAmount: testutil.Money(80_000)},
	}
	effective := MergeSnapshot(live, items)

	placeholder := effective.BidsByTradeSub[CellKey(trade.ID, subGone.ID)]
	require.NotNil(t, placeholder)
	assert.False(t, placeholder.IsLow, "synthesized cells never carry the low flag")
	assert.False(t, effective.BidsByTradeSub[CellKey(trade.ID, subA.ID)].IsLow,
		"the trade low is the frozen amount, which no live cell matches")

	// When a live cell holds the frozen low, it keeps the flag.
	items[1].BaseBidAmount = testutil.Money(120_000)
	effective = MergeSnapshot(live, items)
	assert.True(t, effective.BidsByTradeSub[CellKey(trade.ID, subA.ID)].IsLow)
	assert.False(t, effective.BidsByTradeSub[CellKey(trade.ID, subGone.ID)].IsLow)
}

func TestBuildSnapshotItems_FullCrossProduct(t *testing.T) {
	trade1 := testutil.NewTestTrade("p1", "Concrete", 1)
	trade2 := testutil.NewTestTrade("p1", "Roofing", 2)
	subA := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	subB := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Best"), 2)

	bids := []*domain.Bid{
		testutil.NewTestBid("p1", trade1.ID, subA.ID, testutil.WithAmount(50_000), testutil.WithNotes("firm price")),
	}
	live := BuildMatrix([]*domain.Trade{trade1, trade2}, []*domain.ProjectSub{subA, subB}, bids)

	n := 0
	items := BuildSnapshotItems(live, "snap1", "award review", func() string {
		n++
		return "id" + string(rune('0'+n))
	})

	require.Len(t, items, 4, "one item per trade x dedup-sub pair")

	byKey := make(map[string]domain.SnapshotItem)
	for _, item := range items {
		assert.Equal(t, "snap1", item.SnapshotID)
		byKey[CellKey(item.TradeID, item.SubID)] = item
	}

	populated := byKey[CellKey(trade1.ID, subA.ID)]
	require.NotNil(t, populated.BaseBidAmount)
	assert.True(t, populated.BaseBidAmount.Equal(*testutil.Money(50_000)))
	assert.Equal(t, "award review / firm price", populated.Notes)

	empty := byKey[CellKey(trade2.ID, subB.ID)]
	assert.Nil(t, empty.BaseBidAmount, "never-bid cells are frozen with null amounts")
	assert.Equal(t, "award review", empty.Notes)
}
