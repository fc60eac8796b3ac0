package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/testutil"
)

func TestCellKey(t *testing.T) {
	assert.Equal(t, "t1:s1", CellKey("t1", "s1"))
}

func TestBuildMatrix_EveryTradeKeyed(t *testing.T) {
	trade1 := testutil.NewTestTrade("p1", "Concrete", 1)
	trade2 := testutil.NewTestTrade("p1", "Roofing", 2)

	m := BuildMatrix([]*domain.Trade{trade1, trade2}, nil, nil)

	require.Contains(t, m.BidsByTradeID, trade1.ID)
	require.Contains(t, m.BidsByTradeID, trade2.ID)
	assert.Empty(t, m.BidsByTradeID[trade1.ID], "empty trade still gets a key")
}

func TestBuildMatrix_DedupsSubsFirstSeen(t *testing.T) {
	acme := testutil.NewTestSubcontractor("Acme Electric")
	first := testutil.NewTestProjectSub("p1", acme, 1)
	second := testutil.NewTestProjectSub("p1", acme, 2) // same company, invited again

	m := BuildMatrix(nil, []*domain.ProjectSub{first, second}, nil)

	require.Len(t, m.Subs, 1)
	assert.Equal(t, first.ID, m.Subs[0].ID, "first occurrence wins")
}

func TestBuildMatrix_SortsCellsByCompanyName(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	zeta := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Zeta Power"), 1)
	alpha := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("alpha electric"), 2)
	mid := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Midline Co"), 3)

	bids := []*domain.Bid{
		testutil.NewTestBid("p1", trade.ID, zeta.ID, testutil.WithAmount(100)),
		testutil.NewTestBid("p1", trade.ID, alpha.ID, testutil.WithAmount(110)),
		testutil.NewTestBid("p1", trade.ID, mid.ID, testutil.WithAmount(120)),
	}
	m := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{zeta, alpha, mid}, bids)

	cells := m.BidsByTradeID[trade.ID]
	require.Len(t, cells, 3)
	assert.Equal(t, alpha.ID, cells[0].Bid.SubID, "sort is case-insensitive")
	assert.Equal(t, mid.ID, cells[1].Bid.SubID)
	assert.Equal(t, zeta.ID, cells[2].Bid.SubID)
}

func TestBuildMatrix_CellLookup(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	sub := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	bid := testutil.NewTestBid("p1", trade.ID, sub.ID, testutil.WithAmount(100))

	m := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{sub}, []*domain.Bid{bid})

	cell, ok := m.BidsByTradeSub[CellKey(trade.ID, sub.ID)]
	require.True(t, ok)
	assert.Equal(t, bid.ID, cell.Bid.ID)
}

func TestBuildMatrix_DropsOrphanBids(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	sub := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	orphan := testutil.NewTestBid("p1", "gone-trade", sub.ID, testutil.WithAmount(100))
	stray := testutil.NewTestBid("p1", trade.ID, "gone-sub", testutil.WithAmount(100))

	m := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{sub}, []*domain.Bid{orphan, stray})

	assert.Empty(t, m.BidsByTradeID[trade.ID])
	assert.Empty(t, m.BidsByTradeSub)
}

func TestBuildMatrix_MarksLowBid(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	subA := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	subB := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Best Bid"), 2)
	subC := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Cheap Co"), 3)

	bids := []*domain.Bid{
		testutil.NewTestBid("p1", trade.ID, subA.ID, testutil.WithAmount(120_000)),
		testutil.NewTestBid("p1", trade.ID, subB.ID, testutil.WithAmount(100_000)),
		testutil.NewTestBid("p1", trade.ID, subC.ID, testutil.WithStatus(domain.BidInvited)),
	}
	m := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{subA, subB, subC}, bids)

	assert.False(t, m.BidsByTradeSub[CellKey(trade.ID, subA.ID)].IsLow)
	assert.True(t, m.BidsByTradeSub[CellKey(trade.ID, subB.ID)].IsLow)
	assert.False(t, m.BidsByTradeSub[CellKey(trade.ID, subC.ID)].IsLow, "unpriced cell is never low")
}

func TestMatrixStats_PureAcrossCalls(t *testing.T) {
	trade := testutil.NewTestTrade("p1", "Electrical", 1)
	sub := testutil.NewTestProjectSub("p1", testutil.NewTestSubcontractor("Acme"), 1)
	bid := testutil.NewTestBid("p1", trade.ID, sub.ID, testutil.WithAmount(100))

	m := BuildMatrix([]*domain.Trade{trade}, []*domain.ProjectSub{sub}, []*domain.Bid{bid})

	first := m.Stats(trade.ID)
	second := m.Stats(trade.ID)
	assert.Equal(t, first.CoverageCount, second.CoverageCount)
	assert.True(t, first.Low.Equal(*second.Low))
}
