package leveling

import (
	"sort"
	"strings"

	"github.com/colemturner/bidlevel/internal/domain"
)

// CellKey builds the canonical composite key for one (trade, sub) cell of
// the matrix: the literal string join "tradeID:subID". Any alternate matrix
// representation (nested maps, tuple keys) must stay substitutable with this
// rule, so it lives in exactly one place.
func CellKey(tradeID, subID string) string {
	return tradeID + ":" + subID
}

// Cell is one entry of the leveling matrix: a bid plus display flags derived
// from its trade's statistics.
type Cell struct {
	Bid *domain.Bid
	// IsLow marks the cell holding the trade's lowest priced bid. Placeholder
	// cells synthesized from snapshot items are never marked low at merge
	// time; lows are recomputed on the effective matrix.
	IsLow bool
}

// Matrix is the assembled trade × sub bid matrix for one project. Every
// trade appears in BidsByTradeID even with zero bids, so consumers never
// branch on missing keys.
type Matrix struct {
	Trades []*domain.Trade
	// Subs is the invitation list deduplicated by underlying subcontractor,
	// first occurrence kept, stable with respect to invitation order.
	Subs []*domain.ProjectSub
	// BidsByTradeID holds each trade's cells sorted by sub company name,
	// case-insensitive.
	BidsByTradeID map[string][]*Cell
	// BidsByTradeSub indexes cells by CellKey for O(1) lookup.
	BidsByTradeSub map[string]*Cell
}

// BuildMatrix assembles the live matrix from raw rows. Bids referencing a
// trade or sub not present in the inputs are dropped rather than surfaced:
// the matrix only ever has cells for known rows.
func BuildMatrix(trades []*domain.Trade, subs []*domain.ProjectSub, bids []*domain.Bid) *Matrix {
	m := &Matrix{
		Trades:         trades,
		Subs:           dedupSubs(subs),
		BidsByTradeID:  make(map[string][]*Cell, len(trades)),
		BidsByTradeSub: make(map[string]*Cell),
	}

	tradeKnown := make(map[string]bool, len(trades))
	for _, t := range trades {
		tradeKnown[t.ID] = true
		m.BidsByTradeID[t.ID] = []*Cell{}
	}
	nameBySubID := make(map[string]string, len(m.Subs))
	for _, s := range m.Subs {
		nameBySubID[s.ID] = s.CompanyName
	}

	for _, b := range bids {
		if !tradeKnown[b.TradeID] {
			continue
		}
		if _, ok := nameBySubID[b.SubID]; !ok {
			continue
		}
		cell := &Cell{Bid: b}
		m.BidsByTradeID[b.TradeID] = append(m.BidsByTradeID[b.TradeID], cell)
		m.BidsByTradeSub[CellKey(b.TradeID, b.SubID)] = cell
	}

	for tradeID, cells := range m.BidsByTradeID {
		sort.SliceStable(cells, func(i, j int) bool {
			a := strings.ToLower(nameBySubID[cells[i].Bid.SubID])
			b := strings.ToLower(nameBySubID[cells[j].Bid.SubID])
			return a < b
		})
		m.BidsByTradeID[tradeID] = cells
	}

	m.markLows()
	return m
}

// dedupSubs keeps the first invitation per underlying subcontractor,
// preserving invitation order.
func dedupSubs(subs []*domain.ProjectSub) []*domain.ProjectSub {
	seen := make(map[string]bool, len(subs))
	deduped := make([]*domain.ProjectSub, 0, len(subs))
	for _, s := range subs {
		if seen[s.SubcontractorID] {
			continue
		}
		seen[s.SubcontractorID] = true
		deduped = append(deduped, s)
	}
	return deduped
}

// Stats computes the statistics for one trade of the matrix.
func (m *Matrix) Stats(tradeID string) TradeStats {
	cells := m.BidsByTradeID[tradeID]
	bids := make([]*domain.Bid, 0, len(cells))
	for _, c := range cells {
		bids = append(bids, c.Bid)
	}
	return ComputeTradeStats(bids)
}

// RawBidsByTradeID unwraps the matrix cells into plain bid slices keyed by
// trade, the shape the coverage report consumes.
func (m *Matrix) RawBidsByTradeID() map[string][]*domain.Bid {
	out := make(map[string][]*domain.Bid, len(m.BidsByTradeID))
	for tradeID, cells := range m.BidsByTradeID {
		bids := make([]*domain.Bid, 0, len(cells))
		for _, c := range cells {
			bids = append(bids, c.Bid)
		}
		out[tradeID] = bids
	}
	return out
}

// markLows recomputes the IsLow flag across every trade from the current
// cell amounts. Called after build and after a snapshot merge. Placeholder
// cells synthesized from snapshot items never carry the flag, even when
// they hold the trade's lowest frozen amount.
func (m *Matrix) markLows() {
	for tradeID, cells := range m.BidsByTradeID {
		stats := m.Stats(tradeID)
		for _, c := range cells {
			c.IsLow = stats.Low != nil &&
				!isPlaceholder(c.Bid) &&
				c.Bid.Countable() &&
				c.Bid.BaseBidAmount.Equal(*stats.Low)
		}
	}
}
