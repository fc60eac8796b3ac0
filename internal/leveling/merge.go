package leveling

import (
	"sort"
	"strings"

	"github.com/colemturner/bidlevel/internal/domain"
)

// PlaceholderIDPrefix marks cells synthesized from snapshot items whose live
// bid has since been removed. The prefix keeps them from ever being mistaken
// for an editable live row.
const PlaceholderIDPrefix = "snapshot-"

// isPlaceholder reports whether the bid was synthesized from a snapshot item
// rather than read from a live row.
func isPlaceholder(b *domain.Bid) bool {
	return strings.HasPrefix(b.ID, PlaceholderIDPrefix)
}

// MergeSnapshot overlays a frozen snapshot's items onto the live matrix and
// returns the effective matrix for read-only display. The live matrix is not
// modified.
//
// For each item keyed by (tradeID, subID):
//   - a live bid at that key keeps its status and dates but takes the item's
//     amount and notes;
//   - a missing live bid (the pairing was removed after the freeze) becomes a
//     placeholder cell with status submitted and a PlaceholderIDPrefix id.
//
// Live bids with no corresponding item are absent from the effective view: a
// sub added after the snapshot was taken does not retroactively appear in
// history. With no snapshot selected the caller should use the live matrix
// directly; this function is only the historical path.
func MergeSnapshot(live *Matrix, items []domain.SnapshotItem) *Matrix {
	effective := &Matrix{
		Trades:         live.Trades,
		Subs:           live.Subs,
		BidsByTradeID:  make(map[string][]*Cell, len(live.BidsByTradeID)),
		BidsByTradeSub: make(map[string]*Cell, len(items)),
	}
	for _, t := range live.Trades {
		effective.BidsByTradeID[t.ID] = []*Cell{}
	}

	for _, item := range items {
		key := CellKey(item.TradeID, item.SubID)
		var bid *domain.Bid

		if liveCell, ok := live.BidsByTradeSub[key]; ok {
			frozen := *liveCell.Bid
			frozen.BaseBidAmount = item.BaseBidAmount
			frozen.Notes = item.Notes
			bid = &frozen
		} else {
			bid = &domain.Bid{
				ID:            PlaceholderIDPrefix + item.ID,
				TradeID:       item.TradeID,
				SubID:         item.SubID,
				Status:        domain.BidSubmitted,
				BaseBidAmount: item.BaseBidAmount,
				Notes:         item.Notes,
			}
		}

		cell := &Cell{Bid: bid}
		effective.BidsByTradeID[item.TradeID] = append(effective.BidsByTradeID[item.TradeID], cell)
		effective.BidsByTradeSub[key] = cell
	}

	nameBySubID := make(map[string]string, len(live.Subs))
	for _, s := range live.Subs {
		nameBySubID[s.ID] = s.CompanyName
	}
	for tradeID, cells := range effective.BidsByTradeID {
		sort.SliceStable(cells, func(i, j int) bool {
			a := strings.ToLower(nameBySubID[cells[i].Bid.SubID])
			b := strings.ToLower(nameBySubID[cells[j].Bid.SubID])
			if a != b {
				return a < b
			}
			return cells[i].Bid.SubID < cells[j].Bid.SubID
		})
		effective.BidsByTradeID[tradeID] = cells
	}

	effective.markLows()
	return effective
}

// BuildSnapshotItems freezes the current live matrix into snapshot items:
// one item per (trade, dedup-sub) pair of the full cross product, populated
// cells and empty cells alike. Freezing the whole matrix shape means a
// snapshot stays complete even for cells that had no bid yet. newID supplies
// item identifiers; snapshotNote, when set, is prefixed to each populated
// cell's notes.
func BuildSnapshotItems(live *Matrix, snapshotID, snapshotNote string, newID func() string) []domain.SnapshotItem {
	items := make([]domain.SnapshotItem, 0, len(live.Trades)*len(live.Subs))
	for _, trade := range live.Trades {
		for _, sub := range live.Subs {
			item := domain.SnapshotItem{
				ID:         newID(),
				SnapshotID: snapshotID,
				TradeID:    trade.ID,
				SubID:      sub.ID,
			}
			if cell, ok := live.BidsByTradeSub[CellKey(trade.ID, sub.ID)]; ok {
				item.BaseBidAmount = cell.Bid.BaseBidAmount
				item.Notes = joinNotes(snapshotNote, cell.Bid.Notes)
			} else {
				item.Notes = snapshotNote
			}
			items = append(items, item)
		}
	}
	return items
}

func joinNotes(snapshotNote, bidNotes string) string {
	switch {
	case snapshotNote == "":
		return bidNotes
	case bidNotes == "":
		return snapshotNote
	default:
		return snapshotNote + " / " + bidNotes
	}
}
