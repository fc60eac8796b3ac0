package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is a priced response for one (trade, sub) cell of the leveling matrix.
// At most one live bid exists per (TradeID, SubID) pair. BaseBidAmount stays
// nil until the status reaches submitted.
type Bid struct {
	ID            string
	ProjectID     string
	TradeID       string
	SubID         string
	Status        BidStatus
	BaseBidAmount *decimal.Decimal
	ReceivedAt    *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Countable reports whether the bid counts toward trade coverage: submitted
// with a priced amount. Invited, bidding, declined and no-response bids
// never count.
func (b *Bid) Countable() bool {
	return b.Status == BidSubmitted && b.BaseBidAmount != nil
}

// BidLineItem is one row of the base-bid breakdown. When any line items
// exist, the bid's base amount is their sum.
type BidLineItem struct {
	ID          string
	BidID       string
	Description string
	Amount      decimal.Decimal
	SortOrder   int
}

// BidAlternate is a priced add/deduct option quoted alongside the base bid.
// Alternates never contribute to the base amount unless accepted.
type BidAlternate struct {
	ID          string
	BidID       string
	Description string
	Amount      decimal.Decimal
	Accepted    bool
	SortOrder   int
}

// SumLineItems totals the given line items. Returns zero for an empty slice.
func SumLineItems(items []BidLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
