package session

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/colemturner/bidlevel/internal/domain"
)

// BudgetDraft is the staged amount/notes for one trade's budget.
type BudgetDraft struct {
	Amount *decimal.Decimal
	Notes  string
}

func (d BudgetDraft) equal(other BudgetDraft) bool {
	if d.Notes != other.Notes {
		return false
	}
	if (d.Amount == nil) != (other.Amount == nil) {
		return false
	}
	return d.Amount == nil || d.Amount.Equal(*other.Amount)
}

// BidDraft is the in-progress edit of one bid cell: status, dates, notes and
// the priced breakdown. Exactly one draft may be open at a time.
type BidDraft struct {
	BidID      string
	TradeID    string
	SubID      string
	Status     domain.BidStatus
	ReceivedAt *time.Time
	Notes      string

	// BaseBid is the directly entered amount, used only when no line items
	// exist. With line items the total is derived.
	BaseBid    *decimal.Decimal
	LineItems  []domain.BidLineItem
	Alternates []domain.BidAlternate
}

// Total returns the draft's derived base bid: the sum of line items when any
// exist, otherwise the directly entered amount. Returns nil when nothing is
// priced.
func (d *BidDraft) Total() *decimal.Decimal {
	if len(d.LineItems) > 0 {
		total := domain.SumLineItems(d.LineItems)
		return &total
	}
	return d.BaseBid
}

// fingerprint serializes the draft for dirty comparison. A draft is dirty
// when its fingerprint differs from the one taken at load time.
func (d *BidDraft) fingerprint() []byte {
	if d == nil {
		return nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		// Drafts hold only plain data; marshaling cannot fail in practice.
		return []byte(err.Error())
	}
	return b
}

// draftFromFingerprint reconstructs a draft from a fingerprint taken with
// BidDraft.fingerprint, restoring the exact loaded state on discard.
func draftFromFingerprint(b []byte) *BidDraft {
	if b == nil {
		return nil
	}
	var d BidDraft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil
	}
	return &d
}

func (d *BidDraft) clone() *BidDraft {
	if d == nil {
		return nil
	}
	c := *d
	c.LineItems = append([]domain.BidLineItem(nil), d.LineItems...)
	c.Alternates = append([]domain.BidAlternate(nil), d.Alternates...)
	return &c
}
