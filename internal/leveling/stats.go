// Package leveling holds the pure reconciliation core: per-trade statistics,
// the project coverage report, the live matrix builder and the point-in-time
// snapshot merge. Nothing in this package performs I/O or caches across
// calls; every output is a function of its inputs.
package leveling

import (
	"github.com/shopspring/decimal"

	"github.com/colemturner/bidlevel/internal/domain"
)

// riskSpreadPctThreshold is the spread percentage above which a trade is
// flagged at risk. The flag favors false positives over missed risk.
const riskSpreadPctThreshold = 10.0

// TradeStats summarizes the submitted bids for one trade. All pointer fields
// are nil when CoverageCount is zero.
type TradeStats struct {
	Low           *decimal.Decimal
	SpreadAmount  *decimal.Decimal
	SpreadPercent *float64
	CoverageCount int
}

// ComputeTradeStats computes low/spread/coverage for the bids of one trade.
// Bids must already be filtered to the trade. Only submitted bids with a
// priced amount count; everything degrades to nil/zero on missing data.
func ComputeTradeStats(bids []*domain.Bid) TradeStats {
	var counted []*domain.Bid
	for _, b := range bids {
		if b.Countable() {
			counted = append(counted, b)
		}
	}

	stats := TradeStats{CoverageCount: len(counted)}
	if len(counted) == 0 {
		return stats
	}

	low := *counted[0].BaseBidAmount
	high := low
	for _, b := range counted[1:] {
		if b.BaseBidAmount.LessThan(low) {
			low = *b.BaseBidAmount
		}
		if b.BaseBidAmount.GreaterThan(high) {
			high = *b.BaseBidAmount
		}
	}

	spread := high.Sub(low)
	stats.Low = &low
	stats.SpreadAmount = &spread

	if low.IsPositive() {
		pct, _ := spread.Div(low).Mul(decimal.NewFromInt(100)).Float64()
		stats.SpreadPercent = &pct
	}

	return stats
}

// AtRisk reports whether the trade should be flagged for triage: spread above
// the threshold or fewer than two priced bids to compare.
func (s TradeStats) AtRisk() bool {
	if s.CoverageCount < 2 {
		return true
	}
	return s.SpreadPercent != nil && *s.SpreadPercent > riskSpreadPctThreshold
}
