package leveling

import (
	"math"
	"time"

	"github.com/colemturner/bidlevel/internal/domain"
)

// DefaultTargetBidsPerTrade is the number of priced bids a trade should
// attract before it is considered fully covered.
const DefaultTargetBidsPerTrade = 3

// thinTradeThreshold marks a trade as thin on the dashboard rollup. This is
// deliberately coarser than the per-trade risk flag: a dashboard wants a
// short list of trades that genuinely lack comparison, not every wide spread.
const thinTradeThreshold = 2

// CoverageReport is the ephemeral per-render roll-up of bid coverage across a
// project. It is recomputed from current inputs on every call and is not the
// persisted LevelingSnapshot.
type CoverageReport struct {
	CoveragePct            int
	CoverageNumerator      int
	CoverageDenominator    int
	TradesThin             []*domain.Trade
	AwaitingResponsesCount int
	TargetBidsPerTrade     int
}

// ComputeCoverageReport rolls per-trade submitted counts into the portfolio
// coverage score. Each trade's contribution to the numerator is capped at
// targetBidsPerTrade so one over-subscribed trade cannot mask thin coverage
// elsewhere. A project with zero trades scores 0, never a division by zero.
func ComputeCoverageReport(trades []*domain.Trade, bidsByTradeID map[string][]*domain.Bid, targetBidsPerTrade int) CoverageReport {
	if targetBidsPerTrade <= 0 {
		targetBidsPerTrade = DefaultTargetBidsPerTrade
	}

	report := CoverageReport{
		TargetBidsPerTrade:  targetBidsPerTrade,
		CoverageDenominator: len(trades) * targetBidsPerTrade,
	}

	for _, trade := range trades {
		submitted := 0
		for _, b := range bidsByTradeID[trade.ID] {
			if b.Countable() {
				submitted++
			}
			if b.Status.Awaiting() {
				report.AwaitingResponsesCount++
			}
		}
		if submitted < thinTradeThreshold {
			report.TradesThin = append(report.TradesThin, trade)
		}
		if submitted > targetBidsPerTrade {
			submitted = targetBidsPerTrade
		}
		report.CoverageNumerator += submitted
	}

	if report.CoverageDenominator > 0 {
		report.CoveragePct = int(math.Round(100 * float64(report.CoverageNumerator) / float64(report.CoverageDenominator)))
	}
	return report
}

// ComputeProjectHealth classifies a project's risk badge from its coverage
// percentage and days until due. Due-date thresholds tighten as the deadline
// approaches; projects without a due date use only the coverage thresholds.
func ComputeProjectHealth(coveragePct int, dueDate *time.Time, now time.Time) domain.ProjectHealth {
	if dueDate != nil {
		dueInDays := int(math.Ceil(dueDate.Sub(now).Hours() / 24))
		if dueInDays <= 3 && coveragePct < 65 {
			return domain.HealthCritical
		}
		if dueInDays <= 7 && coveragePct < 75 {
			return domain.HealthAtRisk
		}
	}
	if coveragePct < 45 {
		return domain.HealthCritical
	}
	if coveragePct < 65 {
		return domain.HealthAtRisk
	}
	return domain.HealthHealthy
}
