package domain

type BidStatus string

const (
	BidInvited    BidStatus = "invited"
	BidBidding    BidStatus = "bidding"
	BidSubmitted  BidStatus = "submitted"
	BidDeclined   BidStatus = "declined"
	BidNoResponse BidStatus = "no_response"
)

// ValidBidStatuses is the canonical set of accepted bid status strings.
var ValidBidStatuses = map[string]bool{
	"invited": true, "bidding": true, "submitted": true,
	"declined": true, "no_response": true,
}

// Awaiting reports whether the sub has been asked but has not yet answered.
// Declined and no-response bids are resolved, not awaiting.
func (s BidStatus) Awaiting() bool {
	return s == BidInvited || s == BidBidding
}

type ProjectHealth string

const (
	HealthHealthy  ProjectHealth = "healthy"
	HealthAtRisk   ProjectHealth = "at_risk"
	HealthCritical ProjectHealth = "critical"
)
