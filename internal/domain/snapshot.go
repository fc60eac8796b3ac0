package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LevelingSnapshot is an immutable, named freeze of the bid matrix at a point
// in time. Snapshots are append-only: they are never mutated or merged back
// into live state.
//
// Not to be confused with the ephemeral coverage report computed per render
// (leveling.CoverageReport); that is a roll-up, this is a persisted version.
type LevelingSnapshot struct {
	ID        string
	ProjectID string
	Title     string
	Note      string
	CreatedAt time.Time
	CreatedBy string
}

// SnapshotItem is one frozen cell of a leveling snapshot. Only the fields
// that matter for historical comparison are captured; live status and
// received date are not frozen. (SnapshotID, TradeID, SubID) is unique.
type SnapshotItem struct {
	ID            string
	SnapshotID    string
	TradeID       string
	SubID         string
	BaseBidAmount *decimal.Decimal
	Notes         string
}
