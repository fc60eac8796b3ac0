package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the target exposure for one trade within a project, keyed
// (ProjectID, TradeID). A missing budget row means "no budget set", which is
// distinct from a budget of zero.
type Budget struct {
	ProjectID string
	TradeID   string
	Amount    *decimal.Decimal
	Notes     string
	UpdatedAt time.Time
}
