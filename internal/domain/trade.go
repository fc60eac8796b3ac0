package domain

import (
	"sort"
	"time"
)

// Trade is one category of work being bid out within a project, e.g.
// "Electrical". Trades are never auto-deleted; orphaned trades keep their
// historical bids.
type Trade struct {
	ID        string
	ProjectID string
	Name      string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SortTrades orders trades by their dense 1-based rank, breaking ties by name.
func SortTrades(trades []*Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].SortOrder != trades[j].SortOrder {
			return trades[i].SortOrder < trades[j].SortOrder
		}
		return trades[i].Name < trades[j].Name
	})
}
