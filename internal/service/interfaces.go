package service

import (
	"context"

	"github.com/colemturner/bidlevel/internal/domain"
)

// BidMatrix is the one consolidated read the reconciliation core works from:
// every row needed to assemble, score and freeze a project's leveling matrix.
type BidMatrix struct {
	Project     *domain.Project
	Trades      []*domain.Trade
	ProjectSubs []*domain.ProjectSub
	Bids        []*domain.Bid
	Budgets     []*domain.Budget
	Snapshots   []*domain.LevelingSnapshot
}

// BudgetByTradeID indexes the budgets by trade for cell lookups.
func (m *BidMatrix) BudgetByTradeID() map[string]*domain.Budget {
	out := make(map[string]*domain.Budget, len(m.Budgets))
	for _, b := range m.Budgets {
		out[b.TradeID] = b
	}
	return out
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TradeService interface {
	Create(ctx context.Context, t *domain.Trade) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Trade, error)
	Update(ctx context.Context, t *domain.Trade) error
}

type SubService interface {
	CreateSubcontractor(ctx context.Context, s *domain.Subcontractor) error
	ListSubcontractors(ctx context.Context) ([]*domain.Subcontractor, error)
	// Invite adds a subcontractor to a project and implicitly creates the
	// invited bid for the given trade.
	Invite(ctx context.Context, projectID, subcontractorID, tradeID string) (*domain.ProjectSub, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectSub, error)
}

type LevelingService interface {
	// GetProjectBidMatrix is the consolidated read: project, trades, subs,
	// bids, budgets and snapshot headers in one call.
	GetProjectBidMatrix(ctx context.Context, projectID string) (*BidMatrix, error)

	UpsertBid(ctx context.Context, b *domain.Bid) error
	RemoveBid(ctx context.Context, tradeID, subID string) error
	GetBid(ctx context.Context, tradeID, subID string) (*domain.Bid, error)
	GetBreakdown(ctx context.Context, bidID string) ([]domain.BidLineItem, []domain.BidAlternate, error)
	// SaveBreakdown atomically replaces a bid's line items and alternates.
	SaveBreakdown(ctx context.Context, bidID string, items []domain.BidLineItem, alts []domain.BidAlternate) error

	UpsertBudget(ctx context.Context, b *domain.Budget) error

	// CreateSnapshot freezes the current matrix: the snapshot row plus one
	// item per trade × dedup-sub pair, written atomically. Either every item
	// exists afterwards or none do.
	CreateSnapshot(ctx context.Context, projectID, title, note, createdBy string) (*domain.LevelingSnapshot, error)
	GetSnapshotItems(ctx context.Context, snapshotID string) ([]domain.SnapshotItem, error)
}
