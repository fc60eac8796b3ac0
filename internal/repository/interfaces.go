package repository

import (
	"context"

	"github.com/colemturner/bidlevel/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TradeRepo interface {
	Create(ctx context.Context, t *domain.Trade) error
	GetByID(ctx context.Context, id string) (*domain.Trade, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Trade, error)
	Update(ctx context.Context, t *domain.Trade) error
	Delete(ctx context.Context, id string) error
}

type SubRepo interface {
	CreateSubcontractor(ctx context.Context, s *domain.Subcontractor) error
	GetSubcontractor(ctx context.Context, id string) (*domain.Subcontractor, error)
	ListSubcontractors(ctx context.Context) ([]*domain.Subcontractor, error)
	InviteToProject(ctx context.Context, ps *domain.ProjectSub) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectSub, error)
	RemoveFromProject(ctx context.Context, id string) error
}

type BidRepo interface {
	// Upsert inserts or replaces the live bid for b's (TradeID, SubID) pair.
	// Last write wins; there is no version check.
	Upsert(ctx context.Context, b *domain.Bid) error
	GetByID(ctx context.Context, id string) (*domain.Bid, error)
	GetByTradeSub(ctx context.Context, tradeID, subID string) (*domain.Bid, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Bid, error)
	ListByTrade(ctx context.Context, tradeID string) ([]*domain.Bid, error)
	Delete(ctx context.Context, id string) error
	// ReplaceBreakdown swaps the full set of line items and alternates for a bid.
	ReplaceBreakdown(ctx context.Context, bidID string, items []domain.BidLineItem, alts []domain.BidAlternate) error
	GetBreakdown(ctx context.Context, bidID string) ([]domain.BidLineItem, []domain.BidAlternate, error)
}

type BudgetRepo interface {
	Upsert(ctx context.Context, b *domain.Budget) error
	Get(ctx context.Context, projectID, tradeID string) (*domain.Budget, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Budget, error)
}

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.LevelingSnapshot) error
	GetByID(ctx context.Context, id string) (*domain.LevelingSnapshot, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.LevelingSnapshot, error)
	CreateItem(ctx context.Context, item *domain.SnapshotItem) error
	ListItems(ctx context.Context, snapshotID string) ([]domain.SnapshotItem, error)
}
