package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colemturner/bidlevel/internal/db"
	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/leveling"
	"github.com/colemturner/bidlevel/internal/repository"
)

type levelingService struct {
	projects  repository.ProjectRepo
	trades    repository.TradeRepo
	subs      repository.SubRepo
	bids      repository.BidRepo
	budgets   repository.BudgetRepo
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
}

func NewLevelingService(
	projects repository.ProjectRepo,
	trades repository.TradeRepo,
	subs repository.SubRepo,
	bids repository.BidRepo,
	budgets repository.BudgetRepo,
	snapshots repository.SnapshotRepo,
	uow db.UnitOfWork,
) LevelingService {
	return &levelingService{
		projects:  projects,
		trades:    trades,
		subs:      subs,
		bids:      bids,
		budgets:   budgets,
		snapshots: snapshots,
		uow:       uow,
	}
}

func (s *levelingService) GetProjectBidMatrix(ctx context.Context, projectID string) (*BidMatrix, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	trades, err := s.trades.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading trades: %w", err)
	}
	subs, err := s.subs.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project subs: %w", err)
	}
	bids, err := s.bids.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading bids: %w", err)
	}
	budgets, err := s.budgets.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading budgets: %w", err)
	}
	snapshots, err := s.snapshots.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}
	return &BidMatrix{
		Project:     project,
		Trades:      trades,
		ProjectSubs: subs,
		Bids:        bids,
		Budgets:     budgets,
		Snapshots:   snapshots,
	}, nil
}

func (s *levelingService) UpsertBid(ctx context.Context, b *domain.Bid) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
		b.CreatedAt = time.Now().UTC()
	}
	b.UpdatedAt = time.Now().UTC()
	if b.Status == "" {
		b.Status = domain.BidInvited
	}
	return s.bids.Upsert(ctx, b)
}

func (s *levelingService) RemoveBid(ctx context.Context, tradeID, subID string) error {
	bid, err := s.bids.GetByTradeSub(ctx, tradeID, subID)
	if err != nil {
		return err
	}
	return s.bids.Delete(ctx, bid.ID)
}

func (s *levelingService) GetBid(ctx context.Context, tradeID, subID string) (*domain.Bid, error) {
	return s.bids.GetByTradeSub(ctx, tradeID, subID)
}

func (s *levelingService) GetBreakdown(ctx context.Context, bidID string) ([]domain.BidLineItem, []domain.BidAlternate, error) {
	return s.bids.GetBreakdown(ctx, bidID)
}

// SaveBreakdown replaces the breakdown inside one transaction so a failed
// insert never leaves the bid with half its line items.
func (s *levelingService) SaveBreakdown(ctx context.Context, bidID string, items []domain.BidLineItem, alts []domain.BidAlternate) error {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].BidID = bidID
	}
	for i := range alts {
		if alts[i].ID == "" {
			alts[i].ID = uuid.New().String()
		}
		alts[i].BidID = bidID
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBidRepo(tx).ReplaceBreakdown(ctx, bidID, items, alts)
	})
}

func (s *levelingService) UpsertBudget(ctx context.Context, b *domain.Budget) error {
	b.UpdatedAt = time.Now().UTC()
	return s.budgets.Upsert(ctx, b)
}

func (s *levelingService) CreateSnapshot(ctx context.Context, projectID, title, note, createdBy string) (*domain.LevelingSnapshot, error) {
	matrix, err := s.GetProjectBidMatrix(ctx, projectID)
	if err != nil {
		return nil, err
	}
	live := leveling.BuildMatrix(matrix.Trades, matrix.ProjectSubs, matrix.Bids)

	snapshot := &domain.LevelingSnapshot{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Note:      note,
		CreatedAt: time.Now().UTC(),
		CreatedBy: createdBy,
	}
	items := leveling.BuildSnapshotItems(live, snapshot.ID, note, func() string {
		return uuid.New().String()
	})

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSnapshots := repository.NewSQLiteSnapshotRepo(tx)
		if err := txSnapshots.Create(ctx, snapshot); err != nil {
			return err
		}
		for i := range items {
			if err := txSnapshots.CreateItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating snapshot: %w", err)
	}
	return snapshot, nil
}

func (s *levelingService) GetSnapshotItems(ctx context.Context, snapshotID string) ([]domain.SnapshotItem, error) {
	return s.snapshots.ListItems(ctx, snapshotID)
}
