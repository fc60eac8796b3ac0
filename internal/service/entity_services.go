package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

type tradeService struct {
	trades repository.TradeRepo
}

func NewTradeService(trades repository.TradeRepo) TradeService {
	return &tradeService{trades: trades}
}

func (s *tradeService) Create(ctx context.Context, t *domain.Trade) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.SortOrder == 0 {
		existing, err := s.trades.ListByProject(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		t.SortOrder = len(existing) + 1
	}
	return s.trades.Create(ctx, t)
}

func (s *tradeService) ListByProject(ctx context.Context, projectID string) ([]*domain.Trade, error) {
	return s.trades.ListByProject(ctx, projectID)
}

func (s *tradeService) Update(ctx context.Context, t *domain.Trade) error {
	t.UpdatedAt = time.Now().UTC()
	return s.trades.Update(ctx, t)
}

type subService struct {
	subs repository.SubRepo
	bids repository.BidRepo
}

func NewSubService(subs repository.SubRepo, bids repository.BidRepo) SubService {
	return &subService{subs: subs, bids: bids}
}

func (s *subService) CreateSubcontractor(ctx context.Context, sub *domain.Subcontractor) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	sub.CreatedAt = time.Now().UTC()
	return s.subs.CreateSubcontractor(ctx, sub)
}

func (s *subService) ListSubcontractors(ctx context.Context) ([]*domain.Subcontractor, error) {
	return s.subs.ListSubcontractors(ctx)
}

// Invite re-uses an existing active invitation for the subcontractor when one
// exists (at most one per project) and creates the implicit invited bid for
// the trade with a nil amount.
func (s *subService) Invite(ctx context.Context, projectID, subcontractorID, tradeID string) (*domain.ProjectSub, error) {
	existing, err := s.subs.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var ps *domain.ProjectSub
	for _, e := range existing {
		if e.SubcontractorID == subcontractorID {
			ps = e
			break
		}
	}
	if ps == nil {
		sub, err := s.subs.GetSubcontractor(ctx, subcontractorID)
		if err != nil {
			return nil, err
		}
		ps = &domain.ProjectSub{
			ID:              uuid.New().String(),
			ProjectID:       projectID,
			SubcontractorID: subcontractorID,
			CompanyName:     sub.CompanyName,
			SortOrder:       len(existing) + 1,
			InvitedAt:       time.Now().UTC(),
		}
		if err := s.subs.InviteToProject(ctx, ps); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	bid := &domain.Bid{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		TradeID:   tradeID,
		SubID:     ps.ID,
		Status:    domain.BidInvited,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.bids.Upsert(ctx, bid); err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *subService) ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectSub, error) {
	return s.subs.ListByProject(ctx, projectID)
}
