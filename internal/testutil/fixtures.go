package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/colemturner/bidlevel/internal/domain"
)

// Money builds a *decimal.Decimal from a whole-dollar amount.
func Money(dollars int64) *decimal.Decimal {
	d := decimal.NewFromInt(dollars)
	return &d
}

// Project options
type ProjectOption func(*domain.Project)

func WithDueDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.DueDate = &d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestTrade(projectID, name string, sortOrder int) *domain.Trade {
	now := time.Now().UTC()
	return &domain.Trade{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestSubcontractor(companyName string) *domain.Subcontractor {
	return &domain.Subcontractor{
		ID:          uuid.New().String(),
		CompanyName: companyName,
		CreatedAt:   time.Now().UTC(),
	}
}

func NewTestProjectSub(projectID string, sub *domain.Subcontractor, sortOrder int) *domain.ProjectSub {
	return &domain.ProjectSub{
		ID:              uuid.New().String(),
		ProjectID:       projectID,
		SubcontractorID: sub.ID,
		CompanyName:     sub.CompanyName,
		SortOrder:       sortOrder,
		InvitedAt:       time.Now().UTC(),
	}
}

// Bid options
type BidOption func(*domain.Bid)

func WithStatus(s domain.BidStatus) BidOption {
	return func(b *domain.Bid) {
		b.Status = s
	}
}

func WithAmount(dollars int64) BidOption {
	return func(b *domain.Bid) {
		b.Status = domain.BidSubmitted
		b.BaseBidAmount = Money(dollars)
	}
}

func WithNotes(notes string) BidOption {
	return func(b *domain.Bid) {
		b.Notes = notes
	}
}

func NewTestBid(projectID, tradeID, subID string, opts ...BidOption) *domain.Bid {
	now := time.Now().UTC()
	b := &domain.Bid{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		TradeID:   tradeID,
		SubID:     subID,
		Status:    domain.BidInvited,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func NewTestBudget(projectID, tradeID string, dollars int64) *domain.Budget {
	return &domain.Budget{
		ProjectID: projectID,
		TradeID:   tradeID,
		Amount:    Money(dollars),
		UpdatedAt: time.Now().UTC(),
	}
}
