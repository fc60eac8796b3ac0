package session

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/leveling"
	"github.com/colemturner/bidlevel/internal/repository"
	"github.com/colemturner/bidlevel/internal/service"
	"github.com/colemturner/bidlevel/internal/testutil"
)

type fixture struct {
	db      *sql.DB
	svc     service.LevelingService
	project *domain.Project
	trades  []*domain.Trade
	subs    []*domain.ProjectSub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	svc := service.NewLevelingService(
		repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteTradeRepo(database),
		repository.NewSQLiteSubRepo(database),
		repository.NewSQLiteBidRepo(database),
		repository.NewSQLiteBudgetRepo(database),
		repository.NewSQLiteSnapshotRepo(database),
		testutil.NewTestUoW(database),
	)

	project := testutil.NewTestProject("Harbor Point")
	require.NoError(t, repository.NewSQLiteProjectRepo(database).Create(ctx, project))

	trades := []*domain.Trade{
		testutil.NewTestTrade(project.ID, "Concrete", 1),
		testutil.NewTestTrade(project.ID, "Electrical", 2),
	}
	tradeRepo := repository.NewSQLiteTradeRepo(database)
	for _, tr := range trades {
		require.NoError(t, tradeRepo.Create(ctx, tr))
	}

	subRepo := repository.NewSQLiteSubRepo(database)
	acme := testutil.NewTestSubcontractor("Acme Builders")
	best := testutil.NewTestSubcontractor("Best Electric")
	require.NoError(t, subRepo.CreateSubcontractor(ctx, acme))
	require.NoError(t, subRepo.CreateSubcontractor(ctx, best))

	subs := []*domain.ProjectSub{
		testutil.NewTestProjectSub(project.ID, acme, 1),
		testutil.NewTestProjectSub(project.ID, best, 2),
	}
	for _, ps := range subs {
		require.NoError(t, subRepo.InviteToProject(ctx, ps))
	}

	bidRepo := repository.NewSQLiteBidRepo(database)
	require.NoError(t, bidRepo.Upsert(ctx,
		testutil.NewTestBid(project.ID, trades[0].ID, subs[0].ID, testutil.WithAmount(250_000), testutil.WithNotes("firm"))))
	require.NoError(t, bidRepo.Upsert(ctx,
		testutil.NewTestBid(project.ID, trades[0].ID, subs[1].ID, testutil.WithAmount(260_000))))

	return &fixture{db: database, svc: svc, project: project, trades: trades, subs: subs}
}

func (f *fixture) newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s := New(f.svc, f.project.ID, opts...)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestSetBudget_MarksDirtyOnlyOnChange(t *testing.T) {
	f := newFixture(t)
	s := f.newSession(t)

	require.NoError(t, s.SetBudget(f.trades[0].ID, testutil.Money(240_000), ""))
	assert.Equal(t, []string{f.trades[0].ID}, s.DirtyBudgetTradeIDs())
	assert.True(t, s.HasUnsavedChanges())

	// Staging the last-loaded value again is not dirty.
	require.NoError(t, s.SetBudget(f.trades[0].ID, nil, ""))
	assert.Empty(t, s.DirtyBudgetTradeIDs())
}

func TestSave_FlushesBudgets(t *testing.T) {
	f := newFixture(t)
	s := f.newSession(t)
	ctx := context.Background()

	require.NoError(t, s.SetBudget(f.trades[0].ID, testutil.Money(240_000), "tight"))
	require.NoError(t, s.SetBudget(f.trades[1].ID, testutil.Money(90_000), ""))
	require.NoError(t, s.Save(ctx))

	assert.False(t, s.HasUnsavedChanges(), "save reloads and clears dirty state")

	budget, err := repository.NewSQLiteBudgetRepo(f.db).Get(ctx, f.project.ID, f.trades[0].ID)
	require.NoError(t, err)
	require.NotNil(t, budget.Amount)
	assert.True(t, budget.Amount.Equal(*testutil.Money(240_000)))
	assert.Equal(t, "tight", budget.Notes)
}

func TestOpenBid_DraftDirtyOnEdit(t *testing.T) {
	f := newFixture(t)
	s := f.newSession(t)
	ctx := context.Background()

	_, err := s.OpenBid(ctx, f.trades[0].ID, f.subs[0].ID)
	require.NoError(t, err)
	assert.False(t, s.DraftDirty(), "freshly opened draft is clean")

	require.NoError(t, s.UpdateDraft(func(d *BidDraft) {
		d.Notes = "needs scope clarification"
	}))
	assert.True(t, s.DraftDirty())

	s.Discard()
	assert.False(t, s.DraftDirty(), "discard restores the loaded draft")
}

func TestSave_DraftTotalDerivesFromLineItems(t *testing.T) {
	f := newFixture(t)
	s := f.newSession(t)
	ctx := context.Background()

	_, err := s.OpenBid(ctx, f.trades[0].ID, f.subs[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.UpdateDraft(func(d *BidDraft) {
		d.LineItems = []domain.BidLineItem{
			{Description: "Footings", Amount: *testutil.Money(150_000), SortOrder: 1},
			{Description: "Slab", Amount: *testutil.Money(80_000), SortOrder: 2},
		}
	}))
	require.NoError(t, s.Save(ctx))

	bid, err := f.svc.GetBid(ctx, f.trades[0].ID, f.subs[0].ID)
	require.NoError(t, err)
	require.NotNil(t, bid.BaseBidAmount)
	assert.True(t, bid.BaseBidAmount.Equal(*testutil.Money(230_000)),
		"saved base amount is the line item sum")
}

// failingLeveling wraps the real service and fails selected calls.
type failingLeveling struct {
	service.LevelingService
	failUpsertBudget bool
	failBreakdown    bool
}

func (f *failingLeveling) UpsertBudget(ctx context.Context, b *domain.Budget) error {
	if f.failUpsertBudget {
		return errors.New("store unavailable")
	}
	return f.LevelingService.UpsertBudget(ctx, b)
}

func (f *failingLeveling) SaveBreakdown(ctx context.Context, bidID string, items []domain.BidLineItem, alts []domain.BidAlternate) error {
	if f.failBreakdown {
		return errors.New("store unavailable")
	}
	return f.LevelingService.SaveBreakdown(ctx, bidID, items, alts)
}

func TestSave_FailurePreservesDirtyState(t *testing.T) {
	f := newFixture(t)
	failing := &failingLeveling{LevelingService: f.svc, failUpsertBudget: true}
	s := New(failing, f.project.ID)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.SetBudget(f.trades[0].ID, testutil.Money(240_000), ""))
	err := s.Save(ctx)
	require.Error(t, err)

	assert.True(t, s.HasUnsavedChanges(), "failed save must not drop unsaved edits")
	assert.Equal(t, []string{f.trades[0].ID}, s.DirtyBudgetTradeIDs())

	// Retry after the store recovers.
	failing.failUpsertBudget = false
	require.NoError(t, s.Save(ctx))
	assert.False(t, s.HasUnsavedChanges())
}

func TestSave_BreakdownFailureIsDistinct(t *testing.T) {
	f := newFixture(t)
	failing := &failingLeveling{LevelingService: f.svc, failBreakdown: true}
	s := New(failing, f.project.ID)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	_, err := s.OpenBid(ctx, f.trades[0].ID, f.subs[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.UpdateDraft(func(d *BidDraft) {
		d.LineItems = []domain.BidLineItem{
			{Description: "Footings", Amount: *testutil.Money(150_000), SortOrder: 1},
		}
	}))

	err = s.Save(ctx)
	assert.ErrorIs(t, err, domain.ErrBreakdownSave)

	// The bid row itself committed before the breakdown failed.
	bid, getErr := f.svc.GetBid(ctx, f.trades[0].ID, f.subs[0].ID)
	require.NoError(t, getErr)
	assert.True(t, bid.BaseBidAmount.Equal(*testutil.Money(150_000)))
	assert.True(t, s.DraftDirty(), "draft stays dirty for retry")
}

func TestSelectSnapshot_ReadOnlyAndIdempotentReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateSnapshot(ctx, f.project.ID, "Week 1", "", "estimator")
	require.NoError(t, err)

	s := f.newSession(t)
	liveBefore := s.EffectiveMatrix()

	snapshots := s.Matrix().Snapshots
	require.Len(t, snapshots, 1)
	require.NoError(t, s.SelectSnapshot(ctx, snapshots[0].ID))

	// Every mutation entry point is rejected before touching the store.
	assert.ErrorIs(t, s.SetBudget(f.trades[0].ID, testutil.Money(1), ""), domain.ErrReadOnlyView)
	_, err = s.OpenBid(ctx, f.trades[0].ID, f.subs[0].ID)
	assert.ErrorIs(t, err, domain.ErrReadOnlyView)
	assert.ErrorIs(t, s.Save(ctx), domain.ErrReadOnlyView)
	assert.ErrorIs(t, s.RemoveBid(ctx, f.trades[0].ID, f.subs[0].ID), domain.ErrReadOnlyView)

	s.SelectLive()
	liveAfter := s.EffectiveMatrix()

	require.NotNil(t, liveAfter)
	assert.Equal(t, len(liveBefore.BidsByTradeSub), len(liveAfter.BidsByTradeSub),
		"snapshot viewing must not mutate live data")
	for key, cell := range liveBefore.BidsByTradeSub {
		after, ok := liveAfter.BidsByTradeSub[key]
		require.True(t, ok)
		assert.Equal(t, cell.Bid.ID, after.Bid.ID)
	}
}

func TestEffectiveMatrix_MergesSelectedSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateSnapshot(ctx, f.project.ID, "Freeze", "", "")
	require.NoError(t, err)

	s := f.newSession(t)
	require.NoError(t, s.SelectSnapshot(ctx, s.Matrix().Snapshots[0].ID))

	effective := s.EffectiveMatrix()
	// Cross product: 2 trades x 2 subs.
	assert.Len(t, effective.BidsByTradeSub, 4)

	cell := effective.BidsByTradeSub[leveling.CellKey(f.trades[0].ID, f.subs[0].ID)]
	require.NotNil(t, cell)
	assert.True(t, cell.Bid.BaseBidAmount.Equal(*testutil.Money(250_000)))
}

func TestRemoveBid_UndoRestoresExactFields(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := f.newSession(t, WithClock(func() time.Time { return now }), WithUndoWindow(time.Hour))
	ctx := context.Background()

	before, err := f.svc.GetBid(ctx, f.trades[0].ID, f.subs[0].ID)
	require.NoError(t, err)

	require.NoError(t, s.RemoveBid(ctx, f.trades[0].ID, f.subs[0].ID))
	_, err = f.svc.GetBid(ctx, f.trades[0].ID, f.subs[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "delete is immediate")
	assert.True(t, s.CanUndo())

	require.NoError(t, s.Undo(ctx))

	restored, err := f.svc.GetBid(ctx, f.trades[0].ID, f.subs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, before.ID, restored.ID)
	assert.Equal(t, before.Status, restored.Status)
	assert.True(t, restored.BaseBidAmount.Equal(*before.BaseBidAmount))
	assert.Equal(t, before.Notes, restored.Notes)

	assert.False(t, s.CanUndo(), "undo consumes the window")
}

func TestUndo_ExpiredWindow(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := f.newSession(t, WithClock(func() time.Time { return now }), WithUndoWindow(time.Hour))
	ctx := context.Background()

	require.NoError(t, s.RemoveBid(ctx, f.trades[0].ID, f.subs[0].ID))

	now = now.Add(2 * time.Hour)
	assert.False(t, s.CanUndo())
	assert.ErrorIs(t, s.Undo(ctx), ErrUndoExpired)

	_, err := f.svc.GetBid(ctx, f.trades[0].ID, f.subs[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "expired delete is permanent")
}

func TestUndo_NothingParked(t *testing.T) {
	f := newFixture(t)
	s := f.newSession(t)
	assert.ErrorIs(t, s.Undo(context.Background()), ErrUndoExpired)
}

func TestRemoveBid_DoesNotTouchSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.svc.CreateSnapshot(ctx, f.project.ID, "Before removal", "", "")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := f.newSession(t, WithClock(func() time.Time { return now }), WithUndoWindow(time.Minute))
	require.NoError(t, s.RemoveBid(ctx, f.trades[0].ID, f.subs[0].ID))
	now = now.Add(time.Hour) // window long gone

	items, err := f.svc.GetSnapshotItems(ctx, snap.ID)
	require.NoError(t, err)
	var found bool
	for _, item := range items {
		if item.TradeID == f.trades[0].ID && item.SubID == f.subs[0].ID && item.BaseBidAmount != nil {
			found = true
		}
	}
	assert.True(t, found, "snapshot keeps the captured cell after the live row is gone")
}
