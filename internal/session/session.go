// Package session implements the dirty-state reconciliation protocol for the
// leveling screen: budget drafts, the single active bid draft, the ordered
// save chain, discard-to-last-loaded and delete-with-undo. All mutable edit
// state lives on the Session object and is driven through message-style
// commands, keeping the protocol testable outside any UI harness.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/leveling"
	"github.com/colemturner/bidlevel/internal/service"
)

// DefaultUndoWindow is how long a deleted bid stays recoverable.
const DefaultUndoWindow = 6 * time.Second

// ErrUndoExpired is returned when Undo is called after the window elapsed or
// with nothing parked.
var ErrUndoExpired = errors.New("nothing to undo")

// ErrNoDraft is returned by draft commands when no bid cell is open.
var ErrNoDraft = errors.New("no bid open for editing")

// Session owns the edit state for one project's leveling screen.
type Session struct {
	svc        service.LevelingService
	projectID  string
	now        func() time.Time
	undoWindow time.Duration

	mu sync.Mutex

	matrix *service.BidMatrix
	live   *leveling.Matrix

	selectedSnapshot *domain.LevelingSnapshot
	snapshotItems    []domain.SnapshotItem

	budgetDrafts map[string]BudgetDraft // staged values, keyed by trade ID
	budgetLoaded map[string]BudgetDraft // values at last load

	draft       *BidDraft
	draftLoaded []byte // fingerprint taken when the draft was opened

	parked      *parkedBid
	parkedSeq   int
	expireTimer *time.Timer
}

// parkedBid holds a deleted bid's full field set during the undo window.
type parkedBid struct {
	bid       domain.Bid
	items     []domain.BidLineItem
	alts      []domain.BidAlternate
	expiresAt time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock substitutes the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithUndoWindow overrides the undo window duration.
func WithUndoWindow(d time.Duration) Option {
	return func(s *Session) { s.undoWindow = d }
}

func New(svc service.LevelingService, projectID string, opts ...Option) *Session {
	s := &Session{
		svc:          svc,
		projectID:    projectID,
		now:          time.Now,
		undoWindow:   DefaultUndoWindow,
		budgetDrafts: make(map[string]BudgetDraft),
		budgetLoaded: make(map[string]BudgetDraft),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load performs the consolidated fetch, rebuilds the live matrix and resets
// all dirty state to the freshly loaded values. Consistency after writes
// comes from re-deriving everything here rather than patching local state.
func (s *Session) Load(ctx context.Context) error {
	matrix, err := s.svc.GetProjectBidMatrix(ctx, s.projectID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.matrix = matrix
	s.live = leveling.BuildMatrix(matrix.Trades, matrix.ProjectSubs, matrix.Bids)

	s.budgetDrafts = make(map[string]BudgetDraft, len(matrix.Trades))
	s.budgetLoaded = make(map[string]BudgetDraft, len(matrix.Trades))
	for _, b := range matrix.Budgets {
		d := BudgetDraft{Amount: b.Amount, Notes: b.Notes}
		s.budgetDrafts[b.TradeID] = d
		s.budgetLoaded[b.TradeID] = d
	}

	s.draft = nil
	s.draftLoaded = nil
	return nil
}

// EffectiveMatrix returns the matrix to display: the live matrix, or the
// snapshot merge when a historical snapshot is selected. Selecting and
// deselecting a snapshot never touches live data, so returning to live view
// always yields the matrix as loaded.
func (s *Session) EffectiveMatrix() *leveling.Matrix {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedSnapshot == nil {
		return s.live
	}
	return leveling.MergeSnapshot(s.live, s.snapshotItems)
}

// Matrix returns the last consolidated read.
func (s *Session) Matrix() *service.BidMatrix {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matrix
}

// SelectSnapshot switches the view to a historical snapshot. The view
// becomes read-only until SelectLive is called.
func (s *Session) SelectSnapshot(ctx context.Context, snapshotID string) error {
	s.mu.Lock()
	var selected *domain.LevelingSnapshot
	if s.matrix != nil {
		for _, snap := range s.matrix.Snapshots {
			if snap.ID == snapshotID {
				selected = snap
				break
			}
		}
	}
	s.mu.Unlock()
	if selected == nil {
		return fmt.Errorf("snapshot %s: %w", snapshotID, domain.ErrNotFound)
	}

	items, err := s.svc.GetSnapshotItems(ctx, snapshotID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.selectedSnapshot = selected
	s.snapshotItems = items
	s.mu.Unlock()
	return nil
}

// SelectLive returns to the live view.
func (s *Session) SelectLive() {
	s.mu.Lock()
	s.selectedSnapshot = nil
	s.snapshotItems = nil
	s.mu.Unlock()
}

// SelectedSnapshot returns the currently selected snapshot, or nil for live.
func (s *Session) SelectedSnapshot() *domain.LevelingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSnapshot
}

// readOnly reports whether mutations must be rejected. Callers hold s.mu.
func (s *Session) readOnly() bool {
	return s.selectedSnapshot != nil
}

// newExpireTimer drops the parked bid when the undo window elapses. The
// sequence number guards against a stale timer clearing a newer park.
func (s *Session) newExpireTimer(seq int) *time.Timer {
	return time.AfterFunc(s.undoWindow, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.parkedSeq == seq {
			s.parked = nil
			s.expireTimer = nil
		}
	})
}

// SetBudget stages a budget edit for a trade. The trade turns dirty only
// when the staged value differs from the last-loaded one.
func (s *Session) SetBudget(tradeID string, amount *decimal.Decimal, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly() {
		return domain.ErrReadOnlyView
	}
	s.budgetDrafts[tradeID] = BudgetDraft{Amount: amount, Notes: notes}
	return nil
}

// DirtyBudgetTradeIDs returns the trades whose staged budget differs from
// last-saved, sorted for deterministic flush order.
func (s *Session) DirtyBudgetTradeIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyBudgetsLocked()
}

func (s *Session) dirtyBudgetsLocked() []string {
	var dirty []string
	for tradeID, d := range s.budgetDrafts {
		if !d.equal(s.budgetLoaded[tradeID]) {
			dirty = append(dirty, tradeID)
		}
	}
	sort.Strings(dirty)
	return dirty
}

// OpenBid loads the bid at (tradeID, subID) into the active draft, replacing
// any previously open draft. The draft's fingerprint at open time is the
// baseline for dirty checks and discards.
func (s *Session) OpenBid(ctx context.Context, tradeID, subID string) (*BidDraft, error) {
	s.mu.Lock()
	if s.readOnly() {
		s.mu.Unlock()
		return nil, domain.ErrReadOnlyView
	}
	s.mu.Unlock()

	bid, err := s.svc.GetBid(ctx, tradeID, subID)
	if err != nil {
		return nil, err
	}
	items, alts, err := s.svc.GetBreakdown(ctx, bid.ID)
	if err != nil {
		return nil, err
	}

	draft := &BidDraft{
		BidID:      bid.ID,
		TradeID:    bid.TradeID,
		SubID:      bid.SubID,
		Status:     bid.Status,
		ReceivedAt: bid.ReceivedAt,
		Notes:      bid.Notes,
		BaseBid:    bid.BaseBidAmount,
		LineItems:  items,
		Alternates: alts,
	}

	s.mu.Lock()
	s.draft = draft
	s.draftLoaded = draft.fingerprint()
	s.mu.Unlock()
	return draft.clone(), nil
}

// UpdateDraft applies fn to the active draft.
func (s *Session) UpdateDraft(fn func(*BidDraft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly() {
		return domain.ErrReadOnlyView
	}
	if s.draft == nil {
		return ErrNoDraft
	}
	fn(s.draft)
	return nil
}

// DraftDirty reports whether the active draft serializes differently from
// the state it was opened with.
func (s *Session) DraftDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftDirtyLocked()
}

func (s *Session) draftDirtyLocked() bool {
	if s.draft == nil {
		return false
	}
	return !bytes.Equal(s.draft.fingerprint(), s.draftLoaded)
}

// HasUnsavedChanges reports whether a save or discard would do anything.
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftDirtyLocked() || len(s.dirtyBudgetsLocked()) > 0
}

// Save persists all unsaved edits in the required order: the active bid
// draft first (its derived total becomes the bid's base amount, which the
// budget upserts must not race against), then the breakdown, then each dirty
// budget. The chain stops at the first failure and all remaining dirty state
// is preserved so the user can retry; partial failure never silently drops
// unsaved edits. On full success the matrix is re-fetched from the store.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.readOnly() {
		s.mu.Unlock()
		return domain.ErrReadOnlyView
	}
	draftDirty := s.draftDirtyLocked()
	var draft *BidDraft
	if draftDirty {
		draft = s.draft.clone()
	}
	dirtyBudgets := s.dirtyBudgetsLocked()
	budgetValues := make(map[string]BudgetDraft, len(dirtyBudgets))
	for _, tradeID := range dirtyBudgets {
		budgetValues[tradeID] = s.budgetDrafts[tradeID]
	}
	projectID := s.projectID
	s.mu.Unlock()

	if draftDirty {
		total := draft.Total()
		status := draft.Status
		if total != nil && status != domain.BidSubmitted {
			// A priced draft is a submission; unpriced drafts keep their status.
			status = domain.BidSubmitted
		}
		bid := &domain.Bid{
			ID:            draft.BidID,
			ProjectID:     projectID,
			TradeID:       draft.TradeID,
			SubID:         draft.SubID,
			Status:        status,
			BaseBidAmount: total,
			ReceivedAt:    draft.ReceivedAt,
			Notes:         draft.Notes,
		}
		if err := s.svc.UpsertBid(ctx, bid); err != nil {
			return fmt.Errorf("saving bid: %w", err)
		}
		if err := s.svc.SaveBreakdown(ctx, draft.BidID, draft.LineItems, draft.Alternates); err != nil {
			// The bid row is already committed; there is no transaction
			// spanning both writes. Surface this distinctly so the caller can
			// retry just the breakdown.
			return fmt.Errorf("%w: %v", domain.ErrBreakdownSave, err)
		}
	}

	for _, tradeID := range dirtyBudgets {
		d := budgetValues[tradeID]
		budget := &domain.Budget{
			ProjectID: projectID,
			TradeID:   tradeID,
			Amount:    d.Amount,
			Notes:     d.Notes,
		}
		if err := s.svc.UpsertBudget(ctx, budget); err != nil {
			return fmt.Errorf("saving budget for trade %s: %w", tradeID, err)
		}
		s.mu.Lock()
		s.budgetLoaded[tradeID] = d
		s.mu.Unlock()
	}

	return s.Load(ctx)
}

// Discard resets every budget draft and the active bid draft to their
// last-loaded values. The bid cell stays open. Persisted data is never
// touched.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budgetDrafts = make(map[string]BudgetDraft, len(s.budgetLoaded))
	for tradeID, d := range s.budgetLoaded {
		s.budgetDrafts[tradeID] = d
	}
	if s.draft != nil {
		s.draft = draftFromFingerprint(s.draftLoaded)
	}
}
