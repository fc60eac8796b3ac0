package session

import (
	"context"

	"github.com/colemturner/bidlevel/internal/domain"
)

// RemoveBid deletes the live bid at (tradeID, subID) immediately, parking
// its full field set and breakdown for the undo window. Starting a new
// delete dismisses any previous undo window; the matrix is re-fetched so the
// row disappears from the live view.
func (s *Session) RemoveBid(ctx context.Context, tradeID, subID string) error {
	s.mu.Lock()
	if s.readOnly() {
		s.mu.Unlock()
		return domain.ErrReadOnlyView
	}
	s.mu.Unlock()

	bid, err := s.svc.GetBid(ctx, tradeID, subID)
	if err != nil {
		return err
	}
	items, alts, err := s.svc.GetBreakdown(ctx, bid.ID)
	if err != nil {
		return err
	}
	if err := s.svc.RemoveBid(ctx, tradeID, subID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.expireTimer != nil {
		s.expireTimer.Stop()
	}
	s.parkedSeq++
	seq := s.parkedSeq
	s.parked = &parkedBid{
		bid:       *bid,
		items:     items,
		alts:      alts,
		expiresAt: s.now().Add(s.undoWindow),
	}
	s.expireTimer = s.newExpireTimer(seq)
	s.mu.Unlock()

	return s.Load(ctx)
}

// CanUndo reports whether a deleted bid is still within its undo window.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parked != nil && s.now().Before(s.parked.expiresAt)
}

// Undo re-creates the most recently deleted bid with the exact field values
// it had before deletion, breakdown included. Returns ErrUndoExpired once
// the window has elapsed; the row is then permanently gone from the live
// matrix (snapshots that captured it are unaffected).
func (s *Session) Undo(ctx context.Context) error {
	s.mu.Lock()
	if s.readOnly() {
		s.mu.Unlock()
		return domain.ErrReadOnlyView
	}
	if s.parked == nil || !s.now().Before(s.parked.expiresAt) {
		s.mu.Unlock()
		return ErrUndoExpired
	}
	parked := s.parked
	s.parked = nil
	if s.expireTimer != nil {
		s.expireTimer.Stop()
		s.expireTimer = nil
	}
	s.mu.Unlock()

	bid := parked.bid
	if err := s.svc.UpsertBid(ctx, &bid); err != nil {
		// Restore the parked state so the user can retry while the window
		// would still have been open.
		s.mu.Lock()
		s.parked = parked
		s.mu.Unlock()
		return err
	}
	if len(parked.items) > 0 || len(parked.alts) > 0 {
		if err := s.svc.SaveBreakdown(ctx, bid.ID, parked.items, parked.alts); err != nil {
			return err
		}
	}
	return s.Load(ctx)
}
