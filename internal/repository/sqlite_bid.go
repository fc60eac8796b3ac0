package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colemturner/bidlevel/internal/db"
	"github.com/colemturner/bidlevel/internal/domain"
)

// SQLiteBidRepo implements BidRepo over SQLite.
type SQLiteBidRepo struct {
	db db.DBTX
}

func NewSQLiteBidRepo(dbtx db.DBTX) *SQLiteBidRepo {
	return &SQLiteBidRepo{db: dbtx}
}

const bidColumns = `id, project_id, trade_id, sub_id, status, base_bid_amount, received_at, notes, created_at, updated_at`

// Upsert inserts or replaces the bid keyed by (trade_id, sub_id). Last write
// wins: concurrent editors silently overwrite each other, matching the
// store's lack of version tokens.
func (r *SQLiteBidRepo) Upsert(ctx context.Context, b *domain.Bid) error {
	query := `INSERT INTO bids (` + bidColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(trade_id, sub_id) DO UPDATE SET
			status = excluded.status,
			base_bid_amount = excluded.base_bid_amount,
			received_at = excluded.received_at,
			notes = excluded.notes,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.ProjectID,
		b.TradeID,
		b.SubID,
		string(b.Status),
		nullableDecimalToString(b.BaseBidAmount),
		nullableTimeToString(b.ReceivedAt, dateLayout),
		b.Notes,
		b.CreatedAt.Format(time.RFC3339),
		b.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting bid: %w", err)
	}
	return nil
}

func (r *SQLiteBidRepo) GetByID(ctx context.Context, id string) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	b, err := scanBid(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bid %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (r *SQLiteBidRepo) GetByTradeSub(ctx context.Context, tradeID, subID string) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE trade_id = ? AND sub_id = ?`
	row := r.db.QueryRowContext(ctx, query, tradeID, subID)
	b, err := scanBid(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bid %s:%s: %w", tradeID, subID, domain.ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (r *SQLiteBidRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE project_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, projectID)
}

func (r *SQLiteBidRepo) ListByTrade(ctx context.Context, tradeID string) ([]*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE trade_id = ? ORDER BY created_at, id`
	return r.list(ctx, query, tradeID)
}

func (r *SQLiteBidRepo) list(ctx context.Context, query string, arg string) ([]*domain.Bid, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing bids: %w", err)
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		b, err := scanBid(rows.Scan)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bids: %w", err)
	}
	return bids, nil
}

func (r *SQLiteBidRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bids WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting bid: %w", err)
	}
	return nil
}

// ReplaceBreakdown swaps the full breakdown for a bid: delete-then-insert of
// every line item and alternate. Callers wanting atomicity run it inside a
// UnitOfWork.
func (r *SQLiteBidRepo) ReplaceBreakdown(ctx context.Context, bidID string, items []domain.BidLineItem, alts []domain.BidAlternate) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bid_line_items WHERE bid_id = ?`, bidID); err != nil {
		return fmt.Errorf("clearing line items: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bid_alternates WHERE bid_id = ?`, bidID); err != nil {
		return fmt.Errorf("clearing alternates: %w", err)
	}
	for _, it := range items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO bid_line_items (id, bid_id, description, amount, sort_order) VALUES (?, ?, ?, ?, ?)`,
			it.ID, bidID, it.Description, it.Amount.String(), it.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("inserting line item: %w", err)
		}
	}
	for _, alt := range alts {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO bid_alternates (id, bid_id, description, amount, accepted, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
			alt.ID, bidID, alt.Description, alt.Amount.String(), boolToInt(alt.Accepted), alt.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("inserting alternate: %w", err)
		}
	}
	return nil
}

func (r *SQLiteBidRepo) GetBreakdown(ctx context.Context, bidID string) ([]domain.BidLineItem, []domain.BidAlternate, error) {
	itemRows, err := r.db.QueryContext(ctx,
		`SELECT id, bid_id, description, amount, sort_order FROM bid_line_items WHERE bid_id = ? ORDER BY sort_order, id`, bidID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing line items: %w", err)
	}
	defer itemRows.Close()

	var items []domain.BidLineItem
	for itemRows.Next() {
		var it domain.BidLineItem
		var amountStr string
		if err := itemRows.Scan(&it.ID, &it.BidID, &it.Description, &amountStr, &it.SortOrder); err != nil {
			return nil, nil, fmt.Errorf("scanning line item: %w", err)
		}
		if it.Amount, err = parseDecimal(amountStr); err != nil {
			return nil, nil, fmt.Errorf("parsing line item amount: %w", err)
		}
		items = append(items, it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating line items: %w", err)
	}

	altRows, err := r.db.QueryContext(ctx,
		`SELECT id, bid_id, description, amount, accepted, sort_order FROM bid_alternates WHERE bid_id = ? ORDER BY sort_order, id`, bidID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing alternates: %w", err)
	}
	defer altRows.Close()

	var alts []domain.BidAlternate
	for altRows.Next() {
		var alt domain.BidAlternate
		var amountStr string
		var accepted int
		if err := altRows.Scan(&alt.ID, &alt.BidID, &alt.Description, &amountStr, &accepted, &alt.SortOrder); err != nil {
			return nil, nil, fmt.Errorf("scanning alternate: %w", err)
		}
		if alt.Amount, err = parseDecimal(amountStr); err != nil {
			return nil, nil, fmt.Errorf("parsing alternate amount: %w", err)
		}
		alt.Accepted = accepted != 0
		alts = append(alts, alt)
	}
	if err := altRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating alternates: %w", err)
	}

	return items, alts, nil
}

func scanBid(scan func(dest ...any) error) (*domain.Bid, error) {
	var b domain.Bid
	var statusStr, createdAtStr, updatedAtStr string
	var amountStr, receivedAtStr sql.NullString

	if err := scan(
		&b.ID, &b.ProjectID, &b.TradeID, &b.SubID,
		&statusStr, &amountStr, &receivedAtStr, &b.Notes,
		&createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}

	b.Status = domain.BidStatus(statusStr)
	b.BaseBidAmount = parseNullableDecimal(amountStr)
	b.ReceivedAt = parseNullableTime(receivedAtStr, dateLayout)

	var parseErr error
	b.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	b.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &b, nil
}
