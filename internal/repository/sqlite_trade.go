package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colemturner/bidlevel/internal/db"
	"github.com/colemturner/bidlevel/internal/domain"
)

// SQLiteTradeRepo implements TradeRepo over SQLite.
type SQLiteTradeRepo struct {
	db db.DBTX
}

func NewSQLiteTradeRepo(dbtx db.DBTX) *SQLiteTradeRepo {
	return &SQLiteTradeRepo{db: dbtx}
}

const tradeColumns = `id, project_id, name, sort_order, created_at, updated_at`

func (r *SQLiteTradeRepo) Create(ctx context.Context, t *domain.Trade) error {
	query := `INSERT INTO trades (` + tradeColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Name,
		t.SortOrder,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting trade: %w", err)
	}
	return nil
}

func (r *SQLiteTradeRepo) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	t, err := scanTrade(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("trade %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

// ListByProject returns trades ordered by their dense rank, ties by name.
func (r *SQLiteTradeRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE project_id = ? ORDER BY sort_order, name`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows.Scan)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trades: %w", err)
	}
	return trades, nil
}

func (r *SQLiteTradeRepo) Update(ctx context.Context, t *domain.Trade) error {
	query := `UPDATE trades SET name = ?, sort_order = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.SortOrder,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating trade: %w", err)
	}
	return nil
}

func (r *SQLiteTradeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting trade: %w", err)
	}
	return nil
}

func scanTrade(scan func(dest ...any) error) (*domain.Trade, error) {
	var t domain.Trade
	var createdAtStr, updatedAtStr string
	if err := scan(&t.ID, &t.ProjectID, &t.Name, &t.SortOrder, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &t, nil
}
