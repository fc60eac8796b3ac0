package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colemturner/bidlevel/internal/db"
	"github.com/colemturner/bidlevel/internal/domain"
)

// SQLiteBudgetRepo implements BudgetRepo over SQLite. Budgets are keyed
// (project_id, trade_id); a missing row means no budget set.
type SQLiteBudgetRepo struct {
	db db.DBTX
}

func NewSQLiteBudgetRepo(dbtx db.DBTX) *SQLiteBudgetRepo {
	return &SQLiteBudgetRepo{db: dbtx}
}

func (r *SQLiteBudgetRepo) Upsert(ctx context.Context, b *domain.Budget) error {
	query := `INSERT INTO budgets (project_id, trade_id, amount, notes, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, trade_id) DO UPDATE SET
			amount = excluded.amount,
			notes = excluded.notes,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		b.ProjectID,
		b.TradeID,
		nullableDecimalToString(b.Amount),
		b.Notes,
		b.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting budget: %w", err)
	}
	return nil
}

func (r *SQLiteBudgetRepo) Get(ctx context.Context, projectID, tradeID string) (*domain.Budget, error) {
	query := `SELECT project_id, trade_id, amount, notes, updated_at FROM budgets
		WHERE project_id = ? AND trade_id = ?`
	row := r.db.QueryRowContext(ctx, query, projectID, tradeID)
	b, err := scanBudget(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("budget %s/%s: %w", projectID, tradeID, domain.ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (r *SQLiteBudgetRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Budget, error) {
	query := `SELECT project_id, trade_id, amount, notes, updated_at FROM budgets WHERE project_id = ?`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budgets: %w", err)
	}
	return budgets, nil
}

func scanBudget(scan func(dest ...any) error) (*domain.Budget, error) {
	var b domain.Budget
	var amountStr sql.NullString
	var updatedAtStr string
	if err := scan(&b.ProjectID, &b.TradeID, &amountStr, &b.Notes, &updatedAtStr); err != nil {
		return nil, err
	}
	b.Amount = parseNullableDecimal(amountStr)
	var parseErr error
	b.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &b, nil
}
