package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colemturner/bidlevel/internal/db"
	"github.com/colemturner/bidlevel/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo over SQLite. Snapshots are
// append-only: there are no update or delete operations on this repo.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(dbtx db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: dbtx}
}

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.LevelingSnapshot) error {
	query := `INSERT INTO snapshots (id, project_id, title, note, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		s.Title,
		s.Note,
		s.CreatedAt.Format(time.RFC3339),
		s.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.LevelingSnapshot, error) {
	query := `SELECT id, project_id, title, note, created_at, created_by FROM snapshots WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.LevelingSnapshot
	var createdAtStr string
	err := row.Scan(&s.ID, &s.ProjectID, &s.Title, &s.Note, &createdAtStr, &s.CreatedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("snapshot %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &s, nil
}

func (r *SQLiteSnapshotRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.LevelingSnapshot, error) {
	query := `SELECT id, project_id, title, note, created_at, created_by FROM snapshots
		WHERE project_id = ? ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.LevelingSnapshot
	for rows.Next() {
		var s domain.LevelingSnapshot
		var createdAtStr string
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Title, &s.Note, &createdAtStr, &s.CreatedBy); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		var parseErr error
		s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		snapshots = append(snapshots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *SQLiteSnapshotRepo) CreateItem(ctx context.Context, item *domain.SnapshotItem) error {
	query := `INSERT INTO snapshot_items (id, snapshot_id, trade_id, sub_id, base_bid_amount, notes)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.SnapshotID,
		item.TradeID,
		item.SubID,
		nullableDecimalToString(item.BaseBidAmount),
		item.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot item: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) ListItems(ctx context.Context, snapshotID string) ([]domain.SnapshotItem, error) {
	query := `SELECT id, snapshot_id, trade_id, sub_id, base_bid_amount, notes FROM snapshot_items
		WHERE snapshot_id = ? ORDER BY trade_id, sub_id`
	rows, err := r.db.QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot items: %w", err)
	}
	defer rows.Close()

	var items []domain.SnapshotItem
	for rows.Next() {
		var item domain.SnapshotItem
		var amountStr sql.NullString
		if err := rows.Scan(&item.ID, &item.SnapshotID, &item.TradeID, &item.SubID, &amountStr, &item.Notes); err != nil {
			return nil, fmt.Errorf("scanning snapshot item: %w", err)
		}
		item.BaseBidAmount = parseNullableDecimal(amountStr)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot items: %w", err)
	}
	return items, nil
}
