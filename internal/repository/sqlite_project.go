package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colemturner/bidlevel/internal/db"
	"github.com/colemturner/bidlevel/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo over SQLite.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo. Accepts either a
// *sql.DB or a *sql.Tx for transactional composition.
func NewSQLiteProjectRepo(dbtx db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: dbtx}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (id, name, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		nullableTimeToString(p.DueDate, dateLayout),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT id, name, due_date, created_at, updated_at FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var p domain.Project
	var dueDateStr sql.NullString
	var createdAtStr, updatedAtStr string
	err := row.Scan(&p.ID, &p.Name, &dueDateStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.DueDate = parseNullableTime(dueDateStr, dateLayout)
	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT id, name, due_date, created_at, updated_at FROM projects ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		var dueDateStr sql.NullString
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&p.ID, &p.Name, &dueDateStr, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		p.DueDate = parseNullableTime(dueDateStr, dateLayout)
		var parseErr error
		p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, due_date = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		nullableTimeToString(p.DueDate, dateLayout),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}
