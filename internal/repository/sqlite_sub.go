package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colemturner/bidlevel/internal/db"
	"github.com/colemturner/bidlevel/internal/domain"
)

// SQLiteSubRepo implements SubRepo over SQLite. Project invitations are
// returned with the company name joined in, ordered by invitation order so
// first-seen dedup downstream is stable.
type SQLiteSubRepo struct {
	db db.DBTX
}

func NewSQLiteSubRepo(dbtx db.DBTX) *SQLiteSubRepo {
	return &SQLiteSubRepo{db: dbtx}
}

func (r *SQLiteSubRepo) CreateSubcontractor(ctx context.Context, s *domain.Subcontractor) error {
	query := `INSERT INTO subcontractors (id, company_name, contact, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.CompanyName,
		s.Contact,
		s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting subcontractor: %w", err)
	}
	return nil
}

func (r *SQLiteSubRepo) GetSubcontractor(ctx context.Context, id string) (*domain.Subcontractor, error) {
	query := `SELECT id, company_name, contact, created_at FROM subcontractors WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.Subcontractor
	var createdAtStr string
	err := row.Scan(&s.ID, &s.CompanyName, &s.Contact, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("subcontractor %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning subcontractor: %w", err)
	}
	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &s, nil
}

func (r *SQLiteSubRepo) ListSubcontractors(ctx context.Context) ([]*domain.Subcontractor, error) {
	query := `SELECT id, company_name, contact, created_at FROM subcontractors ORDER BY company_name COLLATE NOCASE`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing subcontractors: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Subcontractor
	for rows.Next() {
		var s domain.Subcontractor
		var createdAtStr string
		if err := rows.Scan(&s.ID, &s.CompanyName, &s.Contact, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning subcontractor row: %w", err)
		}
		var parseErr error
		s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subcontractors: %w", err)
	}
	return subs, nil
}

func (r *SQLiteSubRepo) InviteToProject(ctx context.Context, ps *domain.ProjectSub) error {
	query := `INSERT INTO project_subs (id, project_id, subcontractor_id, sort_order, invited_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ps.ID,
		ps.ProjectID,
		ps.SubcontractorID,
		ps.SortOrder,
		ps.InvitedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project sub: %w", err)
	}
	return nil
}

func (r *SQLiteSubRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectSub, error) {
	query := `SELECT ps.id, ps.project_id, ps.subcontractor_id, s.company_name, ps.sort_order, ps.invited_at
		FROM project_subs ps
		JOIN subcontractors s ON s.id = ps.subcontractor_id
		WHERE ps.project_id = ?
		ORDER BY ps.sort_order, ps.invited_at, ps.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project subs: %w", err)
	}
	defer rows.Close()

	var subs []*domain.ProjectSub
	for rows.Next() {
		var ps domain.ProjectSub
		var invitedAtStr string
		if err := rows.Scan(&ps.ID, &ps.ProjectID, &ps.SubcontractorID, &ps.CompanyName, &ps.SortOrder, &invitedAtStr); err != nil {
			return nil, fmt.Errorf("scanning project sub row: %w", err)
		}
		var parseErr error
		ps.InvitedAt, parseErr = time.Parse(time.RFC3339, invitedAtStr)
		if parseErr != nil {
			return nil, fmt.Errorf("parsing invited_at: %w", parseErr)
		}
		subs = append(subs, &ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project subs: %w", err)
	}
	return subs, nil
}

func (r *SQLiteSubRepo) RemoveFromProject(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM project_subs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("removing project sub: %w", err)
	}
	return nil
}
