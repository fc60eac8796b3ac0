package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent (CREATE IF
// NOT EXISTS); ALTER TABLE statements added later tolerate re-runs by
// ignoring duplicate-column errors.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Money columns are stored as TEXT holding a decimal string; NULL means
// "no amount", never zero.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		due_date   TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS trades (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_project ON trades(project_id)`,

	`CREATE TABLE IF NOT EXISTS subcontractors (
		id           TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		contact      TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS project_subs (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		subcontractor_id TEXT NOT NULL REFERENCES subcontractors(id),
		sort_order       INTEGER NOT NULL DEFAULT 0,
		invited_at       TEXT NOT NULL,
		UNIQUE(project_id, subcontractor_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_project_subs_project ON project_subs(project_id)`,

	`CREATE TABLE IF NOT EXISTS bids (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		trade_id        TEXT NOT NULL REFERENCES trades(id),
		sub_id          TEXT NOT NULL REFERENCES project_subs(id),
		status          TEXT NOT NULL
		                CHECK(status IN ('invited','bidding','submitted','declined','no_response')),
		base_bid_amount TEXT,
		received_at     TEXT,
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		UNIQUE(trade_id, sub_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_project ON bids(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_trade ON bids(trade_id)`,

	`CREATE TABLE IF NOT EXISTS bid_line_items (
		id          TEXT PRIMARY KEY,
		bid_id      TEXT NOT NULL REFERENCES bids(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		amount      TEXT NOT NULL,
		sort_order  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bid_line_items_bid ON bid_line_items(bid_id)`,

	`CREATE TABLE IF NOT EXISTS bid_alternates (
		id          TEXT PRIMARY KEY,
		bid_id      TEXT NOT NULL REFERENCES bids(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		amount      TEXT NOT NULL,
		accepted    INTEGER NOT NULL DEFAULT 0,
		sort_order  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bid_alternates_bid ON bid_alternates(bid_id)`,

	`CREATE TABLE IF NOT EXISTS budgets (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		trade_id   TEXT NOT NULL REFERENCES trades(id),
		amount     TEXT,
		notes      TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (project_id, trade_id)
	)`,

	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_project ON snapshots(project_id)`,

	`CREATE TABLE IF NOT EXISTS snapshot_items (
		id              TEXT PRIMARY KEY,
		snapshot_id     TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		trade_id        TEXT NOT NULL,
		sub_id          TEXT NOT NULL,
		base_bid_amount TEXT,
		notes           TEXT NOT NULL DEFAULT '',
		UNIQUE(snapshot_id, trade_id, sub_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshot_items_snapshot ON snapshot_items(snapshot_id)`,
}
