package domain

import "time"

// Subcontractor is a directory entry for a bidding company, shared across
// projects.
type Subcontractor struct {
	ID          string
	CompanyName string
	Contact     string
	CreatedAt   time.Time
}

// ProjectSub is the per-project invitation record for a subcontractor.
// The same underlying subcontractor may be invited more than once (under
// different trades); consumers deduplicate by SubcontractorID, first-seen.
type ProjectSub struct {
	ID              string
	ProjectID       string
	SubcontractorID string
	CompanyName     string // denormalized from the subcontractor row on read
	SortOrder       int
	InvitedAt       time.Time
}
