package domain

import "time"

type Project struct {
	ID        string
	Name      string
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayID returns a short identifier for list output, truncating the
// UUID to 8 characters.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// DaysUntilDue returns the whole days remaining until the project due date,
// rounding partial days up. Returns nil when no due date is set.
func (p *Project) DaysUntilDue(now time.Time) *int {
	if p.DueDate == nil {
		return nil
	}
	days := int(p.DueDate.Sub(now).Hours() / 24)
	if p.DueDate.Sub(now) > time.Duration(days)*24*time.Hour {
		days++
	}
	return &days
}
