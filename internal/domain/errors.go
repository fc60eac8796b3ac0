package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced entity no longer exists,
	// typically because a stale in-memory reference was acted on.
	ErrNotFound = errors.New("not found")

	// ErrReadOnlyView is returned by mutation entry points while a historical
	// snapshot is selected. It is raised before any store call is made.
	ErrReadOnlyView = errors.New("historical snapshot selected: view is read-only")

	// ErrBreakdownSave marks a failed line-item/alternate write that happened
	// after the parent bid was already committed. Callers can retry just the
	// breakdown; the bid's saved total is intact.
	ErrBreakdownSave = errors.New("bid saved but breakdown write failed")
)
