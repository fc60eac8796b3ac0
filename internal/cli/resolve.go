package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/colemturner/bidlevel/internal/domain"
)

// resolveProjectID accepts a full UUID, a UUID prefix or an exact project
// name (case-insensitive) and resolves it to the project's ID.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTradeID accepts a trade ID, ID prefix or exact trade name within a
// project.
func resolveTradeID(ctx context.Context, app *App, projectID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("trade is required")
	}

	trades, err := app.Trades.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	for _, t := range trades {
		if t.ID == input {
			return t.ID, nil
		}
	}
	for _, t := range trades {
		if strings.EqualFold(t.Name, input) {
			return t.ID, nil
		}
	}

	var matches []string
	for _, t := range trades {
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("trade not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("trade ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveSubID accepts an invitation ID, ID prefix or exact company name and
// resolves it to the ProjectSub ID used in matrix cells.
func resolveSubID(ctx context.Context, app *App, projectID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("sub is required")
	}

	subs, err := app.Subs.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	for _, s := range subs {
		if s.ID == input {
			return s.ID, nil
		}
	}
	for _, s := range subs {
		if strings.EqualFold(s.CompanyName, input) {
			return s.ID, nil
		}
	}

	var matches []string
	for _, s := range subs {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("sub not found on project: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("sub ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// findSnapshot resolves a snapshot reference (ID, prefix or exact title)
// against the loaded snapshot headers.
func findSnapshot(snapshots []*domain.LevelingSnapshot, input string) (*domain.LevelingSnapshot, error) {
	for _, s := range snapshots {
		if s.ID == input {
			return s, nil
		}
	}
	for _, s := range snapshots {
		if strings.EqualFold(s.Title, input) {
			return s, nil
		}
	}

	var matches []*domain.LevelingSnapshot
	for _, s := range snapshots {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("snapshot not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("snapshot ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
