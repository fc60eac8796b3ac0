package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colemturner/bidlevel/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// HealthColor returns the lipgloss style corresponding to the given health badge.
func HealthColor(h domain.ProjectHealth) lipgloss.Style {
	switch h {
	case domain.HealthCritical:
		return StyleRed
	case domain.HealthAtRisk:
		return StyleYellow
	case domain.HealthHealthy:
		return StyleGreen
	default:
		return StyleDim
	}
}

// HealthIndicator returns a colored health badge string such as "● CRITICAL".
func HealthIndicator(h domain.ProjectHealth) string {
	switch h {
	case domain.HealthCritical:
		return StyleRed.Render("● CRITICAL")
	case domain.HealthAtRisk:
		return StyleYellow.Render("● AT RISK")
	case domain.HealthHealthy:
		return StyleGreen.Render("● HEALTHY")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// BidStatusPill returns a colored status indicator for a bid status.
func BidStatusPill(status domain.BidStatus) string {
	switch status {
	case domain.BidInvited:
		return StyleBlue.Render("○ Invited")
	case domain.BidBidding:
		return StyleYellow.Render("◐ Bidding")
	case domain.BidSubmitted:
		return StyleGreen.Render("● Submitted")
	case domain.BidDeclined:
		return StyleDim.Render("✖ Declined")
	case domain.BidNoResponse:
		return StyleDim.Render("⊘ No Response")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
