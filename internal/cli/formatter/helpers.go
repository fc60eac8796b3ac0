package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// Money renders a decimal dollar amount with thousands separators, e.g.
// "$1,250,000". Cents are shown only when non-zero. A nil amount renders
// as a dimmed placeholder.
func Money(amount *decimal.Decimal) string {
	if amount == nil {
		return Dim("--")
	}
	return MoneyPlain(*amount)
}

// MoneyPlain renders a decimal dollar amount without nil handling or styling.
func MoneyPlain(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	abs := amount.Abs()

	whole := abs.Truncate(0)
	cents := abs.Sub(whole)

	digits := whole.String()
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	out := "$" + strings.Join(groups, ",")

	if !cents.IsZero() {
		out += cents.StringFixed(2)[1:] // ".xx"
	}
	if neg {
		out = "-" + out
	}
	return out
}

// RelativeDate returns a human-friendly relative date string.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// RelativeDateStyled returns RelativeDate with urgency coloring applied.
func RelativeDateStyled(t time.Time) string {
	text := RelativeDate(t)
	days := int(math.Round(time.Until(t).Hours() / 24))

	if days >= 0 && days <= 2 {
		return StyleRed.Render(text)
	}
	if days > 2 && days <= 7 {
		return StyleYellow.Render(text)
	}
	if days < 0 {
		return StyleRed.Render(text)
	}
	return StyleFg.Render(text)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
