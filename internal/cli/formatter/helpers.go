package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 2)
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return box.Render(content)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Date renders a calendar date with its weekday, e.g. "Mon 2025-03-03".
func Date(t time.Time) string {
	if t.IsZero() {
		return Dim("--")
	}
	return t.Format("Mon ") + t.Format(dateLayout)
}

// DateRange renders "from → to".
func DateRange(from, to time.Time) string {
	return from.Format(dateLayout) + " → " + to.Format(dateLayout)
}

// WeekName names a week by its number: onboarding, regular or closing.
func WeekName(n int) string {
	switch {
	case n == 0:
		return "Onboarding"
	case n < 0:
		return fmt.Sprintf("Closing %d", -n)
	default:
		return fmt.Sprintf("Week %d", n)
	}
}

// Pct renders a percentage without trailing zeros.
func Pct(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".") + "%"
}

// CompletionBar renders a fixed-width bar for rate, marking it green once
// the threshold is met.
func CompletionBar(rate float64, met bool, width int) string {
	if width <= 0 {
		width = 10
	}
	filled := int(rate / 100 * float64(width))
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if met {
		return StyleGreen.Render(bar)
	}
	return StyleYellow.Render(bar)
}

// Plural renders "1 task" or "3 tasks".
func Plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
