package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DaysLeftLabel describes whole days until a deadline: "3d left", "due today"
// or "2d overdue". A nil value means no due date.
func DaysLeftLabel(daysLeft *int) string {
	if daysLeft == nil {
		return "no due date"
	}
	d := *daysLeft
	switch {
	case d < 0:
		return fmt.Sprintf("%dd overdue", -d)
	case d == 0:
		return "due today"
	default:
		return fmt.Sprintf("%dd left", d)
	}
}

// DaysLeftStyled colors DaysLeftLabel by the deadline penalty band it falls in.
func DaysLeftStyled(daysLeft *int) string {
	text := DaysLeftLabel(daysLeft)
	if daysLeft == nil {
		return StyleDim.Render(text)
	}
	switch d := *daysLeft; {
	case d < 7:
		return StyleRed.Render(text)
	case d < 14:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// HumanTimestamp renders t relative to now for "last updated" lines.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("15:04:05")
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to width visible cells, ending with "…" when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// OrDash returns s, or a dimmed "--" placeholder when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return StyleDim.Render("--")
	}
	return s
}
