package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
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

// RiskColor returns the style for a risk level. Unknown levels are dimmed.
func RiskColor(level domain.RiskLevel) lipgloss.Style {
	switch level {
	case domain.RiskHigh:
		return StyleRed
	case domain.RiskMedium:
		return StyleYellow
	case domain.RiskLow:
		return StyleGreen
	default:
		return StyleDim
	}
}

// RiskPill renders a level as "● HIGH", "● MEDIUM" or "● LOW".
func RiskPill(level domain.RiskLevel) string {
	if level == "" {
		return StyleDim.Render("● UNKNOWN")
	}
	return RiskColor(level).Render("● " + strings.ToUpper(string(level)))
}

// PriorityLabel renders a priority. Aliases keep their stored text and take
// the color of the priority they stand for.
func PriorityLabel(p domain.Priority) string {
	if p == "" {
		return StyleDim.Render("--")
	}
	switch p.Normalize() {
	case domain.PriorityHigh:
		return StyleRed.Render(string(p))
	case domain.PriorityMedium:
		return StyleYellow.Render(string(p))
	case domain.PriorityLow:
		return StyleBlue.Render(string(p))
	default:
		return StyleDim.Render(string(p))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
