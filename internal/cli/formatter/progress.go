package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/riskboard/internal/risk"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// blocks returns a bar of width cells with pct (0..1, clamped) filled.
func blocks(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// RenderProgress renders task progress like [████░░░░]  45%.
// Low progress is red, middling yellow, near-done green.
func RenderProgress(progress int, width int) string {
	pct := float64(progress) / 100
	style := StyleGreen
	switch {
	case pct < 0.33:
		style = StyleRed
	case pct < 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(blocks(pct, width)), clampPercent(progress))
}

// RenderScoreBar renders a risk score bar colored by level. The bar fills at
// 100 even though the printed score may be higher.
func RenderScoreBar(score int, width int) string {
	style := RiskColor(risk.Classify(score))
	return fmt.Sprintf("[%s] %3d", style.Render(blocks(float64(score)/100, width)), score)
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
