package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/charmbracelet/lipgloss"
)

type chartRow struct {
	label string
	count int
	style lipgloss.Style
}

func renderBars(title string, rows []chartRow, width int) string {
	peak := 0
	labelWidth := 0
	for _, r := range rows {
		peak = max(peak, r.count)
		labelWidth = max(labelWidth, lipgloss.Width(r.label))
	}
	barWidth := max(width-labelWidth-8, 4)

	var b strings.Builder
	b.WriteString(StyleHeader.Render(title) + "\n")
	for _, r := range rows {
		n := 0
		if peak > 0 {
			n = r.count * barWidth / peak
		}
		if r.count > 0 && n == 0 {
			n = 1
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(r.label))
		fmt.Fprintf(&b, "%s%s %s %d\n",
			Dim(r.label), pad,
			r.style.Render(strings.Repeat(filledBlock, n))+strings.Repeat(" ", barWidth-n),
			r.count)
	}
	return b.String()
}

// FormatPriorityChart renders task counts per priority. Tasks whose priority
// is not recognized are counted under "other", shown only when present.
func FormatPriorityChart(c board.PriorityCounts, width int) string {
	rows := []chartRow{
		{"high", c.High, StyleRed},
		{"medium", c.Medium, StyleYellow},
		{"low", c.Low, StyleBlue},
	}
	if c.Other > 0 {
		rows = append(rows, chartRow{"other", c.Other, StyleDim})
	}
	return renderBars("PRIORITY", rows, width)
}

// FormatProgressChart renders the progress distribution bands.
func FormatProgressChart(bands []board.Band, width int) string {
	rows := make([]chartRow, len(bands))
	for i, band := range bands {
		style := StyleGreen
		switch {
		case band.Max < 33:
			style = StyleRed
		case band.Max < 66:
			style = StyleYellow
		}
		rows[i] = chartRow{band.Label, band.Count, style}
	}
	return renderBars("PROGRESS", rows, width)
}

// FormatCharts places both charts side by side, or stacks them when the
// terminal is narrow.
func FormatCharts(c board.PriorityCounts, bands []board.Band, width int) string {
	if width < 80 {
		return FormatPriorityChart(c, width) + "\n" + FormatProgressChart(bands, width)
	}
	half := width/2 - 2
	left := lipgloss.NewStyle().Width(half).Render(FormatPriorityChart(c, half))
	right := lipgloss.NewStyle().Width(half).Render(FormatProgressChart(bands, half))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}
