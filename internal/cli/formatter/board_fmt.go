package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/riskboard/internal/board"
	"github.com/alexanderramin/riskboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Empty-state messages. The first means the store returned no rows, the
// second that filters hid every row.
const (
	NoTasksMessage   = "No tasks found."
	NoMatchesMessage = "No tasks match the filters."
)

// FormatTaskTable renders entries in the order given.
func FormatTaskTable(entries []board.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		t := e.Task
		progress := "--"
		if t.Progress != nil {
			progress = strconv.Itoa(*t.Progress) + "%"
		}
		due := OrDash(t.DueDateString())
		if t.DueDate != nil {
			due += " " + DaysLeftStyled(e.DaysLeft)
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			Truncate(t.TaskName, 40),
			OrDash(t.Assignee),
			PriorityLabel(t.Priority),
			progress,
			due,
			RiskColor(e.Level).Render(strconv.Itoa(e.Score)),
			RiskPill(e.Level),
		})
	}
	return Table{
		Headers:    []string{"ID", "TASK", "ASSIGNEE", "PRIORITY", "PROGRESS", "DUE", "SCORE", "RISK"},
		Rows:       rows,
		RightAlign: map[int]bool{4: true, 6: true},
	}.Render()
}

// FormatStats renders the summary as plain lines for the stats command.
func FormatStats(s board.Stats) string {
	var b strings.Builder
	b.WriteString(Header("Summary") + "\n")
	fmt.Fprintf(&b, "%s %d\n", Dim("Tasks       "), s.Total)
	fmt.Fprintf(&b, "%s %s\n", Dim("High risk   "), StyleRed.Render(strconv.Itoa(s.High)))
	fmt.Fprintf(&b, "%s %s\n", Dim("Medium risk "), StyleYellow.Render(strconv.Itoa(s.Medium)))
	fmt.Fprintf(&b, "%s %s\n", Dim("Low risk    "), StyleGreen.Render(strconv.Itoa(s.Low)))
	fmt.Fprintf(&b, "%s %s\n", Dim("Avg progress"), RenderProgress(s.AvgProgress, 16))
	return b.String()
}

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Padding(0, 1)

func summaryCard(label, value string, width int) string {
	body := Dim(label) + "\n" + value
	return cardStyle.Width(width).Render(body)
}

// FormatSummaryCards renders the five dashboard summary cards in one row.
// Narrow terminals get a single compact line instead.
func FormatSummaryCards(s board.Stats, width int) string {
	if width < 70 {
		return fmt.Sprintf("%s %d  %s %s  %s %s  %s %s  %s %d%%",
			Dim("tasks"), s.Total,
			Dim("high"), StyleRed.Render(strconv.Itoa(s.High)),
			Dim("medium"), StyleYellow.Render(strconv.Itoa(s.Medium)),
			Dim("low"), StyleGreen.Render(strconv.Itoa(s.Low)),
			Dim("avg"), s.AvgProgress)
	}
	cw := min(width/5-2, 20)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		summaryCard("Total", Bold(strconv.Itoa(s.Total)), cw),
		summaryCard("High", StyleRed.Bold(true).Render(strconv.Itoa(s.High)), cw),
		summaryCard("Medium", StyleYellow.Bold(true).Render(strconv.Itoa(s.Medium)), cw),
		summaryCard("Low", StyleGreen.Bold(true).Render(strconv.Itoa(s.Low)), cw),
		summaryCard("Avg progress", Bold(strconv.Itoa(s.AvgProgress)+"%"), cw),
	)
}

// FormatFilterBar shows the active filters, the sort order and when the
// snapshot was fetched.
func FormatFilterBar(f board.Filter, sort board.SortMode, fetchedAt, now time.Time) string {
	value := func(v string) string {
		if board.IsAll(v) {
			return Dim(board.FilterAll)
		}
		return StyleGreen.Render(v)
	}
	search := Dim("--")
	if term := strings.TrimSpace(f.Search); term != "" {
		search = StyleGreen.Render(fmt.Sprintf("%q", term))
	}
	updated := Dim("never")
	if !fetchedAt.IsZero() {
		updated = Dim(HumanTimestamp(fetchedAt, now) + " (" + fetchedAt.Local().Format("15:04:05") + ")")
	}
	return fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s %s",
		Dim("priority:"), value(f.Priority),
		Dim("assignee:"), value(f.Assignee),
		Dim("search:"), search,
		Dim("sort:"), StyleBlue.Render(string(sort)),
		Dim("updated:"), updated,
	)
}

// FormatTaskCard renders one task as a card. The selected card gets an accent
// border.
func FormatTaskCard(e board.Entry, width int, selected bool) string {
	t := e.Task
	inner := max(width-4, 20)

	title := StyleBold.Render(Truncate(t.TaskName, inner-14))
	head := title + "  " + RiskPill(e.Level)

	var b strings.Builder
	b.WriteString(head + "\n")
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		Dim("assignee"), OrDash(t.Assignee),
		Dim("priority"), PriorityLabel(t.Priority))

	due := Dim("no due date")
	if t.DueDate != nil {
		due = t.DueDateString() + " " + DaysLeftStyled(e.DaysLeft)
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("due     "), due)

	barWidth := min(max(inner-16, 6), 24)
	fmt.Fprintf(&b, "%s %s\n", Dim("risk    "), RenderScoreBar(e.Score, barWidth))
	progress := RenderProgress(t.ProgressOrZero(), barWidth)
	if t.Progress == nil {
		progress += Dim(" (not set)")
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("progress"), progress)

	delay := t.DelayOrZero()
	delayText := Dim("0d")
	if delay > 0 {
		delayText = StyleYellow.Render(fmt.Sprintf("%dd", delay))
	}
	deps := Dim(domain.NoDependencies)
	if domain.HasDependencies(t.Dependencies) {
		deps = StylePurple.Render(Truncate(t.Dependencies, max(inner-30, 8)))
	}
	fmt.Fprintf(&b, "%s %s   %s %s", Dim("delay"), delayText, Dim("deps"), deps)
	if strings.TrimSpace(t.RiskFactors) != "" {
		fmt.Fprintf(&b, "\n%s %s", Dim("factors "), Truncate(t.RiskFactors, inner-9))
	}

	style := cardStyle.Width(inner + 2)
	if selected {
		style = style.BorderForeground(ColorHeader)
	}
	return style.Render(b.String())
}
