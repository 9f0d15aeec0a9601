package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

type pushViewMsg struct {
	view View
}

// wizardCompleteMsg is sent when a form completes or is cancelled.
// The appModel pops the form view, then runs nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// noticeMsg carries a one-line status message for the dashboard.
type noticeMsg struct {
	text string
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func noticeCmd(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}
