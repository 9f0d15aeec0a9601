package cli

import "github.com/alexanderramin/riskboard/internal/board"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App  *App
	Caps board.Capabilities

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the rows left for view content after the header
// (title + separator) and the status bar (separator + hints).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-4, 1)
}

// ContentWidth falls back to 80 columns before the first WindowSizeMsg.
func (s *SharedState) ContentWidth() int {
	if s.Width <= 0 {
		return 80
	}
	return s.Width
}
