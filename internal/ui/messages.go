package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is sent periodically for clock and status expiry updates.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// changedMsg is emitted by a pane after it mutated the store. The app pushes
// the undo action (if any), shows the status and refreshes every pane, since
// a change in one collection can show up in another pane's counters.
type changedMsg struct {
	undo   *UndoableAction
	status string
}

// statusMsg asks the app to show a message without any store change.
type statusMsg struct {
	text string
	err  bool
}

// emit wraps an already-built message in a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
