// Package tui provides the Bubble Tea shell for geocoin: the play screen,
// the score history screen and the SSH server that hosts them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flashTTL is how long a status message stays on screen.
const flashTTL = 3 * time.Second

// flashExpiredMsg clears the status message it was scheduled for.
type flashExpiredMsg struct {
	id int
}

// flashExpiry returns a command that expires flash id after flashTTL.
func flashExpiry(id int) tea.Cmd {
	return tea.Tick(flashTTL, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}
