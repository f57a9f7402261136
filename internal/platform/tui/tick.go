// Package tui is the terminal window system for the host. A Bubble Tea
// program plays the part of the UI toolkit: it turns mouse, key, focus and
// resize messages into host calls and shows the frames, dialogs and
// leaderboards the host hands back.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toastTTL is how long a notice stays on the status line.
const toastTTL = 4 * time.Second

// expireMsg clears the toast with the same id.
type expireMsg struct {
	id int
}

// expireCmd returns a Bubble Tea command that expires toast id after d.
func expireCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return expireMsg{id: id}
	})
}
