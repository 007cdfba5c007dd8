// Package tui provides the Bubble Tea front end for gemfall. Local play and
// SSH sessions served through Wish share the same menu and game models.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// defaultTickRate is used when a config carries no usable rate.
const defaultTickRate = 60

// TickMsg drives one game Step. Turns in flight advance the game's step clock
// by one tick per message.
type TickMsg time.Time

// tickCmd schedules the next tick at tickRate per second.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
