// Package tui provides the Bubble Tea frontends: the local terminal player,
// the capture browser and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a frame tick of the player with the same ID.
// Players ignore ticks addressed to a player they replaced.
type TickMsg struct {
	ID   int64
	Time time.Time
}

var playerIDs atomic.Int64

func nextPlayerID() int64 {
	return playerIDs.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(id int64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}
