// Package tui provides the Bubble Tea viewers for Chicken War: a live arena
// view fed by engine presentation snapshots and a results board over the
// match ledger.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// PollMsg is sent when the viewer should fetch a fresh snapshot.
type PollMsg time.Time

// pollCmd returns a Bubble Tea command that sends a PollMsg after interval.
func pollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return PollMsg(t)
	})
}
