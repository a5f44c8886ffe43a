package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vovakirdan/chicken-war/internal/engine"
	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/world"
)

// Layout constants
const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 3 // status, errors and help lines below the arena
)

// MatchSource is what the viewer needs from a running match.
// *engine.Engine satisfies it.
type MatchSource interface {
	Presentation() *engine.Presentation
	Stop()
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WatchModel is the Bubble Tea model of the live arena view.
type WatchModel struct {
	source   MatchSource
	interval time.Duration
	canvas   *Canvas
	keys     WatchKeyMap
	help     help.Model
	last     *engine.Presentation
	width    int
	height   int
	stopped  bool
	quitting bool
}

// NewWatchModel creates a viewer polling source every interval.
func NewWatchModel(source MatchSource, interval time.Duration, width, height int) WatchModel {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}
	h := help.New()
	h.Width = width
	return WatchModel{
		source:   source,
		interval: interval,
		canvas:   NewCanvas(width, height-chromeHeight),
		keys:     DefaultWatchKeyMap(),
		help:     h,
		last:     source.Presentation(),
		width:    width,
		height:   height,
	}
}

// Init starts the polling loop.
func (m WatchModel) Init() tea.Cmd {
	return pollCmd(m.interval)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.source.Stop()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Stop):
			m.source.Stop()
			m.stopped = true
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.Resize(msg.Width, msg.Height-chromeHeight)
		m.help.Width = msg.Width
		return m, nil

	case PollMsg:
		m.last = m.source.Presentation()
		return m, pollCmd(m.interval)
	}

	return m, nil
}

// Last returns the most recent snapshot shown.
func (m WatchModel) Last() *engine.Presentation {
	return m.last
}

// Stopped reports whether the user stopped the match.
func (m WatchModel) Stopped() bool {
	return m.stopped
}

// View renders the arena, the status bar and the help line.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	DrawArena(m.canvas, m.last)

	var b strings.Builder
	b.WriteString(RenderCanvas(m.canvas))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(StatusLine(m.last)))
	b.WriteString("\n")
	b.WriteString(errorStyle.Render(errorLine(m.last)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// StatusLine summarises a snapshot in one line.
func StatusLine(p *engine.Presentation) string {
	if p == nil {
		return "waiting for match..."
	}
	parts := []string{
		fmt.Sprintf("tick %d", p.Tick),
		p.Phase.String(),
	}
	for _, t := range []logic.Team{logic.TeamA, logic.TeamB} {
		parts = append(parts, fmt.Sprintf("%s %s: %d alive, %d kills",
			t, p.Logics[t], p.Alive[t], p.Kills[t]))
	}
	if p.Phase == world.PhaseEnded || p.Reason != engine.ReasonNone {
		outcome := "draw"
		if p.Winner.Valid() {
			outcome = "winner " + p.Winner.String()
		}
		if p.Reason != engine.ReasonNone {
			outcome += " (" + p.Reason.String() + ")"
		}
		parts = append(parts, outcome)
	}
	return strings.Join(parts, " | ")
}

func errorLine(p *engine.Presentation) string {
	if p == nil {
		return ""
	}
	var errs []string
	for t, e := range p.TeamErrors {
		if e != "" {
			errs = append(errs, fmt.Sprintf("%s: %s", logic.Team(t), e))
		}
	}
	return strings.Join(errs, "; ")
}

// terminalSize returns the size of stdout, or a default when it is not a
// terminal.
func terminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

// Watch runs the arena viewer until the user quits.
func Watch(source MatchSource, interval time.Duration) error {
	w, h := terminalSize()
	model := NewWatchModel(source, interval, w, h)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
