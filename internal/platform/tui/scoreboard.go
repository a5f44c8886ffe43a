package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chicken-war/internal/storage"
)

// Results board layout constants
const (
	maxMatches  = 100 // Max matches to load
	boardChrome = 8   // Title, tabs, borders and help
)

// Ledger is the read side of the results store.
type Ledger interface {
	RecentMatches(limit int) ([]storage.MatchRecord, error)
	LogicStats() ([]storage.LogicStats, error)
}

// BoardTab selects the results board view.
type BoardTab int

const (
	TabMatches BoardTab = iota
	TabLogics
)

// String returns the tab title.
func (t BoardTab) String() string {
	if t == TabLogics {
		return "Logics"
	}
	return "Matches"
}

// ResultsBoard is the Bubble Tea model for the results ledger screen.
type ResultsBoard struct {
	ledger   Ledger
	tab      BoardTab
	matches  []storage.MatchRecord
	stats    []storage.LogicStats
	loadErr  error
	table    table.Model
	help     help.Model
	keys     ResultsKeyMap
	width    int
	height   int
	quitting bool
}

// NewResultsBoard creates a results board and loads the ledger.
func NewResultsBoard(ledger Ledger, width, height int) ResultsBoard {
	h := help.New()
	h.Width = width

	m := ResultsBoard{
		ledger: ledger,
		keys:   DefaultResultsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load reads both views from the ledger.
func (m *ResultsBoard) load() {
	if m.ledger == nil {
		return
	}
	matches, err := m.ledger.RecentMatches(maxMatches)
	if err != nil {
		m.loadErr = err
		return
	}
	stats, err := m.ledger.LogicStats()
	if err != nil {
		m.loadErr = err
		return
	}
	m.matches = matches
	m.stats = stats
}

// columns returns the table columns of the current tab.
func (m ResultsBoard) columns() []table.Column {
	if m.tab == TabLogics {
		return []table.Column{
			{Title: "Logic", Width: 14},
			{Title: "Played", Width: 7},
			{Title: "Won", Width: 6},
			{Title: "Lost", Width: 6},
			{Title: "Drawn", Width: 6},
			{Title: "Kills", Width: 7},
			{Title: "Win %", Width: 7},
		}
	}
	return []table.Column{
		{Title: "Date", Width: 13},
		{Title: "Team A", Width: 14},
		{Title: "Team B", Width: 14},
		{Title: "Size", Width: 7},
		{Title: "Winner", Width: 14},
		{Title: "Kills", Width: 7},
		{Title: "Ticks", Width: 7},
		{Title: "Reason", Width: 11},
	}
}

// createTable creates a new table for the current tab.
func (m ResultsBoard) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-boardChrome, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Rows returns the table rows of the current tab.
func (m ResultsBoard) Rows() []table.Row {
	if m.tab == TabLogics {
		rows := make([]table.Row, len(m.stats))
		for i, s := range m.stats {
			rows[i] = table.Row{
				s.Logic,
				fmt.Sprintf("%d", s.Matches),
				fmt.Sprintf("%d", s.Wins),
				fmt.Sprintf("%d", s.Losses),
				fmt.Sprintf("%d", s.Draws),
				fmt.Sprintf("%d", s.Kills),
				fmt.Sprintf("%.0f", s.WinRate()*100),
			}
		}
		return rows
	}

	rows := make([]table.Row, len(m.matches))
	for i, r := range m.matches {
		winner := r.WinnerLogic()
		if winner == "" {
			winner = "-"
		}
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			r.LogicA,
			r.LogicB,
			fmt.Sprintf("%dv%d", r.SizeA, r.SizeB),
			winner,
			fmt.Sprintf("%d:%d", r.KillsA, r.KillsB),
			fmt.Sprintf("%d", r.Ticks),
			r.Reason,
		}
	}
	return rows
}

// updateTableRows refreshes the table and resets the cursor to the top.
func (m *ResultsBoard) updateTableRows() {
	m.table.SetRows(m.Rows())
	m.table.GotoTop()
}

// Tab returns the current view.
func (m ResultsBoard) Tab() BoardTab {
	return m.tab
}

// Init initializes the results board.
func (m ResultsBoard) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results board.
func (m ResultsBoard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			if m.tab == TabMatches {
				m.tab = TabLogics
			} else {
				m.tab = TabMatches
			}
			// Rows must be cleared before the column count changes.
			m.table.SetRows(nil)
			m.table.SetColumns(m.columns())
			m.updateTableRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(m.height-boardChrome, 3))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results board.
func (m ResultsBoard) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("CHICKEN WAR RESULTS", m.width)))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)
	tabs := make([]string, 0, 2)
	for _, t := range []BoardTab{TabMatches, TabLogics} {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ResultsBoard) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render(fmt.Sprintf("Cannot read results: %v", m.loadErr))
	}
	if len(m.matches) == 0 {
		return emptyStyle.Render("No matches recorded yet.\nRun one with `chickenwar run`!")
	}
	return m.table.View()
}

// RunResultsBoard runs the results board screen.
func RunResultsBoard(ledger Ledger) error {
	w, h := terminalSize()
	model := NewResultsBoard(ledger, w, h)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
