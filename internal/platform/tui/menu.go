package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/registry"
)

// PickerKeyMap defines the key bindings of the logic picker.
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// DefaultPickerKeyMap returns default key bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s")),
		Select: key.NewBinding(key.WithKeys("enter", " ")),
		Back:   key.NewBinding(key.WithKeys("b", "backspace")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

// PickerModel lets the user choose a logic for each team in turn.
type PickerModel struct {
	items    []registry.LogicInfo
	cursor   int
	team     logic.Team
	chosen   [logic.TeamCount]string
	keys     PickerKeyMap
	width    int
	done     bool
	quitting bool
}

// NewPickerModel creates a picker over the registered logics.
func NewPickerModel(width int) PickerModel {
	return PickerModel{
		items: registry.List(),
		team:  logic.TeamA,
		keys:  DefaultPickerKeyMap(),
		width: width,
	}
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for list navigation.
func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Back):
		if m.team == logic.TeamB {
			m.team = logic.TeamA
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) == 0 {
			return m, nil
		}
		m.chosen[m.team] = m.items[m.cursor].Name
		if m.team == logic.TeamA {
			m.team = logic.TeamB
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting || m.done {
		return ""
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(title.Render(centerText("  C H I C K E N   W A R  ", m.width)))
	b.WriteString("\n\n")

	subtitle := fmt.Sprintf("Select a logic for team %s", m.team)
	if m.team == logic.TeamB {
		subtitle += fmt.Sprintf(" (team A: %s)", m.chosen[logic.TeamA])
	}
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Name
		if item.Description != "" {
			line += " - " + item.Description
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  B: Back  |  Q: Quit"
	b.WriteString(helpStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Choice returns the chosen logic names and whether both were picked.
func (m PickerModel) Choice() (teamA, teamB string, ok bool) {
	return m.chosen[logic.TeamA], m.chosen[logic.TeamB], m.done
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}

// PickLogics runs the picker. ok is false when the user quit.
func PickLogics() (teamA, teamB string, ok bool, err error) {
	w, _ := terminalSize()
	p := tea.NewProgram(NewPickerModel(w), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return "", "", false, err
	}
	m, isPicker := finalModel.(PickerModel)
	if !isPicker {
		return "", "", false, nil
	}
	teamA, teamB, ok = m.Choice()
	return teamA, teamB, ok, nil
}
