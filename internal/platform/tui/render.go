package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// colorStyles maps canvas colours to lipgloss styles.
var colorStyles = map[Color]lipgloss.Style{
	ColorDefault: lipgloss.NewStyle(),
	ColorTeamA:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	ColorTeamB:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	ColorShotA:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	ColorShotB:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	ColorBorder:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderCanvas converts a canvas to a styled string for display.
// Groups adjacent cells with the same colour to minimize ANSI escape sequences.
func RenderCanvas(c *Canvas) string {
	var sb strings.Builder
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < c.Width() {
			startColor := c.Get(x, y).Color

			var run strings.Builder
			for x < c.Width() {
				cell := c.Get(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
