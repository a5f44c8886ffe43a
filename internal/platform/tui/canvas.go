package tui

import (
	"strings"
)

// Color is the foreground colour of a canvas cell.
type Color uint8

const (
	ColorDefault Color = iota
	ColorTeamA
	ColorTeamB
	ColorShotA
	ColorShotB
	ColorBorder
	ColorDim
)

// Cell is one character of the canvas.
type Cell struct {
	Rune  rune
	Color Color
}

// Canvas is a 2D cell buffer. Drawing is decoupled from the terminal:
// the arena is drawn here and RenderCanvas turns it into styled text.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// NewCanvas creates a blank canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Resize changes the dimensions and clears the canvas.
func (c *Canvas) Resize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height, 0)
	c.cells = make([][]Cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]Cell, c.width)
	}
	c.Clear()
}

// Clear fills the canvas with blank default cells.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a rune at the given position.
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, r rune, color Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = Cell{Rune: r, Color: color}
}

// Get returns the cell at the given position, blank when out of bounds.
func (c *Canvas) Get(x, y int) Cell {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return Cell{Rune: ' '}
	}
	return c.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y), clipped.
func (c *Canvas) DrawText(x, y int, text string, color Color) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, r, color)
		i++
	}
}

// DrawBox draws a box outline using box-drawing characters.
func (c *Canvas) DrawBox(x, y, w, h int, color Color) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1

	c.Set(x, y, '┌', color)
	c.Set(right, y, '┐', color)
	c.Set(x, bottom, '└', color)
	c.Set(right, bottom, '┘', color)

	for i := x + 1; i < right; i++ {
		c.Set(i, y, '─', color)
		c.Set(i, bottom, '─', color)
	}
	for j := y + 1; j < bottom; j++ {
		c.Set(x, j, '│', color)
		c.Set(right, j, '│', color)
	}
}

// Row returns the runes of row y as a string.
func (c *Canvas) Row(y int) string {
	if y < 0 || y >= c.height {
		return strings.Repeat(" ", c.width)
	}
	var sb strings.Builder
	for _, cell := range c.cells[y] {
		sb.WriteRune(cell.Rune)
	}
	return sb.String()
}

// String returns the canvas without styling, rows joined by newlines.
func (c *Canvas) String() string {
	rows := make([]string, c.height)
	for y := range rows {
		rows[y] = c.Row(y)
	}
	return strings.Join(rows, "\n")
}
