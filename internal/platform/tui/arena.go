package tui

import (
	"github.com/chewxy/math32"

	"github.com/vovakirdan/chicken-war/internal/engine"
	"github.com/vovakirdan/chicken-war/internal/geom"
	"github.com/vovakirdan/chicken-war/internal/logic"
)

// Glyphs for unit facings, counter-clockwise from +x in 45 degree steps.
var facingGlyphs = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

const shotGlyph = '•'

// FacingGlyph returns the arrow closest to the given facing.
func FacingGlyph(a geom.Angle) rune {
	idx := int(math32.Round(a.Degrees()/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return facingGlyphs[idx]
}

// cellOf maps a board point to a cell inside a w x h area whose top-left
// corner is (ox, oy). Board y grows upwards, rows grow downwards.
func cellOf(p geom.Point, board logic.BoardInfo, ox, oy, w, h int) (int, int) {
	x := int(p.X / board.Width * float32(w))
	y := int((board.Height - p.Y) / board.Height * float32(h))
	return ox + min(max(x, 0), w-1), oy + min(max(y, 0), h-1)
}

// DrawArena draws the board frame, shots and units of p onto c. The arena
// is stretched over the whole canvas.
func DrawArena(c *Canvas, p *engine.Presentation) {
	c.Clear()
	if p == nil || c.Width() < 3 || c.Height() < 3 {
		return
	}
	c.DrawBox(0, 0, c.Width(), c.Height(), ColorBorder)

	innerW, innerH := c.Width()-2, c.Height()-2
	if p.Board.Width <= 0 || p.Board.Height <= 0 {
		return
	}

	for _, s := range p.Shots {
		x, y := cellOf(s.Position, p.Board, 1, 1, innerW, innerH)
		color := ColorShotA
		if s.OwnerTeam == logic.TeamB {
			color = ColorShotB
		}
		c.Set(x, y, shotGlyph, color)
	}
	// Units are drawn last so they stay visible under passing shots.
	for _, u := range p.Units {
		x, y := cellOf(u.Position, p.Board, 1, 1, innerW, innerH)
		c.Set(x, y, FacingGlyph(u.Angle), teamColor(u.Team))
	}
}

func teamColor(t logic.Team) Color {
	switch t {
	case logic.TeamA:
		return ColorTeamA
	case logic.TeamB:
		return ColorTeamB
	default:
		return ColorDefault
	}
}
