package fsgrid

import "strings"

// Grid is a source program indexed as a rectangle of Unicode scalar
// values. Lines may have different lengths; there is no implicit padding.
// Indexing is always by rune position, never by byte offset, so that
// multi-byte belt and box-drawing characters locate correctly.
type Grid struct {
	lines [][]rune
}

// New builds a Grid from raw source text, splitting on '\n'. A trailing
// newline yields one empty final line, exactly as strings.Split does; an
// empty line holds no cells, so it changes neither station discovery nor
// belt tracing.
func New(src string) *Grid {
	raw := strings.Split(src, "\n")
	lines := make([][]rune, len(raw))
	for i, l := range raw {
		lines[i] = []rune(l)
	}
	return &Grid{lines: lines}
}

// NumLines returns the number of lines in the grid.
func (g *Grid) NumLines() int { return len(g.lines) }

// LineLen returns the number of runes on line, or 0 if line is out of
// range (used by boundary checks so callers don't need a separate guard).
func (g *Grid) LineLen(line int) int {
	if line < 0 || line >= len(g.lines) {
		return 0
	}
	return len(g.lines[line])
}

// InBounds reports whether p addresses an existing character.
func (g *Grid) InBounds(p Pos) bool {
	return p.Line >= 0 && p.Line < len(g.lines) && p.Col >= 0 && p.Col < len(g.lines[p.Line])
}

// At returns the rune at p. It panics if p is out of bounds; callers are
// expected to check InBounds (or rely on a prior bounds check in the
// traversal, as the FSM and belt tracer do) before calling At.
func (g *Grid) At(p Pos) rune {
	return g.lines[p.Line][p.Col]
}

// firstNonEmptyLine finds the first line index with at least one
// character, skipping leading empty lines as the FSM start-up requires.
// It returns -1 if the grid has no characters at all.
func (g *Grid) firstNonEmptyLine() int {
	for i, l := range g.lines {
		if len(l) > 0 {
			return i
		}
	}
	return -1
}

// Empty reports whether the grid has no characters on any line.
func (g *Grid) Empty() bool {
	return g.firstNonEmptyLine() == -1
}

// Start returns the position of the first character in the grid, skipping
// leading empty lines. The second result is false if the grid is empty.
func (g *Grid) Start() (Pos, bool) {
	line := g.firstNonEmptyLine()
	if line == -1 {
		return Pos{}, false
	}
	return Pos{Line: line, Col: 0}, true
}

// Next returns the position following p in reading order (left to right,
// top to bottom), skipping empty lines. The second result is false once
// the end of the grid is reached.
func (g *Grid) Next(p Pos) (Pos, bool) {
	p.Col++
	for p.Col >= g.LineLen(p.Line) {
		p.Col = 0
		p.Line++
		if p.Line >= len(g.lines) {
			return Pos{}, false
		}
	}
	return p, true
}
