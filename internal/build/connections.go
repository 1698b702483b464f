package build

import (
	"strings"

	"github.com/jaxsonp/factory-script/internal/fserr"
	"github.com/jaxsonp/factory-script/internal/fsgrid"
	"github.com/jaxsonp/factory-script/internal/station"
)

const (
	beltChars       = "─│┌┐└┘═║╔╗╚╝"
	doubleBeltChars = "═║╔╗╚╝"
	northBeltChars  = "│└┘║╚╝" // connects to a cell above
	eastBeltChars   = "─┌└═╔╚" // connects to a cell to the right
	southBeltChars  = "│┌┐║╔╗" // connects to a cell below
	westBeltChars   = "─┐┘═╗╝" // connects to a cell to the left
)

func in(set string, c rune) bool { return strings.ContainsRune(set, c) }

// neighbour pairs a grid position adjacent to a station with the direction
// facing away from that station (the direction a belt exiting the station
// toward that neighbour would be traveling).
type neighbour struct {
	Pos  fsgrid.Pos
	Dir  fsgrid.Direction
}

// neighboursInOrder enumerates every grid cell bordering st, ordered by
// st's Modifiers (priority direction, clockwise unless Reverse is set).
// This ordering is what assigns input-bay priorities to a station's
// incoming connections.
func neighboursInOrder(g *fsgrid.Grid, st *station.Station) []neighbour {
	var north, east, south, west []neighbour

	if st.Pos.Line > 0 {
		for i := 0; i < st.Span.Len; i++ {
			col := st.Pos.Col + i
			if col < g.LineLen(st.Pos.Line-1) {
				north = append(north, neighbour{fsgrid.Pos{Line: st.Pos.Line - 1, Col: col}, fsgrid.North})
			}
		}
	}
	if st.Pos.Col+st.Span.Len < g.LineLen(st.Pos.Line) {
		east = append(east, neighbour{fsgrid.Pos{Line: st.Pos.Line, Col: st.Pos.Col + st.Span.Len}, fsgrid.East})
	}
	if st.Pos.Line < g.NumLines()-1 {
		for i := st.Span.Len - 1; i >= 0; i-- {
			col := st.Pos.Col + i
			if col < g.LineLen(st.Pos.Line+1) {
				south = append(south, neighbour{fsgrid.Pos{Line: st.Pos.Line + 1, Col: col}, fsgrid.South})
			}
		}
	}
	if st.Pos.Col > 0 {
		west = append(west, neighbour{fsgrid.Pos{Line: st.Pos.Line, Col: st.Pos.Col - 1}, fsgrid.West})
	}

	var out []neighbour
	reversed := func(ns []neighbour) []neighbour {
		r := make([]neighbour, len(ns))
		for i, n := range ns {
			r[len(ns)-1-i] = n
		}
		return r
	}

	if !st.Modifiers.Reverse {
		switch st.Modifiers.Priority {
		case fsgrid.North:
			out = append(out, north...)
			out = append(out, east...)
			out = append(out, south...)
			out = append(out, west...)
		case fsgrid.East:
			out = append(out, east...)
			out = append(out, south...)
			out = append(out, west...)
			out = append(out, north...)
		case fsgrid.South:
			out = append(out, south...)
			out = append(out, west...)
			out = append(out, north...)
			out = append(out, east...)
		case fsgrid.West:
			out = append(out, west...)
			out = append(out, north...)
			out = append(out, east...)
			out = append(out, south...)
		}
	} else {
		switch st.Modifiers.Priority {
		case fsgrid.North:
			out = append(out, reversed(north)...)
			out = append(out, west...)
			out = append(out, reversed(south)...)
			out = append(out, east...)
		case fsgrid.East:
			out = append(out, east...)
			out = append(out, reversed(north)...)
			out = append(out, west...)
			out = append(out, reversed(south)...)
		case fsgrid.South:
			out = append(out, reversed(south)...)
			out = append(out, east...)
			out = append(out, reversed(north)...)
			out = append(out, west...)
		case fsgrid.West:
			out = append(out, west...)
			out = append(out, reversed(south)...)
			out = append(out, east...)
			out = append(out, reversed(north)...)
		}
	}
	return out
}

// stationAt returns the index of the station occupying pos, if any.
func stationAt(stations []*station.Station, pos fsgrid.Pos) (int, bool) {
	for i, st := range stations {
		if st.Pos.Line == pos.Line && st.Pos.Col <= pos.Col && pos.Col < st.Pos.Col+st.Span.Len {
			return i, true
		}
	}
	return -1, false
}

// followBelt walks a conveyor belt starting at the grid cell adjacent to a
// station, tracing turns through corner characters, until it either
// terminates at another station's edge (returning that station's index and
// the priority of the input bay it feeds) or determines the starting cell
// isn't a belt at all (returning ok=false with no error). A belt that
// dead-ends without reaching a station is a SyntaxError.
func followBelt(g *fsgrid.Grid, stations []*station.Station, start neighbour) (dest int, priority int, ok bool, err error) {
	pos := start.Pos
	lastPos := pos
	facing := start.Dir
	c := g.At(pos)

	if !in(doubleBeltChars, c) {
		return 0, 0, false, nil
	}
	switch facing {
	case fsgrid.North:
		if !in(southBeltChars, c) {
			return 0, 0, false, nil
		}
	case fsgrid.East:
		if !in(westBeltChars, c) {
			return 0, 0, false, nil
		}
	case fsgrid.South:
		if !in(northBeltChars, c) {
			return 0, 0, false, nil
		}
	case fsgrid.West:
		if !in(eastBeltChars, c) {
			return 0, 0, false, nil
		}
	}

	beltLen := 0
	for {
		if !in(beltChars, c) {
			if beltLen <= 1 {
				return 0, 0, false, fserr.New(fserr.SyntaxError, pos.Spanning(1), "Invalid conveyor belt")
			}
			destIdx, found := stationAt(stations, pos)
			if !found {
				return 0, 0, false, nil
			}
			for i, n := range neighboursInOrder(g, stations[destIdx]) {
				if n.Pos == lastPos {
					return destIdx, i, true, nil
				}
			}
			return 0, 0, false, nil
		}
		beltLen++

		switch {
		case facing == fsgrid.North && in(southBeltChars, c):
			switch c {
			case '│', '║':
			case '┌', '╔':
				facing = fsgrid.East
			case '┐', '╗':
				facing = fsgrid.West
			default:
				panic("unreachable belt char")
			}
		case facing == fsgrid.East && in(westBeltChars, c):
			switch c {
			case '─', '═':
			case '┘', '╝':
				facing = fsgrid.North
			case '┐', '╗':
				facing = fsgrid.South
			default:
				panic("unreachable belt char")
			}
		case facing == fsgrid.South && in(northBeltChars, c):
			switch c {
			case '│', '║':
			case '└', '╚':
				facing = fsgrid.East
			case '┘', '╝':
				facing = fsgrid.West
			default:
				panic("unreachable belt char")
			}
		case facing == fsgrid.West && in(eastBeltChars, c):
			switch c {
			case '─', '═':
			case '└', '╚':
				facing = fsgrid.North
			case '┌', '╔':
				facing = fsgrid.South
			default:
				panic("unreachable belt char")
			}
		default:
			// dangling belt: doesn't connect back to where it was entered from
			return 0, 0, false, nil
		}

		lastPos = pos
		switch facing {
		case fsgrid.North:
			if pos.Line == 0 {
				return 0, 0, false, fserr.New(fserr.SyntaxError, pos.Spanning(1), "Unattached conveyor belt")
			}
			pos.Line--
		case fsgrid.East:
			pos.Col++
			if pos.Col >= g.LineLen(pos.Line) {
				return 0, 0, false, fserr.New(fserr.SyntaxError, pos.Spanning(1), "Unattached conveyor belt")
			}
		case fsgrid.South:
			pos.Line++
			if pos.Line >= g.NumLines() {
				return 0, 0, false, fserr.New(fserr.SyntaxError, pos.Spanning(1), "Unattached conveyor belt")
			}
		case fsgrid.West:
			if pos.Col == 0 {
				return 0, 0, false, fserr.New(fserr.SyntaxError, pos.Spanning(1), "Unattached conveyor belt")
			}
			pos.Col--
		}
		c = g.At(pos)
	}
}
