// Package build implements the FactoryScript preprocessor: turning raw
// source text into a set of per-function station graphs ready for the
// runtime to execute. It runs in three passes, each grounded on its own
// stage of the original preprocessor: a character-driven finite state
// machine discovers stations (fsm.go), a belt tracer resolves conveyor
// connections between them (connections.go), and a depth-first walk from
// every entry point partitions the flat station list into FunctionTemplates
// (partition.go).
package build

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/runenames"

	"github.com/jaxsonp/factory-script/internal/fserr"
	"github.com/jaxsonp/factory-script/internal/fsgrid"
	"github.com/jaxsonp/factory-script/internal/station"
)

type fsmState int

const (
	stateDefault fsmState = iota
	stateStation
	stateStationModifiers
	stateFunctionName
	stateFunctionSuffix
	stateAssignStation
)

// ParseStations runs the station-discovery finite state machine over the
// grid, returning every station found in encounter order along with the
// ordered list of function names referenced by `$name` syntax (index is
// the function id assigned to that name, in first-appearance order).
func ParseStations(g *fsgrid.Grid) ([]*station.Station, []string, error) {
	if g.Empty() {
		return nil, nil, fserr.New(fserr.SyntaxError, fsgrid.ZeroSpan, "Empty file")
	}

	var stations []*station.Station
	funcIDs := map[string]int{}
	var funcNames []string

	pos, _ := g.Start()
	c := g.At(pos)

	state := stateDefault
	var curToken []rune
	var curStationPos fsgrid.Pos
	var mods station.Modifiers
	var curFuncID int

	for {
		switch state {
		case stateDefault:
			switch c {
			case '[':
				state = stateStation
				curToken = nil
				curStationPos = pos
			case '{':
				state = stateAssignStation
				curToken = nil
				curStationPos = pos
			case ']', '}':
				return nil, nil, fserr.New(fserr.SyntaxError, pos.Spanning(1), "Unexpected closing bracket")
			default:
				// conveyor belts and floating comments
			}

		case stateStation:
			switch {
			case c == ']':
				st, err := newCatalogStation(string(curToken), curStationPos.Spanning(len(curToken)+2), station.Default())
				if err != nil {
					return nil, nil, err
				}
				stations = append(stations, st)
				state = stateDefault
			case c == '$':
				if len(curToken) != 0 {
					return nil, nil, fserr.New(fserr.SyntaxError, pos.Spanning(1), "Invalid '$' character, must be at beginning of station declaration")
				}
				state = stateFunctionName
			case c == ':':
				mods = station.Default()
				state = stateStationModifiers
			case isStationChar(c):
				curToken = append(curToken, c)
			default:
				return nil, nil, fserr.Newf(fserr.SyntaxError, pos.Spanning(1), "Invalid character %s, station identifiers can only contain non-whitespace, printable ASCII characters", namedRune(c))
			}

		case stateFunctionName:
			if c == '.' || c == ']' {
				name := string(curToken)
				if name == "main" {
					return nil, nil, fserr.New(fserr.SyntaxError, curStationPos.Spanning(pos.Col-curStationPos.Col+1), "Function name 'main' is reserved")
				}
				id, ok := funcIDs[name]
				if !ok {
					id = len(funcNames)
					funcIDs[name] = id
					funcNames = append(funcNames, name)
				}
				if c == '.' {
					curFuncID = id
					state = stateFunctionSuffix
				} else {
					span := curStationPos.Spanning(pos.Col - curStationPos.Col + 1)
					st := station.New(station.FuncInvoke, station.Default(), station.Data{Kind: station.FunctionIDData, FuncID: id}, curStationPos)
					stations = append(stations, withSpan(st, span))
					state = stateDefault
				}
				curToken = nil
			} else if isStationChar(c) {
				curToken = append(curToken, c)
			} else {
				return nil, nil, fserr.Newf(fserr.SyntaxError, pos.Spanning(1), "Invalid character %s, function names can only contain non-whitespace, printable ASCII characters", namedRune(c))
			}

		case stateFunctionSuffix:
			if c == ']' {
				span := curStationPos.Spanning(pos.Col - curStationPos.Col + 1)
				var st *station.Station
				if string(curToken) == "out" {
					st = withSpan(station.New(station.FuncOutput, station.Default(), station.Data{Kind: station.FunctionIDData, FuncID: curFuncID}, curStationPos), span)
				} else if idx, err := strconv.Atoi(string(curToken)); err == nil && idx >= 0 {
					st = withSpan(station.New(station.FuncInput, station.Default(), station.Data{Kind: station.FunctionIDAndIndexData, FuncID: curFuncID, ArgIndex: idx}, curStationPos), span)
				} else {
					return nil, nil, fserr.New(fserr.SyntaxError, span, "Invalid function suffix, must be 'out' or a non-negative integer")
				}
				stations = append(stations, st)
				state = stateDefault
				curToken = nil
			} else if isStationChar(c) {
				curToken = append(curToken, c)
			} else {
				return nil, nil, fserr.Newf(fserr.SyntaxError, pos.Spanning(1), "Invalid character %s", namedRune(c))
			}

		case stateStationModifiers:
			switch c {
			case 'N':
				mods = mods.WithPriority(fsgrid.North)
			case 'E':
				mods = mods.WithPriority(fsgrid.East)
			case 'S':
				mods = mods.WithPriority(fsgrid.South)
			case 'W':
				mods = mods.WithPriority(fsgrid.West)
			case '*':
				mods = mods.Toggled()
			case ']':
				st, err := newCatalogStation(string(curToken), curStationPos.Spanning(pos.Col-curStationPos.Col+1), mods)
				if err != nil {
					return nil, nil, err
				}
				stations = append(stations, st)
				state = stateDefault
			default:
				return nil, nil, fserr.Newf(fserr.SyntaxError, pos.Spanning(1), "Invalid modifier character %s, acceptable modifiers are 'N', 'S', 'E', 'W' and '*'", namedRune(c))
			}

		case stateAssignStation:
			switch c {
			case '}':
				span := curStationPos.Spanning(pos.Col - curStationPos.Col + 1)
				val, err := parseAssignLiteral(string(curToken))
				if err != nil {
					return nil, nil, fserr.Wrap(fserr.SyntaxError, pos.Spanning(1), "Invalid assign literal", err)
				}
				st := station.New(station.Assign, station.Default(), station.Data{Kind: station.AssignValueData, Value: val}, curStationPos)
				stations = append(stations, withSpan(st, span))
				state = stateDefault
			case '\\':
				next, ok := g.Next(pos)
				if !ok {
					return nil, nil, fserr.New(fserr.SyntaxError, pos.Spanning(1), "Unexpected EOF")
				}
				pos = next
				switch g.At(pos) {
				case 'n':
					curToken = append(curToken, '\n')
				case 'r':
					curToken = append(curToken, '\r')
				case 't':
					curToken = append(curToken, '\t')
				default:
					curToken = append(curToken, g.At(pos))
				}
			default:
				curToken = append(curToken, c)
			}
		}

		next, ok := g.Next(pos)
		if !ok {
			break
		}
		pos = next
		c = g.At(pos)
	}

	if state != stateDefault {
		return nil, nil, fserr.New(fserr.SyntaxError, curStationPos.Spanning(1), "Unexpected EOF")
	}
	return stations, funcNames, nil
}

// isStationChar matches Rust's char::is_ascii_graphic: printable,
// non-whitespace ASCII (0x21..=0x7E).
func isStationChar(c rune) bool {
	return c >= 0x21 && c <= 0x7E
}

// namedRune renders a rune for a diagnostic, citing its Unicode name so a
// stray look-alike character (e.g. a box-drawing glyph typed where ASCII
// was expected) is identifiable at a glance rather than just printed raw.
func namedRune(c rune) string {
	return fmt.Sprintf("%q (%s)", c, runenames.Name(c))
}

func newCatalogStation(id string, span fsgrid.Span, mods station.Modifiers) (*station.Station, error) {
	t, ok := station.Lookup(id)
	if !ok {
		return nil, fserr.Newf(fserr.IdentifierError, span, "Failed to find station type with identifier %q", id)
	}
	return withSpan(station.New(t, mods, station.None, span.Pos), span), nil
}

// withSpan stamps a station with its full source span (the FSM only knows
// the station's start Pos when it constructs it; Span carries the length
// needed for neighbour discovery).
func withSpan(s *station.Station, span fsgrid.Span) *station.Station {
	s.Pos = span.Pos
	s.Span = span
	return s
}
