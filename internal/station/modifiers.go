package station

import "github.com/jaxsonp/factory-script/internal/fsgrid"

// Modifiers controls the neighbour ordering used to assign input-bay
// priorities around a station. The zero value is the default: clockwise
// from north.
type Modifiers struct {
	Priority fsgrid.Direction
	Reverse  bool
}

// Default returns the default modifier set: priority=North, reverse=false.
func Default() Modifiers {
	return Modifiers{Priority: fsgrid.North, Reverse: false}
}

// WithPriority returns a copy of m with Priority replaced.
func (m Modifiers) WithPriority(d fsgrid.Direction) Modifiers {
	m.Priority = d
	return m
}

// Toggled returns a copy of m with Reverse flipped.
func (m Modifiers) Toggled() Modifiers {
	m.Reverse = !m.Reverse
	return m
}
