package station

import (
	"sort"

	"github.com/jaxsonp/factory-script/internal/fsgrid"
	"github.com/jaxsonp/factory-script/internal/pallet"
)

// Connection is an outgoing belt destination: the station index (local to
// whatever graph owns the Station slice) and the priority of the input bay
// it feeds at that destination.
type Connection struct {
	Station  int
	Priority int
}

// inBay is one occupied input slot: a landing priority (a neighbour-order
// rank, not necessarily less than the station's arity) paired with the
// pallet delivered there.
type inBay struct {
	priority int
	pallet   pallet.Pallet
}

// Station is one node of a parsed factory graph: a static Type, its
// neighbour-priority Modifiers, any structural/assign Data it carries, and
// the source position it was parsed from (for RuntimeError citations).
//
// Out holds the station's outgoing belt connections, discovered once by
// the connection tracer and shared read-only across every Function
// instance. inBays is the mutable per-instance delivery buffer: a growable
// bag of (priority, pallet) pairs, not a fixed array — priority is a
// neighbour-order rank that can exceed the station's arity, so readiness
// is judged by count, not by slot occupancy.
type Station struct {
	Type      *Type
	Modifiers Modifiers
	Data      Data
	Pos       fsgrid.Pos
	Span      fsgrid.Span
	Arity     int

	Out   []Connection
	inBays []inBay
}

// SetArity sets the expected input count, used once by the function
// partitioner to give a func_invoke station the argument count of the
// function it calls (its catalogue arity is always 0, since that count
// isn't known until every func_input station has been discovered).
func (s *Station) SetArity(n int) {
	s.Arity = n
}

// New constructs a Station with no connections and no pending deliveries.
func New(t *Type, mods Modifiers, data Data, pos fsgrid.Pos) *Station {
	return &Station{Type: t, Modifiers: mods, Data: data, Pos: pos, Arity: t.Inputs}
}

// Clone returns an independent copy for a fresh Function instance: Out is
// shared (it is read-only template data), inBays starts empty so instances
// never alias each other's pending pallets.
func (s *Station) Clone() *Station {
	cp := *s
	cp.inBays = nil
	return &cp
}

// Ready reports whether enough pallets have landed to trigger the
// station's procedure, i.e. at least Arity distinct-priority deliveries
// have accumulated since the last fire.
func (s *Station) Ready() bool {
	return len(s.inBays) >= s.Arity
}

// TakeInputs returns the occupied input bays sorted ascending by landing
// priority, stripped of their priority tag, and clears them — matching
// get_input_pallets' sort-then-clear semantics.
func (s *Station) TakeInputs() []pallet.Pallet {
	sort.Slice(s.inBays, func(i, j int) bool { return s.inBays[i].priority < s.inBays[j].priority })
	in := make([]pallet.Pallet, len(s.inBays))
	for i, b := range s.inBays {
		in[i] = b.pallet
	}
	s.inBays = s.inBays[:0]
	return in
}

// Deliver places p into the bay for the given landing priority,
// overwriting whatever (if anything) already occupies that exact
// priority, matching the original send_pallet "last write wins" semantics
// for duplicate deliveries in the same tick.
func (s *Station) Deliver(priority int, p pallet.Pallet) {
	for i := range s.inBays {
		if s.inBays[i].priority == priority {
			s.inBays[i].pallet = p
			return
		}
	}
	s.inBays = append(s.inBays, inBay{priority: priority, pallet: p})
}
