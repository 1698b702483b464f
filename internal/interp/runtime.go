// Package interp implements the FactoryScript execution engine: a
// deterministic, single-threaded dataflow runtime built from a strict
// recursion tree of Function instances, one per active func_invoke call,
// each independently owning its own cloned station state.
//
// Execution proceeds in discrete ticks. Each tick has four phases, run
// depth-first down the recursion tree: deliver (apply pallets staged by
// the previous tick into station input bays), fire (run every station
// whose bays are full), recurse (advance every still-active child
// Function by one tick of its own), and reap (remove children whose
// func_output has fired, forwarding their return value to the invoking
// func_invoke's own staged outputs).
package interp

import (
	"github.com/jaxsonp/factory-script/internal/fserr"
	"github.com/jaxsonp/factory-script/internal/fsprog"
	"github.com/jaxsonp/factory-script/internal/pallet"
	"github.com/jaxsonp/factory-script/internal/rtctx"
	"github.com/jaxsonp/factory-script/internal/station"
)

// MaxRecursionDepth bounds the recursion tree: a func_invoke chain deeper
// than this raises a RuntimeError rather than exhausting memory on a
// runaway recursive program.
const MaxRecursionDepth = 1000

// delivery is a pallet staged for a station's input bay, applied at the
// start of the next tick.
type delivery struct {
	station  int
	priority int
	pallet   pallet.Pallet
}

// Function is one live activation of a FunctionTemplate: its own cloned
// station graph, any spawned child calls, and the deliveries staged for
// the tick after this one.
//
// children is a flat, unordered bag rather than one slot per func_invoke
// station: a station stays Ready (and therefore keeps firing) for as long
// as its accumulated deliveries meet its arity, including a station whose
// callee takes no arguments, which is permanently Ready and so spawns a
// fresh child every tick it's visited. Nothing deduplicates by invoking
// station — this matches invoke() always appending rather than checking
// for an existing call in flight.
type Function struct {
	Template *fsprog.FunctionTemplate
	Stations []*station.Station
	Depth    int

	children []*Function
	pending  []delivery
	started  bool // true once the entry station has fired

	// Result is set once this Function's func_output (if any) has fired;
	// Runtime.tick uses it to know when to reap this Function.
	Result *pallet.Pallet
	// done is true for functions with no func_output once their graph
	// runs out of pending work — they still get reaped, just without a
	// return value.
	done bool

	// invokeStation is the local station index of the func_invoke that
	// spawned this Function, used to forward its return value once it's
	// reaped. Unused (and meaningless) for the root Function.
	invokeStation int
}

// spawn clones t's station list into a fresh Function instance and seeds
// every assign station's single input bay with a placeholder delivery: an
// assign station has no belt feeding it (its value comes from the literal
// baked into its Data, not from an input), so without this seed it would
// never become Ready and its literal would never reach its out-bays.
func spawn(t *fsprog.FunctionTemplate, depth, invokeStation int) *Function {
	stations := make([]*station.Station, len(t.Stations))
	for i, s := range t.Stations {
		stations[i] = s.Clone()
	}
	f := &Function{Template: t, Stations: stations, Depth: depth, invokeStation: invokeStation}
	for i, st := range stations {
		if st.Type == station.Assign {
			f.pending = append(f.pending, delivery{station: i, priority: 0, pallet: pallet.NewEmpty()})
		}
	}
	return f
}

// Runtime drives a Program's execution to completion.
type Runtime struct {
	ctx      *rtctx.Context
	prog     *fsprog.Program
	root     *Function
	exited   bool
	stepCount uint64
}

// New creates a Runtime ready to execute prog's main function.
func New(ctx *rtctx.Context, prog *fsprog.Program) *Runtime {
	return &Runtime{ctx: ctx, prog: prog, root: spawn(prog.Functions[0], 0, -1)}
}

// Run executes the program to completion: the runtime steps until no
// pallet is moving anywhere in the recursion tree, `exit` fires, or a
// RuntimeError is raised.
func (rt *Runtime) Run() (steps uint64, err error) {
	rt.ctx.Debugf(2, "Starting")
	for {
		active, err := rt.tick(rt.root)
		if err != nil {
			return rt.stepCount, err
		}
		rt.stepCount++
		if rt.exited || !active {
			break
		}
	}
	rt.ctx.Debugf(2, "No remaining moving pallets")
	return rt.stepCount, nil
}

// tick advances f by one phase cycle and reports whether f still has any
// work pending (pallets in flight, or children that do) after the cycle.
func (rt *Runtime) tick(f *Function) (bool, error) {
	if rt.exited {
		return false, nil
	}

	// The implicit entry station (main for the root function) fires
	// exactly once, unconditionally, on the function's first tick, before
	// the deliver phase: its pallets therefore land in the same tick as the
	// spawn-time assign seeds, just as if they had been staged at
	// instantiation. func_input stations never fire at all: the call
	// argument is staged straight onto their out-bays at spawn time (see
	// the FuncInvoke case below).
	if !f.started {
		f.started = true
		if f.Depth == 0 {
			if err := rt.fireAndStage(f, f.Template.Entry); err != nil {
				return false, err
			}
		}
	}

	// deliver
	for _, d := range f.pending {
		f.Stations[d.station].Deliver(d.priority, d.pallet)
	}
	f.pending = f.pending[:0]

	// fire
	anyPending := len(f.pending) > 0
	for i, st := range f.Stations {
		switch st.Type {
		case station.Main, station.FuncInput:
			// main fires exactly once, handled above; func_input never
			// fires at all — its argument is pushed straight to its
			// out-bays at call time (see the FuncInvoke case below). A
			// belt is undirected, so a downstream station's broadcast can
			// land a stray pallet in either one's in-bay; without this
			// explicit skip that stray delivery would incorrectly
			// trigger a second pass of an otherwise-inert station.
			continue
		case station.FuncInvoke:
			if !st.Ready() {
				continue
			}
			args := st.TakeInputs()
			callee := rt.prog.Functions[st.Data.FuncID+1]
			if f.Depth+1 > MaxRecursionDepth {
				return false, fserr.Newf(fserr.RuntimeError, st.Span,
					"Max recursion depth hit during invocation of function '%s'", callee.Name)
			}
			child := spawn(callee, f.Depth+1, i)
			// func_input never fires itself (the fire loop skips it): the
			// argument is pushed straight to its out-bays, same as main's
			// out-bays receive an Empty pallet on the first tick.
			for argIdx, local := range callee.Inputs {
				for _, conn := range child.Stations[local].Out {
					child.pending = append(child.pending, delivery{station: conn.Station, priority: conn.Priority, pallet: args[argIdx]})
				}
			}
			f.children = append(f.children, child)
		case station.FuncOutput:
			if !st.Ready() {
				continue
			}
			in := st.TakeInputs()
			f.Result = &in[0]
		default:
			if !st.Ready() {
				continue
			}
			if err := rt.fireAndStage(f, i); err != nil {
				return false, err
			}
		}
	}
	anyPending = anyPending || len(f.pending) > 0

	// recurse
	anyChildActive := false
	live := f.children[:0]
	for _, child := range f.children {
		active, err := rt.tick(child)
		if err != nil {
			return false, err
		}
		if rt.exited {
			return false, nil
		}
		if !active {
			// reap: forward the child's return value (if any) to the
			// invoking func_invoke station's own staged outputs, then
			// drop it.
			if child.Result != nil {
				invoke := f.Stations[child.invokeStation]
				for _, conn := range invoke.Out {
					f.pending = append(f.pending, delivery{station: conn.Station, priority: conn.Priority, pallet: *child.Result})
				}
			}
			continue
		}
		anyChildActive = true
		live = append(live, child)
	}
	f.children = live
	anyPending = anyPending || len(f.pending) > 0

	// A function that has produced an output is done immediately, even if
	// pallets are still in flight somewhere in its own graph — the output
	// short-circuits the rest of its subtree.
	stillActive := (anyPending || anyChildActive) && f.Result == nil
	if !stillActive {
		f.done = true
	}
	return stillActive, nil
}

// fireAndStage runs the procedure of station i (or its structural
// special-case) and stages whatever pallet it produces for delivery next
// tick.
func (rt *Runtime) fireAndStage(f *Function, i int) error {
	st := f.Stations[i]
	in := st.TakeInputs()

	var result *pallet.Pallet
	switch {
	case st.Type == station.Exit:
		rt.ctx.Debugf(2, "Exit triggered by station")
		rt.exited = true
		return nil
	case st.Type == station.Assign:
		v := st.Data.Value
		result = &v
	default:
		p, err := st.Type.Proc(in)
		if err != nil {
			return fserr.New(fserr.RuntimeError, st.Span, err.Error())
		}
		result = p
	}

	if result == nil {
		return nil
	}
	for _, conn := range st.Out {
		f.pending = append(f.pending, delivery{station: conn.Station, priority: conn.Priority, pallet: *result})
	}
	return nil
}
