package build

import (
	"sort"

	"github.com/jaxsonp/factory-script/internal/fserr"
	"github.com/jaxsonp/factory-script/internal/fsgrid"
	"github.com/jaxsonp/factory-script/internal/fsprog"
	"github.com/jaxsonp/factory-script/internal/rtctx"
	"github.com/jaxsonp/factory-script/internal/station"
)

// entryPoint is a DFS seed: the global station index to start from, and
// which function it belongs to.
type entryPoint struct {
	station  int
	function int
}

// Partition runs the belt tracer and the DFS function-membership walk over
// a flat station list, producing one FunctionTemplate per distinct
// function id. funcNames is the ordered function-name table returned by
// ParseStations: funcNames[k] names function id k+1, because function id 0
// is always the implicit top-level program built from "main".
func Partition(ctx *rtctx.Context, g *fsgrid.Grid, stations []*station.Station, funcNames []string) (*fsprog.Program, error) {
	nFunctions := len(funcNames) + 1 // +1 for the implicit main program

	var entries []entryPoint
	mainSeen := false
	for i, st := range stations {
		if st.Type == station.Main {
			if mainSeen {
				return nil, fserr.New(fserr.SyntaxError, st.Span, "Factory must only define one start station")
			}
			mainSeen = true
			entries = append(entries, entryPoint{station: i, function: 0})
		} else if st.Type == station.FuncInput {
			entries = append(entries, entryPoint{station: i, function: st.Data.FuncID + 1})
		}
	}
	if !mainSeen {
		return nil, fserr.New(fserr.SyntaxError, fsgrid.ZeroSpan, "Unable to locate start station")
	}

	owner := make(map[int]int, len(stations)) // global index -> function id
	var order []int                           // order stations were first visited, for deterministic output

	for _, e := range entries {
		stack := []int{e.station}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if fid, seen := owner[i]; seen {
				if fid != e.function {
					return nil, fserr.Newf(fserr.SyntaxError, stations[i].Span,
						"Station cannot belong to multiple function templates, found in functions %q and %q",
						nameOf(funcNames, fid), nameOf(funcNames, e.function))
				}
				continue
			}
			owner[i] = e.function
			order = append(order, i)

			for _, nb := range neighboursInOrder(g, stations[i]) {
				destIdx, priority, ok, err := followBelt(g, stations, nb)
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
				if stations[destIdx].Type == station.FuncOutput && stations[destIdx].Data.FuncID+1 != e.function {
					return nil, fserr.Newf(fserr.SyntaxError, stations[destIdx].Span,
						"Found output for function '%s' when evaluating function '%s'",
						nameOf(funcNames, stations[destIdx].Data.FuncID+1), nameOf(funcNames, e.function))
				}
				stations[i].Out = append(stations[i].Out, station.Connection{Station: destIdx, Priority: priority})
				stack = append(stack, destIdx)
			}
		}
	}

	for i := range stations {
		if _, seen := owner[i]; !seen {
			ctx.Debugf(1, "station at %s is unreachable, dropping", stations[i].Span)
		}
	}

	// Deterministic global->local remap: ascending global-station-index
	// order, never Go map iteration order, so builds are reproducible.
	sort.Ints(order)

	templates := make([]*fsprog.FunctionTemplate, nFunctions)
	templates[0] = &fsprog.FunctionTemplate{Name: "main", Output: -1}
	for id, name := range funcNames {
		templates[id+1] = &fsprog.FunctionTemplate{Name: name, Output: -1}
	}

	globalToLocal := make(map[int]int, len(order))
	for _, gi := range order {
		fid := owner[gi]
		t := templates[fid]
		globalToLocal[gi] = len(t.Stations)
		t.Stations = append(t.Stations, stations[gi])
	}

	for _, t := range templates {
		for _, st := range t.Stations {
			for i := range st.Out {
				st.Out[i].Station = globalToLocal[st.Out[i].Station]
			}
		}
	}

	for gi, fid := range owner {
		st := stations[gi]
		local := globalToLocal[gi]
		t := templates[fid]
		switch {
		case st.Type == station.Main:
			t.Entry = local
		case st.Type == station.FuncInput:
			idx := st.Data.ArgIndex
			if idx+1 > t.NArgs {
				t.NArgs = idx + 1
			}
			for len(t.Inputs) <= idx {
				t.Inputs = append(t.Inputs, -1)
			}
			if t.Inputs[idx] != -1 {
				return nil, fserr.Newf(fserr.SyntaxError, st.Span, "Duplicate function arguments: input index %d in function '%s'", idx, t.Name)
			}
			t.Inputs[idx] = local
		case st.Type == station.FuncOutput:
			t.Output = local
		}
	}

	for _, t := range templates[1:] {
		for idx, local := range t.Inputs {
			if local == -1 {
				return nil, fserr.Newf(fserr.SyntaxError, fsgrid.ZeroSpan, "Function %q is missing input %d", t.Name, idx)
			}
		}
	}

	for _, t := range templates {
		for _, st := range t.Stations {
			if st.Type == station.FuncInvoke {
				callee := templates[st.Data.FuncID+1]
				st.SetArity(callee.NArgs)
			}
		}
	}

	return &fsprog.Program{Functions: templates}, nil
}

func nameOf(names []string, id int) string {
	if id == 0 {
		return "main"
	}
	return names[id-1]
}
