package build_test

import (
	"strings"
	"testing"

	"github.com/jaxsonp/factory-script/internal/build"
	"github.com/jaxsonp/factory-script/internal/rtctx"
	"github.com/jaxsonp/factory-script/internal/station"
)

func mustProcess(t *testing.T, src string) (err error) {
	t.Helper()
	_, err = build.Process(&rtctx.Context{}, src)
	return err
}

func TestProcessRejectsMissingStart(t *testing.T) {
	err := mustProcess(t, "{1}\n")
	if err == nil || !strings.Contains(err.Error(), "Unable to locate start station") {
		t.Fatalf("expected missing-start error, got %v", err)
	}
}

func TestProcessRejectsDuplicateStart(t *testing.T) {
	src := "[main] [main]\n"
	err := mustProcess(t, src)
	if err == nil || !strings.Contains(err.Error(), "Factory must only define one start station") {
		t.Fatalf("expected duplicate-start error, got %v", err)
	}
}

func TestProcessRejectsSingleCharacterBelt(t *testing.T) {
	// Exactly one belt character between two stations: followBelt requires
	// at least two to distinguish a real conveyor from a stray glyph.
	err := mustProcess(t, "[main]═[println]\n")
	if err == nil || !strings.Contains(err.Error(), "Invalid conveyor belt") {
		t.Fatalf("expected invalid-belt error, got %v", err)
	}
}

func TestProcessRejectsUnattachedBelt(t *testing.T) {
	// A belt running off the edge of the grid without reaching a station.
	err := mustProcess(t, "[main]═══\n")
	if err == nil || !strings.Contains(err.Error(), "Unattached conveyor belt") {
		t.Fatalf("expected unattached-belt error, got %v", err)
	}
}

func TestProcessBuildsMinimalProgram(t *testing.T) {
	src := "[main]\n" +
		"║\n" +
		"║\n" +
		"{\"hi\"}\n" +
		"║\n" +
		"║\n" +
		"[println]\n"

	prog, err := build.Process(&rtctx.Context{}, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function (implicit main), got %d", len(prog.Functions))
	}
	main := prog.Functions[0]
	if len(main.Stations) != 3 {
		t.Fatalf("expected 3 stations (main, literal, println), got %d", len(main.Stations))
	}

	entry := main.Stations[main.Entry]
	if entry.Type != station.Main {
		t.Fatalf("Entry should point at the main station, got type %q", entry.Type.ID)
	}
	if len(entry.Out) == 0 {
		t.Fatal("main should have at least one outgoing connection to the literal")
	}

	var sawAssign, sawPrintln bool
	for _, st := range main.Stations {
		switch st.Type {
		case station.Assign:
			sawAssign = true
			if len(st.Out) == 0 {
				t.Error("the literal station should connect onward to println")
			}
		case station.Println:
			sawPrintln = true
		}
	}
	if !sawAssign || !sawPrintln {
		t.Fatal("expected both an assign station and a println station in the partitioned graph")
	}
}

func TestProcessResolvesFuncInvokeArityFromCallee(t *testing.T) {
	src := "[main]\n" +
		"║\n" +
		"║\n" +
		"[$f]\n" +
		"║\n" +
		"║\n" +
		"[println]\n" +
		"\n" +
		"[$f.0]\n" +
		"║\n" +
		"║\n" +
		"[$f.out]\n"

	prog, err := build.Process(&rtctx.Context{}, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Functions) != 2 {
		t.Fatalf("expected main + one named function, got %d", len(prog.Functions))
	}

	callee := prog.Functions[1]
	if callee.NArgs != 1 {
		t.Fatalf("callee should take 1 argument, got %d", callee.NArgs)
	}

	main := prog.Functions[0]
	var invoke *station.Station
	for _, st := range main.Stations {
		if st.Type == station.FuncInvoke {
			invoke = st
		}
	}
	if invoke == nil {
		t.Fatal("expected a func_invoke station in main")
	}
	if invoke.Arity != 1 {
		t.Errorf("func_invoke's arity should be resolved from its callee's NArgs, got %d", invoke.Arity)
	}
}
