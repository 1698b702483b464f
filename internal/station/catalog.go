package station

import (
	"fmt"

	"github.com/jaxsonp/factory-script/internal/pallet"
)

func out(p pallet.Pallet) (*pallet.Pallet, error) { return &p, nil }

// Main is the entry-point pseudo-station. Its procedure only runs at
// program start (instantiate), never re-fires, but is modeled as an
// ordinary catalogue entry (id "main", alias "start") since `[main]`/
// `[start]` both resolve through the normal identifier-lookup path.
var Main = &Type{ID: "main", AltID: alt("start"), Inputs: 0, Output: true, Proc: mainProc}

func mainProc(_ []pallet.Pallet) (*pallet.Pallet, error) { return out(pallet.NewEmpty()) }

// Exit halts the program immediately when it fires; the runtime special-
// cases it before calling Proc.
var Exit = &Type{ID: "exit", Inputs: 1, Output: false, Proc: noneProc}

// Joint passes its single input through unchanged. `""` (an empty
// identifier, i.e. `[]`) is its alias.
var Joint = &Type{ID: "joint", AltID: alt(""), Inputs: 1, Output: true, Proc: jointProc}

func jointProc(in []pallet.Pallet) (*pallet.Pallet, error) { return out(in[0]) }

// Assign is the value-carrier produced by `{literal}` syntax, which the
// parser constructs directly. It is also a catalogue entry, so `[assign]`
// resolves to it through identifier lookup; such a station carries no
// literal and emits an Empty pallet.
var Assign = &Type{ID: "assign", Inputs: 1, Output: true, Proc: noneProc}

var Gate = &Type{ID: "gate", Inputs: 2, Output: true, Proc: gateProc}

func gateProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	a, b := in[0], in[1]
	if bv, ok := a.Bool(); ok {
		if bv {
			return out(b)
		}
		return nil, nil
	}
	if bv, ok := b.Bool(); ok {
		if bv {
			return out(a)
		}
		return nil, nil
	}
	return nil, fmt.Errorf("expected at least one boolean pallet, received %s", pallet.ListDisplay(in))
}

var Filter = &Type{ID: "filter", AltID: alt("X"), Inputs: 1, Output: true, Proc: filterProc}

func filterProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	if bv, ok := in[0].Bool(); ok && !bv {
		return nil, nil
	}
	return out(in[0])
}

// Catalog is the linear lookup table searched by ID and AltID when
// resolving `[identifier]`/`[identifier:MODS]` station syntax.
var Catalog = []*Type{
	Main, Exit, Joint, Assign, Gate, Filter,
	Print, Println, Readln,
	Add, Sub, Mult, Div, Mod, Inc, Dec,
	Eq, Ne, Gt, Lt, Gte, Lte,
	And, Or, Not,
}

// Lookup resolves a station identifier to its catalogue Type, or reports
// ok=false for an unrecognized id.
func Lookup(id string) (*Type, bool) {
	for _, t := range Catalog {
		if t.HasID(id) {
			return t, true
		}
	}
	return nil, false
}
