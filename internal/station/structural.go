package station

import "github.com/jaxsonp/factory-script/internal/pallet"

// FuncInvoke, FuncInput and FuncOutput are the three structural pseudo-types
// produced only by `$name` syntax (func.rs's "dummy station types" in the
// original source). They are never members of Catalog and are never
// resolved by id lookup: the station parser constructs them directly and
// every other package compares against these exact pointers.
var (
	FuncInvoke = &Type{ID: "func_invoke", Inputs: 0, Output: false, Proc: noneProc}
	FuncInput  = &Type{ID: "func_input", Inputs: 1, Output: true, Proc: funcInputProc}
	FuncOutput = &Type{ID: "func_output", Inputs: 1, Output: false, Proc: noneProc}
)

// funcInputProc is never actually invoked: the runtime's fire loop skips
// func_input stations, even when a stray pallet has landed in their
// in-bay. The call argument is pushed directly to the station's out-bays
// when the runtime spawns the call, bypassing the station's own fire
// step entirely. The
// procedure exists only so FuncInput has a non-nil Proc like every other
// catalogue-shaped Type.
func funcInputProc(in []pallet.Pallet) (*pallet.Pallet, error) { return out(in[0]) }

// IsStructural reports whether t is one of the three pseudo-types that the
// station parser builds from `$name` syntax rather than from the catalogue.
func IsStructural(t *Type) bool {
	return t == FuncInvoke || t == FuncInput || t == FuncOutput
}
