package station

import "github.com/jaxsonp/factory-script/internal/pallet"

// Procedure is the built-in behavior of a station: given its input pallets
// in priority order, it returns the pallet to emit (nil for none) or an
// error message that becomes a RuntimeError at the station's span.
type Procedure func(in []pallet.Pallet) (*pallet.Pallet, error)

// Type is the static descriptor for a station kind: its identifier(s),
// arity, whether it produces output, and its procedure. Twenty-five
// built-in Types make up the catalogue (catalog.go); func_invoke,
// func_input and func_output are never catalogue members — the parser
// builds them directly from $name syntax and they are matched by pointer
// identity, not by id lookup (see HasID and the FuncInvoke/FuncInput/
// FuncOutput variables).
type Type struct {
	ID      string
	AltID   *string
	Inputs  int
	Output  bool
	Proc    Procedure
}

// HasID reports whether query names this type, either as its primary id or
// its alias.
func (t *Type) HasID(query string) bool {
	return t.ID == query || (t.AltID != nil && *t.AltID == query)
}

func alt(s string) *string { return &s }

// noneProc is the placeholder procedure for station types whose firing is
// handled structurally by the runtime (assign, exit, func_invoke,
// func_output) rather than by calling Proc.
func noneProc(_ []pallet.Pallet) (*pallet.Pallet, error) { return nil, nil }
