package station

import (
	"fmt"

	"github.com/jaxsonp/factory-script/internal/pallet"
)

var Add = &Type{ID: "add", AltID: alt("+"), Inputs: 2, Output: true, Proc: addProc}

func addProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	a, b := in[0], in[1]
	if x, ok := a.Int(); ok {
		if y, ok := b.Int(); ok {
			return out(pallet.NewInt(x + y))
		}
	}
	if x, ok := a.Float(); ok {
		if y, ok := b.Float(); ok {
			return out(pallet.NewFloat(x + y))
		}
	}
	if s, ok := a.String(); ok {
		if c, ok := b.Char(); ok {
			return out(pallet.NewString(s + string(c)))
		}
		if s2, ok := b.String(); ok {
			return out(pallet.NewString(s + s2))
		}
	}
	return nil, fmt.Errorf("Unexpected pallet types received: %s", pallet.ListDisplay(in))
}

var Sub = &Type{ID: "sub", AltID: alt("-"), Inputs: 2, Output: true, Proc: numeric2("sub", func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y })}
var Mult = &Type{ID: "mult", AltID: alt("*"), Inputs: 2, Output: true, Proc: numeric2("mult", func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y })}

var Div = &Type{ID: "div", AltID: alt("/"), Inputs: 2, Output: true, Proc: divProc}

func divProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	a, b := in[0], in[1]
	if x, ok := a.Int(); ok {
		if y, ok := b.Int(); ok {
			if y == 0 {
				return nil, fmt.Errorf("Attempted divide by zero")
			}
			return out(pallet.NewInt(x / y))
		}
	}
	if x, ok := a.Float(); ok {
		if y, ok := b.Float(); ok {
			if y == 0 {
				return nil, fmt.Errorf("Attempted divide by zero")
			}
			return out(pallet.NewFloat(x / y))
		}
	}
	return nil, fmt.Errorf("Expected numerical pallets, received: %s", pallet.ListDisplay(in))
}

var Mod = &Type{ID: "mod", AltID: alt("%"), Inputs: 2, Output: true, Proc: modProc}

func modProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	a, b := in[0], in[1]
	if x, ok := a.Int(); ok {
		if y, ok := b.Int(); ok {
			if y == 0 {
				return nil, fmt.Errorf("Attempted divide by zero")
			}
			return out(pallet.NewInt(x % y))
		}
	}
	if x, ok := a.Float(); ok {
		if y, ok := b.Float(); ok {
			if y == 0 {
				return nil, fmt.Errorf("Attempted divide by zero")
			}
			return out(pallet.NewFloat(mathMod(x, y)))
		}
	}
	return nil, fmt.Errorf("Expected numerical pallets, received: %s", pallet.ListDisplay(in))
}

func mathMod(x, y float64) float64 {
	r := x - y*float64(int64(x/y))
	return r
}

// numeric2 builds a matching-type Int/Float binary arithmetic procedure
// from two Go operators, the way add/sub/mult share shape in the original
// source's math.rs.
func numeric2(name string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) Procedure {
	return func(in []pallet.Pallet) (*pallet.Pallet, error) {
		a, b := in[0], in[1]
		if x, ok := a.Int(); ok {
			if y, ok := b.Int(); ok {
				return out(pallet.NewInt(intOp(x, y)))
			}
		}
		if x, ok := a.Float(); ok {
			if y, ok := b.Float(); ok {
				return out(pallet.NewFloat(floatOp(x, y)))
			}
		}
		return nil, fmt.Errorf("Expected numerical pallets, received: %s", pallet.ListDisplay(in))
	}
}

var Inc = &Type{ID: "inc", AltID: alt("++"), Inputs: 1, Output: true, Proc: incProc}

func incProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	if x, ok := in[0].Int(); ok {
		return out(pallet.NewInt(x + 1))
	}
	if x, ok := in[0].Float(); ok {
		return out(pallet.NewFloat(x + 1))
	}
	return nil, fmt.Errorf("Expected a numerical pallet, received: %s", pallet.ListDisplay(in))
}

var Dec = &Type{ID: "dec", AltID: alt("--"), Inputs: 1, Output: true, Proc: decProc}

func decProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	if x, ok := in[0].Int(); ok {
		return out(pallet.NewInt(x - 1))
	}
	if x, ok := in[0].Float(); ok {
		return out(pallet.NewFloat(x - 1))
	}
	return nil, fmt.Errorf("Expected a numerical pallet, received: %s", pallet.ListDisplay(in))
}

var Eq = &Type{ID: "eq", AltID: alt("="), Inputs: 2, Output: true, Proc: func(in []pallet.Pallet) (*pallet.Pallet, error) {
	return out(pallet.NewBool(in[0].Equal(in[1])))
}}

var Ne = &Type{ID: "ne", AltID: alt("!="), Inputs: 2, Output: true, Proc: func(in []pallet.Pallet) (*pallet.Pallet, error) {
	return out(pallet.NewBool(!in[0].Equal(in[1])))
}}

var Gt = &Type{ID: "gt", AltID: alt(">"), Inputs: 2, Output: true, Proc: compare("gt", func(c int) bool { return c > 0 })}
var Lt = &Type{ID: "lt", AltID: alt("<"), Inputs: 2, Output: true, Proc: compare("lt", func(c int) bool { return c < 0 })}
var Gte = &Type{ID: "gte", AltID: alt(">="), Inputs: 2, Output: true, Proc: compare("gte", func(c int) bool { return c >= 0 })}
var Lte = &Type{ID: "lte", AltID: alt("<="), Inputs: 2, Output: true, Proc: compare("lte", func(c int) bool { return c <= 0 })}

// compare builds a comparison procedure over the three matched kinds the
// spec allows (Int, Float, Bool), reducing each pairing to a three-way
// ordering result that cmp inspects.
func compare(name string, cmp func(int) bool) Procedure {
	return func(in []pallet.Pallet) (*pallet.Pallet, error) {
		a, b := in[0], in[1]
		if x, ok := a.Int(); ok {
			if y, ok := b.Int(); ok {
				return out(pallet.NewBool(cmp(cmpInt64(x, y))))
			}
		}
		if x, ok := a.Float(); ok {
			if y, ok := b.Float(); ok {
				return out(pallet.NewBool(cmp(cmpFloat64(x, y))))
			}
		}
		if x, ok := a.Bool(); ok {
			if y, ok := b.Bool(); ok {
				return out(pallet.NewBool(cmp(cmpBool(x, y))))
			}
		}
		return nil, fmt.Errorf("Expected matching numerical or boolean pallets, received: %s", pallet.ListDisplay(in))
	}
}

func cmpInt64(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func cmpBool(x, y bool) int {
	switch {
	case x == y:
		return 0
	case !x && y:
		return -1
	default:
		return 1
	}
}

var And = &Type{ID: "and", Inputs: 2, Output: true, Proc: func(in []pallet.Pallet) (*pallet.Pallet, error) {
	x, okx := in[0].Bool()
	y, oky := in[1].Bool()
	if !okx || !oky {
		return nil, fmt.Errorf("Expected two boolean pallets, received %s", pallet.ListDisplay(in))
	}
	return out(pallet.NewBool(x && y))
}}

var Or = &Type{ID: "or", Inputs: 2, Output: true, Proc: func(in []pallet.Pallet) (*pallet.Pallet, error) {
	x, okx := in[0].Bool()
	y, oky := in[1].Bool()
	if !okx || !oky {
		return nil, fmt.Errorf("Expected two boolean pallets, received %s", pallet.ListDisplay(in))
	}
	return out(pallet.NewBool(x || y))
}}

var Not = &Type{ID: "not", AltID: alt("!"), Inputs: 1, Output: true, Proc: func(in []pallet.Pallet) (*pallet.Pallet, error) {
	x, ok := in[0].Bool()
	if !ok {
		return nil, fmt.Errorf("Expected a boolean pallet, received %s", pallet.ListDisplay(in))
	}
	return out(pallet.NewBool(!x))
}}
