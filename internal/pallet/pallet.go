// Package pallet defines the typed value that travels along belts between
// stations.
package pallet

import "fmt"

// Kind distinguishes the six Pallet variants. Equality and ordering are
// type-sensitive: an Int and a Float holding the "same" number are never
// equal.
type Kind int

const (
	Empty Kind = iota
	Bool
	Char
	String
	Int
	Float
)

// Pallet is a tagged value. Only the field matching Kind is meaningful;
// callers access values through the typed constructors/accessors below
// rather than touching fields directly, mirroring the Rust source's closed
// enum.
type Pallet struct {
	kind Kind
	b    bool
	c    rune
	s    string
	i    int64
	f    float64
}

var emptyPallet = Pallet{kind: Empty}

// NewEmpty returns the Empty pallet.
func NewEmpty() Pallet { return emptyPallet }

// NewBool returns a Bool pallet.
func NewBool(v bool) Pallet { return Pallet{kind: Bool, b: v} }

// NewChar returns a Char pallet.
func NewChar(v rune) Pallet { return Pallet{kind: Char, c: v} }

// NewString returns a String pallet.
func NewString(v string) Pallet { return Pallet{kind: String, s: v} }

// NewInt returns an Int pallet.
func NewInt(v int64) Pallet { return Pallet{kind: Int, i: v} }

// NewFloat returns a Float pallet.
func NewFloat(v float64) Pallet { return Pallet{kind: Float, f: v} }

func (p Pallet) Kind() Kind { return p.kind }

// Bool returns the underlying bool and whether p is a Bool pallet.
func (p Pallet) Bool() (bool, bool) { return p.b, p.kind == Bool }

// Char returns the underlying rune and whether p is a Char pallet.
func (p Pallet) Char() (rune, bool) { return p.c, p.kind == Char }

// String returns the underlying string and whether p is a String pallet.
func (p Pallet) String() (string, bool) { return p.s, p.kind == String }

// Int returns the underlying int64 and whether p is an Int pallet.
func (p Pallet) Int() (int64, bool) { return p.i, p.kind == Int }

// Float returns the underlying float64 and whether p is a Float pallet.
func (p Pallet) Float() (float64, bool) { return p.f, p.kind == Float }

// Equal performs componentwise, type-sensitive equality: Int(1) != Float(1.0).
func (p Pallet) Equal(other Pallet) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case Empty:
		return true
	case Bool:
		return p.b == other.b
	case Char:
		return p.c == other.c
	case String:
		return p.s == other.s
	case Int:
		return p.i == other.i
	case Float:
		return p.f == other.f
	default:
		panic("unreachable pallet kind")
	}
}

// Display renders the debug form used in error messages and debug output:
// "Pallet<kind:value>".
func (p Pallet) Display() string {
	switch p.kind {
	case Empty:
		return "Pallet< >"
	case Bool:
		if p.b {
			return "Pallet<b:true>"
		}
		return "Pallet<b:false>"
	case Char:
		return fmt.Sprintf("Pallet<c:'%c'>", p.c)
	case String:
		return fmt.Sprintf("Pallet<s:%q>", p.s)
	case Int:
		return fmt.Sprintf("Pallet<i:%d>", p.i)
	case Float:
		return fmt.Sprintf("Pallet<f:%v>", p.f)
	default:
		panic("unreachable pallet kind")
	}
}

func (p Pallet) GoString() string { return p.Display() }

// ListDisplay joins the Display forms of pallets with ", " for procedure
// error messages ("received: Pallet<i:3>, Pallet<s:"x">").
func ListDisplay(pallets []Pallet) string {
	out := ""
	for i, p := range pallets {
		if i > 0 {
			out += ", "
		}
		out += p.Display()
	}
	return out
}
