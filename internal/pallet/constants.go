package pallet

import "math"

// Pi and E are the Float pallets produced by the {pi} and {e} literal
// forms.
var (
	Pi = NewFloat(math.Pi)
	E  = NewFloat(math.E)
)
