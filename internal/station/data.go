package station

import "github.com/jaxsonp/factory-script/internal/pallet"

// DataKind distinguishes the per-instance payload a Station may carry
// beyond its static Type.
type DataKind int

const (
	// NoData is carried by ordinary builtin stations.
	NoData DataKind = iota
	// AssignValueData is carried by assign stations ({literal}).
	AssignValueData
	// FunctionIDData is carried by func_invoke and func_output stations.
	FunctionIDData
	// FunctionIDAndIndexData is carried by func_input stations.
	FunctionIDAndIndexData
)

// Data is the StationData variant from the spec, modeled as a small tagged
// struct rather than an interface so Station stays comparable-by-value
// cheap to clone.
type Data struct {
	Kind      DataKind
	Value     pallet.Pallet // valid when Kind == AssignValueData
	FuncID    int           // valid when Kind == FunctionIDData or FunctionIDAndIndexData
	ArgIndex  int           // valid when Kind == FunctionIDAndIndexData
}

// None is the zero Data value carried by ordinary builtin stations.
var None = Data{Kind: NoData}
