// Package fsprog holds the compiled form of a FactoryScript program: one
// FunctionTemplate per `$name`-addressed function plus the implicit
// top-level "main" function, each an independent station graph ready to be
// instantiated by the runtime.
package fsprog

import "github.com/jaxsonp/factory-script/internal/station"

// FunctionTemplate is the station graph for one function: the flat list of
// stations that belong to it (local indices into Stations, not the global
// indices the preprocessor originally assigned), how many arguments it
// takes, and which station is its entry point.
type FunctionTemplate struct {
	Name     string
	NArgs    int
	Stations []*station.Station
	// Entry is the local index of the "main" station; only meaningful for
	// function 0, the implicit top-level program, which fires uncondit-
	// ionally on its first tick. Invoked functions have no single entry
	// station: a call's arguments are pushed straight onto each
	// func_input's out-bays when the call is spawned (see Inputs).
	Entry int
	// Inputs maps argument index to the local station index of the
	// func_input station serving it, for functions with NArgs > 0.
	Inputs []int
	// Output is the local index of the func_output station, or -1 if the
	// function never produces one.
	Output int
}

// Program is a fully preprocessed FactoryScript source: one FunctionTemplate
// per distinct function id, indexed by that id (index 0 is always "main").
type Program struct {
	Functions []*FunctionTemplate
}
