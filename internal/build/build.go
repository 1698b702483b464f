package build

import (
	"github.com/jaxsonp/factory-script/internal/fsgrid"
	"github.com/jaxsonp/factory-script/internal/fsprog"
	"github.com/jaxsonp/factory-script/internal/rtctx"
)

// Process runs the full preprocessor pipeline over source text: station
// discovery, belt tracing, and function partitioning. It returns a
// ready-to-run Program or the first Error encountered.
func Process(ctx *rtctx.Context, src string) (*fsprog.Program, error) {
	g := fsgrid.New(src)

	ctx.Debugf(4, "%s", src)
	ctx.Debugf(2, "Preprocessing...")
	stations, funcNames, err := ParseStations(g)
	if err != nil {
		return nil, err
	}
	ctx.Debugf(3, "Found %d stations", len(stations))

	prog, err := Partition(ctx, g, stations, funcNames)
	if err != nil {
		return nil, err
	}
	ctx.Debugf(2, "Finished preprocessing")
	return prog, nil
}
