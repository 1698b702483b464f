// Command factoryscript runs FactoryScript programs: two-dimensional
// dataflow source files in which stations are connected by conveyor-belt
// characters.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jaxsonp/factory-script/internal/build"
	"github.com/jaxsonp/factory-script/internal/fserr"
	"github.com/jaxsonp/factory-script/internal/interp"
	"github.com/jaxsonp/factory-script/internal/rtctx"
)

var (
	debugFlag     = flag.Int("d", 0, "debug verbosity level, 0-4")
	colorFlag     = flag.Bool("color", true, "colour debug and error output")
	benchmarkFlag = flag.Bool("bench", false, "print a step-count/timing summary after a successful run")
)

func usage() {
	io.WriteString(flag.CommandLine.Output(), `factoryscript runs a FactoryScript source file.

Usage: factoryscript [flags] <file.fs>

Flags:

`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("factoryscript: ")
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()
	if len(flag.Args()) != 1 {
		usage()
		os.Exit(2)
	}

	path := flag.Args()[0]
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := &rtctx.Context{DebugLevel: *debugFlag, Color: *colorFlag, Benchmark: *benchmarkFlag}

	startTime := time.Now()
	prog, err := build.Process(ctx, string(src))
	if err != nil {
		reportAndExit(ctx, err, string(src))
	}
	runtimeStart := time.Now()

	rt := interp.New(ctx, prog)
	steps, err := rt.Run()
	if err != nil {
		reportAndExit(ctx, err, string(src))
	}
	endTime := time.Now()

	if *benchmarkFlag {
		printBenchmark(steps, startTime, runtimeStart, endTime)
	}
}

func reportAndExit(ctx *rtctx.Context, err error, src string) {
	if fsErr, ok := err.(*fserr.Error); ok {
		ctx.Errorf("%s", fserr.Pretty(fsErr, src))
	} else {
		ctx.Errorf("%v", err)
	}
	os.Exit(1)
}

func printBenchmark(steps uint64, start, runtimeStart, end time.Time) {
	preprocess := runtimeStart.Sub(start).Seconds()
	runtime := end.Sub(runtimeStart).Seconds()
	total := end.Sub(start).Seconds()
	avgStep := 0.0
	if steps > 0 {
		avgStep = runtime * 1000 / float64(steps)
	}

	fmt.Println()
	fmt.Println("======Benchmark======")
	fmt.Printf(" steps      %d\n", steps)
	fmt.Printf(" avg step   %.2fms\n", avgStep)
	fmt.Println()
	fmt.Printf(" preprocess %.5fs\n", preprocess)
	fmt.Printf(" runtime    %.5fs\n", runtime)
	fmt.Printf(" total      %.5fs\n", total)
	fmt.Println("=====================")
}
