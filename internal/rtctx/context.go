// Package rtctx holds the process-wide configuration the CLI collects from
// flags (debug level, colour, benchmark mode) and threads explicitly
// through the preprocessor and runtime, in place of the package-level
// mutable globals the original interpreter used.
package rtctx

import "fmt"

// Context carries run configuration through the preprocessor and runtime.
// A zero Context is valid and behaves as if every flag were off.
type Context struct {
	// DebugLevel is 0-4; higher levels log more. Level 4 additionally dumps
	// the source grid before preprocessing begins.
	DebugLevel int
	// Color enables ANSI colouring of debug and error output.
	Color bool
	// Benchmark enables the step-count/timing summary printed after a
	// successful run.
	Benchmark bool
}

// Debugf logs msg at the given level if ctx.DebugLevel allows it. Levels
// above 1 are dimmed when colour is enabled, matching the original
// interpreter's debug! macro (bright text reserved for level-1 status
// lines, dim grey for deeper trace output).
func (ctx Context) Debugf(level int, format string, args ...any) {
	if level > ctx.DebugLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if level > 1 && ctx.Color {
		fmt.Printf("\x1b[90m%s\x1b[0m\n", msg)
	} else {
		fmt.Println(msg)
	}
}

// Errorf prints a fatal CLI error line, coloured red when enabled,
// matching the original interpreter's print_cli_err! macro.
func (ctx Context) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if ctx.Color {
		fmt.Printf("\x1b[31m%s\x1b[0m\n", msg)
	} else {
		fmt.Println("ERROR! " + msg)
	}
}
