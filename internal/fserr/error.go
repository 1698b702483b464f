// Package fserr defines the FactoryScript error taxonomy: SyntaxError,
// IdentifierError, and RuntimeError, each carrying a source span for
// caret-style diagnostics.
package fserr

import (
	"fmt"
	"strings"

	errors "golang.org/x/xerrors"

	"github.com/jaxsonp/factory-script/internal/fsgrid"
)

// Kind distinguishes the three fatal error categories the interpreter can
// raise. There is no recover/try in FactoryScript: any Error aborts the
// run.
type Kind int

const (
	// SyntaxError covers every ill-formed grid construct: unexpected
	// brackets, invalid characters, unclosed literals, malformed numbers,
	// dangling or unattached belts, duplicate start stations, cross-function
	// station membership, mismatched func_output, duplicate func_input
	// indices.
	SyntaxError Kind = iota
	// IdentifierError is raised when a [...] station body doesn't resolve
	// to any catalogue entry.
	IdentifierError
	// RuntimeError covers procedure failures, divide-by-zero, and the
	// recursion-depth limit.
	RuntimeError
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case IdentifierError:
		return "IdentifierError"
	case RuntimeError:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// Error is the single error type raised by the preprocessor and runtime.
// It always carries the source span closest to the fault, so the CLI can
// print a caret-style citation.
type Error struct {
	Kind Kind
	Loc  fsgrid.Span
	Msg  string
	// Cause, if set, is the underlying error this one wraps (e.g. a failed
	// strconv.ParseInt while parsing an out-of-range integer literal such as
	// {99999999999999999999}). Exposed via
	// Unwrap so errors.Is/errors.As work across the boundary.
	Cause error
}

// New builds an Error with no wrapped cause.
func New(kind Kind, loc fsgrid.Span, msg string) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: msg}
}

// Newf builds an Error with a formatted message and no wrapped cause; use
// Wrap to record a cause for Unwrap.
func Newf(kind Kind, loc fsgrid.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Loc: loc, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that wraps cause, formatting msg as a prefix.
func Wrap(kind Kind, loc fsgrid.Span, msg string, cause error) *Error {
	wrapped := errors.Errorf("%s: %w", msg, cause)
	return &Error{Kind: kind, Loc: loc, Msg: wrapped.Error(), Cause: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Loc, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Pretty renders a caret-style citation of the error against the original
// source text, in the spirit of the original interpreter's pretty_msg: the
// offending line, then carets under the span (at least one, starting at
// the span's column).
func Pretty(err *Error, src string) string {
	lines := strings.Split(src, "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", err.Kind, err.Msg)
	if err.Loc.Pos.Line >= 0 && err.Loc.Pos.Line < len(lines) {
		line := lines[err.Loc.Pos.Line]
		fmt.Fprintf(&b, "  %d | %s\n", err.Loc.Pos.Line+1, line)
		pad := strings.Repeat(" ", len(fmt.Sprintf("  %d | ", err.Loc.Pos.Line+1))+err.Loc.Pos.Col)
		carets := err.Loc.Len
		if carets < 1 {
			carets = 1
		}
		fmt.Fprintf(&b, "%s%s\n", pad, strings.Repeat("^", carets))
	}
	return b.String()
}
