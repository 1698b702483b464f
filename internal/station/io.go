package station

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jaxsonp/factory-script/internal/pallet"
)

// Stdin is the source readln reads lines from; it defaults to the
// process's standard input but tests substitute an in-memory reader so
// readln fixtures don't block on a real terminal.
var Stdin io.Reader = os.Stdin

var stdinReader *bufio.Reader

func lineReader() *bufio.Reader {
	if stdinReader == nil {
		stdinReader = bufio.NewReader(Stdin)
	}
	return stdinReader
}

// ResetStdin drops the cached line reader so a later readln picks up
// whatever Stdin currently points at. Tests call this after replacing
// Stdin with a fixture's input.
func ResetStdin() {
	stdinReader = nil
}

var Print = &Type{ID: "print", Inputs: 1, Output: false, Proc: printProc}

func printProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	fmt.Print(displayForPrint(in[0]))
	return nil, nil
}

var Println = &Type{ID: "println", Inputs: 1, Output: false, Proc: printlnProc}

func printlnProc(in []pallet.Pallet) (*pallet.Pallet, error) {
	fmt.Println(displayForPrint(in[0]))
	return nil, nil
}

// displayForPrint renders a pallet's raw value, not its debug Display
// form: print/println write the value itself, e.g. `true` or `hi`, not
// `Pallet<b:true>`.
func displayForPrint(p pallet.Pallet) string {
	switch p.Kind() {
	case pallet.Empty:
		return ""
	case pallet.Bool:
		v, _ := p.Bool()
		if v {
			return "true"
		}
		return "false"
	case pallet.Char:
		v, _ := p.Char()
		return string(v)
	case pallet.String:
		v, _ := p.String()
		return v
	case pallet.Int:
		v, _ := p.Int()
		return fmt.Sprintf("%d", v)
	case pallet.Float:
		v, _ := p.Float()
		return fmt.Sprintf("%v", v)
	default:
		panic("unreachable pallet kind")
	}
}

var Readln = &Type{ID: "readln", Inputs: 1, Output: true, Proc: readlnProc}

func readlnProc(_ []pallet.Pallet) (*pallet.Pallet, error) {
	line, err := lineReader().ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("%v", err)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return out(pallet.NewString(line))
}
