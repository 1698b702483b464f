package interp_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/jaxsonp/factory-script/internal/build"
	"github.com/jaxsonp/factory-script/internal/interp"
	"github.com/jaxsonp/factory-script/internal/rtctx"
	"github.com/jaxsonp/factory-script/internal/station"
)

// runFixture builds and executes a FactoryScript source, redirecting
// stdout (print/println write straight to os.Stdout) and optionally
// stdin (readln), and returns whatever was printed along with the
// terminal error, if any.
func runFixture(t *testing.T, src string, stdin []byte) (string, error) {
	t.Helper()

	if stdin != nil {
		old := station.Stdin
		station.Stdin = bytes.NewReader(stdin)
		station.ResetStdin()
		defer func() { station.Stdin = old; station.ResetStdin() }()
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	outCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outCh <- buf.String()
	}()

	ctx := &rtctx.Context{}
	prog, buildErr := build.Process(ctx, src)
	var runErr error
	if buildErr != nil {
		runErr = buildErr
	} else {
		_, runErr = interp.New(ctx, prog).Run()
	}

	w.Close()
	os.Stdout = oldStdout
	out := <-outCh
	r.Close()

	return out, runErr
}

func TestE2E(t *testing.T) {
	paths, err := filepath.Glob("../../testdata/e2e/*.txtar")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no e2e fixtures found")
	}

	for _, path := range paths {
		path := path
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("parsing fixture: %v", err)
			}

			var src, wantStdout, wantErr string
			var stdin []byte
			haveSrc := false
			for _, f := range ar.Files {
				switch f.Name {
				case "source.fs":
					src = string(f.Data)
					haveSrc = true
				case "stdin":
					stdin = f.Data
				case "stdout":
					wantStdout = string(f.Data)
				case "error":
					wantErr = strings.TrimSpace(string(f.Data))
				}
			}
			if !haveSrc {
				t.Fatalf("fixture missing source.fs section")
			}

			out, runErr := runFixture(t, src, stdin)

			if wantErr != "" {
				if runErr == nil {
					t.Fatalf("expected error containing %q, got success with stdout %q", wantErr, out)
				}
				if !strings.Contains(runErr.Error(), wantErr) {
					t.Fatalf("error %q does not contain expected %q", runErr.Error(), wantErr)
				}
				return
			}

			if runErr != nil {
				t.Fatalf("unexpected error: %v", runErr)
			}
			if out != wantStdout {
				t.Fatalf("stdout mismatch:\n got: %q\nwant: %q", out, wantStdout)
			}
		})
	}
}
