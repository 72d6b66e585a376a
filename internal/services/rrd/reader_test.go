package rrd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/edgenative/bill95/internal/config"
	"github.com/edgenative/bill95/internal/models"
)

// TestHelperProcess isn't a real test. It's used to mock exec.CommandContext.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	switch os.Getenv("MOCK_RRDTOOL_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "ERROR: opening '/x.rrd': No such file or directory")
		os.Exit(1)
	case "garbage":
		fmt.Fprint(os.Stdout, "this is not rrdtool output: at all\n")
	case "single-ds":
		fmt.Fprint(os.Stdout, "traffic\n\n1727740800: 1.0e+00\n")
	default:
		fmt.Fprint(os.Stdout, observiumFetchOutput)
	}
}

type recordedCall struct {
	name string
	args []string
}

// mockRRDTool swaps execCommand for the helper process and records calls.
func mockRRDTool(t *testing.T, mode string) *[]recordedCall {
	t.Helper()
	var calls []recordedCall
	orig := execCommand
	t.Cleanup(func() { execCommand = orig })

	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		calls = append(calls, recordedCall{name: name, args: args})
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1", "MOCK_RRDTOOL_MODE=" + mode}
		return cmd
	}
	return &calls
}

// fakeResolver points every port at a placeholder file in a temp dir.
func fakeResolver(t *testing.T, create bool) PathResolver {
	t.Helper()
	dir := t.TempDir()
	return func(port models.Port) string {
		path := filepath.Join(dir, fmt.Sprintf("%s-%d.rrd", port.Hostname, port.IfIndex))
		if create {
			if err := os.WriteFile(path, []byte("RRD"), 0o600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
		}
		return path
	}
}

var testWindow = models.Window{
	Start: time.Unix(1727740800, 0).UTC(),
	End:   time.Unix(1727742000, 0).UTC(),
}

var testPort = models.Port{Hostname: "edge1.lon", IfIndex: 12, IfAlias: "Cust: Acme"}

func TestReader_Read(t *testing.T) {
	calls := mockRRDTool(t, "ok")
	r := NewReader(config.RRDTool{Binary: "/usr/bin/rrdtool", Daemon: "unix:/run/rrdcached.sock"}, fakeResolver(t, true))

	series, err := r.Read(context.Background(), testPort, testWindow)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("Read() returned %d samples, want 2", len(series))
	}
	if got := series.Rates(); got[0] != 2_000_000 || got[1] != 3_000_000 {
		t.Errorf("Rates() = %v, want [2e6 3e6]", got)
	}

	if len(*calls) != 1 {
		t.Fatalf("rrdtool invoked %d times, want 1", len(*calls))
	}
	call := (*calls)[0]
	if call.name != "/usr/bin/rrdtool" {
		t.Errorf("binary = %q", call.name)
	}
	wantArgs := []string{
		"fetch", r.Path(testPort), "AVERAGE",
		"--start", "1727740800", "--end", "1727742000",
		"--daemon", "unix:/run/rrdcached.sock",
	}
	if !slices.Equal(call.args, wantArgs) {
		t.Errorf("args = %v, want %v", call.args, wantArgs)
	}
}

func TestReader_FileNotFound(t *testing.T) {
	calls := mockRRDTool(t, "ok")
	r := NewReader(config.RRDTool{}, fakeResolver(t, false))

	_, err := r.Read(context.Background(), testPort, testWindow)
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Read() error = %v, want ErrFileNotFound", err)
	}
	if len(*calls) != 0 {
		t.Error("rrdtool should not run for a missing file")
	}
}

func TestReader_ReadErrors(t *testing.T) {
	for _, mode := range []string{"fail", "garbage", "single-ds"} {
		t.Run(mode, func(t *testing.T) {
			mockRRDTool(t, mode)
			r := NewReader(config.RRDTool{}, fakeResolver(t, true))

			_, err := r.Read(context.Background(), testPort, testWindow)
			if !errors.Is(err, ErrRead) {
				t.Errorf("Read() error = %v, want ErrRead", err)
			}
		})
	}
}

func TestNewReader_DefaultBinary(t *testing.T) {
	calls := mockRRDTool(t, "ok")
	r := NewReader(config.RRDTool{}, fakeResolver(t, true))

	if _, err := r.Read(context.Background(), testPort, testWindow); err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	call := (*calls)[0]
	if call.name != "rrdtool" {
		t.Errorf("binary = %q, want rrdtool", call.name)
	}
	if slices.Contains(call.args, "--daemon") {
		t.Errorf("args = %v, want no --daemon without rrdcached", call.args)
	}
}
