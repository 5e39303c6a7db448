package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/ggoodman/mcp-stdio-examples/internal/errstack"
)

type fakeRunner struct {
	stdout string
	stderr string
	err    error

	gotName string
	gotArgs []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.gotName = name
	f.gotArgs = args
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{"ok", Request{Target: "127.0.0.1", Count: "4", Timeout: "1"}, nil},
		{"hostname", Request{Target: "localhost", Count: "1", Timeout: "2"}, nil},
		{"empty target", Request{Count: "4", Timeout: "1"}, ErrEmptyTarget},
		{"option injection", Request{Target: "-f", Count: "4", Timeout: "1"}, ErrInvalidTarget},
		{"embedded space", Request{Target: "127.0.0.1 -f", Count: "4", Timeout: "1"}, ErrInvalidTarget},
		{"control char", Request{Target: "host\n", Count: "4", Timeout: "1"}, ErrInvalidTarget},
		{"zero count", Request{Target: "h", Count: "0", Timeout: "1"}, ErrInvalidCount},
		{"non numeric count", Request{Target: "h", Count: "four", Timeout: "1"}, ErrInvalidCount},
		{"signed count", Request{Target: "h", Count: "+4", Timeout: "1"}, ErrInvalidCount},
		{"negative timeout", Request{Target: "h", Count: "4", Timeout: "-1"}, ErrInvalidTimeout},
		{"empty timeout", Request{Target: "h", Count: "4"}, ErrInvalidTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.req.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestInvoke_DefaultsAndArgs(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{stdout: "PING 127.0.0.1\n4 packets transmitted\n"}
	inv := NewInvoker(WithRunner(r), WithBinary("/usr/bin/ping"))

	out, err := inv.Invoke(context.Background(), Request{Target: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out != r.stdout {
		t.Fatalf("expected stdout to be returned verbatim, got %q", out)
	}
	if r.gotName != "/usr/bin/ping" {
		t.Fatalf("unexpected binary %q", r.gotName)
	}
	want := []string{"-c", "4", "-W", "1", "127.0.0.1"}
	if !slices.Equal(r.gotArgs, want) {
		t.Fatalf("expected args %v, got %v", want, r.gotArgs)
	}
}

func TestInvoke_ExplicitCountAndTimeout(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{stdout: "ok"}
	inv := NewInvoker(WithRunner(r))
	if _, err := inv.Invoke(context.Background(), Request{Target: "10.0.0.1", Count: "2", Timeout: "3"}); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	want := []string{"-c", "2", "-W", "3", "10.0.0.1"}
	if !slices.Equal(r.gotArgs, want) {
		t.Fatalf("expected args %v, got %v", want, r.gotArgs)
	}
	if r.gotName != DefaultBinary {
		t.Fatalf("expected default binary, got %q", r.gotName)
	}
}

func TestInvoke_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		runner     *fakeRunner
		wantKind   ExecutionKind
		wantPrefix string
		wantDetail string
	}{
		{
			name:       "non-zero exit with stderr",
			runner:     &fakeRunner{stderr: "ping: unknown host\n", err: errors.New("exit status 2")},
			wantKind:   ExecutionFailed,
			wantPrefix: "Ping failed: ",
			wantDetail: "ping: unknown host",
		},
		{
			name:       "spawn failure",
			runner:     &fakeRunner{err: errors.New(`exec: "ping": executable file not found in $PATH`)},
			wantKind:   ExecutionFailed,
			wantPrefix: "Ping failed: ",
			wantDetail: `exec: "ping": executable file not found in $PATH`,
		},
		{
			name:       "stderr on success",
			runner:     &fakeRunner{stdout: "partial", stderr: "warning: something\n"},
			wantKind:   ExecutionDiagnostics,
			wantPrefix: "Ping error: ",
			wantDetail: "warning: something",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			inv := NewInvoker(WithRunner(tc.runner))
			out, err := inv.Invoke(context.Background(), Request{Target: "127.0.0.1"})
			if out != "" {
				t.Fatalf("expected no output on failure, got %q", out)
			}
			var ee *ExecutionError
			if !errors.As(err, &ee) {
				t.Fatalf("expected *ExecutionError, got %T: %v", err, err)
			}
			if ee.Kind != tc.wantKind {
				t.Fatalf("expected kind %v, got %v", tc.wantKind, ee.Kind)
			}
			if ee.Detail != tc.wantDetail {
				t.Fatalf("expected detail %q, got %q", tc.wantDetail, ee.Detail)
			}
			if !strings.HasPrefix(err.Error(), tc.wantPrefix) {
				t.Fatalf("expected message prefix %q, got %q", tc.wantPrefix, err.Error())
			}
			var tr errstack.Tracer
			if !errors.As(err, &tr) || tr.StackTrace() == "" {
				t.Fatalf("expected a captured stack")
			}
		})
	}
}

func TestInvoke_RejectsBeforeSpawning(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	inv := NewInvoker(WithRunner(r))
	_, err := inv.Invoke(context.Background(), Request{Target: "--help"})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	if r.gotName != "" {
		t.Fatalf("runner should not have been called")
	}
}

// TestHelperProcess is not a real test. It stands in for the ping binary when
// the ExecRunner tests re-execute the test binary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) > 0 {
		args = args[1:]
	}
	switch os.Getenv("HELPER_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "unreachable")
		os.Exit(1)
	case "warn":
		fmt.Fprintln(os.Stdout, "reply")
		fmt.Fprintln(os.Stderr, "warning")
		os.Exit(0)
	default:
		fmt.Fprintln(os.Stdout, strings.Join(args, " "))
		os.Exit(0)
	}
}

type helperRunner struct {
	mode string
}

func (h helperRunner) Run(ctx context.Context, _ string, args ...string) ([]byte, []byte, error) {
	argv := append([]string{"-test.run=TestHelperProcess", "--"}, args...)
	return ExecRunner{Env: []string{"GO_WANT_HELPER_PROCESS=1", "HELPER_MODE=" + h.mode}}.Run(ctx, os.Args[0], argv...)
}

func TestExecRunner_HelperProcess(t *testing.T) {
	cases := []struct {
		mode    string
		wantOut string
		wantErr string
	}{
		{mode: "echo", wantOut: "-c 4 -W 1 127.0.0.1\n"},
		{mode: "fail", wantErr: "Ping failed: unreachable"},
		{mode: "warn", wantErr: "Ping error: warning"},
	}
	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			inv := NewInvoker(WithRunner(helperRunner{mode: tc.mode}))
			out, err := inv.Invoke(context.Background(), Request{Target: "127.0.0.1"})
			if tc.wantErr != "" {
				if err == nil || err.Error() != tc.wantErr {
					t.Fatalf("expected error %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Invoke: %v", err)
			}
			if out != tc.wantOut {
				t.Fatalf("expected %q, got %q", tc.wantOut, out)
			}
		})
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	inv := NewInvoker(WithBinary("/nonexistent/definitely-not-ping"))
	_, err := inv.Invoke(context.Background(), Request{Target: "127.0.0.1"})
	var ee *ExecutionError
	if !errors.As(err, &ee) || ee.Kind != ExecutionFailed {
		t.Fatalf("expected spawn failure, got %v", err)
	}
}
