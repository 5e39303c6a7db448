// Package probe runs the external network reachability check exposed by the
// ping tool. The command is always executed with a discrete argument vector;
// no shell is involved, so request fields are never interpreted as shell
// syntax.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/ggoodman/mcp-stdio-examples/internal/errstack"
)

const (
	// DefaultBinary is the command executed when no binary is configured.
	DefaultBinary = "ping"
	// DefaultCount is the number of echo requests sent when unspecified.
	DefaultCount = "4"
	// DefaultTimeout is the per-reply wait in seconds when unspecified.
	DefaultTimeout = "1"

	maxTargetLen = 253
)

var (
	ErrEmptyTarget    = errors.New("target is required")
	ErrInvalidTarget  = errors.New("invalid target")
	ErrInvalidCount   = errors.New("count must be a positive integer")
	ErrInvalidTimeout = errors.New("timeout must be a positive integer")
)

// Request describes a single probe.
type Request struct {
	Target  string
	Count   string
	Timeout string
}

// WithDefaults fills empty Count and Timeout.
func (r Request) WithDefaults() Request {
	if r.Count == "" {
		r.Count = DefaultCount
	}
	if r.Timeout == "" {
		r.Timeout = DefaultTimeout
	}
	return r
}

// Validate checks that every field is safe to place in the argument vector.
// A target beginning with '-' would be parsed as an option by ping.
func (r Request) Validate() error {
	if r.Target == "" {
		return ErrEmptyTarget
	}
	if len(r.Target) > maxTargetLen || strings.HasPrefix(r.Target, "-") || strings.ContainsFunc(r.Target, isSpaceOrControl) {
		return fmt.Errorf("%w: %q", ErrInvalidTarget, r.Target)
	}
	if !isPositiveInt(r.Count) {
		return fmt.Errorf("%w: %q", ErrInvalidCount, r.Count)
	}
	if !isPositiveInt(r.Timeout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeout, r.Timeout)
	}
	return nil
}

// Args returns the argument vector passed to the ping binary.
func (r Request) Args() []string {
	return []string{"-c", r.Count, "-W", r.Timeout, r.Target}
}

func isPositiveInt(s string) bool {
	if s == "" || s[0] == '+' {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r == 0x7f
}

// Runner executes a command and returns its captured output streams.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec. Env entries are appended to the
// parent environment.
type ExecRunner struct {
	Env []string
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Option customizes an Invoker.
type Option func(*Invoker)

// WithBinary overrides the executable name or path.
func WithBinary(path string) Option {
	return func(i *Invoker) {
		if path != "" {
			i.binary = path
		}
	}
}

// WithRunner overrides how the command is executed.
func WithRunner(r Runner) Option {
	return func(i *Invoker) {
		if r != nil {
			i.runner = r
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Invoker) {
		if l != nil {
			i.log = l
		}
	}
}

// Invoker runs probes. It holds no per-call state and is safe for concurrent
// use; every call spawns an independent process.
type Invoker struct {
	binary string
	runner Runner
	log    *slog.Logger
}

// NewInvoker constructs an Invoker that runs DefaultBinary unless configured
// otherwise.
func NewInvoker(opts ...Option) *Invoker {
	i := &Invoker{
		binary: DefaultBinary,
		runner: ExecRunner{},
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke runs one probe and returns its standard output. The call blocks until
// the process exits; it is only interrupted if ctx is cancelled. There is no
// retry.
//
// Any non-zero exit, spawn failure or output on standard error is reported as
// an *ExecutionError.
func (i *Invoker) Invoke(ctx context.Context, req Request) (string, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return "", err
	}

	start := time.Now()
	log := i.log.With(slog.String("binary", i.binary), slog.String("target", req.Target))

	stdout, stderr, err := i.runner.Run(ctx, i.binary, req.Args()...)
	if err != nil {
		detail := strings.TrimSpace(string(stderr))
		if detail == "" {
			detail = err.Error()
		}
		log.InfoContext(ctx, "probe.invoke.fail", slog.String("err", err.Error()), slog.Int64("dur_ms", time.Since(start).Milliseconds()))
		return "", newExecutionError(ExecutionFailed, detail, err)
	}
	if len(stderr) > 0 {
		detail := strings.TrimSpace(string(stderr))
		log.InfoContext(ctx, "probe.invoke.stderr", slog.String("stderr", detail), slog.Int64("dur_ms", time.Since(start).Milliseconds()))
		return "", newExecutionError(ExecutionDiagnostics, detail, nil)
	}

	log.InfoContext(ctx, "probe.invoke.ok", slog.Int64("dur_ms", time.Since(start).Milliseconds()))
	return string(stdout), nil
}

// ExecutionKind distinguishes why a probe failed.
type ExecutionKind int

const (
	// ExecutionFailed covers spawn failures and non-zero exits.
	ExecutionFailed ExecutionKind = iota
	// ExecutionDiagnostics covers a zero exit that still wrote to stderr.
	ExecutionDiagnostics
)

// ExecutionError reports a failed probe. Detail holds the diagnostic stream
// text, or the spawn/exit error when the process wrote nothing to stderr.
type ExecutionError struct {
	Kind   ExecutionKind
	Detail string
	Err    error
	errstack.Stack
}

func newExecutionError(kind ExecutionKind, detail string, err error) *ExecutionError {
	return &ExecutionError{Kind: kind, Detail: detail, Err: err, Stack: errstack.Capture(1)}
}

func (e *ExecutionError) Error() string {
	if e.Kind == ExecutionDiagnostics {
		return "Ping error: " + e.Detail
	}
	return "Ping failed: " + e.Detail
}

func (e *ExecutionError) Unwrap() error { return e.Err }
