// SPDX-FileCopyrightText: Copyright The Orgsource Authors
// SPDX-License-Identifier: Apache-2.0

// Package sfcli is the only code path permitted to spawn the Salesforce
// CLI. Every invocation goes through a validated CommandSpec: the program
// and subcommand tokens are checked against closed allow-lists, and every
// argument is sanitized and scanned for suspicious content before the
// process is started. Processes are spawned with argv arrays, never a
// shell string.
package sfcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"sync/atomic"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/sirupsen/logrus"
)

// CommandSpec is an immutable descriptor of one external invocation.
// A CommandSpec that fails any validation rule is never constructed;
// use Executor.Command.
type CommandSpec struct {
	program    string
	subcommand []string
	args       []string
	dir        string
	timeout    time.Duration
}

// Argv returns the full argv array, program first.
func (s *CommandSpec) Argv() []string {
	argv := make([]string, 0, 1+len(s.subcommand)+len(s.args))
	argv = append(argv, s.program)
	argv = append(argv, s.subcommand...)
	argv = append(argv, s.args...)
	return argv
}

// Timeout returns the timeout armed for this invocation.
func (s *CommandSpec) Timeout() time.Duration {
	return s.timeout
}

func (s *CommandSpec) String() string {
	return shellescape.QuoteCommand(s.Argv())
}

// Result holds the captured output of a successful execution. A non-zero
// exit is always a failure, never a partial success.
type Result struct {
	Stdout string
	Stderr string
}

// SpawnFunc runs a validated CommandSpec. Replaced in tests to observe
// argv and count invocations without starting real processes.
type SpawnFunc func(ctx context.Context, spec *CommandSpec) (*Result, error)

// Executor validates and runs external commands. It holds no state beyond
// its immutable configuration; each invocation is independent.
type Executor struct {
	cfg   Config
	spawn SpawnFunc
}

type Opt func(*Executor) error

// WithSpawnFunc replaces process spawning. Used only for testing.
func WithSpawnFunc(fn SpawnFunc) Opt {
	return func(e *Executor) error {
		e.spawn = fn
		return nil
	}
}

// New creates an Executor with the given policy. Zero fields of cfg are
// filled with defaults.
func New(cfg Config, opts ...Opt) (*Executor, error) {
	cfg.fillDefault()
	if !slices.Contains(cfg.AllowedPrograms, cfg.Binary) {
		return nil, fmt.Errorf("%w: binary %q is not in the allow-list %v", ErrSecurity, cfg.Binary, cfg.AllowedPrograms)
	}
	e := &Executor{cfg: cfg}
	e.spawn = e.runProcess
	for _, f := range opts {
		if err := f(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Config returns a copy of the executor's policy.
func (e *Executor) Config() Config {
	return e.cfg
}

type CommandOpt func(*CommandSpec) error

// WithTimeout overrides the default timeout for this invocation.
func WithTimeout(d time.Duration) CommandOpt {
	return func(s *CommandSpec) error {
		if d <= 0 {
			return fmt.Errorf("%w: timeout must be positive, got %v", ErrValidation, d)
		}
		s.timeout = d
		return nil
	}
}

// WithWorkDir runs the command in dir, which must resolve under an
// allowed root.
func WithWorkDir(dir string) CommandOpt {
	return func(s *CommandSpec) error {
		s.dir = dir
		return nil
	}
}

// Command validates program, subcommand tokens, and arguments, and returns
// the CommandSpec. Validation and construction are atomic: no spec exists
// for a combination that fails any rule. The program check runs first, so
// a disallowed program fails before any argument is looked at.
func (e *Executor) Command(program string, subcommand, args []string, opts ...CommandOpt) (*CommandSpec, error) {
	if err := e.cfg.validateProgram(program); err != nil {
		return nil, err
	}
	for _, tok := range subcommand {
		if err := e.cfg.validateToken(tok); err != nil {
			return nil, err
		}
	}
	sanitized := make([]string, 0, len(args))
	for _, arg := range args {
		s, err := e.cfg.sanitizeArg(arg)
		if err != nil {
			return nil, err
		}
		if err := e.cfg.scanArg(s); err != nil {
			return nil, err
		}
		sanitized = append(sanitized, s)
	}
	spec := &CommandSpec{
		program:    program,
		subcommand: slices.Clone(subcommand),
		args:       sanitized,
		timeout:    e.cfg.DefaultTimeout,
	}
	for _, f := range opts {
		if err := f(spec); err != nil {
			return nil, err
		}
	}
	if spec.dir != "" {
		if err := e.cfg.ValidateLocalPath(spec.dir); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// Run executes the spec and returns the captured output, or one of
// ErrSpawn, ErrTimeout, or *ExitError.
func (e *Executor) Run(ctx context.Context, spec *CommandSpec) (*Result, error) {
	logrus.Debugf("executing %s (timeout %v)", spec, spec.timeout)
	return e.spawn(ctx, spec)
}

// runProcess spawns the argv array with shell interpretation disabled,
// captures stdout/stderr incrementally, and enforces the timeout with
// termination-then-kill escalation. The result resolves exactly once:
// a completion flag makes late-arriving events (e.g. process exit after
// the timeout already fired) no-ops.
func (e *Executor) runProcess(ctx context.Context, spec *CommandSpec) (*Result, error) {
	argv := spec.Argv()
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = spec.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrSpawn, argv[0], err)
	}

	// First event wins. resolve is a no-op once the flag is set, so a
	// process exit arriving after the timeout already rejected cannot
	// override the result.
	var done atomic.Bool
	type outcome struct {
		res *Result
		err error
	}
	outCh := make(chan outcome, 1)
	resolve := func(res *Result, err error) {
		if done.CompareAndSwap(false, true) {
			outCh <- outcome{res, err}
		}
	}

	exited := make(chan struct{})
	go func() {
		werr := cmd.Wait()
		switch {
		case werr == nil:
			resolve(&Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil)
		default:
			var ee *exec.ExitError
			if errors.As(werr, &ee) {
				resolve(nil, &ExitError{ExitCode: ee.ExitCode(), Stderr: stderr.String()})
			} else {
				resolve(nil, fmt.Errorf("waiting for %q: %w", argv[0], werr))
			}
		}
		close(exited)
	}()

	timer := time.NewTimer(spec.timeout)
	defer timer.Stop()
	select {
	case o := <-outCh:
		return o.res, o.err
	case <-ctx.Done():
		resolve(nil, fmt.Errorf("command %q canceled: %w", argv[0], ctx.Err()))
		e.killWithGrace(cmd.Process, exited)
	case <-timer.C:
		resolve(nil, fmt.Errorf("%w: %q did not finish within %v", ErrTimeout, argv[0], spec.timeout))
		e.killWithGrace(cmd.Process, exited)
	}
	o := <-outCh
	return o.res, o.err
}

// killWithGrace sends the graceful termination signal, waits for the grace
// window, then kills.
func (e *Executor) killWithGrace(p *os.Process, exited <-chan struct{}) {
	if err := terminate(p); err != nil {
		logrus.WithError(err).Warn("Failed to send termination signal")
	}
	select {
	case <-exited:
	case <-time.After(e.cfg.TerminationGrace):
		if err := p.Kill(); err != nil {
			logrus.WithError(err).Warn("Failed to kill process after grace period")
		}
		<-exited
	}
}
