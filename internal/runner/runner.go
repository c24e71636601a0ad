// Package runner executes resolved tool commands without blocking the
// caller and reports their complete output through a callback.
//
// Lint tools routinely exit nonzero when they find problems, so a
// nonzero exit code is not an error here: Result.Err is set only when
// the process could not be started, was killed by a timeout, or failed
// in some way other than its own exit status.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/dshills/lintbridge/internal/command"
	"github.com/dshills/lintbridge/internal/logging"
)

// Result holds everything a finished process produced.
type Result struct {
	// Stdout is the complete standard output.
	Stdout string

	// Stderr is the complete standard error.
	Stderr string

	// ExitCode is the process exit code (-1 when the process failed to
	// start or did not exit on its own).
	ExitCode int

	// Err is set when the process failed to start, the run timed out,
	// or waiting failed. A nonzero exit status alone does not set it.
	Err error

	// Duration is the wall time from start attempt to completion.
	Duration time.Duration
}

// TimedOut reports whether the run was cut short by the runner's timeout.
func (r Result) TimedOut() bool {
	return r.Err == context.DeadlineExceeded
}

// Runner starts tool processes in the background.
type Runner struct {
	timeout time.Duration
	dir     string
	env     map[string]string
	logger  *logging.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets a per-run deadline. The process is killed when it
// expires. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithDir sets the working directory for started processes.
// Empty means the current directory is inherited.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithEnv adds environment variables on top of the parent environment.
func WithEnv(env map[string]string) Option {
	return func(r *Runner) {
		r.env = env
	}
}

// WithLogger sets the runner's logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// New creates a runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts cmd and returns immediately. The complete callback is
// invoked exactly once when the process finishes, from the runner's
// goroutine. A spawn failure still invokes it, with empty streams and
// exit code -1; it is never silently dropped.
func (r *Runner) Run(ctx context.Context, cmd command.Command, complete func(Result)) {
	go r.execute(ctx, cmd, complete)
}

// RunSync runs cmd and waits for its result.
func (r *Runner) RunSync(ctx context.Context, cmd command.Command) Result {
	ch := make(chan Result, 1)
	r.Run(ctx, cmd, func(res Result) {
		ch <- res
	})
	return <-ch
}

// execute does the actual spawn/wait and reports through complete.
func (r *Runner) execute(ctx context.Context, cmd command.Command, complete func(Result)) {
	start := time.Now()

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	proc := exec.CommandContext(runCtx, cmd.Path, cmd.Args...)
	if r.dir != "" {
		proc.Dir = r.dir
	}
	proc.Env = r.buildEnvironment()

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	r.logger.Debug("running %s", cmd)

	if err := proc.Start(); err != nil {
		r.logger.Error("failed to start %s: %v", cmd.Path, err)
		complete(Result{
			ExitCode: -1,
			Err:      fmt.Errorf("start %s: %w", cmd.Path, err),
			Duration: time.Since(start),
		})
		return
	}

	err := proc.Wait()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		result.ExitCode = 0
	case runCtx.Err() != nil:
		result.ExitCode = -1
		result.Err = runCtx.Err()
		r.logger.Warn("%s did not finish: %v", cmd.Path, runCtx.Err())
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			// The tool exited on its own; its status is data, not an error.
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Err = fmt.Errorf("wait %s: %w", cmd.Path, err)
		}
	}

	complete(result)
}

// buildEnvironment merges the runner's extra variables over the parent
// environment. A nil return inherits the parent environment untouched.
func (r *Runner) buildEnvironment() []string {
	if len(r.env) == 0 {
		return nil
	}

	env := os.Environ()

	keys := make([]string, 0, len(r.env))
	for k := range r.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		env = append(env, k+"="+r.env[k])
	}
	return env
}
