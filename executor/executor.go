// Package executor runs external programs with output capture, environment
// variable management and context support for cancellation. Commands are run
// exactly once; callers that need retries must add them explicitly.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"time"
)

// Result holds the output and error from a command execution
type Result struct {
	Stdout   string
	Stderr   string
	Combined string
	ExitCode int
	Duration time.Duration
	Err      error
}

// ProgramExecutor runs one fixed program with varying arguments.
type ProgramExecutor interface {
	Execute(ctx context.Context, args []string, opts ...Option) (*Result, error)
}

// Options configures command execution behavior
type Options struct {
	// Output handling. CaptureCombined interleaves both streams into
	// Result.Combined instead of the per-stream fields.
	CaptureStdout   bool
	CaptureStderr   bool
	CaptureCombined bool

	// Working directory
	WorkingDir string

	// Environment variables (appended to current env)
	Env map[string]string

	// Live copies of the output streams, written while the program runs.
	StdoutWriter io.Writer
	StderrWriter io.Writer

	// Logger receives one debug record per execution. Nil disables logging.
	Logger *slog.Logger
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns default execution options
func DefaultOptions() *Options {
	return &Options{
		CaptureStdout: true,
		CaptureStderr: true,
		Env:           make(map[string]string),
	}
}

// WrappedExecutor runs a specific program. Options given to
// NewWrappedExecutor apply to every run; per-call options are layered on top
// and do not persist.
type WrappedExecutor struct {
	program string
	options *Options
}

var _ ProgramExecutor = (*WrappedExecutor)(nil)

// NewWrappedExecutor creates an executor for program.
func NewWrappedExecutor(program string, opts ...Option) *WrappedExecutor {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &WrappedExecutor{
		program: program,
		options: options,
	}
}

// Program returns the wrapped program name or path.
func (w *WrappedExecutor) Program() string {
	return w.program
}

// Execute runs the program with args.
// The returned Result is non-nil even when err is not.
func (w *WrappedExecutor) Execute(ctx context.Context, args []string, opts ...Option) (*Result, error) {
	options := w.mergeOptions(opts...)

	cmd := exec.CommandContext(ctx, w.program, args...)
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}
	if len(options.Env) > 0 {
		cmd.Env = append(os.Environ(), envList(options.Env)...)
	}

	var stdoutBuf, stderrBuf, combinedBuf bytes.Buffer
	cmd.Stdout = joinWriters(options.CaptureStdout, options.CaptureCombined, &stdoutBuf, &combinedBuf, options.StdoutWriter)
	cmd.Stderr = joinWriters(options.CaptureStderr, options.CaptureCombined, &stderrBuf, &combinedBuf, options.StderrWriter)

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Combined: combinedBuf.String(),
		ExitCode: exitCode(err),
		Duration: time.Since(start),
		Err:      err,
	}

	if options.Logger != nil {
		options.Logger.DebugContext(ctx, "command finished",
			"program", w.program,
			"exit_code", result.ExitCode,
			"duration", result.Duration,
		)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%s: command interrupted: %w", w.program, ctxErr)
		}
		return result, fmt.Errorf("%s: command execution failed: %w", w.program, err)
	}
	return result, nil
}

func (w *WrappedExecutor) mergeOptions(opts ...Option) *Options {
	merged := *w.options
	merged.Env = make(map[string]string, len(w.options.Env))
	for k, v := range w.options.Env {
		merged.Env[k] = v
	}

	for _, opt := range opts {
		opt(&merged)
	}

	return &merged
}

// envList renders env as KEY=VALUE pairs in key order so runs are reproducible.
func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}

// joinWriters assembles the writer for one output stream; nil means discard.
func joinWriters(capture, combine bool, own, combined *bytes.Buffer, live io.Writer) io.Writer {
	var writers []io.Writer
	switch {
	case combine:
		writers = append(writers, combined)
	case capture:
		writers = append(writers, own)
	}
	if live != nil {
		writers = append(writers, live)
	}

	if len(writers) == 0 {
		return nil
	}
	return io.MultiWriter(writers...)
}

// exitCode is 0 on success, the process exit status when it ran, and -1
// when it could not be started.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.ExitCode()
	default:
		return -1
	}
}

// WithCapture configures output capture
func WithCapture(stdout, stderr, combined bool) Option {
	return func(o *Options) {
		o.CaptureStdout = stdout
		o.CaptureStderr = stderr
		o.CaptureCombined = combined
	}
}

// WithWorkingDir sets the working directory
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv adds environment variables
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithStdoutWriter copies stdout to w as it is produced.
func WithStdoutWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StdoutWriter = w
	}
}

// WithStderrWriter copies stderr to w as it is produced.
func WithStderrWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StderrWriter = w
	}
}

// WithLogger sets the logger used for per-execution debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
