// Package toolchain runs the source repository's own install, build and
// extraction commands.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/plugindocs/internal/logfields"
)

var (
	// ErrCommandNotFound is returned when the executable is not on PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCommandFailed is returned when a command exits non-zero.
	ErrCommandFailed = errors.New("command failed")
)

// Command is one external process invocation.
type Command struct {
	Args []string
	Dir  string
	// Env is appended to the runner's base environment.
	Env []string
}

// String renders the argv for logs.
func (c Command) String() string { return strings.Join(c.Args, " ") }

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes commands to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// BaseEnv is the environment every command starts from; nil inherits the
	// process environment.
	BaseEnv []string
	Logger  *slog.Logger
}

// Run starts cmd and waits for it. Output is captured and logged at debug
// level; on failure it is included in the returned error.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cmd.Args) == 0 {
		return Result{}, fmt.Errorf("%w: empty argv", ErrCommandFailed)
	}
	// Paths with a separator are resolved against cmd.Dir by os/exec.
	if !strings.ContainsRune(cmd.Args[0], filepath.Separator) {
		if _, err := exec.LookPath(cmd.Args[0]); err != nil {
			return Result{}, fmt.Errorf("%w: %s: %w", ErrCommandNotFound, cmd.Args[0], err)
		}
	}

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	if r.BaseEnv != nil || len(cmd.Env) > 0 {
		base := r.BaseEnv
		if base == nil {
			base = c.Environ()
		}
		c.Env = append(append([]string{}, base...), cmd.Env...)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	logger.Debug("Running command", logfields.Command(cmd.String()), logfields.Path(cmd.Dir))
	start := time.Now()
	err := c.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String(), Duration: time.Since(start)}

	if res.Stdout != "" {
		logger.Debug("command stdout", logfields.Command(cmd.Args[0]), slog.String("output", res.Stdout))
	}
	if res.Stderr != "" {
		logger.Debug("command stderr", logfields.Command(cmd.Args[0]), slog.String("error_output", res.Stderr))
	}

	if err != nil {
		output := strings.TrimSpace(res.Stderr)
		if output == "" {
			output = strings.TrimSpace(res.Stdout)
		}
		if output != "" {
			return res, fmt.Errorf("%w: %s: %w: %s", ErrCommandFailed, cmd, err, lastLines(output, 20))
		}
		return res, fmt.Errorf("%w: %s: %w", ErrCommandFailed, cmd, err)
	}
	return res, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
