package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/arsenal-toolkit/internal/logger"
)

// CommandResult captures a single process execution
type CommandResult struct {
	Args     []string
	Output   string
	ExitCode int
	Duration time.Duration
	Success  bool
}

// Executor runs package-manager and tool processes directly, without a
// shell in between. Output is always captured for failure reporting and
// can additionally be mirrored to a writer such as the run log.
type Executor struct {
	log    logger.Logger
	mirror io.Writer
}

// NewExecutor creates a process executor
func NewExecutor(log logger.Logger) *Executor {
	return &Executor{log: log}
}

// Mirror sends a copy of all process output to w
func (e *Executor) Mirror(w io.Writer) *Executor {
	e.mirror = w
	return e
}

// Run executes argv in dir, capturing combined stdout and stderr.
// A non-zero exit is reported in the result, not as an error; errors mean
// the process could not be started at all.
func (e *Executor) Run(ctx context.Context, dir string, argv ...string) (*CommandResult, error) {
	return e.RunWithEnv(ctx, dir, nil, argv...)
}

// RunWithEnv is Run with additional KEY=VALUE environment entries
func (e *Executor) RunWithEnv(ctx context.Context, dir string, env []string, argv ...string) (*CommandResult, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), env...)
	}

	var buf bytes.Buffer
	var out io.Writer = &buf
	if e.mirror != nil {
		out = io.MultiWriter(&buf, e.mirror)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	e.log.Debug("Executing command", "command", strings.Join(argv, " "), "dir", dir)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &CommandResult{
		Args:     argv,
		Output:   buf.String(),
		Duration: duration,
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			e.log.Debug("Command exited non-zero",
				"command", argv[0],
				"exit_code", result.ExitCode,
				"duration", duration)
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}

	result.Success = true
	e.log.Debug("Command completed", "command", argv[0], "duration", duration)

	return result, nil
}
