package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/arsenal-toolkit/internal/logger"
)

// Result captures the execution of one shell command line
type Result struct {
	Command  string
	ExitCode int
	Duration time.Duration
	Success  bool
}

// Runner executes catalog-supplied command lines through an embedded POSIX
// shell interpreter, so quoting, pipes, and && chains behave identically
// on every platform, Windows included.
type Runner struct {
	log    logger.Logger
	parser *syntax.Parser

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	env    []string
}

// NewRunner creates a runner wired to the process standard streams
func NewRunner(log logger.Logger) *Runner {
	return &Runner{
		log:    log,
		parser: syntax.NewParser(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithOutput redirects stdout and stderr, typically to mirror command
// output into the run log
func (r *Runner) WithOutput(stdout, stderr io.Writer) *Runner {
	r.stdout = stdout
	r.stderr = stderr
	return r
}

// WithEnv appends KEY=VALUE pairs to the environment of executed commands
func (r *Runner) WithEnv(pairs ...string) *Runner {
	r.env = append(r.env, pairs...)
	return r
}

// Run parses and executes one command line in dir. A non-zero exit from
// the command is reported in the result, not as an error; errors are
// reserved for unparseable input and interpreter failures.
func (r *Runner) Run(ctx context.Context, dir, command string, args ...string) (*Result, error) {
	prog, err := r.parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse command %q: %w", command, err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(append(os.Environ(), r.env...)...)),
		interp.StdIO(r.stdin, r.stdout, r.stderr),
		interp.Dir(dir),
	}
	if len(args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create shell interpreter: %w", err)
	}

	r.log.Debug("Executing shell command", "command", command, "dir", dir)

	start := time.Now()
	runErr := runner.Run(ctx, prog)

	result := &Result{
		Command:  command,
		Duration: time.Since(start),
	}

	if runErr != nil {
		if status, ok := interp.IsExitStatus(runErr); ok {
			result.ExitCode = int(status)
			r.log.Debug("Shell command exited non-zero",
				"command", command,
				"exit_code", result.ExitCode,
				"duration", result.Duration)
			return result, nil
		}
		return result, fmt.Errorf("shell execution failed: %w", runErr)
	}

	result.Success = true
	r.log.Debug("Shell command completed", "command", command, "duration", result.Duration)

	return result, nil
}
