package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/bravo68web/gitapi/pkg/logger"
)

// Runner executes git with an argument vector. dir is the repository path the
// command runs against; an empty dir runs outside any repository (e.g. --version).
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// CommandError is returned when git exits non-zero or cannot be started
type CommandError struct {
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Message returns the tool's error output, or the process error when stderr was empty
func (e *CommandError) Message() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	return e.Err.Error()
}

// ExecRunner runs the git binary as a subprocess
type ExecRunner struct {
	binary  string
	timeout time.Duration
	log     *logger.Logger
}

// NewExecRunner creates an ExecRunner. A zero timeout disables the per-command deadline.
func NewExecRunner(binary string, timeout time.Duration, log *logger.Logger) *ExecRunner {
	if binary == "" {
		binary = "git"
	}
	if log == nil {
		log = logger.Get()
	}
	return &ExecRunner{
		binary:  binary,
		timeout: timeout,
		log:     log.WithFields(logger.Component("git-runner")),
	}
}

// Run starts git, waits for it and returns its standard output
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	if dir != "" {
		cmd.Dir = dir
		cmd.Env = append(cmd.Env, "GIT_DIR="+dir)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	log := r.log.WithContext(ctx)
	if err != nil {
		cmdErr := &CommandError{
			Args:     args,
			Dir:      dir,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			cmdErr.Err = fmt.Errorf("%w: %w", ctxErr, err)
		}

		log.Warn("git command failed",
			logger.Command(args),
			logger.Dir(dir),
			logger.ExitCode(cmdErr.ExitCode),
			logger.Stderr(strings.TrimSpace(cmdErr.Stderr)),
			logger.Latency(elapsed),
		)
		return nil, cmdErr
	}

	log.Debug("git command",
		logger.Command(args),
		logger.Dir(dir),
		logger.Latency(elapsed),
		logger.BodySize(stdout.Len()),
	)

	return stdout.Bytes(), nil
}

var _ Runner = (*ExecRunner)(nil)
