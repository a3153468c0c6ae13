package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single dndev run. dndev normally answers within a
// few seconds; a tool that never exits would otherwise hang the scan forever.
const DefaultTimeout = 60 * time.Second

// waitDelay caps how long Run waits for the output pipes after the tool was
// killed, in case it left children holding them open.
const waitDelay = 2 * time.Second

// Runner runs the diagnostic tool with the /ecns flag. A zero Timeout
// disables the bound and Run waits for as long as the tool runs.
type Runner struct {
	Timeout time.Duration
}

func NewRunner(timeout time.Duration) *Runner {
	return &Runner{Timeout: timeout}
}

// Run executes "<targetPath> /ecns" and blocks until it exits. The target
// path is not checked beforehand; a missing file shows up as a LaunchNotFound
// error in the outcome. Run never returns a Go error and never panics.
func (r *Runner) Run(ctx context.Context, targetPath string, mode OSMode) (outcome ProcessOutcome) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			outcome = ProcessOutcome{
				ExitCode: NoExitCode,
				LaunchError: &LaunchError{
					Kind: LaunchFailure,
					Path: targetPath,
					Err:  fmt.Errorf("panic: %v", p),
				},
			}
		}
		outcome.Duration = time.Since(start)
	}()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := r.command(ctx, targetPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outcome.Stdout = Decode(mode, stdout.Bytes())
	outcome.Stderr = Decode(mode, stderr.Bytes())
	outcome.ExitCode, outcome.LaunchError = classify(ctx, targetPath, err)

	return outcome
}

func (r *Runner) command(ctx context.Context, targetPath string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, targetPath, EcnsFlag)
	cmd.WaitDelay = waitDelay
	hideConsole(cmd)
	return cmd
}

// classify maps the error from exec.Cmd.Run to an exit code and, when the tool
// did not finish on its own, a launch error.
func classify(ctx context.Context, targetPath string, err error) (int, *LaunchError) {
	if err == nil {
		return 0, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		kind := LaunchCancelled
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			kind = LaunchTimeout
		}
		return NoExitCode, &LaunchError{Kind: kind, Path: targetPath, Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return NoExitCode, &LaunchError{Kind: LaunchNotFound, Path: targetPath, Err: err}
	}

	return NoExitCode, &LaunchError{Kind: LaunchFailure, Path: targetPath, Err: err}
}
