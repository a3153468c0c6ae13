// Package session runs one dndev scan at a time for a single target and hands
// the finished result to whoever asked for it.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/advantech-ae/idaqscan/internal/scanner"
)

var ErrScanInProgress = errors.New("a scan is already running for this target")

type Runner interface {
	Run(ctx context.Context, targetPath string, mode scanner.OSMode) scanner.ProcessOutcome
}

// Controller owns the scan state of one target (one panel). It is Idle or
// Scanning; a request that arrives while Scanning is refused.
type Controller struct {
	runner  Runner
	extract func(string) (scanner.DeviceMatch, bool)
	logger  *zap.Logger

	scanning atomic.Bool
	last     atomic.Pointer[scanner.ScanResult]
}

func New(runner Runner, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		runner:  runner,
		extract: scanner.Extract,
		logger:  logger,
	}
}

// Scanning reports whether a scan is in flight.
func (c *Controller) Scanning() bool {
	return c.scanning.Load()
}

// Last returns the result of the most recent completed scan, or nil.
func (c *Controller) Last() *scanner.ScanResult {
	return c.last.Load()
}

// StartScan starts a scan on its own goroutine and returns at once. The
// result goes to onResult after the controller is back to Idle, so onResult
// may start the next scan. If a scan is already running nothing is started
// and ErrScanInProgress is returned.
func (c *Controller) StartScan(ctx context.Context, req scanner.ScanRequest, onResult func(scanner.ScanResult)) error {
	if !c.scanning.CompareAndSwap(false, true) {
		return ErrScanInProgress
	}
	go func() {
		result := c.finish(c.run(ctx, req))
		if onResult != nil {
			onResult(result)
		}
	}()
	return nil
}

// Scan is the blocking form of StartScan.
func (c *Controller) Scan(ctx context.Context, req scanner.ScanRequest) (scanner.ScanResult, error) {
	if !c.scanning.CompareAndSwap(false, true) {
		return scanner.ScanResult{}, ErrScanInProgress
	}
	return c.finish(c.run(ctx, req)), nil
}

func (c *Controller) finish(result scanner.ScanResult) scanner.ScanResult {
	c.last.Store(&result)
	c.scanning.Store(false)
	return result
}

func (c *Controller) run(ctx context.Context, req scanner.ScanRequest) (result scanner.ScanResult) {
	log := c.logger.With(
		zap.String("target", req.TargetPath),
		zap.Stringer("mode", req.Mode),
	)
	result = scanner.ScanResult{Request: req, StartTime: time.Now()}

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic during scan: %v", p)
			result.Outcome = scanner.ProcessOutcome{
				ExitCode:    scanner.NoExitCode,
				LaunchError: &scanner.LaunchError{Kind: scanner.LaunchFailure, Path: req.TargetPath, Err: err},
			}
			result.Match = nil
			result.Status = scanner.StatusProcessError
			result.Diagnostic = Diagnostic(req, result.Outcome)
			log.Error("scan panicked", zap.Error(err))
		}
		result.EndTime = time.Now()
	}()

	log.Debug("scan started")

	result.Outcome = c.runner.Run(ctx, req.TargetPath, req.Mode)
	if !result.Outcome.Failed() {
		if m, ok := c.extract(result.Outcome.Stdout); ok {
			result.Match = &m
		}
	}
	result.Status = scanner.StatusOf(result.Outcome, result.Match)
	result.Diagnostic = Diagnostic(req, result.Outcome)

	fields := []zap.Field{
		zap.Stringer("status", result.Status),
		zap.Int("exit_code", result.Outcome.ExitCode),
		zap.Duration("duration", result.Outcome.Duration),
	}
	switch result.Status {
	case scanner.StatusSuccess:
		log.Info("device found", append(fields, zap.String("address", result.Match.Address))...)
	case scanner.StatusDeviceNotFound:
		log.Info("device not found", fields...)
	default:
		if le := result.Outcome.LaunchError; le != nil {
			fields = append(fields, zap.Stringer("launch_error", le.Kind), zap.Error(le.Err))
		}
		log.Warn("tool execution failed", fields...)
	}

	return result
}

// Diagnostic is the text shown to the user when the tool failed. It is empty
// for a clean exit.
func Diagnostic(req scanner.ScanRequest, outcome scanner.ProcessOutcome) string {
	if le := outcome.LaunchError; le != nil {
		if le.Kind == scanner.LaunchNotFound {
			return fmt.Sprintf("Error: Executable not found at\n%s", req.TargetPath)
		}
		return fmt.Sprintf("Exception Occurred:\n%v", le)
	}
	if outcome.ExitCode != 0 {
		return fmt.Sprintf("STDERR:\n%s\n\nSTDOUT:\n%s", outcome.Stderr, outcome.Stdout)
	}
	return ""
}
