package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/advantech-ae/idaqscan/internal/config"
	"github.com/advantech-ae/idaqscan/internal/output"
	"github.com/advantech-ae/idaqscan/internal/scanner"
	"github.com/advantech-ae/idaqscan/internal/session"
)

const (
	exitProcessError   = 1
	exitDeviceNotFound = 2
)

// exitError carries a process exit status out of a command. A nil err means
// the command already reported everything and only the status is left.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [flags]",
		Short: "Run dndev /ecns and report the iDAQ-974 address",
		Long: `Run the DAQNavi console tool once and print the address of the first iDAQ-974
line in its output.

Exit status is 0 when the device was found, 2 when the tool ran but listed no
iDAQ-974 address, and 1 when the tool could not be run or failed.`,
		Args: cobra.NoArgs,
		RunE: runScan,
	}
	cmd.Flags().StringP("mode", "m", "", "Target OS: windows, linux or all (default from config)")
	cmd.Flags().StringP("path", "p", "", "dndev path for this scan, overrides the configured one")
	cmd.Flags().Bool("json", false, "Output as JSON (for automation)")
	cmd.Flags().Bool("raw", false, "Also print the raw tool output")
	cmd.Flags().Bool("copy", false, "Copy the found address to the clipboard")
	return cmd
}

// parseModes accepts a single OS mode or "all".
func parseModes(s string) ([]scanner.OSMode, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return []scanner.OSMode{scanner.Windows, scanner.Linux}, nil
	}
	mode, err := scanner.ParseOSMode(s)
	if err != nil {
		return nil, err
	}
	return []scanner.OSMode{mode}, nil
}

// targetRequests builds one request per mode from flags and config.
func targetRequests(cmd *cobra.Command, cfg *config.Config) ([]scanner.ScanRequest, error) {
	modeFlag, _ := cmd.Flags().GetString("mode")
	if modeFlag == "" {
		modeFlag = cfg.GetMode()
	}
	modes, err := parseModes(modeFlag)
	if err != nil {
		return nil, err
	}

	path, _ := cmd.Flags().GetString("path")
	if path != "" && len(modes) > 1 {
		return nil, fmt.Errorf("--path needs a single --mode, not %q", modeFlag)
	}

	reqs := make([]scanner.ScanRequest, 0, len(modes))
	for _, mode := range modes {
		p := path
		if p == "" {
			p = cfg.ToolPath(mode)
		}
		reqs = append(reqs, scanner.ScanRequest{TargetPath: p, Mode: mode})
	}
	return reqs, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return err
	}

	reqs, err := targetRequests(cmd, cfg)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	showRaw, _ := cmd.Flags().GetBool("raw")
	copyAddr, _ := cmd.Flags().GetBool("copy")
	quiet, _ := cmd.Flags().GetBool("quiet")

	logger := newLogger(cmd)
	defer logger.Sync()

	runner := scanner.NewRunner(cfg.GetTimeout())
	results := make([]scanner.ScanResult, len(reqs))

	if !quiet && !jsonOutput {
		for _, req := range reqs {
			fmt.Fprintf(os.Stderr, "Scanning %s target: %s %s\n", req.Mode, req.TargetPath, scanner.EcnsFlag)
		}
	}

	// Each target gets its own controller; they share nothing but the runner,
	// which holds no state.
	var wg conc.WaitGroup
	for i, req := range reqs {
		i, req := i, req
		ctrl := session.New(runner, logger.With(zap.Stringer("panel", req.Mode)))
		wg.Go(func() {
			result, err := ctrl.Scan(cmd.Context(), req)
			if err != nil {
				logger.Error("scan refused", zap.Error(err))
			}
			results[i] = result
		})
	}
	wg.Wait()

	if jsonOutput {
		if err := output.PrintJSON(os.Stdout, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			output.PrintTable(os.Stdout, r, showRaw)
		}
		if len(results) > 1 {
			output.PrintSummary(os.Stdout, results)
		}
	}

	if copyAddr {
		copyFirstAddress(results, logger)
	}

	return scanExit(results)
}

func copyFirstAddress(results []scanner.ScanResult, logger *zap.Logger) {
	for _, r := range results {
		if r.Match == nil {
			continue
		}
		if err := clipboard.WriteAll(r.Match.Address); err != nil {
			logger.Warn("could not copy address to clipboard", zap.Error(err))
			return
		}
		fmt.Fprintf(os.Stderr, "IP %s copied!\n", r.Match.Address)
		return
	}
}

// scanExit turns scan results into the command's exit status: any failed tool
// run wins, then "nothing found", then success.
func scanExit(results []scanner.ScanResult) error {
	var errs error
	found := false

	for _, r := range results {
		switch r.Status {
		case scanner.StatusProcessError:
			if le := r.Outcome.LaunchError; le != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s target: %w", r.Request.Mode, le))
			} else {
				errs = multierr.Append(errs, fmt.Errorf("%s target: dndev exited with code %d", r.Request.Mode, r.Outcome.ExitCode))
			}
		case scanner.StatusSuccess:
			found = true
		}
	}

	if errs != nil {
		return &exitError{code: exitProcessError, err: errs}
	}
	if !found {
		return &exitError{code: exitDeviceNotFound}
	}
	return nil
}
