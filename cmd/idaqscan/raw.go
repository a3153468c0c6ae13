package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/advantech-ae/idaqscan/internal/config"
	"github.com/advantech-ae/idaqscan/internal/output"
	"github.com/advantech-ae/idaqscan/internal/scanner"
)

func newRawCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raw [flags]",
		Short: "Print the decoded dndev /ecns output as it arrives",
		Long:  `Run dndev /ecns for one target and stream its output, decoded for the target's encoding, without looking for a device.`,
		Args:  cobra.NoArgs,
		RunE:  runRaw,
	}
	cmd.Flags().StringP("mode", "m", "", "Target OS: windows or linux (default from config)")
	cmd.Flags().StringP("path", "p", "", "dndev path, overrides the configured one")
	return cmd
}

func runRaw(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return err
	}

	reqs, err := targetRequests(cmd, cfg)
	if err != nil {
		return err
	}
	if len(reqs) != 1 {
		return fmt.Errorf("raw streams one target at a time, pick --mode windows or --mode linux")
	}
	req := reqs[0]

	runner := scanner.NewRunner(cfg.GetTimeout())
	err = runner.Stream(cmd.Context(), req.TargetPath, req.Mode,
		output.NewSafeTerminalWriter(os.Stdout),
		output.NewSafeTerminalWriter(os.Stderr),
	)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code <= 0 {
			code = exitProcessError
		}
		return &exitError{code: code, err: fmt.Errorf("dndev exited with code %d", exitErr.ExitCode())}
	}
	return err
}
