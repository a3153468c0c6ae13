package main

import (
	"github.com/spf13/cobra"

	"github.com/advantech-ae/idaqscan/internal/config"
	"github.com/advantech-ae/idaqscan/internal/logging"
	"github.com/advantech-ae/idaqscan/internal/scanner"
	"github.com/advantech-ae/idaqscan/internal/tui"
)

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Interactive scanner with Windows and Linux panels",
		Args:  cobra.NoArgs,
		RunE:  runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs only go to a file if one is set.
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := logging.NewFile(cfg.Log.File, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	targets := []tui.Target{
		{Mode: scanner.Windows, Path: cfg.ToolPath(scanner.Windows)},
		{Mode: scanner.Linux, Path: cfg.ToolPath(scanner.Linux)},
	}
	return tui.Run(cmd.Context(), targets, scanner.NewRunner(cfg.GetTimeout()), logger)
}
