package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/advantech-ae/idaqscan/internal/config"
	"github.com/advantech-ae/idaqscan/internal/logging"
	"github.com/advantech-ae/idaqscan/internal/scanner"
)

var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	cfgFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "idaqscan",
		Short: "Find an iDAQ-974 on the network using the DAQNavi dndev tool",
		Long: `idaqscan runs the Advantech DAQNavi console tool (dndev /ecns) for a Windows or
Linux target and reports the IP address of the first iDAQ-974 it lists.

The OS mode selects which tool path and text encoding are used; it does not have
to match the host idaqscan runs on.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/idaqscan/config.yaml)")
	rootCmd.PersistentFlags().String("windows-path", "", "dndev.exe path used in windows mode")
	rootCmd.PersistentFlags().String("linux-path", "", "dndev path used in linux mode")
	rootCmd.PersistentFlags().Duration("timeout", 0, "maximum time one dndev run may take, 0 waits forever (default 60s)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")

	viper.BindPFlag("tool.windows_path", rootCmd.PersistentFlags().Lookup("windows-path"))
	viper.BindPFlag("tool.linux_path", rootCmd.PersistentFlags().Lookup("linux-path"))
	viper.BindPFlag("tool.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))

	cobra.OnInitialize(func() {
		config.InitConfig(cfgFile)
	})

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newRawCmd())
	rootCmd.AddCommand(newPsCmd())
	rootCmd.AddCommand(newUICmd())
	rootCmd.AddCommand(newVersionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || ee.err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCodeFor(err))
	}
}

// newLogger builds the stderr logger for the command's verbosity flags.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if path := config.Get().Log.File; path != "" {
		if logger, err := logging.NewFile(path, verbose); err == nil {
			return logger
		}
		fmt.Fprintf(os.Stderr, "cannot open log file %s, logging to stderr\n", path)
	}

	logger, err := logging.New(verbose, quiet)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Get()
			fmt.Printf("idaqscan version %s\n", Version)
			fmt.Printf("Build time: %s\n", BuildTime)
			fmt.Printf("Host: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Printf("Windows tool: %s\n", cfg.ToolPath(scanner.Windows))
			fmt.Printf("Linux tool:   %s\n", cfg.ToolPath(scanner.Linux))
		},
	}
}
