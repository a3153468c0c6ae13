package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/advantech-ae/idaqscan/internal/config"
	"github.com/advantech-ae/idaqscan/internal/output"
	"github.com/advantech-ae/idaqscan/internal/scanner"
	"github.com/advantech-ae/idaqscan/internal/toolproc"
)

func newPsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ps [flags]",
		Short: "List running dndev processes",
		Long:  `List dndev processes that are still running, for example a tool that hung during a scan. Use --kill to terminate them.`,
		Args:  cobra.NoArgs,
		RunE:  runPs,
	}
	cmd.Flags().Bool("kill", false, "Terminate the listed processes")
	return cmd
}

func runPs(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	kill, _ := cmd.Flags().GetBool("kill")

	procs, err := toolproc.Find(cfg.ToolPath(scanner.Windows), cfg.ToolPath(scanner.Linux))
	if err != nil {
		return err
	}

	if len(procs) == 0 {
		fmt.Println("No running dndev processes found")
		return nil
	}

	now := time.Now()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"PID", "User", "Running", "Command"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, p := range procs {
		table.Append([]string{
			strconv.Itoa(int(p.PID)),
			p.User,
			p.Age(now).String(),
			output.SanitizeTerminal(p.Command),
		})
	}
	table.Render()

	if !kill {
		return nil
	}

	var errs error
	for _, p := range procs {
		if err := toolproc.Kill(p.PID); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Printf("Killed PID %d\n", p.PID)
	}
	return errs
}
