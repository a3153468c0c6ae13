package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/advantech-ae/idaqscan/internal/scanner"
)

// StatusText is the short label shown for a scan status.
func StatusText(s scanner.Status) string {
	switch s {
	case scanner.StatusSuccess:
		return "Device Found"
	case scanner.StatusDeviceNotFound:
		return "Not Found"
	default:
		return "Execution Failed"
	}
}

// PrintTable writes a human readable report of one scan. Raw tool output is
// included when showRaw is set; the diagnostic text of a failed run always is.
func PrintTable(w io.Writer, result scanner.ScanResult, showRaw bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "iDAQ-974 Scan Results")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Target:     %s\n", SanitizeTerminal(result.Request.TargetPath))
	fmt.Fprintf(w, "Mode:       %s\n", result.Request.Mode)
	fmt.Fprintf(w, "Status:     %s\n", StatusText(result.Status))
	fmt.Fprintf(w, "Duration:   %.1fs\n", result.Outcome.Duration.Seconds())
	fmt.Fprintf(w, "Exit Code:  %d\n", result.Outcome.ExitCode)

	if result.Match != nil {
		fmt.Fprintf(w, "Address:    %s\n", SanitizeTerminal(result.Match.Address))
		fmt.Fprintf(w, "Line:       %s\n", SanitizeTerminal(strings.TrimSpace(result.Match.SourceLine)))
	}

	if result.Diagnostic != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, SanitizeTerminal(result.Diagnostic))
	}

	if showRaw && result.Diagnostic == "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "CLI Raw Output")
		fmt.Fprintln(w, "--------------")
		fmt.Fprint(w, SanitizeTerminal(result.Outcome.Stdout))
		if !strings.HasSuffix(result.Outcome.Stdout, "\n") {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
}

// PrintSummary writes one table row per scanned target.
func PrintSummary(w io.Writer, results []scanner.ScanResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Mode", "Status", "Exit Code", "Address", "Target"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, r := range results {
		address := "-"
		if r.Match != nil {
			address = SanitizeTerminal(r.Match.Address)
		}
		table.Append([]string{
			r.Request.Mode.String(),
			StatusText(r.Status),
			strconv.Itoa(r.Outcome.ExitCode),
			address,
			SanitizeTerminal(r.Request.TargetPath),
		})
	}

	table.Render()
}
