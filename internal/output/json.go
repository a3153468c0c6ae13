package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/advantech-ae/idaqscan/internal/scanner"
)

type JSONOutput struct {
	Target          string               `json:"target"`
	Mode            scanner.OSMode       `json:"mode"`
	Status          scanner.Status       `json:"status"`
	DurationSeconds float64              `json:"duration_seconds"`
	ExitCode        int                  `json:"exit_code"`
	LaunchError     string               `json:"launch_error,omitempty"`
	Error           string               `json:"error,omitempty"`
	Match           *scanner.DeviceMatch `json:"match,omitempty"`
	Stdout          string               `json:"stdout"`
	Stderr          string               `json:"stderr"`
}

func toJSON(r scanner.ScanResult) JSONOutput {
	out := JSONOutput{
		Target:          r.Request.TargetPath,
		Mode:            r.Request.Mode,
		Status:          r.Status,
		DurationSeconds: r.Outcome.Duration.Seconds(),
		ExitCode:        r.Outcome.ExitCode,
		Match:           r.Match,
		Stdout:          r.Outcome.Stdout,
		Stderr:          r.Outcome.Stderr,
	}
	if le := r.Outcome.LaunchError; le != nil {
		out.LaunchError = le.Kind.String()
		out.Error = le.Error()
	}
	return out
}

// PrintJSON writes a single object for one result and an array otherwise.
func PrintJSON(w io.Writer, results []scanner.ScanResult) error {
	outputs := make([]JSONOutput, 0, len(results))
	for _, r := range results {
		outputs = append(outputs, toJSON(r))
	}

	var data []byte
	var err error

	if len(outputs) == 1 {
		data, err = json.MarshalIndent(outputs[0], "", "  ")
	} else {
		data, err = json.MarshalIndent(outputs, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(data))
	return nil
}
