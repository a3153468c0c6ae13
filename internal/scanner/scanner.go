package scanner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EcnsFlag asks dndev for extended console/network status, which includes
// the IP of every device it can see.
const EcnsFlag = "/ecns"

// NoExitCode is reported when the tool never ran to completion.
const NoExitCode = -1

// OSMode selects the target platform whose tool and text encoding are used.
// It is independent of the host running the scan.
type OSMode int

const (
	Linux OSMode = iota
	Windows
)

func (m OSMode) String() string {
	switch m {
	case Windows:
		return "Windows"
	case Linux:
		return "Linux"
	default:
		return fmt.Sprintf("OSMode(%d)", int(m))
	}
}

func (m OSMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

var ErrUnknownMode = errors.New("unknown os mode")

func ParseOSMode(s string) (OSMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows", "win":
		return Windows, nil
	case "linux":
		return Linux, nil
	default:
		return 0, fmt.Errorf("%w: %q (want windows or linux)", ErrUnknownMode, s)
	}
}

type ScanRequest struct {
	TargetPath string
	Mode       OSMode
}

type LaunchErrorKind int

const (
	LaunchNotFound LaunchErrorKind = iota + 1
	LaunchFailure
	LaunchTimeout
	LaunchCancelled
)

func (k LaunchErrorKind) String() string {
	switch k {
	case LaunchNotFound:
		return "not_found"
	case LaunchFailure:
		return "launch_failure"
	case LaunchTimeout:
		return "timeout"
	case LaunchCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// LaunchError records why the tool produced no exit code of its own.
type LaunchError struct {
	Kind LaunchErrorKind
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	switch e.Kind {
	case LaunchNotFound:
		return fmt.Sprintf("executable not found: %s", e.Path)
	case LaunchTimeout:
		return fmt.Sprintf("%s did not exit in time: %v", e.Path, e.Err)
	case LaunchCancelled:
		return fmt.Sprintf("run of %s was cancelled: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to run %s: %v", e.Path, e.Err)
	}
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ProcessOutcome is everything one run of the tool produced.
type ProcessOutcome struct {
	ExitCode    int           `json:"exit_code"`
	Stdout      string        `json:"stdout"`
	Stderr      string        `json:"stderr"`
	LaunchError *LaunchError  `json:"-"`
	Duration    time.Duration `json:"-"`
}

func (o ProcessOutcome) Failed() bool {
	return o.LaunchError != nil || o.ExitCode != 0
}

type DeviceMatch struct {
	Address    string `json:"address"`
	SourceLine string `json:"source_line"`
}

type Status int

const (
	StatusSuccess Status = iota
	StatusDeviceNotFound
	StatusProcessError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusDeviceNotFound:
		return "device_not_found"
	case StatusProcessError:
		return "process_error"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ScanResult is the only thing a scan hands back to its caller. It is never
// modified after it is built.
type ScanResult struct {
	Request    ScanRequest
	Outcome    ProcessOutcome
	Match      *DeviceMatch
	Status     Status
	Diagnostic string
	StartTime  time.Time
	EndTime    time.Time
}

// StatusOf derives the scan status from an outcome and an optional match.
func StatusOf(outcome ProcessOutcome, match *DeviceMatch) Status {
	if outcome.Failed() {
		return StatusProcessError
	}
	if match == nil {
		return StatusDeviceNotFound
	}
	return StatusSuccess
}
