// Package toolproc finds diagnostic tool processes that are still running,
// typically a dndev that stopped answering and outlived its scan.
package toolproc

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shirou/gopsutil/v3/process"
)

type ToolProcess struct {
	PID     int32
	User    string
	Command string
	Started time.Time
}

// Age is how long the process has been running.
func (p ToolProcess) Age(now time.Time) time.Duration {
	if p.Started.IsZero() {
		return 0
	}
	return now.Sub(p.Started).Truncate(time.Second)
}

// Find lists running processes whose executable is one of the given tool paths.
func Find(toolPaths ...string) ([]ToolProcess, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var found []ToolProcess

	for _, p := range procs {
		exe, _ := p.Exe()
		name, _ := p.Name()
		if !isTool(exe, name, toolPaths) {
			continue
		}

		tp := ToolProcess{PID: p.Pid, User: "unknown"}
		if u, err := p.Username(); err == nil && u != "" {
			tp.User = u
		}
		if cmdline, err := p.Cmdline(); err == nil {
			tp.Command = truncateString(cmdline, 200)
		}
		if ms, err := p.CreateTime(); err == nil {
			tp.Started = time.UnixMilli(ms)
		}
		found = append(found, tp)
	}

	return found, nil
}

// Kill terminates the process with the given pid.
func Kill(pid int32) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return fmt.Errorf("process %d: %w", pid, err)
	}
	if err := p.Kill(); err != nil {
		return fmt.Errorf("failed to kill process %d: %w", pid, err)
	}
	return nil
}

// isTool matches on the full executable path when it is readable and falls
// back to the base name, which is all we get for other users' processes.
func isTool(exe, name string, toolPaths []string) bool {
	for _, tp := range toolPaths {
		if tp == "" {
			continue
		}
		if exe != "" && sameFile(exe, tp) {
			return true
		}
		if name != "" && strings.EqualFold(name, baseName(tp)) {
			return true
		}
	}
	return false
}

func sameFile(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

// baseName handles Windows paths on any host, since the configured Windows
// tool path is checked even when running elsewhere.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// truncateString limits s to maxLen runes, so multi-byte characters in a
// command line are never cut in half.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
