//go:build !windows

package scanner

import "os/exec"

func hideConsole(cmd *exec.Cmd) {}
