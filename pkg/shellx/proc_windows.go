//go:build windows

// pkg/shellx/proc_windows.go
package shellx

import "os/exec"

// Process groups are a POSIX concept; on Windows the plain process kill
// is the best cleanup available.
func setProcessGroup(cmd *exec.Cmd) {}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	cmd.Process.Kill()
}
