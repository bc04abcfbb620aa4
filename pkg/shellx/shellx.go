// pkg/shellx/shellx.go
package shellx

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/gookit/color"
	"golang.org/x/term"
)

// Executor runs external commands with a consistent stdio and cancellation
// setup, abstracting away the privilege escalation (sudo) logic.
type Executor struct {
	AsRoot      bool // the command must run with root privileges
	Interactive bool // the command may prompt the user on the TTY
}

// runInteractiveCommand executes a command attached to the TTY for
// interactive prompts. It skips process group isolation, which would
// detach sudo from the terminal it needs for password input.
func runInteractiveCommand(ctx context.Context, name string, arg ...string) error {
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ensureSudo checks whether the sudo ticket is still valid and re-prompts
// if necessary. Nothing to do when already root or root is not required.
func (e *Executor) ensureSudo(ctx context.Context) error {
	if os.Geteuid() == 0 || !e.AsRoot {
		return nil
	}

	// Non-interactive check first: fast, and avoids prompting while the
	// ticket is still fresh.
	checkCmd := exec.CommandContext(ctx, "sudo", "-nv")
	checkCmd.Stdout = io.Discard
	checkCmd.Stderr = io.Discard
	if err := checkCmd.Run(); err == nil {
		return nil
	}

	// The ticket has expired; re-authenticate on the TTY. Without a
	// terminal there is nowhere to type a password, so fail out instead
	// of hanging a batch run.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("root privileges required but no terminal available for sudo authentication")
	}

	color.Warn.Println("sudo ticket expired, re-authenticating")
	if err := runInteractiveCommand(ctx, "sudo", "-v"); err != nil {
		return fmt.Errorf("sudo authentication failed: %w", err)
	}
	return nil
}

// Run executes the given command, elevating via sudo -E only when needed.
// It wires up stdio, isolates the child in its own process group so a
// cancelled context takes the whole pipeline down, and refreshes the sudo
// ticket first to avoid surprise password prompts mid-build.
func (e *Executor) Run(ctx context.Context, cmd *exec.Cmd) error {
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := e.ensureSudo(ctx); err != nil {
		return err
	}

	basePath := cmd.Path
	baseArgs := cmd.Args[1:]

	var finalCmd *exec.Cmd
	if e.AsRoot && os.Geteuid() != 0 {
		// sudo -E keeps the composed build environment intact.
		args := append([]string{"-E", basePath}, baseArgs...)
		finalCmd = exec.CommandContext(ctx, "sudo", args...)
	} else {
		finalCmd = exec.CommandContext(ctx, basePath, baseArgs...)
	}
	finalCmd.Dir = cmd.Dir

	if len(cmd.Env) > 0 {
		finalCmd.Env = cmd.Env
	} else {
		finalCmd.Env = os.Environ()
	}

	finalCmd.Stdin = cmd.Stdin
	finalCmd.Stdout = cmd.Stdout
	finalCmd.Stderr = cmd.Stderr

	if !e.Interactive {
		setProcessGroup(finalCmd)
	}

	if err := finalCmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", basePath, err)
	}

	if !e.Interactive {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				killProcessGroup(finalCmd)
			case <-done:
			}
		}()
	}

	if waitErr := finalCmd.Wait(); waitErr != nil {
		if ctx.Err() != nil {
			// Give the group a moment to die before reporting.
			time.Sleep(100 * time.Millisecond)
			return fmt.Errorf("command aborted: %v", ctx.Err())
		}
		return waitErr
	}
	return nil
}
