// pkg/pm/brew.go
package pm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"

	"github.com/carlosresu/avbuild/pkg/shellx"
)

// Brew drives Homebrew. Everything runs unprivileged; Homebrew refuses to
// operate as root.
type Brew struct {
	exec   *shellx.Executor
	logger *log.Logger
}

// NewBrew creates a Homebrew manager.
func NewBrew(logger *log.Logger) *Brew {
	return &Brew{
		exec:   &shellx.Executor{},
		logger: ensureLogger(logger),
	}
}

// Name returns the manager name.
func (b *Brew) Name() string {
	return "brew"
}

// IsAvailable checks if brew is in PATH.
func (b *Brew) IsAvailable() bool {
	_, err := exec.LookPath("brew")
	return err == nil
}

// IsInstalled asks brew for the installed versions of a formula. A
// non-zero exit means the formula is not installed.
func (b *Brew) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	cmd := exec.Command("brew", "list", "--versions", pkg)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := b.exec.Run(ctx, cmd); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("querying brew for %s: %w", pkg, err)
	}
	return true, nil
}

// Install installs a single formula, streaming brew's own output through.
func (b *Brew) Install(ctx context.Context, pkg string) error {
	b.logger.Printf("brew install %s", pkg)

	cmd := exec.Command("brew", "install", pkg)
	if err := b.exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("brew install %s: %w", pkg, err)
	}
	return nil
}

// Update refreshes the Homebrew formula index.
func (b *Brew) Update(ctx context.Context) error {
	b.logger.Printf("brew update")

	cmd := exec.Command("brew", "update")
	if err := b.exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("brew update: %w", err)
	}
	return nil
}
