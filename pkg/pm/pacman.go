// pkg/pm/pacman.go
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

// Pacman drives pacman inside an MSYS2 environment. MSYS2 runs with the
// invoking user's rights, so no privilege escalation is involved.
type Pacman struct {
	exec   *shellx.Executor
	logger *log.Logger
}

// NewPacman creates a pacman manager.
func NewPacman(logger *log.Logger) *Pacman {
	return &Pacman{
		exec:   &shellx.Executor{},
		logger: ensureLogger(logger),
	}
}

// Name returns the manager name.
func (p *Pacman) Name() string {
	return "pacman"
}

// IsAvailable checks if pacman is in PATH.
func (p *Pacman) IsAvailable() bool {
	_, err := exec.LookPath("pacman")
	return err == nil
}

// IsInstalled queries the local package database. pacman -Qi exits
// non-zero for packages that are not installed.
func (p *Pacman) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	cmd := exec.Command("pacman", "-Qi", pkg)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := p.exec.Run(ctx, cmd); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("querying pacman for %s: %w", pkg, err)
	}
	return true, nil
}

// Install installs a single package without prompting. --needed keeps
// pacman from reinstalling a package that is already current.
func (p *Pacman) Install(ctx context.Context, pkg string) error {
	p.logger.Printf("pacman -S --noconfirm --needed %s", pkg)

	cmd := exec.Command("pacman", "-S", "--noconfirm", "--needed", pkg)
	if err := p.exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("pacman -S %s: %w", pkg, err)
	}
	return nil
}

// Update synchronizes the pacman package databases.
func (p *Pacman) Update(ctx context.Context) error {
	p.logger.Printf("pacman -Sy")

	cmd := exec.Command("pacman", "-Sy")
	if err := p.exec.Run(ctx, cmd); err != nil {
		return fmt.Errorf("pacman -Sy: %w", err)
	}
	return nil
}
