// pkg/pm/apt.go
package pm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/carlosresu/avbuild/pkg/shellx"
)

// Apt drives APT on Debian-family systems. Mutating operations escalate
// through sudo; status queries go through dpkg-query unprivileged.
type Apt struct {
	root   *shellx.Executor
	user   *shellx.Executor
	logger *log.Logger
}

// NewApt creates an APT manager.
func NewApt(logger *log.Logger) *Apt {
	return &Apt{
		root:   &shellx.Executor{AsRoot: true},
		user:   &shellx.Executor{},
		logger: ensureLogger(logger),
	}
}

// Name returns the manager name.
func (a *Apt) Name() string {
	return "apt"
}

// IsAvailable checks if apt-get is in PATH.
func (a *Apt) IsAvailable() bool {
	_, err := exec.LookPath("apt-get")
	return err == nil
}

// IsInstalled checks the dpkg database for an installed status. dpkg-query
// exits non-zero for packages it has never heard of, and reports a
// non-installed status for packages that are merely known.
func (a *Apt) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	var out bytes.Buffer
	cmd := exec.Command("dpkg-query", "-W", "-f=${Status}", pkg)
	cmd.Stdout = &out
	cmd.Stderr = io.Discard

	if err := a.user.Run(ctx, cmd); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("querying dpkg for %s: %w", pkg, err)
	}
	return strings.Contains(out.String(), "install ok installed"), nil
}

// Install installs a single package non-interactively. apt's own output
// streams through so failures arrive verbatim.
func (a *Apt) Install(ctx context.Context, pkg string) error {
	a.logger.Printf("apt-get install -y %s", pkg)

	cmd := exec.Command("apt-get", "install", "-y", pkg)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	if err := a.root.Run(ctx, cmd); err != nil {
		return fmt.Errorf("apt-get install %s: %w", pkg, err)
	}
	return nil
}

// Update refreshes the APT package index.
func (a *Apt) Update(ctx context.Context) error {
	a.logger.Printf("apt-get update")

	cmd := exec.Command("apt-get", "update")
	if err := a.root.Run(ctx, cmd); err != nil {
		return fmt.Errorf("apt-get update: %w", err)
	}
	return nil
}
