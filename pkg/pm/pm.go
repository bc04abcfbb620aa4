// pkg/pm/pm.go
package pm

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/carlosresu/avbuild/pkg/platform"
)

// Manager is the slice of a native package manager the orchestrator needs:
// presence checks, index refresh, single-package installs. Implementations
// invoke the real tool; nothing here reimplements resolution or fetching.
type Manager interface {
	// Name returns the manager name (e.g. "brew").
	Name() string

	// IsAvailable checks if the manager is usable on this system.
	IsAvailable() bool

	// IsInstalled reports whether the package is already installed.
	IsInstalled(ctx context.Context, pkg string) (bool, error)

	// Install installs a single package.
	Install(ctx context.Context, pkg string) error

	// Update refreshes the package index.
	Update(ctx context.Context) error
}

// ForHost returns the native package manager for the detected platform.
func ForHost(host *platform.Host, logger *log.Logger) (Manager, error) {
	switch host.OS {
	case platform.Darwin:
		return NewBrew(logger), nil
	case platform.Linux:
		return NewApt(logger), nil
	case platform.Windows:
		return NewPacman(logger), nil
	default:
		return nil, fmt.Errorf("no package manager mapped for platform %s", host.OS)
	}
}

// ensureLogger returns a discarding logger when none was provided.
func ensureLogger(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(io.Discard, "", 0)
}
