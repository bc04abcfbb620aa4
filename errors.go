// errors.go
package avbuild

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform indicates the host could not be classified
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrManagerUnavailable indicates the platform package manager is missing
	ErrManagerUnavailable = errors.New("package manager unavailable")

	// ErrPackageInstall indicates a native package failed to install
	ErrPackageInstall = errors.New("package install failed")

	// ErrBuildFailed indicates an external build stage failed
	ErrBuildFailed = errors.New("build failed")
)

// Error wraps an error with the pipeline operation that raised it
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
