// pkg/platform/detect.go
package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Host describes the machine a build runs on. It is detected once at
// startup and treated as immutable for the rest of the run.
type Host struct {
	OS         OS
	Arch       string // amd64, arm64
	Kernel     string // kernel identification, for diagnostics
	HasManager bool   // native package manager found in PATH
}

// Detect classifies the current machine. Anything outside the supported
// set aborts here, before any system mutation.
func Detect() (*Host, error) {
	msys := os.Getenv("MSYSTEM") != "" || commandExists("pacman")

	osID, err := classify(runtime.GOOS, msys)
	if err != nil {
		return nil, err
	}

	return &Host{
		OS:         osID,
		Arch:       runtime.GOARCH,
		Kernel:     kernelVersion(),
		HasManager: commandExists(osID.ManagerCommand()),
	}, nil
}

// classify maps a GOOS value onto the supported platform set. Windows
// counts only when a Unix-compatibility layer (MSYS2/MinGW) is present;
// a bare Windows shell has no configure or make to drive.
func classify(goos string, msys bool) (OS, error) {
	switch goos {
	case "darwin":
		return Darwin, nil
	case "linux":
		return Linux, nil
	case "windows":
		if !msys {
			return "", fmt.Errorf("windows requires an MSYS2/MinGW environment (MSYSTEM is not set and pacman was not found)")
		}
		return Windows, nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// String returns a string representation of the host.
func (h *Host) String() string {
	return fmt.Sprintf("%s/%s (%s)", h.OS, h.Arch, h.Kernel)
}
