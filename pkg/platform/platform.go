// pkg/platform/platform.go
package platform

// OS identifies a supported build platform.
type OS string

const (
	// Darwin is macOS, driven through Homebrew.
	Darwin OS = "darwin"
	// Linux is a Debian-family system, driven through APT.
	Linux OS = "linux"
	// Windows is an MSYS2/MinGW environment, driven through pacman.
	Windows OS = "windows"
)

// All contains every platform the orchestrator can build on.
var All = []OS{Darwin, Linux, Windows}

// String returns the string representation of the platform.
func (o OS) String() string {
	return string(o)
}

// IsValid checks if the platform is a known supported platform.
func (o OS) IsValid() bool {
	for _, valid := range All {
		if o == valid {
			return true
		}
	}
	return false
}

// ManagerCommand returns the native package manager command for the platform.
func (o OS) ManagerCommand() string {
	switch o {
	case Darwin:
		return "brew"
	case Linux:
		return "apt-get"
	case Windows:
		return "pacman"
	}
	return ""
}
