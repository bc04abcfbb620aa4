// pkg/installer/toolchain.go
package installer

import (
	"fmt"
	"os/exec"
	"strings"
)

// buildTools are the commands the configure and compile stages invoke
// directly. They must resolve in PATH once installation is done; a missing
// tool would otherwise surface minutes later as a cryptic configure error.
var buildTools = []string{"make", "pkg-config", "nasm"}

// Preflight verifies the build toolchain is reachable in PATH.
func Preflight() error {
	var missing []string
	for _, tool := range buildTools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("build tools missing from PATH after installation: %s", strings.Join(missing, ", "))
	}
	return nil
}
