//go:build windows

// pkg/platform/kernel_windows.go
package platform

import "os"

// kernelVersion reports the MSYS2 subsystem when present; there is no
// uname to ask on a native Windows build.
func kernelVersion() string {
	if ms := os.Getenv("MSYSTEM"); ms != "" {
		return "msys2/" + ms
	}
	return "windows"
}
