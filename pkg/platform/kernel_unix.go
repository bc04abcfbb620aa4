//go:build darwin || linux

// pkg/platform/kernel_unix.go
package platform

import (
	"bytes"

	"golang.org/x/sys/unix"
)

// kernelVersion returns the kernel name and release from uname.
func kernelVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "unknown"
	}
	return utsString(uts.Sysname[:]) + " " + utsString(uts.Release[:])
}

func utsString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
