// pkg/autotools/writable_unix.go

//go:build darwin || linux

package autotools

import (
	"errors"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// writable reports whether the invoking user may create files under
// path. Prefixes that do not exist yet are judged by their nearest
// existing ancestor, since make install will mkdir them.
func writable(path string) bool {
	p := path
	for {
		err := unix.Access(p, unix.W_OK)
		if err == nil {
			return true
		}
		if !errors.Is(err, unix.ENOENT) {
			return false
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
		p = parent
	}
}
