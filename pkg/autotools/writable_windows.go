// pkg/autotools/writable_windows.go

//go:build windows

package autotools

// writable always holds on Windows: the MSYS2 tree, /mingw64 included,
// belongs to the invoking user and there is no sudo to escalate with.
func writable(path string) bool {
	return true
}
