// pkg/pm/pm_test.go
package pm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/carlosresu/avbuild/pkg/platform"
)

// writeScript drops a fake executable into dir.
func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

// fakeTools points PATH at a directory of fake package manager scripts.
// The fake sudo strips its own flags and execs the payload, which keeps
// the escalating code paths honest whether or not the test runs as root.
func fakeTools(t *testing.T, dir string) {
	t.Helper()
	writeScript(t, dir, "sudo", `if [ "$1" = "-nv" ] || [ "$1" = "-v" ]; then exit 0; fi
if [ "$1" = "-E" ]; then shift; fi
exec "$@"`)
	t.Setenv("PATH", dir)
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test drives sh scripts")
	}
}

func TestForHost(t *testing.T) {
	tests := []struct {
		os   platform.OS
		want string
	}{
		{platform.Darwin, "brew"},
		{platform.Linux, "apt"},
		{platform.Windows, "pacman"},
	}

	for _, tt := range tests {
		mgr, err := ForHost(&platform.Host{OS: tt.os}, nil)
		if err != nil {
			t.Fatalf("ForHost(%s): %v", tt.os, err)
		}
		if mgr.Name() != tt.want {
			t.Errorf("ForHost(%s).Name() = %q, want %q", tt.os, mgr.Name(), tt.want)
		}
	}

	if _, err := ForHost(&platform.Host{OS: platform.OS("freebsd")}, nil); err == nil {
		t.Error("expected error for unmapped platform")
	}
}

func TestBrewIsInstalled(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	fakeTools(t, dir)
	writeScript(t, dir, "brew", `if [ "$1" = "list" ] && [ "$2" = "--versions" ]; then
	case "$3" in
	x264) echo "x264 164_1"; exit 0 ;;
	esac
	exit 1
fi
exit 0`)

	b := NewBrew(nil)
	ctx := context.Background()

	installed, err := b.IsInstalled(ctx, "x264")
	if err != nil {
		t.Fatalf("IsInstalled(x264): %v", err)
	}
	if !installed {
		t.Error("x264 should be reported installed")
	}

	installed, err = b.IsInstalled(ctx, "aom")
	if err != nil {
		t.Fatalf("IsInstalled(aom): %v", err)
	}
	if installed {
		t.Error("aom should not be reported installed")
	}
}

func TestAptIsInstalled(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	fakeTools(t, dir)
	writeScript(t, dir, "dpkg-query", `for last; do :; done
case "$last" in
libx264-dev) printf "install ok installed"; exit 0 ;;
libgone-dev) printf "deinstall ok config-files"; exit 0 ;;
*) echo "dpkg-query: no packages found matching $last" >&2; exit 1 ;;
esac`)

	a := NewApt(nil)
	ctx := context.Background()

	tests := []struct {
		pkg  string
		want bool
	}{
		{"libx264-dev", true},
		{"libgone-dev", false}, // known to dpkg but removed
		{"libnever-dev", false},
	}

	for _, tt := range tests {
		got, err := a.IsInstalled(ctx, tt.pkg)
		if err != nil {
			t.Fatalf("IsInstalled(%s): %v", tt.pkg, err)
		}
		if got != tt.want {
			t.Errorf("IsInstalled(%s) = %v, want %v", tt.pkg, got, tt.want)
		}
	}
}

func TestAptInstallInvokesAptGet(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	fakeTools(t, dir)
	logPath := filepath.Join(dir, "calls.log")
	writeScript(t, dir, "apt-get", fmt.Sprintf(`echo "$@" >> %q`, logPath))

	a := NewApt(nil)
	ctx := context.Background()

	if err := a.Install(ctx, "libopus-dev"); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if err := a.Update(ctx); err != nil {
		t.Fatalf("Update: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading call log: %v", err)
	}
	calls := string(data)
	if !strings.Contains(calls, "install -y libopus-dev") {
		t.Errorf("expected an install call, got:\n%s", calls)
	}
	if !strings.Contains(calls, "update") {
		t.Errorf("expected an update call, got:\n%s", calls)
	}
}

func TestAptInstallFailureNamesPackage(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	fakeTools(t, dir)
	writeScript(t, dir, "apt-get", `echo "E: Unable to locate package $3" >&2
exit 100`)

	a := NewApt(nil)
	err := a.Install(context.Background(), "libvpx-dev")
	if err == nil {
		t.Fatal("expected install failure")
	}
	if !strings.Contains(err.Error(), "libvpx-dev") {
		t.Errorf("error does not name the package: %v", err)
	}
}

func TestPacmanArgs(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	fakeTools(t, dir)
	logPath := filepath.Join(dir, "calls.log")
	writeScript(t, dir, "pacman", fmt.Sprintf(`echo "$@" >> %q
if [ "$1" = "-Qi" ]; then exit 1; fi`, logPath))

	p := NewPacman(nil)
	ctx := context.Background()

	installed, err := p.IsInstalled(ctx, "mingw-w64-x86_64-x264")
	if err != nil {
		t.Fatalf("IsInstalled: %v", err)
	}
	if installed {
		t.Error("fake pacman reports nothing installed")
	}

	if err := p.Install(ctx, "mingw-w64-x86_64-x264"); err != nil {
		t.Fatalf("Install: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading call log: %v", err)
	}
	if !strings.Contains(string(data), "-S --noconfirm --needed mingw-w64-x86_64-x264") {
		t.Errorf("unexpected pacman invocation:\n%s", data)
	}
}

func TestIsAvailable(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()
	fakeTools(t, dir)
	writeScript(t, dir, "brew", `exit 0`)

	if !NewBrew(nil).IsAvailable() {
		t.Error("brew should be available with a brew binary in PATH")
	}
	if NewApt(nil).IsAvailable() {
		t.Error("apt should not be available without apt-get in PATH")
	}
}
