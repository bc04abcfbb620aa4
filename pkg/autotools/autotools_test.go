// pkg/autotools/autotools_test.go

package autotools

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake build scripts need a POSIX shell")
	}
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
}

// newTree builds a source dir with a fake configure script plus a
// tools dir holding a fake make, and points PATH at the tools dir.
// Both scripts log into the source dir, which is the working directory
// of every stage.
func newTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	tools := t.TempDir()

	writeScript(t, filepath.Join(src, "configure"), `printf '%s\n' "$@" > args.log
printf '%s\n' "$CFLAGS" > cflags.log
printf '%s\n' "$PATH" > path.log
`)
	writeScript(t, filepath.Join(tools, "make"), `printf '%s\n' "$*" >> calls.log
`)
	t.Setenv("PATH", tools)
	return src
}

func readLog(t *testing.T, src, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(src, name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func TestConfigurePassesArgsAndEnv(t *testing.T) {
	skipOnWindows(t)
	src := newTree(t)
	extra := t.TempDir()

	d := New(src, "/opt/av")
	d.Env = map[string]string{"CFLAGS": "-O3 -pipe"}
	d.PathPrepend = []string{extra}

	args := []string{"--prefix=/opt/av", "--enable-gpl", "--enable-libx264"}
	if err := d.Configure(context.Background(), args); err != nil {
		t.Fatalf("Configure() = %v", err)
	}

	argsLog := readLog(t, src, "args.log")
	for _, want := range args {
		if !strings.Contains(argsLog, want) {
			t.Errorf("configure args missing %q, got:\n%s", want, argsLog)
		}
	}
	if got := strings.TrimSpace(readLog(t, src, "cflags.log")); got != "-O3 -pipe" {
		t.Errorf("CFLAGS = %q, want %q", got, "-O3 -pipe")
	}
	if got := strings.TrimSpace(readLog(t, src, "path.log")); !strings.HasPrefix(got, extra+string(os.PathListSeparator)) {
		t.Errorf("PATH = %q, want prefix %q", got, extra)
	}
}

func TestConfigureMissingScript(t *testing.T) {
	d := New(t.TempDir(), "/opt/av")

	err := d.Configure(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "no configure script") {
		t.Errorf("Configure() = %v, want missing script error", err)
	}
}

func TestConfigureFailureSurfacesDiagnostics(t *testing.T) {
	skipOnWindows(t)
	src := t.TempDir()
	writeScript(t, filepath.Join(src, "configure"), `echo "ERROR: x264 not found using pkg-config" >&2
exit 1
`)

	var stderr bytes.Buffer
	d := New(src, "/usr/local")
	d.Stderr = &stderr

	err := d.Configure(context.Background(), []string{"--enable-libx264"})
	if err == nil {
		t.Fatal("Configure() succeeded, want failure")
	}
	if !strings.Contains(stderr.String(), "x264 not found") {
		t.Errorf("configure diagnostics were swallowed, stderr = %q", stderr.String())
	}
}

func TestCleanWithoutMakefile(t *testing.T) {
	d := New(t.TempDir(), "/usr/local")

	if err := d.Clean(context.Background()); err != nil {
		t.Errorf("Clean() = %v, want nil for unconfigured tree", err)
	}
}

func TestCleanRunsDistclean(t *testing.T) {
	skipOnWindows(t)
	src := newTree(t)
	if err := os.WriteFile(filepath.Join(src, "Makefile"), []byte("all:\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := New(src, "/usr/local")
	if err := d.Clean(context.Background()); err != nil {
		t.Fatalf("Clean() = %v", err)
	}
	if calls := readLog(t, src, "calls.log"); !strings.Contains(calls, "distclean") {
		t.Errorf("make calls = %q, want distclean", calls)
	}
}

func TestCleanFailureReturnsError(t *testing.T) {
	skipOnWindows(t)
	src := t.TempDir()
	tools := t.TempDir()
	writeScript(t, filepath.Join(tools, "make"), "exit 2\n")
	t.Setenv("PATH", tools)
	if err := os.WriteFile(filepath.Join(src, "Makefile"), []byte("all:\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d := New(src, "/usr/local")
	err := d.Clean(context.Background())
	if err == nil || !strings.Contains(err.Error(), "distclean") {
		t.Errorf("Clean() = %v, want distclean failure", err)
	}
}

func TestBuildJobCount(t *testing.T) {
	skipOnWindows(t)
	src := newTree(t)

	d := New(src, "/usr/local")
	d.Jobs = 3
	if err := d.Build(context.Background()); err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if calls := readLog(t, src, "calls.log"); !strings.Contains(calls, "-j3") {
		t.Errorf("make calls = %q, want -j3", calls)
	}
}

func TestInstallWritablePrefix(t *testing.T) {
	skipOnWindows(t)
	src := newTree(t)

	d := New(src, t.TempDir())
	if err := d.Install(context.Background()); err != nil {
		t.Fatalf("Install() = %v", err)
	}
	if calls := readLog(t, src, "calls.log"); !strings.Contains(calls, "install") {
		t.Errorf("make calls = %q, want install", calls)
	}
}

func TestMergeEnvOverridesAndSorts(t *testing.T) {
	got := mergeEnv([]string{"B=2", "A=1"}, map[string]string{"B": "9", "C": "3"}, nil)
	want := []string{"A=1", "B=9", "C=3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeEnv() = %v, want %v", got, want)
	}
}

func TestMergeEnvPathPrepend(t *testing.T) {
	sep := string(os.PathListSeparator)
	got := mergeEnv([]string{"PATH=/usr/bin"}, nil, []string{"/opt/av/bin", "/extra"})

	want := "PATH=/opt/av/bin" + sep + "/extra" + sep + "/usr/bin"
	found := false
	for _, kv := range got {
		if kv == want {
			found = true
		}
	}
	if !found {
		t.Errorf("mergeEnv() = %v, want entry %q", got, want)
	}
}
