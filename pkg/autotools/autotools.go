// pkg/autotools/autotools.go

// Package autotools drives the configure, make, make install cycle of
// an autotools-style source tree.
package autotools

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/carlosresu/avbuild/pkg/shellx"
)

// Driver runs the build stages of one source tree. Every stage invokes
// the external tool in SourceDir with the composed environment merged
// over the process environment.
type Driver struct {
	SourceDir string
	Prefix    string

	// Jobs caps make parallelism. Zero means one job per CPU.
	Jobs int

	// Env is merged over the inherited environment for every stage.
	Env map[string]string

	// PathPrepend lists directories placed in front of PATH.
	PathPrepend []string

	// Stdout and Stderr receive the tools' output unfiltered. Nil
	// falls back to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	Logger *log.Logger
}

// New returns a Driver for the tree at sourceDir installing under
// prefix.
func New(sourceDir, prefix string) *Driver {
	return &Driver{SourceDir: sourceDir, Prefix: prefix}
}

// Clean runs `make distclean` when a Makefile is present. Trees that
// were never configured have nothing to clean and return nil. A
// failing distclean is reported to the caller, which treats it as
// advisory.
func (d *Driver) Clean(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(d.SourceDir, "Makefile")); err != nil {
		d.logf("no Makefile in %s, skipping distclean", d.SourceDir)
		return nil
	}
	if err := d.run(ctx, false, "make", "distclean"); err != nil {
		return fmt.Errorf("running make distclean: %w", err)
	}
	return nil
}

// Configure runs ./configure with args, which must already carry the
// --prefix flag. Output streams through unfiltered so failed probes
// stay diagnosable.
func (d *Driver) Configure(ctx context.Context, args []string) error {
	script := filepath.Join(d.SourceDir, "configure")
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("no configure script in %s: %w", d.SourceDir, err)
	}
	if err := d.run(ctx, false, "./configure", args...); err != nil {
		return fmt.Errorf("running configure: %w", err)
	}
	return nil
}

// Build compiles the tree with make -j.
func (d *Driver) Build(ctx context.Context) error {
	jobs := d.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if err := d.run(ctx, false, "make", "-j"+strconv.Itoa(jobs)); err != nil {
		return fmt.Errorf("running make: %w", err)
	}
	return nil
}

// Install runs `make install`, escalating to root only when the
// install prefix is not writable by the invoking user.
func (d *Driver) Install(ctx context.Context) error {
	asRoot := !writable(d.Prefix)
	if asRoot {
		d.logf("prefix %s not writable, installing as root", d.Prefix)
	}
	if err := d.run(ctx, asRoot, "make", "install"); err != nil {
		return fmt.Errorf("running make install: %w", err)
	}
	return nil
}

func (d *Driver) run(ctx context.Context, asRoot bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = d.SourceDir
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr
	cmd.Env = mergeEnv(os.Environ(), d.Env, d.PathPrepend)

	d.logf("exec %s %s (dir %s)", name, strings.Join(args, " "), d.SourceDir)
	ex := &shellx.Executor{AsRoot: asRoot}
	return ex.Run(ctx, cmd)
}

func (d *Driver) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}

// mergeEnv overlays override onto base and prepends pathPrepend to
// PATH, returning a sorted key=value slice for exec.Cmd.
func mergeEnv(base []string, override map[string]string, pathPrepend []string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}

	if len(pathPrepend) > 0 {
		path := envMap["PATH"]
		for i := len(pathPrepend) - 1; i >= 0; i-- {
			if path == "" {
				path = pathPrepend[i]
			} else {
				path = pathPrepend[i] + string(os.PathListSeparator) + path
			}
		}
		envMap["PATH"] = path
	}

	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}
