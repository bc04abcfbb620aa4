// avbuild.go

// Package avbuild orchestrates source builds of a large multimedia
// framework. A run classifies the host platform, resolves the selected
// features to native dev packages, brings those packages onto the
// machine, composes the configure invocation and drives the autotools
// cycle, failing fast on the first unrecoverable step.
package avbuild

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gookit/color"

	"github.com/carlosresu/avbuild/pkg/autotools"
	"github.com/carlosresu/avbuild/pkg/catalog"
	"github.com/carlosresu/avbuild/pkg/core"
	"github.com/carlosresu/avbuild/pkg/flagset"
	"github.com/carlosresu/avbuild/pkg/installer"
	"github.com/carlosresu/avbuild/pkg/platform"
	"github.com/carlosresu/avbuild/pkg/pm"
	"github.com/carlosresu/avbuild/pkg/source"
)

// Stage identifies where in the pipeline a run currently is.
type Stage string

const (
	StageDetecting  Stage = "detecting"
	StageResolving  Stage = "resolving"
	StageInstalling Stage = "installing"
	StageComposing  Stage = "composing"
	StageBuilding   Stage = "building"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// color helpers
var (
	colArrow   = color.HEX("#FFEB3B")
	colSuccess = color.HEX("#1976D2")
	colWarn    = color.Warn
	colError   = color.Error
)

// Options configure a pipeline run.
type Options struct {
	Config *core.Config

	// DryRun stops after composing and prints the configure
	// invocation instead of building.
	DryRun bool

	Verbose bool

	// Out receives status lines and the run report. Nil means stdout.
	Out io.Writer
}

// driver is the slice of the autotools driver the pipeline needs.
type driver interface {
	Clean(ctx context.Context) error
	Configure(ctx context.Context, args []string) error
	Build(ctx context.Context) error
	Install(ctx context.Context) error
}

// Orchestrator drives one build run through the pipeline stages.
type Orchestrator struct {
	cfg     *core.Config
	dryRun  bool
	verbose bool
	out     io.Writer
	logger  *log.Logger
	stage   Stage

	// Stage implementations, swappable in tests.
	detect    func() (*platform.Host, error)
	manager   func(*platform.Host) (pm.Manager, error)
	ensure    func(context.Context, pm.Manager, []installer.Item) (*installer.Report, error)
	preflight func() error
	provision func(context.Context, source.Spec, string) error
	newDriver func(*flagset.FlagSet) driver
}

// New returns an Orchestrator for opts with the real stage
// implementations wired in.
func New(opts Options) *Orchestrator {
	cfg := opts.Config
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := log.New(io.Discard, "", 0)
	if opts.Verbose {
		logger = log.New(os.Stderr, "avbuild: ", log.LstdFlags)
	}

	o := &Orchestrator{
		cfg:     cfg,
		dryRun:  opts.DryRun,
		verbose: opts.Verbose,
		out:     out,
		logger:  logger,
		stage:   StageDetecting,
	}

	o.detect = platform.Detect
	o.manager = func(host *platform.Host) (pm.Manager, error) {
		return pm.ForHost(host, logger)
	}
	o.ensure = func(ctx context.Context, mgr pm.Manager, items []installer.Item) (*installer.Report, error) {
		return installer.Ensure(ctx, mgr, items, logger)
	}
	o.preflight = installer.Preflight
	o.provision = func(ctx context.Context, spec source.Spec, dir string) error {
		return source.Provision(ctx, spec, dir, !opts.Verbose, logger)
	}
	o.newDriver = func(fs *flagset.FlagSet) driver {
		d := autotools.New(cfg.SourceDir, fs.Prefix)
		d.Jobs = cfg.Jobs
		d.Env = fs.Env
		d.PathPrepend = fs.PathPrepend
		d.Logger = logger
		return d
	}
	return o
}

// Stage returns the stage the pipeline is currently in.
func (o *Orchestrator) Stage() Stage {
	return o.stage
}

// Run executes the pipeline. The returned report is non-nil in every
// outcome and already reflects the failure when err is non-nil.
func (o *Orchestrator) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{}

	host, err := o.runDetect(report)
	if err != nil {
		return report, o.fail(report, err)
	}

	items, features, err := o.runResolve(report, host)
	if err != nil {
		return report, o.fail(report, err)
	}

	rep, err := o.runInstall(ctx, report, host, items)
	if err != nil {
		return report, o.fail(report, err)
	}

	fs := o.runCompose(report, host, features, rep)

	if o.dryRun {
		o.step(5, "dry run, skipping build")
		fmt.Fprintln(o.out, fs.String())
		o.stage = StageDone
		report.Stage = StageDone
		return report, nil
	}

	if err := o.runBuild(ctx, report, fs); err != nil {
		return report, o.fail(report, err)
	}

	o.stage = StageDone
	report.Stage = StageDone
	return report, nil
}

func (o *Orchestrator) runDetect(report *RunReport) (*platform.Host, error) {
	o.stage = StageDetecting
	o.step(1, "detecting platform")

	host, err := o.detect()
	if err != nil {
		return nil, &Error{Op: "detecting platform", Err: fmt.Errorf("%w: %w", ErrUnsupportedPlatform, err)}
	}
	report.Host = host
	o.logger.Printf("host classified as %s", host)
	fmt.Fprintf(o.out, "    %s\n", host)
	return host, nil
}

// runResolve selects the feature set and maps every feature onto its
// package requirements for the detected platform.
func (o *Orchestrator) runResolve(report *RunReport, host *platform.Host) ([]installer.Item, []catalog.Feature, error) {
	o.stage = StageResolving
	o.step(2, "resolving feature requirements")

	features, err := selectFeatures(o.cfg)
	if err != nil {
		return nil, nil, &Error{Op: "resolving features", Err: err}
	}

	items := make([]installer.Item, 0, len(features))
	for _, f := range features {
		res, err := catalog.Resolve(host.OS, f.Name)
		if err != nil {
			return nil, nil, &Error{Op: "resolving features", Err: err}
		}
		items = append(items, installer.Item{Feature: f.Name, Resolution: res})
	}
	o.logger.Printf("resolved %d features for %s", len(features), host.OS)
	return items, features, nil
}

func (o *Orchestrator) runInstall(ctx context.Context, report *RunReport, host *platform.Host, items []installer.Item) (*installer.Report, error) {
	o.stage = StageInstalling
	o.step(3, "installing native packages")

	mgr, err := o.manager(host)
	if err != nil {
		return nil, &Error{Op: "installing packages", Err: fmt.Errorf("%w: %w", ErrManagerUnavailable, err)}
	}

	rep, err := o.ensure(ctx, mgr, items)
	if rep != nil {
		report.Packages = rep.Packages
		report.Advisories = append(report.Advisories, rep.Advisories...)
	}
	if err != nil {
		return nil, &Error{Op: "installing packages", Err: fmt.Errorf("%w: %w", ErrPackageInstall, err)}
	}

	if err := o.preflight(); err != nil {
		return nil, &Error{Op: "installing packages", Err: err}
	}
	return rep, nil
}

func (o *Orchestrator) runCompose(report *RunReport, host *platform.Host, features []catalog.Feature, rep *installer.Report) *flagset.FlagSet {
	o.stage = StageComposing
	o.step(4, "composing configure flags")

	prefix := o.cfg.Prefix
	if prefix == "" {
		prefix = flagset.DefaultPrefix(host.OS)
	}

	fs := flagset.Compose(host, features, rep, prefix)
	report.Flags = fs.ConfigureArgs()
	o.logger.Printf("composed %d configure flags for prefix %s", len(report.Flags), prefix)
	return fs
}

func (o *Orchestrator) runBuild(ctx context.Context, report *RunReport, fs *flagset.FlagSet) error {
	o.stage = StageBuilding
	o.step(5, "building")

	if spec := (source.Spec{URL: o.cfg.Archive.URL, Checksum: o.cfg.Archive.Checksum}); spec.URL != "" {
		if err := o.provision(ctx, spec, o.cfg.SourceDir); err != nil {
			return &Error{Op: "acquiring sources", Err: fmt.Errorf("%w: %w", ErrBuildFailed, err)}
		}
	}

	d := o.newDriver(fs)

	if err := d.Clean(ctx); err != nil {
		// A dirty tree is not fatal; configure decides what survives.
		report.Advisories = append(report.Advisories, fmt.Sprintf("clean failed: %v (continuing)", err))
		o.logger.Printf("clean failed: %v", err)
	}

	if err := d.Configure(ctx, fs.ConfigureArgs()); err != nil {
		return &Error{Op: "configuring build", Err: fmt.Errorf("%w: %w", ErrBuildFailed, err)}
	}
	if err := d.Build(ctx); err != nil {
		return &Error{Op: "compiling", Err: fmt.Errorf("%w: %w", ErrBuildFailed, err)}
	}
	if err := d.Install(ctx); err != nil {
		return &Error{Op: "installing build artifacts", Err: fmt.Errorf("%w: %w", ErrBuildFailed, err)}
	}
	return nil
}

func (o *Orchestrator) fail(report *RunReport, err error) error {
	report.Stage = o.stage
	report.Err = err
	o.stage = StageFailed
	return err
}

func (o *Orchestrator) step(n int, msg string) {
	fmt.Fprint(o.out, colArrow.Sprintf("==> [%d/5] ", n))
	fmt.Fprintln(o.out, msg)
}

// selectFeatures turns the configured feature and exclusion lists into
// catalog entries, preserving catalog order so later composition stays
// deterministic. An empty selection means the whole catalog.
func selectFeatures(cfg *core.Config) ([]catalog.Feature, error) {
	selected := make(map[string]bool)
	if len(cfg.Features) == 0 {
		for _, name := range catalog.Names() {
			selected[name] = true
		}
	} else {
		for _, name := range cfg.Features {
			if _, ok := catalog.Lookup(name); !ok {
				return nil, fmt.Errorf("unknown feature %q", name)
			}
			selected[name] = true
		}
		// The toolchain is not optional; builds need make and friends
		// regardless of the chosen feature set.
		selected[catalog.Toolchain] = true
	}

	for _, name := range cfg.Without {
		if _, ok := catalog.Lookup(name); !ok {
			return nil, fmt.Errorf("unknown feature %q in exclusions", name)
		}
		if name == catalog.Toolchain {
			return nil, fmt.Errorf("the %s feature cannot be excluded", catalog.Toolchain)
		}
		delete(selected, name)
	}

	features := make([]catalog.Feature, 0, len(selected))
	for _, f := range catalog.Features() {
		if selected[f.Name] {
			features = append(features, f)
		}
	}
	return features, nil
}
