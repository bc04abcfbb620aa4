// pkg/installer/installer.go
package installer

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/carlosresu/avbuild/pkg/catalog"
	"github.com/carlosresu/avbuild/pkg/pm"
)

// Status classifies the outcome for one package requirement.
type Status string

const (
	// StatusPresent means the package was already installed; nothing ran.
	StatusPresent Status = "present"
	// StatusInstalled means the package was installed during this run.
	StatusInstalled Status = "installed"
	// StatusManualNeeded means a manual-install package is absent.
	StatusManualNeeded Status = "manual-needed"
	// StatusFailed means the package manager reported an install failure.
	StatusFailed Status = "failed"
)

// Item pairs a feature with its resolution on the build platform.
type Item struct {
	Feature    string
	Resolution catalog.Resolution
}

// PackageResult is one per-package attribution row of the report.
type PackageResult struct {
	Feature string
	Package string
	Status  Status
}

// Report captures what the installer did and which features survived it.
// Installs counts the install commands actually run; a re-run over an
// already prepared host must leave it at zero.
type Report struct {
	Packages   []PackageResult
	Advisories []string
	Installs   int
	Updated    bool

	satisfied map[string]bool
	dropped   map[string]string
}

func newReport() *Report {
	return &Report{
		satisfied: make(map[string]bool),
		dropped:   make(map[string]string),
	}
}

// Satisfied reports whether every requirement of the feature was attested
// present or installed during this run.
func (r *Report) Satisfied(feature string) bool {
	return r.satisfied[feature]
}

// Dropped returns the features that will not be built, with reasons.
func (r *Report) Dropped() map[string]string {
	return r.dropped
}

func (r *Report) add(feature, pkg string, status Status) {
	r.Packages = append(r.Packages, PackageResult{Feature: feature, Package: pkg, Status: status})
}

func (r *Report) advise(format string, args ...interface{}) {
	r.Advisories = append(r.Advisories, fmt.Sprintf(format, args...))
}

// Ensure makes every resolved requirement hold on this machine, one
// package at a time so failures stay attributable. Already-present
// packages cost a query and nothing else. The package index is refreshed
// once, lazily, before the first install of the run. A failed install is
// fatal and stops the walk; a missing manual-install package only drops
// its feature and leaves an advisory.
func Ensure(ctx context.Context, mgr pm.Manager, items []Item, logger *log.Logger) (*Report, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if !mgr.IsAvailable() {
		return nil, fmt.Errorf("package manager %s is not available on this system", mgr.Name())
	}

	rep := newReport()

	for _, item := range items {
		if item.Resolution.Unsupported {
			logger.Printf("feature %s: not supported on this platform, skipping", item.Feature)
			rep.dropped[item.Feature] = "not supported on this platform"
			continue
		}

		ok := true
		for _, req := range item.Resolution.Requirements {
			installed, err := mgr.IsInstalled(ctx, req.Package)
			if err != nil {
				return rep, fmt.Errorf("checking %s (feature %s): %w", req.Package, item.Feature, err)
			}

			if installed {
				rep.add(item.Feature, req.Package, StatusPresent)
				continue
			}

			if req.Manual {
				rep.add(item.Feature, req.Package, StatusManualNeeded)
				rep.advise("feature %s disabled: %s is not installed and has no automated install path",
					item.Feature, req.Package)
				ok = false
				continue
			}

			if !rep.Updated {
				logger.Printf("refreshing %s package index", mgr.Name())
				if err := mgr.Update(ctx); err != nil {
					// The install below is the authoritative failure point.
					rep.advise("package index refresh failed: %v", err)
				}
				rep.Updated = true
			}

			logger.Printf("installing %s (feature %s)", req.Package, item.Feature)
			if err := mgr.Install(ctx, req.Package); err != nil {
				rep.add(item.Feature, req.Package, StatusFailed)
				return rep, fmt.Errorf("installing %s (feature %s): %w", req.Package, item.Feature, err)
			}
			rep.Installs++
			rep.add(item.Feature, req.Package, StatusInstalled)
		}

		if !ok {
			rep.dropped[item.Feature] = "manual dependency unavailable"
		}
		rep.satisfied[item.Feature] = ok
	}

	return rep, nil
}
