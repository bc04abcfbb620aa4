// report.go
package avbuild

import (
	"fmt"
	"io"

	"github.com/carlosresu/avbuild/pkg/installer"
	"github.com/carlosresu/avbuild/pkg/platform"
)

// RunReport is the account of one pipeline run: where it got to, what
// it did to the machine and which advisories accumulated along the
// way. It is printed on success as well as failure.
type RunReport struct {
	Host       *platform.Host
	Stage      Stage
	Packages   []installer.PackageResult
	Advisories []string
	Flags      []string
	Err        error
}

// Print renders the report to w.
func (r *RunReport) Print(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprint(w, colArrow.Sprint("-> "))
	fmt.Fprintln(w, "run report")

	if r.Host != nil {
		fmt.Fprintf(w, "   platform: %s\n", r.Host)
	}

	var present, installed, manual, failed int
	for _, p := range r.Packages {
		switch p.Status {
		case installer.StatusPresent:
			present++
		case installer.StatusInstalled:
			installed++
		case installer.StatusManualNeeded:
			manual++
		case installer.StatusFailed:
			failed++
		}
	}
	if len(r.Packages) > 0 {
		fmt.Fprintf(w, "   packages: %d present, %d installed, %d manual, %d failed\n",
			present, installed, manual, failed)
	}
	if len(r.Flags) > 0 {
		fmt.Fprintf(w, "   configure flags: %d\n", len(r.Flags))
	}

	for _, a := range r.Advisories {
		fmt.Fprint(w, colWarn.Sprint("   advisory: "))
		fmt.Fprintln(w, a)
	}

	if r.Err != nil {
		fmt.Fprint(w, colError.Sprint("   result: "))
		fmt.Fprintf(w, "failed during %s\n", r.Stage)
		fmt.Fprintf(w, "   error: %v\n", r.Err)
	} else {
		fmt.Fprint(w, colSuccess.Sprint("-> "))
		fmt.Fprintln(w, "result: success")
	}
}
