// pkg/flagset/flagset.go
package flagset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carlosresu/avbuild/pkg/catalog"
	"github.com/carlosresu/avbuild/pkg/platform"
)

// Satisfier attests which features' requirements hold on this host.
// The installer's report implements it.
type Satisfier interface {
	Satisfied(feature string) bool
}

// FlagSet is the composed configure invocation: ordered flags, the
// environment exported to the build, and the directories prepended to PATH
// at execution time. It is produced whole before any build step runs.
type FlagSet struct {
	Prefix      string
	Flags       []string
	Env         map[string]string
	PathPrepend []string
}

// baselineFlags apply to every build on every platform.
var baselineFlags = []string{
	"--enable-shared",
	"--enable-static",
	"--enable-pic",
	"--enable-lto",
	"--enable-pthreads",
	"--disable-debug",
	"--disable-doc",
}

// platformFlags are hardware and OS-framework switches that ship with the
// platform itself rather than with an installable package.
var platformFlags = map[platform.OS][]string{
	platform.Darwin:  {"--enable-videotoolbox", "--enable-audiotoolbox"},
	platform.Linux:   {"--enable-vaapi", "--enable-vdpau"},
	platform.Windows: {"--enable-d3d11va", "--enable-dxva2"},
}

// pathListSep joins PKG_CONFIG_PATH entries. The build always runs under
// a POSIX shell (MSYS2 included), where the separator is a colon.
const pathListSep = ":"

// DefaultPrefix returns the conventional install prefix for a platform.
func DefaultPrefix(os platform.OS) string {
	if os == platform.Windows {
		return "/mingw64"
	}
	return "/usr/local"
}

// brewRoot is /opt/homebrew on Apple silicon, /usr/local on Intel.
func brewRoot(arch string) string {
	if arch == "arm64" {
		return "/opt/homebrew"
	}
	return "/usr/local"
}

// depRoots lists the roots whose include/lib trees feed the compiler and
// linker search paths on a platform, ending with the install prefix.
func depRoots(host *platform.Host, prefix string) []string {
	var roots []string
	switch host.OS {
	case platform.Darwin:
		roots = append(roots, brewRoot(host.Arch))
	case platform.Linux:
		roots = append(roots, "/usr/local")
	case platform.Windows:
		roots = append(roots, "/mingw64")
	}
	roots = append(roots, prefix)
	return dedup(roots)
}

// Compose builds the full configure flag set and environment for one run.
// It is pure: the same host, feature list, and attestation always produce
// the same flag set, byte for byte. A feature's flag is included only when
// the attestation says its requirements hold here; everything else is left
// out, never turned into a disable switch.
func Compose(host *platform.Host, features []catalog.Feature, sat Satisfier, prefix string) *FlagSet {
	if prefix == "" {
		prefix = DefaultPrefix(host.OS)
	}

	flags := make([]string, 0, len(baselineFlags)+len(features)+4)
	flags = append(flags, baselineFlags...)

	for _, f := range features {
		if f.Flag == "" {
			continue
		}
		if sat.Satisfied(f.Name) {
			flags = append(flags, f.Flag)
		}
	}

	flags = append(flags, platformFlags[host.OS]...)
	flags = dedup(flags)

	roots := depRoots(host, prefix)
	includes := make([]string, 0, len(roots))
	libs := make([]string, 0, len(roots))
	pcdirs := make([]string, 0, len(roots))
	for _, root := range roots {
		includes = append(includes, "-I"+root+"/include")
		libs = append(libs, "-L"+root+"/lib")
		pcdirs = append(pcdirs, root+"/lib/pkgconfig")
	}

	cflags := strings.Join(append([]string{"-O3", "-pipe"}, includes...), " ")
	env := map[string]string{
		"CFLAGS":          cflags,
		"CXXFLAGS":        cflags,
		"LDFLAGS":         strings.Join(libs, " "),
		"PKG_CONFIG_PATH": strings.Join(pcdirs, pathListSep),
	}

	return &FlagSet{
		Prefix:      prefix,
		Flags:       flags,
		Env:         env,
		PathPrepend: []string{prefix + "/bin"},
	}
}

// ConfigureArgs returns the argument vector handed to the configure script.
func (fs *FlagSet) ConfigureArgs() []string {
	return append([]string{"--prefix=" + fs.Prefix}, fs.Flags...)
}

// String renders the flag set the way the dry-run output shows it: the
// configure line first, then the exported environment in sorted order.
func (fs *FlagSet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "./configure %s\n", strings.Join(fs.ConfigureArgs(), " "))

	keys := make([]string, 0, len(fs.Env))
	for k := range fs.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, fs.Env[k])
	}
	fmt.Fprintf(&b, "PATH=%s%s$PATH\n", strings.Join(fs.PathPrepend, pathListSep), pathListSep)
	return b.String()
}

// dedup keeps the first occurrence of each entry, preserving order.
func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
