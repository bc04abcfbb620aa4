// pkg/catalog/catalog.go
package catalog

import (
	"fmt"

	"github.com/carlosresu/avbuild/pkg/platform"
)

// mingwPrefix is the MSYS2 package namespace for the 64-bit MinGW toolchain.
// Toolchain is the always-on feature carrying the build tools every
// configure run needs. It has no configure flag of its own.
const Toolchain = "build-tools"

const mingwPrefix = "mingw-w64-x86_64-"

func mingw(name string) string {
	return mingwPrefix + name
}

// pkgs builds a resolution from plain package names.
func pkgs(names ...string) Resolution {
	reqs := make([]Requirement, len(names))
	for i, n := range names {
		reqs[i] = Requirement{Package: n}
	}
	return Resolution{Requirements: reqs}
}

// manual builds a resolution whose packages have no automated install path.
func manual(names ...string) Resolution {
	reqs := make([]Requirement, len(names))
	for i, n := range names {
		reqs[i] = Requirement{Package: n, Manual: true}
	}
	return Resolution{Requirements: reqs}
}

// unsupported marks a feature that cannot be built on a platform.
var unsupported = Resolution{Unsupported: true}

// everywhere declares a feature that needs no packages on any platform.
func everywhere() map[platform.OS]Resolution {
	return map[platform.OS]Resolution{
		platform.Darwin:  {},
		platform.Linux:   {},
		platform.Windows: {},
	}
}

// features is the compiled-in support matrix. Every feature carries an
// entry for each platform in platform.All; the completeness test enforces
// that, so Resolve never improvises at runtime. Declaration order is the
// order features are installed and the order their flags are emitted.
var features = []Feature{
	{
		// Autotools toolchain and assemblers the configure script expects.
		// The Linux list also carries the VA-API/VDPAU headers backing the
		// hardware flags emitted there.
		Name: Toolchain,
		Support: map[platform.OS]Resolution{
			platform.Darwin: pkgs("autoconf", "automake", "libtool", "pkg-config", "nasm"),
			platform.Linux: pkgs("autoconf", "automake", "build-essential", "libtool",
				"pkg-config", "nasm", "texinfo", "zlib1g-dev", "libva-dev", "libvdpau-dev"),
			platform.Windows: pkgs("base-devel", mingw("toolchain"), mingw("nasm")),
		},
	},
	{Name: "gpl", Flag: "--enable-gpl", Support: everywhere()},
	{Name: "version3", Flag: "--enable-version3", Support: everywhere()},
	{Name: "nonfree", Flag: "--enable-nonfree", Support: everywhere()},
	{
		Name: "x264",
		Flag: "--enable-libx264",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("x264"),
			platform.Linux:   pkgs("libx264-dev"),
			platform.Windows: pkgs(mingw("x264")),
		},
	},
	{
		Name: "x265",
		Flag: "--enable-libx265",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("x265"),
			platform.Linux:   pkgs("libx265-dev"),
			platform.Windows: pkgs(mingw("x265")),
		},
	},
	{
		Name: "vpx",
		Flag: "--enable-libvpx",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("libvpx"),
			platform.Linux:   pkgs("libvpx-dev"),
			platform.Windows: pkgs(mingw("libvpx")),
		},
	},
	{
		Name: "aom",
		Flag: "--enable-libaom",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("aom"),
			platform.Linux:   pkgs("libaom-dev"),
			platform.Windows: pkgs(mingw("aom")),
		},
	},
	{
		Name: "svtav1",
		Flag: "--enable-libsvtav1",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("svt-av1"),
			platform.Linux:   pkgs("libsvtav1-dev"),
			platform.Windows: pkgs(mingw("svt-av1")),
		},
	},
	{
		Name: "fdk-aac",
		Flag: "--enable-libfdk-aac",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("fdk-aac"),
			platform.Linux:   pkgs("libfdk-aac-dev"),
			platform.Windows: pkgs(mingw("fdk-aac")),
		},
	},
	{
		Name: "lame",
		Flag: "--enable-libmp3lame",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("lame"),
			platform.Linux:   pkgs("libmp3lame-dev"),
			platform.Windows: pkgs(mingw("lame")),
		},
	},
	{
		Name: "opus",
		Flag: "--enable-libopus",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("opus"),
			platform.Linux:   pkgs("libopus-dev"),
			platform.Windows: pkgs(mingw("opus")),
		},
	},
	{
		Name: "vorbis",
		Flag: "--enable-libvorbis",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("libvorbis"),
			platform.Linux:   pkgs("libvorbis-dev"),
			platform.Windows: pkgs(mingw("libvorbis")),
		},
	},
	{
		Name: "theora",
		Flag: "--enable-libtheora",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("theora"),
			platform.Linux:   pkgs("libtheora-dev"),
			platform.Windows: pkgs(mingw("libtheora")),
		},
	},
	{
		Name: "ass",
		Flag: "--enable-libass",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("libass"),
			platform.Linux:   pkgs("libass-dev"),
			platform.Windows: pkgs(mingw("libass")),
		},
	},
	{
		Name: "freetype",
		Flag: "--enable-libfreetype",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("freetype"),
			platform.Linux:   pkgs("libfreetype6-dev"),
			platform.Windows: pkgs(mingw("freetype")),
		},
	},
	{
		Name: "webp",
		Flag: "--enable-libwebp",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("webp"),
			platform.Linux:   pkgs("libwebp-dev"),
			platform.Windows: pkgs(mingw("libwebp")),
		},
	},
	{
		Name: "srt",
		Flag: "--enable-libsrt",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("srt"),
			platform.Linux:   pkgs("libsrt-openssl-dev"),
			platform.Windows: pkgs(mingw("srt")),
		},
	},
	{
		Name: "openssl",
		Flag: "--enable-openssl",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("openssl@3"),
			platform.Linux:   pkgs("libssl-dev"),
			platform.Windows: pkgs(mingw("openssl")),
		},
	},
	{
		Name: "vidstab",
		Flag: "--enable-libvidstab",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  pkgs("libvidstab"),
			platform.Linux:   pkgs("libvidstab-dev"),
			platform.Windows: pkgs(mingw("libvidstab")),
		},
	},
	{
		// MoltenVK is not a conformant Vulkan target for the framework,
		// so the feature stays off on macOS.
		Name: "vulkan",
		Flag: "--enable-vulkan",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  unsupported,
			platform.Linux:   pkgs("libvulkan-dev"),
			platform.Windows: pkgs(mingw("vulkan-headers"), mingw("vulkan-loader")),
		},
	},
	{
		// NVIDIA codec headers: shipped as a pacman package on MSYS2,
		// but on Linux they track the installed driver and must be
		// installed from NVIDIA's distribution by hand.
		Name: "nvenc",
		Flag: "--enable-nvenc",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  unsupported,
			platform.Linux:   manual("nv-codec-headers"),
			platform.Windows: pkgs(mingw("ffnvcodec-headers")),
		},
	},
	{
		// Blackmagic capture SDK is proprietary and never packaged.
		Name: "decklink",
		Flag: "--enable-decklink",
		Support: map[platform.OS]Resolution{
			platform.Darwin:  manual("decklink-sdk"),
			platform.Linux:   manual("decklink-sdk"),
			platform.Windows: manual("decklink-sdk"),
		},
	},
}

// Features returns the declared feature set in catalog order.
func Features() []Feature {
	return features
}

// Names returns every declared feature name in catalog order.
func Names() []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the declared feature with the given name.
func Lookup(name string) (Feature, bool) {
	for _, f := range features {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// Resolve maps a feature name to its package requirements on the given
// platform. e.g. Resolve(platform.Linux, "x264") -> libx264-dev.
// The table is total over Features() x platform.All, so a missing platform
// entry is a table bug, not a user condition.
func Resolve(os platform.OS, name string) (Resolution, error) {
	f, ok := Lookup(name)
	if !ok {
		return Resolution{}, fmt.Errorf("catalog: unknown feature %q", name)
	}

	res, ok := f.Support[os]
	if !ok {
		return Resolution{}, fmt.Errorf("catalog: feature %q has no entry for platform %s", name, os)
	}

	return res, nil
}
