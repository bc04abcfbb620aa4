// pkg/catalog/types.go
package catalog

import "github.com/carlosresu/avbuild/pkg/platform"

// Requirement names one native package a feature needs on a platform.
type Requirement struct {
	Package string // name understood by the platform's package manager
	Manual  bool   // no automated install path; absence drops the feature
}

// Resolution is the answer for a (feature, platform) pair: either the
// packages the feature needs there, or the unsupported marker. Never both.
type Resolution struct {
	Requirements []Requirement
	Unsupported  bool
}

// Feature is one optional capability of the framework build. Flag is the
// configure switch the feature contributes; it is empty for package-only
// features such as the build toolchain.
type Feature struct {
	Name    string
	Flag    string
	Support map[platform.OS]Resolution
}
