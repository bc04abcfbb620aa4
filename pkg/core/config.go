// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds avbuild configuration
type Config struct {
	// Prefix is the install prefix. Empty selects the platform
	// default at run time.
	Prefix string `yaml:"prefix"`

	// SourceDir is the multimedia source tree to build. Empty means
	// the current directory.
	SourceDir string `yaml:"source_dir"`

	// Jobs caps make parallelism. Zero means one job per CPU.
	Jobs int `yaml:"jobs"`

	// Features names the catalog features to enable. Empty selects
	// the whole catalog.
	Features []string `yaml:"features"`

	// Without drops features from the selection after Features is
	// applied.
	Without []string `yaml:"without"`

	// Archive optionally names a release tarball to materialize when
	// the source tree is absent.
	Archive ArchiveConfig `yaml:"archive"`

	Verbose bool `yaml:"verbose"`
}

// ArchiveConfig points at a release tarball and its expected checksum.
type ArchiveConfig struct {
	URL      string `yaml:"url"`
	Checksum string `yaml:"checksum"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Prefix:    getDefaultPrefix(),
		SourceDir: ".",
	}
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(home, ".config", "avbuild", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func getDefaultPrefix() string {
	if path := os.Getenv("AVBUILD_PREFIX"); path != "" {
		return path
	}

	// Platform default, decided once the host is classified.
	return ""
}
