// pkg/source/source.go

// Package source materializes release archives. It downloads them,
// verifies their checksums and unpacks them into a build tree.
package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

// Spec describes where a release archive lives and how to verify it.
type Spec struct {
	// URL is the location of the release tarball.
	URL string

	// Checksum pins the archive contents, in the form "sha256:<hex>"
	// or "blake3:<hex>". Empty skips verification.
	Checksum string
}

// Provision makes sure dir holds an unpacked source tree. An existing
// non-empty dir is left alone. Otherwise the archive named by spec is
// downloaded next to dir, reusing a previous download when its checksum
// still matches, and unpacked into dir.
func Provision(ctx context.Context, spec Spec, dir string, quiet bool, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if populated(dir) {
		logger.Printf("source tree %s already present", dir)
		return nil
	}
	if spec.URL == "" {
		return fmt.Errorf("source tree %s is missing and no archive URL is configured", dir)
	}

	name, err := archiveName(spec.URL)
	if err != nil {
		return err
	}
	cache := filepath.Join(filepath.Dir(dir), name)

	fresh := false
	if _, err := os.Stat(cache); err != nil {
		if err := Fetch(ctx, spec.URL, cache, quiet); err != nil {
			return err
		}
		fresh = true
	}

	if spec.Checksum != "" {
		if err := Verify(cache, spec.Checksum); err != nil {
			if fresh {
				return err
			}
			// The cached archive went stale. Fetch it once more and
			// insist on a clean verification this time.
			logger.Printf("cached archive %s failed verification, refetching", cache)
			if err := os.Remove(cache); err != nil {
				return fmt.Errorf("removing stale archive: %w", err)
			}
			if err := Fetch(ctx, spec.URL, cache, quiet); err != nil {
				return err
			}
			if err := Verify(cache, spec.Checksum); err != nil {
				return err
			}
		}
	}

	if err := Unpack(cache, dir); err != nil {
		return err
	}
	logger.Printf("unpacked %s into %s", name, dir)
	return nil
}

func populated(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func archiveName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing archive URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("archive URL %q has no file name", rawURL)
	}
	return name, nil
}
