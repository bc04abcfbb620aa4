// pkg/source/fetch.go

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Fetch downloads rawURL to dest, creating parent directories as
// needed. The file is written next to dest and renamed into place only
// after the whole body arrived, so an interrupted download never
// leaves a truncated file behind. Progress is rendered on stderr
// unless quiet is set.
func Fetch(ctx context.Context, rawURL, dest string, quiet bool) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", rawURL, err)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %s", rawURL, resp.Status)
	}

	part := dest + ".part"
	out, err := os.Create(part)
	if err != nil {
		return fmt.Errorf("creating %s: %w", part, err)
	}

	var bar *progressbar.ProgressBar
	if quiet {
		bar = progressbar.DefaultBytesSilent(resp.ContentLength)
	} else {
		bar = progressbar.DefaultBytes(resp.ContentLength, "downloading "+filepath.Base(dest))
	}

	_, err = io.Copy(io.MultiWriter(out, bar), resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(part)
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	if err := os.Rename(part, dest); err != nil {
		os.Remove(part)
		return fmt.Errorf("finalizing download of %s: %w", dest, err)
	}
	return nil
}
