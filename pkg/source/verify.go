// pkg/source/verify.go

package source

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lukechampine.com/blake3"
)

// Verify checks the file at path against want, a checksum of the form
// "sha256:<hex>" or "blake3:<hex>".
func Verify(path, want string) error {
	scheme, wantHex, ok := strings.Cut(want, ":")
	if !ok {
		return fmt.Errorf("malformed checksum %q: want scheme:hex", want)
	}

	got, err := hashFile(path, scheme)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, wantHex) {
		return fmt.Errorf("checksum mismatch for %s: got %s:%s, want %s", filepath.Base(path), scheme, got, want)
	}
	return nil
}

func hashFile(path, scheme string) (string, error) {
	var h hash.Hash
	switch scheme {
	case "sha256":
		h = sha256.New()
	case "blake3":
		h = blake3.New(32, nil)
	default:
		return "", fmt.Errorf("unsupported checksum scheme %q", scheme)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
