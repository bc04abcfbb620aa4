// pkg/source/verify_test.go

package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVerifySHA256KnownVector(t *testing.T) {
	p := filepath.Join(t.TempDir(), "payload.txt")
	if err := os.WriteFile(p, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	want := "sha256:b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if err := Verify(p, want); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}
}

func TestVerifyBlake3DetectsCorruption(t *testing.T) {
	p := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(p, []byte("the quick brown fox"), 0o644); err != nil {
		t.Fatal(err)
	}

	sum, err := hashFile(p, "blake3")
	if err != nil {
		t.Fatalf("hashFile() = %v", err)
	}
	if err := Verify(p, "blake3:"+sum); err != nil {
		t.Fatalf("Verify() rejected an intact file: %v", err)
	}

	if err := os.WriteFile(p, []byte("the quick brown fax"), 0o644); err != nil {
		t.Fatal(err)
	}
	err = Verify(p, "blake3:"+sum)
	if err == nil {
		t.Fatal("Verify() accepted a corrupted file")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("error = %q, want a checksum mismatch", err)
	}
}

func TestVerifyRejectsUnknownScheme(t *testing.T) {
	p := filepath.Join(t.TempDir(), "payload.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Verify(p, "md5:d41d8cd98f00b204e9800998ecf8427e")
	if err == nil || !strings.Contains(err.Error(), "unsupported checksum scheme") {
		t.Errorf("Verify() = %v, want unsupported scheme error", err)
	}
}

func TestVerifyRejectsMalformedChecksum(t *testing.T) {
	p := filepath.Join(t.TempDir(), "payload.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Verify(p, "deadbeef")
	if err == nil || !strings.Contains(err.Error(), "malformed checksum") {
		t.Errorf("Verify() = %v, want malformed checksum error", err)
	}
}
