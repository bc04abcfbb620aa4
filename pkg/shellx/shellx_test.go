// pkg/shellx/shellx_test.go
package shellx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestRunSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test drives sh")
	}

	var out bytes.Buffer
	cmd := exec.Command("sh", "-c", "echo ok")
	cmd.Stdout = &out
	cmd.Stderr = &out

	e := &Executor{}
	if err := e.Run(context.Background(), cmd); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "ok\n" {
		t.Errorf("stdout = %q, want %q", got, "ok\n")
	}
}

func TestRunFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test drives sh")
	}

	var out bytes.Buffer
	cmd := exec.Command("sh", "-c", "exit 3")
	cmd.Stdout = &out
	cmd.Stderr = &out

	e := &Executor{}
	err := e.Run(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if code := exitErr.ExitCode(); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestRunCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test drives sh")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.Command("sh", "-c", "sleep 30")
	cmd.Stdout = &bytes.Buffer{}
	cmd.Stderr = &bytes.Buffer{}

	e := &Executor{}
	errc := make(chan error, 1)
	go func() {
		errc <- e.Run(ctx, cmd)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if err == nil {
			t.Fatal("expected error after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled command did not terminate")
	}
}
