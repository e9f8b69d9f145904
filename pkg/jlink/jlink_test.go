// SPDX-License-Identifier: MPL-2.0

package jlink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/invowk/badigeon/internal/testutil"
)

// fakeJavaHome writes a bin/jlink shell script that echoes its arguments
// and exits with the given status.
func fakeJavaHome(t *testing.T, status int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake jlink is a POSIX shell script")
	}
	home := t.TempDir()
	tool := filepath.Join(home, "bin", "jlink")
	testutil.MustWriteFile(t, tool, "#!/bin/sh\necho \"$@\"\necho warn >&2\nexit "+strconv.Itoa(status)+"\n")
	if err := os.Chmod(tool, 0o755); err != nil {
		t.Fatal(err)
	}
	return home
}

func TestRun_Defaults(t *testing.T) {
	t.Parallel()

	home := fakeJavaHome(t, 0)
	out := t.TempDir()

	res, err := Run(context.Background(), Options{JavaHome: home, OutputRoot: out})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.RuntimePath != filepath.Join(out, RuntimeDir) {
		t.Errorf("RuntimePath = %q", res.RuntimePath)
	}
	want := "--output " + filepath.Join(out, RuntimeDir) + " --add-modules java.base " + strings.Join(DefaultFlags, " ")
	if got := strings.TrimSpace(res.Stdout); got != want {
		t.Errorf("args = %q, want %q", got, want)
	}
	if strings.TrimSpace(res.Stderr) != "warn" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestRun_CustomModulesAndFlags(t *testing.T) {
	t.Parallel()

	home := fakeJavaHome(t, 0)
	res, err := Run(context.Background(), Options{
		JavaHome:   home,
		OutputRoot: t.TempDir(),
		Modules:    []string{"java.base", "java.sql"},
		Flags:      []string{},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(res.Stdout), "--add-modules java.base,java.sql") {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestRun_Failure(t *testing.T) {
	t.Parallel()

	home := fakeJavaHome(t, 3)
	_, err := Run(context.Background(), Options{JavaHome: home, OutputRoot: t.TempDir()})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("Run() error = %v, want *ToolError", err)
	}
	if toolErr.Stderr != "warn\n" {
		t.Errorf("Stderr = %q", toolErr.Stderr)
	}
	if !strings.Contains(err.Error(), "warn") {
		t.Errorf("error message lacks stderr: %v", err)
	}
}

func TestRun_ToolNotFound(t *testing.T) {
	// Mutates PATH and JAVA_HOME; not parallel.
	t.Setenv("PATH", t.TempDir())
	t.Setenv("JAVA_HOME", "")

	_, err := Run(context.Background(), Options{JavaHome: t.TempDir(), OutputRoot: t.TempDir()})
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("Run() error = %v, want ErrToolNotFound", err)
	}
}
