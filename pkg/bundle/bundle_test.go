// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/invowk/badigeon/internal/testutil"
	"github.com/invowk/badigeon/pkg/deps"
	"github.com/invowk/badigeon/pkg/jlink"
	"github.com/invowk/badigeon/pkg/platform"
	"github.com/invowk/badigeon/pkg/types"
)

func TestBundle_Full(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	project := filepath.Join(base, "proj")
	testutil.MustWriteFile(t, filepath.Join(project, "src", "app", "main.clj"), "(ns app.main)")
	nativeJar := filepath.Join(base, "m2", "sqlite-3.0.jar")
	testutil.MustWriteZip(t, nativeJar,
		testutil.ZipEntry{Name: "org/sqlite/native/Linux/x86_64/libsqlitejdbc.so", Content: "ELF"},
		testutil.ZipEntry{Name: "org/sqlite/JDBC.class", Content: "class"},
	)
	out := filepath.Join(base, "out")

	res, err := Bundle(context.Background(), Options{
		CopyOptions: CopyOptions{
			Layout:       Layout{OutputRoot: out, NativesPath: "natives"},
			Dependencies: []deps.ResolvedDependency{{Lib: "org.xerial/sqlite-jdbc", Version: "3.0", Paths: []string{nativeJar}}},
			ProjectRoot:  project,
			ProjectPaths: []string{"src"},
		},
		NativePrefixes: map[types.LibraryName]string{"org.xerial/sqlite-jdbc": "org/sqlite/native"},
		EntryPoint:     "app.main",
		Script:         ScriptOptions{Script: platform.ScriptPosix},
	})
	if err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}

	if res.OutputRoot != out {
		t.Errorf("OutputRoot = %q", res.OutputRoot)
	}
	if !slices.Equal(res.Copied, []string{"app/main.clj", "lib/sqlite-3.0.jar", "natives/Linux/x86_64/libsqlitejdbc.so"}) {
		t.Errorf("Copied = %v", res.Copied)
	}
	if got := testutil.MustReadFile(t, filepath.Join(out, "natives", "Linux", "x86_64", "libsqlitejdbc.so")); got != "ELF" {
		t.Errorf("native library = %q", got)
	}
	if res.ScriptPath != filepath.Join(out, "bin", "run.sh") {
		t.Errorf("ScriptPath = %q", res.ScriptPath)
	}
	if res.Runtime != nil {
		t.Error("no runtime was requested")
	}
}

func TestBundle_NativeLibraryCollidingWithCopiedFile(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	loose := filepath.Join(base, "m2", "libz.so")
	testutil.MustWriteFile(t, loose, "copied")
	nativeJar := filepath.Join(base, "m2", "zlib-natives-1.0.jar")
	testutil.MustWriteZip(t, nativeJar, testutil.ZipEntry{Name: "natives/libz.so", Content: "extracted"})
	out := filepath.Join(base, "out")

	_, err := Bundle(context.Background(), Options{
		CopyOptions: CopyOptions{
			Layout: Layout{OutputRoot: out},
			Dependencies: []deps.ResolvedDependency{
				{Lib: "org.example/zlib", Version: "1.0", Paths: []string{loose}},
				{Lib: "org.example/zlib-natives", Version: "1.0", Paths: []string{nativeJar}},
			},
		},
		NativePrefixes: map[types.LibraryName]string{"org.example/zlib-natives": "natives"},
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Bundle() error = %v, want *ConflictError", err)
	}
	if conflict.RelPath != "lib/libz.so" || conflict.PreviousSource != loose {
		t.Errorf("conflict = %+v", conflict)
	}
	if got := testutil.MustReadFile(t, filepath.Join(out, "lib", "libz.so")); got != "copied" {
		t.Errorf("lib/libz.so = %q, the copied file was overwritten", got)
	}
}

func TestBundle_NoEntryPointSkipsScript(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out")
	res, err := Bundle(context.Background(), Options{CopyOptions: CopyOptions{Layout: Layout{OutputRoot: out}}})
	if err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}
	if res.ScriptPath != "" {
		t.Errorf("ScriptPath = %q, want none", res.ScriptPath)
	}
	if _, err := os.Stat(filepath.Join(out, "bin")); !errors.Is(err, os.ErrNotExist) {
		t.Error("bin folder created without an entry point")
	}
}

func TestBundle_RuntimeImageFeedsScript(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("fake jlink is a POSIX shell script")
	}

	javaHome := t.TempDir()
	tool := filepath.Join(javaHome, "bin", "jlink")
	// Mimic jlink: create <output>/bin/java.
	testutil.MustWriteFile(t, tool, "#!/bin/sh\nmkdir -p \"$2/bin\" && touch \"$2/bin/java\"\n")
	if err := os.Chmod(tool, 0o755); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "out")

	res, err := Bundle(context.Background(), Options{
		CopyOptions: CopyOptions{Layout: Layout{OutputRoot: out}},
		EntryPoint:  "app.main",
		Script:      ScriptOptions{Script: platform.ScriptPosix},
		Jlink:       &jlink.Options{JavaHome: javaHome},
	})
	if err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}
	if res.Runtime == nil || res.Runtime.RuntimePath != filepath.Join(out, "runtime") {
		t.Fatalf("Runtime = %+v", res.Runtime)
	}
	if got := execArgs(t, testutil.MustReadFile(t, res.ScriptPath))[0]; got != "runtime/bin/java" {
		t.Errorf("script java = %q, want the bundled runtime", got)
	}
}

func TestBundle_ConflictStopsBeforeScript(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")
	testutil.MustWriteFile(t, filepath.Join(a, "same.txt"), "a")
	testutil.MustWriteFile(t, filepath.Join(b, "same.txt"), "b")
	out := filepath.Join(base, "out")

	_, err := Bundle(context.Background(), Options{
		CopyOptions: CopyOptions{
			Layout:       Layout{OutputRoot: out},
			Dependencies: []deps.ResolvedDependency{{Lib: "a/a", Paths: []string{a}}, {Lib: "b/b", Paths: []string{b}}},
		},
		EntryPoint: "app.main",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Bundle() error = %v, want ErrConflict", err)
	}
	if _, statErr := os.Stat(filepath.Join(out, "bin")); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("script written after a conflict")
	}
}
