// SPDX-License-Identifier: MPL-2.0

package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/badigeon/pkg/types"
)

func TestIsSnapshot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		want    bool
	}{
		{"", false},
		{"1.11.1", false},
		{"1.10.1.763", false},
		{"0.1.0-SNAPSHOT", true},
		{"0.1.0-snapshot", true},
		{"2.0.0-alpha1", true},
		{"1.0.0-rc.1", true},
		{"1.0.0+build.5", false},
		{"not-a-version", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			if got := IsSnapshot(tt.version); got != tt.want {
				t.Errorf("IsSnapshot(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestIsArchive(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		"/m2/clojure-1.11.1.jar": true,
		"/m2/bundle.ZIP":         true,
		"/src":                   false,
		"/m2/x.pom":              false,
	} {
		if got := IsArchive(path); got != want {
			t.Errorf("IsArchive(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestCheckStable(t *testing.T) {
	t.Parallel()

	stable := []ResolvedDependency{
		{Lib: "org.clojure/clojure", Version: "1.11.1", Paths: []string{"/m2/clojure.jar"}},
		{Lib: "a/a", Paths: []string{"/tmp/a/src"}},
		{Lib: "g/git", GitURL: "https://example.com/g.git", Paths: []string{"/gitlibs/g/src"}},
	}
	if err := CheckStable(stable); err != nil {
		t.Fatalf("CheckStable() error = %v", err)
	}

	unstable := append(slices.Clone(stable),
		ResolvedDependency{Lib: "s/snap", Version: "0.1.0-SNAPSHOT"},
		ResolvedDependency{Lib: "l/local", LocalRoot: "/work/local"},
	)
	err := CheckStable(unstable)
	if !errors.Is(err, ErrUnstableDependency) {
		t.Fatalf("CheckStable() error = %v, want ErrUnstableDependency", err)
	}
	var unstableErr *UnstableError
	if !errors.As(err, &unstableErr) {
		t.Fatalf("error is %T, want *UnstableError", err)
	}
	var libs []types.LibraryName
	for _, f := range unstableErr.Libs {
		libs = append(libs, f.Lib)
	}
	if !slices.Equal(libs, []types.LibraryName{"s/snap", "l/local"}) {
		t.Errorf("flagged libs = %v", libs)
	}
}

func TestCheckReproducible(t *testing.T) {
	t.Parallel()

	if err := CheckReproducible([]ResolvedDependency{{Lib: "x/x", Version: "1.0.0"}}); err != nil {
		t.Fatalf("CheckReproducible() error = %v", err)
	}

	err := CheckReproducible([]ResolvedDependency{
		{Lib: "x/x", Version: "1.0.0"},
		{Lib: "n/none"},
		{Lib: "g/git", Version: "abc", GitURL: "https://example.com/g.git"},
		{Lib: "l/local", Version: "1.0.0", LocalRoot: "/work/l"},
	})
	if !errors.Is(err, ErrUnreproducibleDependency) {
		t.Fatalf("error = %v, want ErrUnreproducibleDependency", err)
	}
	var repErr *UnreproducibleError
	if !errors.As(err, &repErr) || len(repErr.Libs) != 3 {
		t.Fatalf("error = %#v, want 3 findings", err)
	}
}

func TestExclude(t *testing.T) {
	t.Parallel()

	all := []ResolvedDependency{{Lib: "a/a"}, {Lib: "b/b"}, {Lib: "c/c"}}
	got := Exclude(all, []types.LibraryName{"b/b"})
	if len(got) != 2 || got[0].Lib != "a/a" || got[1].Lib != "c/c" {
		t.Errorf("Exclude() = %v", got)
	}
	if got := Exclude(all, nil); len(got) != 3 {
		t.Errorf("Exclude(nil) dropped entries: %v", got)
	}
}

func TestAbsolutize(t *testing.T) {
	t.Parallel()

	base := filepath.Join(t.TempDir(), "proj")
	abs := filepath.Join(t.TempDir(), "x.jar")
	all := []ResolvedDependency{{Lib: "a/a", Paths: []string{"lib/a.jar", abs}, LocalRoot: "../a"}}

	got := Absolutize(base, all)
	if got[0].Paths[0] != filepath.Join(base, "lib", "a.jar") {
		t.Errorf("relative path = %q", got[0].Paths[0])
	}
	if got[0].Paths[1] != abs {
		t.Errorf("absolute path changed to %q", got[0].Paths[1])
	}
	if got[0].LocalRoot != filepath.Join(filepath.Dir(base), "a") {
		t.Errorf("local root = %q", got[0].LocalRoot)
	}
	if all[0].Paths[0] != "lib/a.jar" || all[0].LocalRoot != "../a" {
		t.Errorf("input was modified: %+v", all[0])
	}
}

func TestStaticResolver(t *testing.T) {
	t.Parallel()

	src := StaticResolver{{Lib: "a/a", Paths: []string{"/a"}}}
	got, err := src.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got[0].Lib = "mutated/x"
	if src[0].Lib != "a/a" {
		t.Error("Resolve() must return a copy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Resolve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() on cancelled context error = %v", err)
	}
}

func TestFileResolver_Formats(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"deps.toml": `
[[dependencies]]
lib = "org.clojure/clojure"
version = "1.11.1"
paths = ["m2/clojure-1.11.1.jar"]

[[dependencies]]
lib = "a/a"
paths = ["/abs/a/src"]
local_root = "../a"
`,
		"deps.yaml": `
dependencies:
  - lib: org.clojure/clojure
    version: 1.11.1
    paths: [m2/clojure-1.11.1.jar]
  - lib: a/a
    paths: [/abs/a/src]
    local_root: ../a
`,
		"deps.cue": `
dependencies: [
	{lib: "org.clojure/clojure", version: "1.11.1", paths: ["m2/clojure-1.11.1.jar"]},
	{lib: "a/a", paths: ["/abs/a/src"], local_root: "../a"},
]
`,
		"deps.json": `{"dependencies": [
  {"lib": "org.clojure/clojure", "version": "1.11.1", "paths": ["m2/clojure-1.11.1.jar"]},
  {"lib": "a/a", "paths": ["/abs/a/src"], "local_root": "../a"}
]}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := FileResolver{Path: path}.Resolve(context.Background())
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("got %d dependencies, want 2", len(got))
			}
			if got[0].Lib != "org.clojure/clojure" || got[0].Version != "1.11.1" {
				t.Errorf("first dependency = %+v", got[0])
			}
			if want := filepath.Join(dir, "m2", "clojure-1.11.1.jar"); got[0].Paths[0] != want {
				t.Errorf("relative path resolved to %q, want %q", got[0].Paths[0], want)
			}
			if want := filepath.Join(filepath.Dir(dir), "a"); got[1].LocalRoot != want {
				t.Errorf("local root = %q, want %q", got[1].LocalRoot, want)
			}
			if !got[1].IsLocal() {
				t.Error("second dependency should be local")
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Decode(".edn", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode(.edn) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Decode(".json", []byte(`{"dependencies": [{"lib": "a/b/c"}]}`)); !errors.Is(err, types.ErrInvalidLibraryName) {
		t.Errorf("Decode(bad lib) error = %v, want ErrInvalidLibraryName", err)
	}
	if _, err := Decode(".cue", []byte(`dependencies: [{lib: "a/b/c", paths: []}]`)); err == nil || !strings.Contains(err.Error(), "dependencies[0].lib") {
		t.Errorf("Decode(bad cue lib) error = %v, want path dependencies[0].lib", err)
	}
	if _, err := Decode(".toml", []byte("[[dependencies]\n")); err == nil {
		t.Error("Decode(malformed toml) should fail")
	}
}

func TestFileResolver_Missing(t *testing.T) {
	t.Parallel()

	_, err := FileResolver{Path: filepath.Join(t.TempDir(), "nope.toml")}.Resolve(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}
