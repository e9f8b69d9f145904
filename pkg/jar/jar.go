// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/invowk/badigeon/pkg/deps"
	"github.com/invowk/badigeon/pkg/fspath"
	"github.com/invowk/badigeon/pkg/manifest"
	"github.com/invowk/badigeon/pkg/policy"
	"github.com/invowk/badigeon/pkg/projectmeta"
	"github.com/invowk/badigeon/pkg/types"
	"github.com/invowk/badigeon/pkg/walk"
)

// Extension is the required extension of archive output paths.
const Extension = ".jar"

// ErrInvalidExtension is the sentinel error wrapped by InvalidExtensionError.
var ErrInvalidExtension = errors.New("archive path must end in " + Extension)

type (
	// Options configures Write.
	Options struct {
		// RootPath is the project directory. Defaults to the working directory.
		RootPath string
		// Paths are the project's source and resource directories, relative
		// to RootPath. Each is walked as its own root, so its files land at
		// the archive root. When empty, RootPath itself is walked with the
		// output directory pruned.
		Paths []string
		// Lib and Version identify the project.
		Lib     types.LibraryName
		Version string
		// OutPath is the archive to write. Relative paths resolve against
		// RootPath. Defaults to target/<artifact>-<version>.jar.
		OutPath      string
		Dependencies []deps.ResolvedDependency
		// Exclusion filters the project and dependency trees. Defaults to
		// policy.DefaultExclusion.
		Exclusion policy.Decider
		// Inclusion selects and relocates project metadata files. Directories
		// are descended only when Inclusion accepts them. Defaults to
		// policy.DefaultMetadata.
		Inclusion policy.Decider
		// Manifest is the raw manifest. When nil it is built from
		// MainEntryPoint and ManifestFields.
		Manifest        []byte
		MainEntryPoint  string
		ManifestFields  []manifest.Field
		ManifestOptions []manifest.Option
		// Properties is the raw pom.properties. When nil it is generated.
		Properties []byte
		// AllowAllDependencies packages dependencies that lack a released
		// version instead of failing.
		AllowAllDependencies bool
		// Now stamps generated entries. Defaults to time.Now.
		Now func() time.Time
	}

	// Result describes a written archive.
	Result struct {
		Path    string
		Entries []string
		// Omitted lists dependencies packaged without a released version.
		// They are left out of generated dependency metadata.
		Omitted []deps.Finding
		// Digest is the BLAKE3 hex digest of the archive file.
		Digest string
	}

	// InvalidExtensionError is returned when the output path does not end in
	// the archive extension.
	InvalidExtensionError struct {
		Path string
	}
)

// Error implements the error interface for InvalidExtensionError.
func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("invalid archive path %q: must end in %s", e.Path, Extension)
}

// Unwrap returns ErrInvalidExtension for errors.Is() compatibility.
func (e *InvalidExtensionError) Unwrap() error { return ErrInvalidExtension }

// Write assembles the archive described by opts. Preconditions (output
// extension, library name, dependency versions) are checked before the
// filesystem is touched. A failed write removes the partial archive.
func Write(ctx context.Context, opts Options) (*Result, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	result := &Result{Path: opts.OutPath}
	if findings := deps.Unreproducible(opts.Dependencies); len(findings) > 0 {
		if !opts.AllowAllDependencies {
			return nil, &deps.UnreproducibleError{Libs: findings}
		}
		result.Omitted = findings
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := writeArchive(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Entries = entries

	digest, err := Digest(opts.OutPath)
	if err != nil {
		return nil, err
	}
	result.Digest = digest
	return result, nil
}

func (opts Options) withDefaults() (Options, error) {
	if err := opts.Lib.Validate(); err != nil {
		return opts, err
	}

	if opts.OutPath == "" {
		opts.OutPath = fspath.DefaultJarPath(opts.Lib, opts.Version)
	}
	if !fspath.HasExtension(opts.OutPath, Extension) {
		return opts, &InvalidExtensionError{Path: opts.OutPath}
	}

	root := opts.RootPath
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return opts, fmt.Errorf("failed to resolve project root: %w", err)
	}
	opts.RootPath = absRoot
	opts.OutPath = fspath.ResolveUnder(absRoot, opts.OutPath)

	if opts.Exclusion == nil {
		opts.Exclusion = policy.DefaultExclusion()
	}
	if opts.Inclusion == nil {
		opts.Inclusion = policy.DefaultMetadata(opts.Lib)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Manifest == nil {
		opts.Manifest = manifest.Build(opts.MainEntryPoint, opts.ManifestFields, opts.ManifestOptions...)
	}
	if opts.Properties == nil {
		opts.Properties = projectmeta.Properties(projectmeta.NewIdentity(opts.Lib, opts.Version), opts.Now())
	}
	return opts, nil
}

func writeArchive(ctx context.Context, opts Options) (entries []string, err error) {
	if err = os.MkdirAll(filepath.Dir(opts.OutPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	w, err := create(opts.OutPath, opts.Now())
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(opts.OutPath) // Best-effort cleanup of the partial archive
		}
	}()

	if err = w.AddBytes(manifest.EntryName, opts.Manifest); err != nil {
		return nil, err
	}

	passes := []func(context.Context, *writer, Options) error{projectPass, dependencyPass, metadataPass}
	for _, pass := range passes {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if err = pass(ctx, w, opts); err != nil {
			return nil, err
		}
	}

	id := projectmeta.NewIdentity(opts.Lib, opts.Version)
	if err = w.AddBytes(id.EntryName(), opts.Properties); err != nil {
		return nil, err
	}
	return w.Entries(), nil
}

// projectPass copies the project paths. When the whole project directory is
// walked, metadata files are left to the metadata pass and the directory
// receiving the archive is pruned.
func projectPass(ctx context.Context, w *writer, opts Options) error {
	if len(opts.Paths) == 0 {
		return walkTree(ctx, w, opts.RootPath, outputPruned(opts), func(root, path string) bool {
			_, isMetadata := opts.Inclusion.Decide(root, path)
			return isMetadata
		})
	}
	for _, p := range opts.Paths {
		dir := fspath.ResolveUnder(opts.RootPath, p)
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("project path not found, skipping", "path", p)
				continue
			}
			return fmt.Errorf("failed to stat project path %s: %w", p, err)
		}
		if !info.IsDir() {
			if err := w.AddFile(filepath.Base(dir), dir, info); err != nil {
				return err
			}
			continue
		}
		if err := walkTree(ctx, w, dir, opts.Exclusion, nil); err != nil {
			return err
		}
	}
	return nil
}

// outputPruned wraps the exclusion policy so that the directory holding the
// archive is not walked, unless that directory is the project root.
func outputPruned(opts Options) policy.Decider {
	outDir := filepath.Dir(opts.OutPath)
	if outDir == opts.RootPath || !fspath.Contains(opts.RootPath, outDir) {
		return opts.Exclusion
	}
	return policy.DeciderFunc(func(root, path string) (string, bool) {
		if path == outDir {
			return "", false
		}
		return opts.Exclusion.Decide(root, path)
	})
}

// dependencyPass flattens every dependency directory into the archive root.
// Dependency archives are skipped; other single files land at their base
// name.
func dependencyPass(ctx context.Context, w *writer, opts Options) error {
	for _, dep := range opts.Dependencies {
		for _, p := range dep.Paths {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(p)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					slog.Debug("dependency path not found, skipping", "lib", dep.Lib, "path", p)
					continue
				}
				return fmt.Errorf("failed to stat dependency path %s: %w", p, err)
			}
			if info.IsDir() {
				if err := walkTree(ctx, w, p, opts.Exclusion, nil); err != nil {
					return fmt.Errorf("failed to add dependency %s: %w", dep.Lib, err)
				}
				continue
			}
			if isArchive(p) {
				// The JVM does not load jars nested in a jar.
				slog.Debug("archive dependency left out of the jar", "lib", dep.Lib, "path", p)
				continue
			}
			if err := w.AddFile(filepath.Base(p), p, info); err != nil {
				return fmt.Errorf("failed to add dependency %s: %w", dep.Lib, err)
			}
		}
	}
	return nil
}

func isArchive(p string) bool {
	return fspath.HasExtension(p, Extension) || fspath.HasExtension(p, ".zip")
}

// metadataPass relocates project metadata files regardless of exclusion.
func metadataPass(ctx context.Context, w *writer, opts Options) error {
	return walk.Walk(opts.RootPath, walk.Funcs{
		PreDir: func(root, path string, _ fs.FileInfo) (walk.Action, error) {
			if err := ctx.Err(); err != nil {
				return walk.SkipSubtree, err
			}
			if path == root {
				return walk.Continue, nil
			}
			if _, ok := opts.Inclusion.Decide(root, path); !ok {
				return walk.SkipSubtree, nil
			}
			return walk.Continue, nil
		},
		File: func(root, path string, info fs.FileInfo) error {
			out, ok := opts.Inclusion.Decide(root, path)
			if !ok {
				return nil
			}
			return walk.Vanished(path, w.AddFile(out, path, info))
		},
	})
}

// walkTree adds every entry of root accepted by decider, skipping files for
// which skip reports true.
func walkTree(ctx context.Context, w *writer, root string, decider policy.Decider, skip func(root, path string) bool) error {
	return walk.Walk(root, walk.Funcs{
		PreDir: func(root, path string, info fs.FileInfo) (walk.Action, error) {
			if err := ctx.Err(); err != nil {
				return walk.SkipSubtree, err
			}
			out, ok := decider.Decide(root, path)
			if !ok {
				return walk.SkipSubtree, nil
			}
			if out == "" {
				return walk.Continue, nil
			}
			return walk.Continue, w.AddDir(out, info)
		},
		File: func(root, path string, info fs.FileInfo) error {
			out, ok := decider.Decide(root, path)
			if !ok || out == "" {
				return nil
			}
			if skip != nil && skip(root, path) {
				return nil
			}
			return walk.Vanished(path, w.AddFile(out, path, info))
		},
	})
}
