// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/invowk/badigeon/pkg/deps"
	"github.com/invowk/badigeon/pkg/fspath"
	"github.com/invowk/badigeon/pkg/policy"
	"github.com/invowk/badigeon/pkg/types"
	"github.com/invowk/badigeon/pkg/walk"
)

// ErrNoOutputRoot is returned when a bundle has no output directory.
var ErrNoOutputRoot = errors.New("bundle output root is required")

type (
	// CopyOptions configures Copy.
	CopyOptions struct {
		Layout
		Dependencies []deps.ResolvedDependency
		ExcludedLibs []types.LibraryName
		// ProjectRoot anchors relative ProjectPaths. Defaults to the working
		// directory.
		ProjectRoot  string
		ProjectPaths []string
		// Policy filters and relocates entries of copied trees. Defaults to
		// policy.Relative, which copies trees in full.
		Policy policy.Decider
		// AllowUnstable permits snapshot, pre-release and local dependencies.
		AllowUnstable bool
		// Session records written paths. A fresh one is used when nil.
		Session *Session
	}

	copier struct {
		ctx     context.Context
		layout  Layout
		session *Session
		policy  policy.Decider
	}
)

// Copy lays out dependencies and project paths under the output root and
// returns it. Dependency stability is checked before anything is written.
func Copy(ctx context.Context, opts CopyOptions) (string, error) {
	if opts.OutputRoot == "" {
		return "", ErrNoOutputRoot
	}
	outRoot, err := filepath.Abs(opts.OutputRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output root: %w", err)
	}
	layout := opts.Layout
	layout.OutputRoot = outRoot

	included := deps.Exclude(opts.Dependencies, opts.ExcludedLibs)
	if !opts.AllowUnstable {
		if err := deps.CheckStable(included); err != nil {
			return "", err
		}
	}

	c := &copier{ctx: ctx, layout: layout, session: opts.Session, policy: opts.Policy}
	if c.session == nil {
		c.session = NewSession()
	}
	if c.policy == nil {
		c.policy = policy.Relative()
	}

	if err := os.MkdirAll(outRoot, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output root: %w", err)
	}

	for _, dep := range included {
		for _, p := range dep.Paths {
			if err := c.copyPath(p); err != nil {
				return "", fmt.Errorf("failed to copy %s: %w", dep.Lib, err)
			}
		}
	}

	projectRoot := opts.ProjectRoot
	if projectRoot == "" {
		projectRoot = "."
	}
	projectRoot, err = filepath.Abs(projectRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	for _, p := range opts.ProjectPaths {
		if err := c.copyPath(fspath.ResolveUnder(projectRoot, p)); err != nil {
			return "", fmt.Errorf("failed to copy project path %s: %w", p, err)
		}
	}

	return outRoot, nil
}

// copyPath copies one contributed path: directories are merged into the
// output root, files land in the libs folder under their own name.
func (c *copier) copyPath(p string) error {
	if err := c.ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("contributed path not found, skipping", "path", p)
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if info.IsDir() {
		return c.copyTree(p)
	}

	dest := filepath.Join(c.layout.Libs(), filepath.Base(p))
	err = c.claimAndCopy(p, dest, info)
	if errors.Is(err, walk.ErrVanished) {
		slog.Debug("contributed path vanished, skipping", "path", p)
		return nil
	}
	return err
}

// claimAndCopy claims dest for src and copies it. The claim is released
// when src disappears before it could be copied.
func (c *copier) claimAndCopy(src, dest string, info fs.FileInfo) error {
	key := c.layout.key(dest)
	if err := c.session.Claim(key, src, dest); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	err := walk.Vanished(src, copyFile(src, dest, info))
	if errors.Is(err, walk.ErrVanished) {
		c.session.Release(key)
	}
	return err
}

func (c *copier) copyTree(root string) error {
	destFor := func(out string) string {
		return filepath.Join(c.layout.OutputRoot, filepath.FromSlash(out))
	}

	return walk.Walk(root, walk.Funcs{
		PreDir: func(root, path string, info fs.FileInfo) (walk.Action, error) {
			if err := c.ctx.Err(); err != nil {
				return walk.SkipSubtree, err
			}
			if fspath.Contains(c.layout.OutputRoot, path) {
				slog.Debug("skipping the bundle output inside a copied tree", "path", path)
				return walk.SkipSubtree, nil
			}
			out, ok := c.policy.Decide(root, path)
			if !ok {
				return walk.SkipSubtree, nil
			}
			if err := os.MkdirAll(destFor(out), info.Mode().Perm()|0o700); err != nil {
				return walk.SkipSubtree, fmt.Errorf("failed to create directory: %w", err)
			}
			return walk.Continue, nil
		},
		File: func(root, path string, info fs.FileInfo) error {
			out, ok := c.policy.Decide(root, path)
			if !ok || out == "" {
				return nil
			}
			dest := destFor(out)
			return c.claimAndCopy(path, dest, info)
		},
		PostDir: func(root, path string, info fs.FileInfo) error {
			out, ok := c.policy.Decide(root, path)
			if !ok || out == "" {
				return nil
			}
			// Children are done; restore the directory timestamp last.
			if err := os.Chtimes(destFor(out), info.ModTime(), info.ModTime()); err != nil {
				return fmt.Errorf("failed to set directory times: %w", err)
			}
			return nil
		},
	})
}

// copyFile copies src to dst, keeping permissions and modification time.
func copyFile(src, dst string, info fs.FileInfo) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }() // Read-only; close error is non-critical

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err == nil {
			err = os.Chtimes(dst, info.ModTime(), info.ModTime())
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	// OpenFile honours the umask; apply the source permissions exactly.
	if err = out.Chmod(info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dst, err)
	}
	return nil
}
