// SPDX-License-Identifier: MPL-2.0

package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

const (
	// Continue descends into the directory.
	Continue Action = iota
	// SkipSubtree leaves the directory and its children unvisited. PostVisitDir
	// is not called for it.
	SkipSubtree
)

// ErrVanished marks a callback error caused by a source entry disappearing
// mid-walk. The walker skips the entry instead of aborting.
var ErrVanished = errors.New("entry vanished during walk")

type (
	// Action tells the walker how to proceed after PreVisitDir.
	Action int

	// Visitor receives walk events. root is the path given to Walk; path is
	// the current entry; info describes the entry after following links.
	Visitor interface {
		PreVisitDir(root, path string, info fs.FileInfo) (Action, error)
		VisitFile(root, path string, info fs.FileInfo) error
		PostVisitDir(root, path string, info fs.FileInfo) error
	}

	// Funcs adapts plain functions to Visitor. Nil members are no-ops.
	Funcs struct {
		PreDir  func(root, path string, info fs.FileInfo) (Action, error)
		File    func(root, path string, info fs.FileInfo) error
		PostDir func(root, path string, info fs.FileInfo) error
	}

	walker struct {
		root    string
		visitor Visitor
	}
)

// PreVisitDir implements Visitor.
func (f Funcs) PreVisitDir(root, path string, info fs.FileInfo) (Action, error) {
	if f.PreDir == nil {
		return Continue, nil
	}
	return f.PreDir(root, path, info)
}

// VisitFile implements Visitor.
func (f Funcs) VisitFile(root, path string, info fs.FileInfo) error {
	if f.File == nil {
		return nil
	}
	return f.File(root, path, info)
}

// PostVisitDir implements Visitor.
func (f Funcs) PostVisitDir(root, path string, info fs.FileInfo) error {
	if f.PostDir == nil {
		return nil
	}
	return f.PostDir(root, path, info)
}

// Vanished wraps err with ErrVanished when err reports a missing file, so a
// visitor can surface "source disappeared" without aborting the walk.
// Other errors are returned unchanged.
func Vanished(path string, err error) error {
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrVanished, path, err)
	}
	return err
}

// Walk visits the tree rooted at root. A root that does not exist yields no
// events and no error.
func Walk(root string, v Visitor) error {
	info, err := os.Stat(root)
	if err != nil {
		if tolerable(err) {
			slog.Debug("walk root not found, nothing to visit", "root", root, "error", err)
			return nil
		}
		return fmt.Errorf("stat %s: %w", root, err)
	}

	w := &walker{root: root, visitor: v}
	return w.visit(root, info, nil)
}

func (w *walker) visit(path string, info fs.FileInfo, ancestors []fs.FileInfo) error {
	if !info.IsDir() {
		return w.skipVanished(path, w.visitor.VisitFile(w.root, path, info))
	}

	for _, a := range ancestors {
		if os.SameFile(a, info) {
			slog.Debug("skipping symlink cycle", "path", path)
			return nil
		}
	}

	action, err := w.visitor.PreVisitDir(w.root, path, info)
	if err != nil {
		return w.skipVanished(path, err)
	}
	if action == SkipSubtree {
		return nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if tolerable(err) {
			slog.Debug("skipping vanished directory", "path", path, "error", err)
			return nil
		}
		return fmt.Errorf("reading directory %s: %w", path, err)
	}

	ancestors = append(ancestors, info)
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		childInfo, statErr := os.Stat(child)
		if statErr != nil {
			if tolerable(statErr) {
				slog.Debug("skipping vanished or cyclic entry", "path", child, "error", statErr)
				continue
			}
			return fmt.Errorf("stat %s: %w", child, statErr)
		}
		if err := w.visit(child, childInfo, ancestors); err != nil {
			return err
		}
	}

	return w.skipVanished(path, w.visitor.PostVisitDir(w.root, path, info))
}

func (w *walker) skipVanished(path string, err error) error {
	if err != nil && errors.Is(err, ErrVanished) {
		slog.Debug("skipping entry that vanished while visiting", "path", path, "error", err)
		return nil
	}
	return err
}

// tolerable reports the errors that skip an entry rather than abort: a file
// removed after listing and a link chain that loops on itself.
func tolerable(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ELOOP)
}
