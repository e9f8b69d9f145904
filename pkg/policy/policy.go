// SPDX-License-Identifier: MPL-2.0

package policy

import (
	"github.com/invowk/badigeon/pkg/fspath"
)

type (
	// Decider decides whether path, found while walking root, is packaged.
	// out is a forward-slash path relative to the output root. The walk root
	// itself maps to "".
	Decider interface {
		Decide(root, path string) (out string, ok bool)
	}

	// DeciderFunc adapts a function to Decider.
	DeciderFunc func(root, path string) (string, bool)

	firstOf []Decider

	exclusion struct{}
)

// Decide implements Decider.
func (f DeciderFunc) Decide(root, path string) (string, bool) {
	return f(root, path)
}

// First composes deciders in order; the first one that accepts an entry
// provides its output path. An empty composition excludes everything.
func First(deciders ...Decider) Decider {
	flat := make(firstOf, 0, len(deciders))
	for _, d := range deciders {
		if d == nil {
			continue
		}
		if nested, ok := d.(firstOf); ok {
			flat = append(flat, nested...)
			continue
		}
		flat = append(flat, d)
	}
	return flat
}

func (f firstOf) Decide(root, path string) (string, bool) {
	for _, d := range f {
		if out, ok := d.Decide(root, path); ok {
			return out, true
		}
	}
	return "", false
}

// DefaultExclusion keeps every entry at its path relative to the walk root,
// except hidden entries and editor leftovers: names starting with ".",
// backups ending in "~", and emacs autosaves "#name#". Excluded directories
// prune their whole subtree.
func DefaultExclusion() Decider {
	return exclusion{}
}

func (exclusion) Decide(root, path string) (string, bool) {
	rel, ok := fspath.SlashRel(root, path)
	if !ok {
		return "", false
	}
	if rel == "" {
		return "", true
	}
	if isEditorOrHidden(baseOf(rel)) {
		return "", false
	}
	return rel, true
}

// Relative accepts every entry under root at its relative path.
func Relative() Decider {
	return DeciderFunc(func(root, path string) (string, bool) {
		return fspath.SlashRel(root, path)
	})
}

func isEditorOrHidden(name string) bool {
	switch {
	case name == "":
		return false
	case name[0] == '.':
		return true
	case name[len(name)-1] == '~':
		return true
	case len(name) >= 2 && name[0] == '#' && name[len(name)-1] == '#':
		return true
	}
	return false
}

func baseOf(rel string) string {
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			return rel[i+1:]
		}
	}
	return rel
}
