// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"path/filepath"

	"github.com/invowk/badigeon/pkg/fspath"
)

const (
	// DefaultLibsPath is the folder receiving dependency archives.
	DefaultLibsPath = "lib"
	// DefaultNativesPath is the folder receiving extracted native libraries.
	DefaultNativesPath = "lib"
)

// Layout locates the folders of a bundle. Relative subpaths resolve against
// OutputRoot; absolute ones are used as given.
type Layout struct {
	OutputRoot  string
	LibsPath    string
	NativesPath string
}

// Libs returns the absolute libs folder.
func (l Layout) Libs() string {
	return fspath.ResolveUnder(l.OutputRoot, orDefault(l.LibsPath, DefaultLibsPath))
}

// Natives returns the absolute natives folder.
func (l Layout) Natives() string {
	return fspath.ResolveUnder(l.OutputRoot, orDefault(l.NativesPath, DefaultNativesPath))
}

// libsClasspath is the libs folder as written into launch scripts:
// relative to the bundle root when it lies inside it.
func (l Layout) libsClasspath() string {
	libs := l.Libs()
	if rel, ok := fspath.SlashRel(l.OutputRoot, libs); ok && rel != "" {
		return rel
	}
	return filepath.ToSlash(libs)
}

// key maps an absolute destination to its registry key: the slash path
// relative to the output root, or the absolute slash path for
// destinations outside it.
func (l Layout) key(dest string) string {
	if rel, ok := fspath.SlashRel(l.OutputRoot, dest); ok {
		return rel
	}
	return filepath.ToSlash(dest)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
