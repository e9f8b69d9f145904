// SPDX-License-Identifier: MPL-2.0

// Package fspath provides the path arithmetic shared by the archive writer,
// the bundle copier and the native extractor: typed wrappers around
// path/filepath, relativization against a walk root, layout subpath
// resolution, and default output path derivation.
package fspath

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/invowk/badigeon/pkg/types"
)

// TargetDir is the directory, relative to the project root, where default
// output paths are placed.
const TargetDir = "target"

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as entry names read from a directory or an archive.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// FromSlash wraps filepath.FromSlash for FilesystemPath.
func FromSlash(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.FromSlash(string(p)))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Rel returns target relative to root. The second result is false when the
// target lies outside root (the relative path would start with "..").
func Rel(root, target string) (string, bool) {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return rel, false
	}
	return rel, true
}

// SlashRel is Rel with the result converted to forward slashes, the form used
// for archive entry names and copy registry keys. The root itself maps to "".
func SlashRel(root, target string) (string, bool) {
	rel, ok := Rel(root, target)
	if !ok {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return filepath.ToSlash(rel), true
}

// ResolveUnder resolves sub against root unless sub is already absolute.
// An empty sub resolves to root.
func ResolveUnder(root, sub string) string {
	if sub == "" {
		return filepath.Clean(root)
	}
	if filepath.IsAbs(sub) {
		return filepath.Clean(sub)
	}
	return filepath.Join(root, sub)
}

// Contains reports whether target is root or lies below it.
func Contains(root, target string) bool {
	_, ok := Rel(root, target)
	return ok
}

// HasExtension reports whether the base name of p ends with ext, compared
// case-insensitively. ext includes the leading dot.
func HasExtension(p, ext string) bool {
	return strings.EqualFold(filepath.Ext(p), ext)
}

// CleanEntryName normalizes an archive entry name: forward slashes, no
// leading slash, no "." segments. Names with a ".." segment, and names that
// clean to nothing, return false.
func CleanEntryName(name string) (string, bool) {
	slashed := filepath.ToSlash(name)
	if slices.Contains(strings.Split(slashed, "/"), "..") {
		return "", false
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+slashed), "/")
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}

// DefaultJarPath derives the default archive location for a library:
// target/<artifact>-<version>.jar, or target/<artifact>.jar without a
// version.
func DefaultJarPath(lib types.LibraryName, version string) string {
	return filepath.Join(TargetDir, baseName(lib, version)+".jar")
}

// DefaultBundlePath derives the default bundle directory for a library:
// target/<artifact>-<version>, or target/<artifact> without a version.
func DefaultBundlePath(lib types.LibraryName, version string) string {
	return filepath.Join(TargetDir, baseName(lib, version))
}

func baseName(lib types.LibraryName, version string) string {
	if version == "" {
		return lib.Artifact()
	}
	return lib.Artifact() + "-" + version
}
