// SPDX-License-Identifier: MPL-2.0

package deps

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/invowk/badigeon/pkg/fspath"
	"github.com/invowk/badigeon/pkg/types"
)

// ArchiveExtensions lists the file extensions treated as packaged archives.
var ArchiveExtensions = []string{".jar", ".zip"}

type (
	// ResolvedDependency is one library as resolved for the current project.
	// Paths are absolute and ordered. LocalRoot and GitURL describe origins
	// that are not released archives.
	ResolvedDependency struct {
		Lib       types.LibraryName `json:"lib" yaml:"lib" toml:"lib" mapstructure:"lib"`
		Version   string            `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty" mapstructure:"version"`
		Paths     []string          `json:"paths" yaml:"paths" toml:"paths" mapstructure:"paths"`
		LocalRoot string            `json:"local_root,omitempty" yaml:"local_root,omitempty" toml:"local_root,omitempty" mapstructure:"local_root"`
		GitURL    string            `json:"git_url,omitempty" yaml:"git_url,omitempty" toml:"git_url,omitempty" mapstructure:"git_url"`
	}

	// Resolver produces the resolved dependency set of a project.
	Resolver interface {
		Resolve(ctx context.Context) ([]ResolvedDependency, error)
	}

	// StaticResolver returns a fixed dependency list.
	StaticResolver []ResolvedDependency
)

// Resolve implements Resolver.
func (s StaticResolver) Resolve(ctx context.Context) ([]ResolvedDependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s), nil
}

// IsArchive reports whether path names a packaged archive file.
func IsArchive(path string) bool {
	for _, ext := range ArchiveExtensions {
		if fspath.HasExtension(path, ext) {
			return true
		}
	}
	return false
}

// IsSnapshot reports whether version denotes an unreleased build: a
// "-SNAPSHOT" suffix or a semantic-version pre-release.
func IsSnapshot(version string) bool {
	if strings.HasSuffix(strings.ToUpper(version), "-SNAPSHOT") {
		return true
	}
	return prerelease(version)
}

// IsLocal reports whether d comes from a local checkout rather than a
// released artifact.
func (d ResolvedDependency) IsLocal() bool {
	return d.LocalRoot != ""
}

// Exclude returns deps without the libraries in excluded, preserving order.
func Exclude(all []ResolvedDependency, excluded []types.LibraryName) []ResolvedDependency {
	if len(excluded) == 0 {
		return all
	}
	kept := make([]ResolvedDependency, 0, len(all))
	for _, d := range all {
		if slices.Contains(excluded, d.Lib) {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

// Absolutize returns a copy of all with relative paths resolved against
// base.
func Absolutize(base string, all []ResolvedDependency) []ResolvedDependency {
	out := make([]ResolvedDependency, len(all))
	for i, d := range all {
		d.Paths = slices.Clone(d.Paths)
		out[i] = d
	}
	absolutize(base, out)
	return out
}

// absolutize resolves relative dependency paths against base in place.
func absolutize(base string, all []ResolvedDependency) {
	for i := range all {
		for j, p := range all[i].Paths {
			all[i].Paths[j] = fspath.ResolveUnder(base, filepath.FromSlash(p))
		}
		if all[i].LocalRoot != "" {
			all[i].LocalRoot = fspath.ResolveUnder(base, filepath.FromSlash(all[i].LocalRoot))
		}
	}
}
