// SPDX-License-Identifier: MPL-2.0

package policy

import (
	"path"
	"strings"

	"github.com/invowk/badigeon/pkg/fspath"
	"github.com/invowk/badigeon/pkg/types"
)

const (
	// MavenDir is the metadata folder holding the project descriptor and
	// pom.properties.
	MavenDir = "META-INF/maven"
	// AuxDir is the metadata folder holding auxiliary project files.
	AuxDir = "META-INF/badigeon"

	// ProjectDescriptorName is the project descriptor file name.
	ProjectDescriptorName = "pom.xml"
	// DepsFileName is the dependency declaration file name.
	DepsFileName = "deps.edn"
)

// MavenPath returns META-INF/maven/<group>/<artifact>/<name>.
func MavenPath(lib types.LibraryName, name string) string {
	return path.Join(MavenDir, lib.Group(), lib.Artifact(), name)
}

// AuxPath returns META-INF/badigeon/<group>/<artifact>/<name>.
func AuxPath(lib types.LibraryName, name string) string {
	return path.Join(AuxDir, lib.Group(), lib.Artifact(), name)
}

// ProjectDescriptor relocates a root-level pom.xml to the maven metadata
// folder of lib.
func ProjectDescriptor(lib types.LibraryName) Decider {
	return rootFile(func(name string) (string, bool) {
		if strings.EqualFold(name, ProjectDescriptorName) {
			return MavenPath(lib, ProjectDescriptorName), true
		}
		return "", false
	})
}

// DepsFile relocates a root-level deps.edn to the auxiliary metadata folder.
func DepsFile(lib types.LibraryName) Decider {
	return rootFile(func(name string) (string, bool) {
		if strings.EqualFold(name, DepsFileName) {
			return AuxPath(lib, name), true
		}
		return "", false
	})
}

// ReadmeLicense relocates root-level README* and LICENSE* files to the
// auxiliary metadata folder, keeping their original names.
func ReadmeLicense(lib types.LibraryName) Decider {
	return rootFile(func(name string) (string, bool) {
		upper := strings.ToUpper(name)
		if strings.HasPrefix(upper, "README") || strings.HasPrefix(upper, "LICENSE") {
			return AuxPath(lib, name), true
		}
		return "", false
	})
}

// DefaultMetadata is the inclusion policy of the archive metadata pass.
func DefaultMetadata(lib types.LibraryName) Decider {
	return First(ProjectDescriptor(lib), DepsFile(lib), ReadmeLicense(lib))
}

// rootFile applies match to entries directly under the walk root.
func rootFile(match func(name string) (string, bool)) Decider {
	return DeciderFunc(func(root, p string) (string, bool) {
		rel, ok := fspath.SlashRel(root, p)
		if !ok || rel == "" || strings.Contains(rel, "/") {
			return "", false
		}
		return match(rel)
	})
}
