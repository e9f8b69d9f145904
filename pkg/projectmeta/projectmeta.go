// SPDX-License-Identifier: MPL-2.0

// Package projectmeta derives the maven identity of a project and renders
// the pom.properties file packaged next to its project descriptor.
package projectmeta

import (
	"fmt"
	"strings"
	"time"

	"github.com/invowk/badigeon/pkg/policy"
	"github.com/invowk/badigeon/pkg/types"
)

// PropertiesName is the file name of the generated properties.
const PropertiesName = "pom.properties"

// Identity is the group/artifact/version triple of a project.
type Identity struct {
	Group    string
	Artifact string
	Version  string
}

// NewIdentity splits lib into group and artifact.
func NewIdentity(lib types.LibraryName, version string) Identity {
	return Identity{Group: lib.Group(), Artifact: lib.Artifact(), Version: version}
}

// Lib returns the identity as a library name.
func (id Identity) Lib() types.LibraryName {
	return types.LibraryName(id.Group + "/" + id.Artifact)
}

// EntryName returns the archive entry holding the properties file.
func (id Identity) EntryName() string {
	return policy.MavenPath(id.Lib(), PropertiesName)
}

// Properties renders pom.properties for id. now stamps the header comment.
func Properties(id Identity, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("#Created by Badigeon\n")
	fmt.Fprintf(&b, "#%s\n", now.Format(time.UnixDate))
	fmt.Fprintf(&b, "version=%s\n", escape(id.Version))
	fmt.Fprintf(&b, "groupId=%s\n", escape(id.Group))
	fmt.Fprintf(&b, "artifactId=%s\n", escape(id.Artifact))
	return []byte(b.String())
}

var propertiesEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"=", `\=`,
	":", `\:`,
)

func escape(v string) string {
	return propertiesEscaper.Replace(v)
}
