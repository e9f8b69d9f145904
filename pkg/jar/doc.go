// SPDX-License-Identifier: MPL-2.0

// Package jar writes a project and its resolved dependencies into a single
// .jar archive.
//
// An archive is assembled in order: the manifest, the project tree under
// the exclusion policy, every dependency path flattened into the archive
// root, the project metadata files relocated under META-INF by the
// inclusion policy, and finally pom.properties. Dependency trees are not
// checked for colliding entry names; the first entry written for a name
// wins and later ones are dropped.
package jar
