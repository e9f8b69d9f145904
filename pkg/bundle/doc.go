// SPDX-License-Identifier: MPL-2.0

// Package bundle assembles an exploded application directory: dependency
// archives under the libs folder, dependency and project trees at the
// bundle root, native libraries, a launch script and optionally a trimmed
// Java runtime.
//
// Every file written during one Copy is claimed in a Session. Claiming a
// relative path twice fails with a *ConflictError naming both sources, so
// dependency trees can never silently overwrite each other. A failed copy
// leaves the partial output in place.
package bundle
