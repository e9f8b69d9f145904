// SPDX-License-Identifier: MPL-2.0

// Package manifest builds and parses the META-INF/MANIFEST.MF header written
// at the front of every archive.
//
// A manifest is an ordered list of fields. Scalar fields render as
// "Key: value" with the value split into chunks of at most MaxLineChars
// characters, each continuation line prefixed by one space. Section fields
// render after every scalar field as a blank line, a "Name: <key>" line and
// the section's own scalar fields:
//
//	Manifest-Version: 1.0
//	Created-By: Badigeon
//	Main-Class: my.app_main
//
//	Name: my/resource
//	Sealed: true
package manifest
