// SPDX-License-Identifier: MPL-2.0

// Package platform holds the closed set of launch-script flavors a bundle
// can carry.
//
// The script flavor is a small variant type: every property (file name,
// header, classpath separator, path separator, pass-through arguments) is an
// exhaustive switch, so adding a flavor is a compile-visible change.
package platform
