// SPDX-License-Identifier: MPL-2.0

// Package deps models resolved dependencies as produced by an external
// resolver: a library name, its version and the absolute paths it
// contributes to a classpath. It also hosts the release checks that guard
// archive and bundle assembly.
package deps
