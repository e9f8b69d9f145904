// SPDX-License-Identifier: MPL-2.0

// Package config handles project configuration using Viper with CUE as the file format.
//
// Configuration is loaded from badigeon.cue in the project directory, or from an
// explicit path. The file is validated against an embedded CUE schema
// (config_schema.cue) and merged over defaults. Every scalar key can be
// overridden from the environment with the BADIGEON_ prefix, dots replaced by
// underscores (BADIGEON_BUNDLE_ALLOW_UNSTABLE_DEPS=true).
package config
