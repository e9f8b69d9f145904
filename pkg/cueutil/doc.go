// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE data against the
// embedded schemas of badigeon's config and dependency files.
//
// Data is unified with one schema definition, validated, and decoded:
//
//	file, err := cueutil.Decode[depsFile](schema, data, "#Dependencies",
//		cueutil.WithFilename("dependencies.cue"), cueutil.WithConcrete(true))
//
// Failures are reported by FormatError with the CUE path of the offending
// field, e.g. "dependencies.cue: dependencies[0].lib: ...".
package cueutil
