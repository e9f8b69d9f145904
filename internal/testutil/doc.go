// SPDX-License-Identifier: MPL-2.0

// Package testutil holds fixtures shared by badigeon's tests: project
// trees on disk, zip and jar archives, and a Clock for reproducible
// entry timestamps. Helpers take testing.TB and fail the test on error.
package testutil
