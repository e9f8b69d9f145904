// SPDX-License-Identifier: MPL-2.0

// Package issue holds badigeon's user-facing failure reporting: the
// ActionableError builder and a catalog of Markdown guidance per failure
// kind, rendered with glamour.
package issue
