// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLibraryName is the sentinel error wrapped by InvalidLibraryNameError.
var ErrInvalidLibraryName = errors.New("invalid library name")

type (
	// LibraryName identifies a library as "group/artifact". A name without a
	// slash is shorthand for "artifact/artifact".
	LibraryName string

	// InvalidLibraryNameError is returned when a LibraryName is empty, contains
	// whitespace, or has more than one slash or an empty segment.
	InvalidLibraryNameError struct {
		Value  LibraryName
		Reason string
	}
)

// String returns the string representation of the LibraryName.
func (n LibraryName) String() string { return string(n) }

// Validate returns an error if the name cannot identify a library.
func (n LibraryName) Validate() error {
	s := string(n)
	switch {
	case s == "":
		return &InvalidLibraryNameError{Value: n, Reason: "must be non-empty"}
	case strings.ContainsAny(s, " \t\r\n"):
		return &InvalidLibraryNameError{Value: n, Reason: "must not contain whitespace"}
	case strings.Count(s, "/") > 1:
		return &InvalidLibraryNameError{Value: n, Reason: "must have the form group/artifact"}
	}
	if g, a, ok := strings.Cut(s, "/"); ok && (g == "" || a == "") {
		return &InvalidLibraryNameError{Value: n, Reason: "group and artifact must be non-empty"}
	}
	return nil
}

// Group returns the group part of the name. For names without a group, the
// artifact doubles as the group.
func (n LibraryName) Group() string {
	if g, _, ok := strings.Cut(string(n), "/"); ok {
		return g
	}
	return string(n)
}

// Artifact returns the artifact part of the name.
func (n LibraryName) Artifact() string {
	if _, a, ok := strings.Cut(string(n), "/"); ok {
		return a
	}
	return string(n)
}

// Error implements the error interface for InvalidLibraryNameError.
func (e *InvalidLibraryNameError) Error() string {
	return fmt.Sprintf("invalid library name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidLibraryName for errors.Is() compatibility.
func (e *InvalidLibraryNameError) Unwrap() error { return ErrInvalidLibraryName }
