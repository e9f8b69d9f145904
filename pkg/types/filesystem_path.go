// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is wrapped by every InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

// FilesystemPath is a host path taken from configuration or flags, such as
// an output directory or a dependency root. It may be relative.
type FilesystemPath string

// InvalidFilesystemPathError reports why Value was rejected.
type InvalidFilesystemPathError struct {
	Value  FilesystemPath
	Reason string
}

func (p FilesystemPath) String() string { return string(p) }

// Validate rejects blank paths and paths containing a NUL byte, which no
// supported OS accepts.
func (p FilesystemPath) Validate() error {
	switch {
	case strings.TrimSpace(string(p)) == "":
		return &InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"}
	case strings.ContainsRune(string(p), 0):
		return &InvalidFilesystemPathError{Value: p, Reason: "contains a NUL byte"}
	}
	return nil
}

func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidFilesystemPath, e.Value, e.Reason)
}

func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
