// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Exit codes of the badigeon command. A precondition failure guarantees
// that nothing was written.
const (
	ExitOK ExitCode = iota
	ExitFailure
	ExitPrecondition
	ExitConflict
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

var exitCodeNames = map[ExitCode]string{
	ExitOK:           "ok",
	ExitFailure:      "failure",
	ExitPrecondition: "precondition",
	ExitConflict:     "conflict",
}

type (
	// ExitCode is a process exit status, 0-255 on every supported platform.
	ExitCode int

	// InvalidExitCodeError is returned for statuses a process cannot report.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Validate rejects codes outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is ExitOK.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// String returns the name of a badigeon exit code, or the number.
func (c ExitCode) String() string {
	if name, ok := exitCodeNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// Error implements the error interface for InvalidExitCodeError.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d: outside 0-255", int(e.Value))
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }
