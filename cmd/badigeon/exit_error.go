// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/invowk/badigeon/pkg/types"
)

// ExitError carries the process exit code out of a RunE handler. Execute
// exits with Code after fang has printed Err.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d (%s)", int(e.Code), e.Code)
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}
