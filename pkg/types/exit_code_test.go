// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    ExitCode
		name    string
		success bool
		valid   bool
	}{
		{ExitOK, "ok", true, true},
		{ExitFailure, "failure", false, true},
		{ExitPrecondition, "precondition", false, true},
		{ExitConflict, "conflict", false, true},
		{42, "42", false, true},
		{255, "255", false, true},
		{-1, "-1", false, false},
		{256, "256", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.code.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.code.IsSuccess(); got != tt.success {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.success)
			}
			err := tt.code.Validate()
			if (err == nil) != tt.valid {
				t.Fatalf("Validate() = %v, want valid %v", err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("Validate() error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodeDistinct(t *testing.T) {
	t.Parallel()

	codes := []ExitCode{ExitOK, ExitFailure, ExitPrecondition, ExitConflict}
	seen := map[ExitCode]bool{}
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d is used twice", c)
		}
		seen[c] = true
	}
}
