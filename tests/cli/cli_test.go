// SPDX-License-Identifier: MPL-2.0

// Package cli runs the txtar scripts under testdata against the badigeon
// command. The command runs in-process as a testscript subcommand, so the
// scripts need no prebuilt binary.
package cli

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	cmd "github.com/invowk/badigeon/cmd/badigeon"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"badigeon": cmd.Execute,
	})
}

func TestCLI(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		ContinueOnError: true,
	})
}
