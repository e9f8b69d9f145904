// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/invowk/badigeon/internal/config"
	"github.com/invowk/badigeon/internal/issue"
	"github.com/invowk/badigeon/pkg/bundle"
	"github.com/invowk/badigeon/pkg/deps"
	"github.com/invowk/badigeon/pkg/jar"
	"github.com/invowk/badigeon/pkg/jlink"
	"github.com/invowk/badigeon/pkg/native"
	"github.com/invowk/badigeon/pkg/policy"
	"github.com/invowk/badigeon/pkg/types"
)

var (
	errLoadConfig           = errors.New("configuration error")
	errResolveDeps          = errors.New("dependency resolution error")
	errInvalidNativePattern = errors.New("invalid native library pattern")
)

// classification maps a failure to its catalog entry and exit code.
type classification struct {
	id          issue.Id
	code        types.ExitCode
	suggestions []string
}

// classify inspects the error chain for known sentinels. Precondition
// failures come first because they guarantee that nothing was written.
func classify(err error) classification {
	var toolErr *jlink.ToolError
	switch {
	case errors.Is(err, errLoadConfig), errors.Is(err, config.ErrInvalidConfig):
		return classification{issue.ConfigLoadFailedId, types.ExitFailure, nil}
	case errors.Is(err, errResolveDeps):
		return classification{issue.DependencyFileInvalidId, types.ExitFailure, []string{
			"Check the dependency file format (.toml, .yaml, .yml, .json or .cue)",
		}}
	case errors.Is(err, types.ErrInvalidLibraryName):
		return classification{issue.InvalidLibraryNameId, types.ExitPrecondition, []string{
			"Set 'lib' in badigeon.cue, e.g. lib: \"com.example/app\"",
		}}
	case errors.Is(err, jar.ErrInvalidExtension):
		return classification{issue.InvalidArchivePathId, types.ExitPrecondition, []string{
			"Use an output path ending in .jar",
		}}
	case errors.Is(err, deps.ErrUnreproducibleDependency):
		return classification{issue.UnreproducibleDependencyId, types.ExitPrecondition, []string{
			"Depend on released versions",
			"Pass --allow-all-dependencies to package them anyway",
		}}
	case errors.Is(err, deps.ErrUnstableDependency):
		return classification{issue.UnstableDependencyId, types.ExitPrecondition, []string{
			"Pin released versions of the listed dependencies",
			"Pass --allow-unstable-deps to bundle them anyway",
		}}
	case errors.Is(err, policy.ErrInvalidPattern), errors.Is(err, errInvalidNativePattern):
		return classification{issue.InvalidPatternId, types.ExitPrecondition, nil}
	case errors.Is(err, bundle.ErrNoEntryPoint):
		return classification{issue.EntryPointMissingId, types.ExitPrecondition, []string{
			"Pass --main or set 'main' in badigeon.cue",
			"Pass --no-script to skip the launch script",
		}}
	case errors.Is(err, bundle.ErrConflict):
		return classification{issue.BundleConflictId, types.ExitConflict, []string{
			"Exclude one of the libraries with --exclude-lib",
		}}
	case errors.Is(err, native.ErrUnsafeEntry):
		return classification{issue.UnsafeArchiveEntryId, types.ExitFailure, nil}
	case errors.Is(err, jlink.ErrToolNotFound):
		return classification{issue.JlinkNotFoundId, types.ExitFailure, []string{
			"Set JAVA_HOME or bundle.jlink.java_home to a JDK",
		}}
	case errors.As(err, &toolErr):
		return classification{issue.JlinkFailedId, types.ExitFailure, nil}
	case errors.Is(err, fs.ErrNotExist):
		return classification{issue.FileNotFoundId, types.ExitFailure, nil}
	case errors.Is(err, fs.ErrPermission):
		return classification{issue.PermissionDeniedId, types.ExitFailure, nil}
	default:
		return classification{0, types.ExitFailure, nil}
	}
}

// fail wraps err for display and picks the exit code. An ActionableError
// already in the chain is completed with the classification; otherwise one
// is built. fang prints the message, and in verbose mode the suggestions
// and the catalog entry are rendered to stderr as well.
func (a *App) fail(operation, resource string, err error) error {
	c := classify(err)

	ae, ok := issue.AsActionable(err)
	if ok {
		if ae.Issue == 0 {
			ae.Issue = c.id
		}
		if !ae.HasSuggestions() {
			ae.Suggestions = c.suggestions
		}
	} else {
		ae = issue.NewErrorContext().
			WithOperation(operation).
			WithResource(resource).
			WithIssue(c.id).
			WithSuggestions(c.suggestions...).
			Wrap(err).
			Build()
	}

	if a.flags.verbose {
		if hints := ae.Hints(); hints != "" {
			fmt.Fprint(a.stderr, WarningStyle.Render(hints))
		}
		if entry := ae.Entry(); entry != nil {
			if rendered, renderErr := entry.Render("dark"); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}

	return &ExitError{Code: c.code, Err: ae}
}
