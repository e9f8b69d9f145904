// SPDX-License-Identifier: MPL-2.0

package deps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/invowk/badigeon/pkg/types"
)

var (
	// ErrUnstableDependency is the sentinel error wrapped by UnstableError.
	ErrUnstableDependency = errors.New("unstable dependency")

	// ErrUnreproducibleDependency is the sentinel error wrapped by
	// UnreproducibleError.
	ErrUnreproducibleDependency = errors.New("unreproducible dependency")
)

type (
	// UnstableError reports dependencies that are snapshots, pre-releases or
	// local checkouts, which make a bundle irreproducible from released
	// artifacts.
	UnstableError struct {
		Libs []Finding
	}

	// UnreproducibleError reports dependencies that have no released version
	// a consumer of the archive could fetch.
	UnreproducibleError struct {
		Libs []Finding
	}

	// Finding names one offending dependency and why it was flagged.
	Finding struct {
		Lib    types.LibraryName
		Reason string
	}
)

// Error implements the error interface for UnstableError.
func (e *UnstableError) Error() string {
	return "unstable dependencies: " + joinFindings(e.Libs)
}

// Unwrap returns ErrUnstableDependency for errors.Is() compatibility.
func (e *UnstableError) Unwrap() error { return ErrUnstableDependency }

// Error implements the error interface for UnreproducibleError.
func (e *UnreproducibleError) Error() string {
	return "dependencies without a released version: " + joinFindings(e.Libs)
}

// Unwrap returns ErrUnreproducibleDependency for errors.Is() compatibility.
func (e *UnreproducibleError) Unwrap() error { return ErrUnreproducibleDependency }

// CheckStable returns an *UnstableError listing every dependency that is a
// snapshot or pre-release, or that comes from a local root.
func CheckStable(all []ResolvedDependency) error {
	var findings []Finding
	for _, d := range all {
		switch {
		case IsSnapshot(d.Version):
			findings = append(findings, Finding{Lib: d.Lib, Reason: "version " + d.Version + " is not a release"})
		case d.IsLocal():
			findings = append(findings, Finding{Lib: d.Lib, Reason: "local root " + d.LocalRoot})
		}
	}
	if len(findings) > 0 {
		return &UnstableError{Libs: findings}
	}
	return nil
}

// Unreproducible returns the dependencies that lack a released version: no
// version, a local root or a git origin.
func Unreproducible(all []ResolvedDependency) []Finding {
	var findings []Finding
	for _, d := range all {
		switch {
		case d.IsLocal():
			findings = append(findings, Finding{Lib: d.Lib, Reason: "local root " + d.LocalRoot})
		case d.GitURL != "":
			findings = append(findings, Finding{Lib: d.Lib, Reason: "git origin " + d.GitURL})
		case d.Version == "":
			findings = append(findings, Finding{Lib: d.Lib, Reason: "no version"})
		}
	}
	return findings
}

// CheckReproducible returns an *UnreproducibleError when any dependency
// lacks a released version.
func CheckReproducible(all []ResolvedDependency) error {
	if findings := Unreproducible(all); len(findings) > 0 {
		return &UnreproducibleError{Libs: findings}
	}
	return nil
}

func prerelease(version string) bool {
	if version == "" {
		return false
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		// Non-semver versions (e.g. "1.10.1.763") carry no pre-release marker.
		return false
	}
	return v.Prerelease() != ""
}

func joinFindings(findings []Finding) string {
	parts := make([]string, 0, len(findings))
	for _, f := range findings {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Lib, f.Reason))
	}
	return strings.Join(parts, ", ")
}
