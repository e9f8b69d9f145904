// SPDX-License-Identifier: MPL-2.0

package policy

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is the sentinel error wrapped by InvalidPatternError.
var ErrInvalidPattern = errors.New("invalid exclude pattern")

type (
	// InvalidPatternError is returned when an exclude glob does not parse.
	InvalidPatternError struct {
		Pattern string
	}

	globExclusion struct {
		base     Decider
		patterns []string
	}
)

// Error implements the error interface for InvalidPatternError.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid exclude pattern %q", e.Pattern)
}

// Unwrap returns ErrInvalidPattern for errors.Is() compatibility.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// ExcludeGlobs wraps base so that entries whose output path matches any of
// the doublestar patterns are excluded. A pattern "dir" also matches
// everything under dir because directories are pruned as they are visited.
func ExcludeGlobs(base Decider, patterns ...string) (Decider, error) {
	if len(patterns) == 0 {
		return base, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, &InvalidPatternError{Pattern: p}
		}
	}
	return &globExclusion{base: base, patterns: patterns}, nil
}

func (g *globExclusion) Decide(root, path string) (string, bool) {
	out, ok := g.base.Decide(root, path)
	if !ok || out == "" {
		return out, ok
	}
	for _, p := range g.patterns {
		// Patterns are validated up front, so Match cannot fail here.
		if matched, _ := doublestar.Match(p, out); matched {
			return "", false
		}
	}
	return out, true
}
