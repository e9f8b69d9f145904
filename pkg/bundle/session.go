// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"errors"
	"fmt"
	"slices"
)

// ErrConflict is the sentinel error wrapped by ConflictError.
var ErrConflict = errors.New("bundle path written twice")

type (
	// Session records the output paths written during one bundle operation.
	// It is not safe for concurrent use.
	Session struct {
		written map[string]string
	}

	// ConflictError is returned when two sources map to the same output path.
	ConflictError struct {
		// RelPath is the colliding path relative to the output root.
		RelPath string
		// Source is the file whose copy was refused.
		Source string
		// PreviousSource is the file that claimed RelPath first.
		PreviousSource string
		// Destination is the absolute output path.
		Destination string
	}
)

// NewSession returns an empty Session.
func NewSession() *Session {
	return &Session{written: make(map[string]string)}
}

// Claim records that source is written to rel. It fails with a
// *ConflictError if rel was already claimed in this session.
func (s *Session) Claim(rel, source, destination string) error {
	if prev, ok := s.written[rel]; ok {
		return &ConflictError{RelPath: rel, Source: source, PreviousSource: prev, Destination: destination}
	}
	s.written[rel] = source
	return nil
}

// Release drops the claim on rel, for a copy that did not happen.
func (s *Session) Release(rel string) {
	delete(s.written, rel)
}

// Source returns the source that claimed rel.
func (s *Session) Source(rel string) (string, bool) {
	src, ok := s.written[rel]
	return src, ok
}

// Paths returns every claimed path in lexical order.
func (s *Session) Paths() []string {
	paths := make([]string, 0, len(s.written))
	for p := range s.written {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Len returns the number of claimed paths.
func (s *Session) Len() int {
	return len(s.written)
}

// Error implements the error interface for ConflictError.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting bundle path %s: %s and %s both write %s", e.RelPath, e.PreviousSource, e.Source, e.Destination)
}

// Unwrap returns ErrConflict for errors.Is() compatibility.
func (e *ConflictError) Unwrap() error { return ErrConflict }
