// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is the sentinel error wrapped by FileTooLargeError.
var ErrFileTooLarge = errors.New("CUE source exceeds the size limit")

// FileTooLargeError is returned before parsing when a source is larger
// than the configured limit.
type FileTooLargeError struct {
	Filename string
	Size     int64
	Limit    int64
}

// Error implements the error interface for FileTooLargeError.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds the %d byte limit", e.Filename, e.Size, e.Limit)
}

// Unwrap returns ErrFileTooLarge for errors.Is() compatibility.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError rewrites a CUE error as "<file>: <field>: <message>", where
// field uses JSON-path notation (dependencies[0].lib). Several CUE errors
// are listed one per line. Errors that carry no CUE detail are only
// prefixed with the file name.
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	msgs := make([]string, 0, len(list))
	for _, e := range list {
		msgs = append(msgs, describe(e))
	}
	if len(msgs) == 1 {
		return fmt.Errorf("%s: %s", filename, msgs[0])
	}
	return fmt.Errorf("%s: %d errors:\n  %s", filename, len(msgs), strings.Join(msgs, "\n  "))
}

func describe(e cueerrors.Error) string {
	format, args := e.Msg()
	msg := fmt.Sprintf(format, args...)
	if field := fieldPath(e.Path()); field != "" {
		return field + ": " + msg
	}
	return msg
}

// fieldPath joins CUE path selectors, rendering list indices in brackets.
func fieldPath(selectors []string) string {
	var b strings.Builder
	for _, sel := range selectors {
		if _, err := strconv.Atoi(sel); err == nil && b.Len() > 0 {
			b.WriteString("[" + sel + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	return b.String()
}

func checkSize(data []byte, limit int64, filename string) error {
	if size := int64(len(data)); size > limit {
		return &FileTooLargeError{Filename: filename, Size: size, Limit: limit}
	}
	return nil
}
