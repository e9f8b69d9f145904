// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"runtime"
)

const (
	// ScriptPosix is a /bin/sh launch script.
	ScriptPosix Script = "posix"
	// ScriptWindows is a cmd.exe batch launch script.
	ScriptWindows Script = "windows"
)

// ErrInvalidScript is the sentinel error wrapped by InvalidScriptError.
var ErrInvalidScript = errors.New("invalid script platform")

type (
	// Script selects the launch script flavor written into a bundle.
	Script string

	// InvalidScriptError is returned when a Script value is not recognized.
	InvalidScriptError struct {
		Value Script
	}
)

// HostScript returns the script flavor matching runtime.GOOS.
func HostScript() Script {
	return ScriptFor(runtime.GOOS)
}

// ScriptFor returns the script flavor for a GOOS value.
func ScriptFor(goos string) Script {
	if goos == "windows" {
		return ScriptWindows
	}
	return ScriptPosix
}

// ParseScript converts a configuration value into a Script. The empty string
// selects the host flavor.
func ParseScript(s string) (Script, error) {
	if s == "" {
		return HostScript(), nil
	}
	v := Script(s)
	if err := v.Validate(); err != nil {
		return "", err
	}
	return v, nil
}

// Validate returns an error if the Script is not a known flavor.
func (s Script) Validate() error {
	switch s {
	case ScriptPosix, ScriptWindows:
		return nil
	default:
		return &InvalidScriptError{Value: s}
	}
}

// String returns the string representation of the Script.
func (s Script) String() string { return string(s) }

// RelPath is the slash-separated script location relative to the bundle
// root.
func (s Script) RelPath() string {
	switch s {
	case ScriptWindows:
		return "bin/run.bat"
	default:
		return "bin/run.sh"
	}
}

// Header is the first line(s) of the script.
func (s Script) Header() string {
	switch s {
	case ScriptWindows:
		return "@echo off"
	default:
		return "#!/bin/sh"
	}
}

// ClasspathSeparator separates classpath entries.
func (s Script) ClasspathSeparator() string {
	switch s {
	case ScriptWindows:
		return ";"
	default:
		return ":"
	}
}

// PathSeparator separates path segments inside the script.
func (s Script) PathSeparator() string {
	switch s {
	case ScriptWindows:
		return `\`
	default:
		return "/"
	}
}

// PassThroughArgs expands to the arguments given to the script itself.
func (s Script) PassThroughArgs() string {
	switch s {
	case ScriptWindows:
		return "%*"
	default:
		return `"$@"`
	}
}

// ChangeToBundleRoot moves the shell into the bundle root (the parent of the
// script's own directory).
func (s Script) ChangeToBundleRoot() string {
	switch s {
	case ScriptWindows:
		return `cd /d "%~dp0.."`
	default:
		return `cd "$(dirname "$0")/.." || exit 1`
	}
}

// JavaExecutable is the launcher file name inside a runtime image's bin
// directory.
func (s Script) JavaExecutable() string {
	switch s {
	case ScriptWindows:
		return "java.exe"
	default:
		return "java"
	}
}

// Error implements the error interface for InvalidScriptError.
func (e *InvalidScriptError) Error() string {
	return fmt.Sprintf("invalid script platform %q (expected %q or %q)", e.Value, ScriptPosix, ScriptWindows)
}

// Unwrap returns ErrInvalidScript for errors.Is() compatibility.
func (e *InvalidScriptError) Unwrap() error { return ErrInvalidScript }
