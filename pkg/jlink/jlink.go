// SPDX-License-Identifier: MPL-2.0

// Package jlink runs the JDK jlink tool to place a trimmed Java runtime in a
// bundle. The tool is a black box: its output is captured, never parsed.
package jlink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// RuntimeDir is the bundle folder receiving the runtime image.
const RuntimeDir = "runtime"

var (
	// DefaultModules is the module set of a runtime when none is configured.
	DefaultModules = []string{"java.base"}

	// DefaultFlags shrink the runtime image.
	DefaultFlags = []string{"--strip-debug", "--no-man-pages", "--no-header-files", "--compress=2"}

	// ErrToolNotFound is returned when no jlink executable can be located.
	ErrToolNotFound = errors.New("jlink executable not found")
)

type (
	// Options configures Run.
	Options struct {
		// JavaHome locates bin/jlink. When empty, $JAVA_HOME and then PATH
		// are consulted.
		JavaHome   string
		OutputRoot string
		Modules    []string
		// Flags replaces DefaultFlags when non-nil.
		Flags []string
	}

	// Output is the captured result of a jlink run.
	Output struct {
		RuntimePath string
		Stdout      string
		Stderr      string
	}

	// ToolError is returned when jlink exits unsuccessfully.
	ToolError struct {
		Args   []string
		Stderr string
		Err    error
	}
)

// Error implements the error interface for ToolError.
func (e *ToolError) Error() string {
	msg := fmt.Sprintf("jlink %s: %v", strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Unwrap returns the underlying process error.
func (e *ToolError) Unwrap() error { return e.Err }

// Run writes a runtime image to <OutputRoot>/runtime. jlink refuses to
// overwrite an existing image, so callers start from a clean bundle.
func Run(ctx context.Context, opts Options) (Output, error) {
	tool, err := locate(opts.JavaHome)
	if err != nil {
		return Output{}, err
	}

	modules := opts.Modules
	if len(modules) == 0 {
		modules = DefaultModules
	}
	flags := opts.Flags
	if flags == nil {
		flags = DefaultFlags
	}

	out := Output{RuntimePath: filepath.Join(opts.OutputRoot, RuntimeDir)}
	args := []string{"--output", out.RuntimePath, "--add-modules", strings.Join(modules, ",")}
	args = append(args, flags...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()
	if runErr != nil {
		return out, &ToolError{Args: args, Stderr: out.Stderr, Err: runErr}
	}
	return out, nil
}

func locate(javaHome string) (string, error) {
	if javaHome == "" {
		javaHome = os.Getenv("JAVA_HOME")
	}
	name := "jlink"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if javaHome != "" {
		candidate := filepath.Join(javaHome, "bin", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	path, err := exec.LookPath("jlink")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToolNotFound, err)
	}
	return path, nil
}
