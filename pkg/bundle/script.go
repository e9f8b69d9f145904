// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/badigeon/pkg/jlink"
	"github.com/invowk/badigeon/pkg/platform"
)

// ErrNoEntryPoint is returned when a launch script has no namespace to run.
var ErrNoEntryPoint = errors.New("launch script requires an entry point")

// ScriptOptions configures WriteScript.
type ScriptOptions struct {
	// Script defaults to the host flavor.
	Script platform.Script
	// LibsPath is the libs folder as seen from the bundle root. Defaults to
	// DefaultLibsPath.
	LibsPath string
	JVMOpts  []string
	Args     []string
}

// WriteScript writes the launch script that runs entryPoint from the bundle
// at outRoot and returns its path. A runtime image under
// <outRoot>/runtime takes precedence over the java found on PATH.
func WriteScript(outRoot, entryPoint string, opts ScriptOptions) (string, error) {
	if entryPoint == "" {
		return "", ErrNoEntryPoint
	}
	script := opts.Script
	if script == "" {
		script = platform.HostScript()
	}
	if err := script.Validate(); err != nil {
		return "", err
	}

	content, err := RenderScript(script, javaCommand(outRoot, script), entryPoint, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outRoot, filepath.FromSlash(script.RelPath()))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create script directory: %w", err)
	}
	mode := os.FileMode(0o644)
	if script == platform.ScriptPosix {
		mode = 0o755
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return "", fmt.Errorf("failed to write launch script: %w", err)
	}
	// WriteFile honours the umask.
	if err := os.Chmod(path, mode); err != nil {
		return "", fmt.Errorf("failed to set launch script mode: %w", err)
	}
	return path, nil
}

// RenderScript returns the launch script text for the given java command.
func RenderScript(script platform.Script, java, entryPoint string, opts ScriptOptions) (string, error) {
	libs := opts.LibsPath
	if libs == "" {
		libs = DefaultLibsPath
	}
	sep := script.PathSeparator()
	classpath := "." + script.ClasspathSeparator() + strings.ReplaceAll(strings.TrimSuffix(libs, "/"), "/", sep) + sep + "*"

	words := []string{java}
	words = append(words, opts.JVMOpts...)
	words = append(words, "-cp", classpath, "clojure.main", "-m", entryPoint)
	words = append(words, opts.Args...)

	quoted := make([]string, 0, len(words)+1)
	for i, w := range words {
		// The java command is emitted verbatim so runtime paths stay relative.
		if i == 0 {
			quoted = append(quoted, w)
			continue
		}
		q, err := quote(script, w)
		if err != nil {
			return "", err
		}
		quoted = append(quoted, q)
	}
	quoted = append(quoted, script.PassThroughArgs())

	lines := []string{script.Header(), script.ChangeToBundleRoot()}
	if script == platform.ScriptPosix {
		lines = append(lines, "exec "+strings.Join(quoted, " "))
		return strings.Join(lines, "\n") + "\n", nil
	}
	lines = append(lines, strings.Join(quoted, " "))
	return strings.Join(lines, "\r\n") + "\r\n", nil
}

// javaCommand prefers the bundled runtime when it exists at build time.
func javaCommand(outRoot string, script platform.Script) string {
	bundled := filepath.Join(outRoot, jlink.RuntimeDir, "bin", script.JavaExecutable())
	if _, err := os.Stat(bundled); err != nil {
		return "java"
	}
	sep := script.PathSeparator()
	return jlink.RuntimeDir + sep + "bin" + sep + script.JavaExecutable()
}

func quote(script platform.Script, word string) (string, error) {
	if script == platform.ScriptPosix {
		q, err := syntax.Quote(word, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("cannot quote %q for a POSIX script: %w", word, err)
		}
		return q, nil
	}
	// cmd.exe expands %VAR% even inside double quotes.
	word = strings.ReplaceAll(word, "%", "%%")
	if word != "" && !strings.ContainsAny(word, " \t\"&|<>^*;") {
		return word, nil
	}
	return `"` + strings.ReplaceAll(word, `"`, `""`) + `"`, nil
}
