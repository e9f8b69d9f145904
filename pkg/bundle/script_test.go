// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/badigeon/internal/testutil"
	"github.com/invowk/badigeon/pkg/platform"
)

// execArgs parses a POSIX launch script and returns the literal words of its
// exec command, without the trailing "$@".
func execArgs(t *testing.T, script string) []string {
	t.Helper()

	file, err := syntax.NewParser().Parse(strings.NewReader(script), "run.sh")
	if err != nil {
		t.Fatalf("generated script does not parse: %v\n%s", err, script)
	}

	var args []string
	syntax.Walk(file, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok || len(call.Args) == 0 || call.Args[0].Lit() != "exec" {
			return true
		}
		for _, w := range call.Args[1 : len(call.Args)-1] {
			lit, err := expand.Literal(nil, w)
			if err != nil {
				t.Fatalf("expanding %v: %v", w, err)
			}
			args = append(args, lit)
		}
		return false
	})
	if args == nil {
		t.Fatalf("no exec command in script:\n%s", script)
	}
	return args
}

func TestWriteScript_Posix(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	path, err := WriteScript(out, "my-app.main", ScriptOptions{
		Script:  platform.ScriptPosix,
		JVMOpts: []string{"-Xmx512m", "-Dgreeting=hello world"},
		Args:    []string{"--port", "8080"},
	})
	if err != nil {
		t.Fatalf("WriteScript() error = %v", err)
	}
	if path != filepath.Join(out, "bin", "run.sh") {
		t.Errorf("path = %q", path)
	}

	content := testutil.MustReadFile(t, path)
	if !strings.HasPrefix(content, "#!/bin/sh\n") {
		t.Errorf("missing shebang:\n%s", content)
	}
	if !strings.HasSuffix(strings.TrimSpace(content), `"$@"`) {
		t.Errorf("arguments are not passed through:\n%s", content)
	}

	want := []string{"java", "-Xmx512m", "-Dgreeting=hello world", "-cp", ".:lib/*", "clojure.main", "-m", "my-app.main", "--port", "8080"}
	if got := execArgs(t, content); !slices.Equal(got, want) {
		t.Errorf("exec args = %q, want %q", got, want)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o755 {
			t.Errorf("mode = %v, want 0755", info.Mode().Perm())
		}
	}
}

func TestWriteScript_PrefersBundledRuntime(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(out, "runtime", "bin", "java"), "")

	path, err := WriteScript(out, "app.main", ScriptOptions{Script: platform.ScriptPosix, LibsPath: "jars"})
	if err != nil {
		t.Fatalf("WriteScript() error = %v", err)
	}
	got := execArgs(t, testutil.MustReadFile(t, path))
	if got[0] != "runtime/bin/java" {
		t.Errorf("java command = %q, want runtime/bin/java", got[0])
	}
	if !slices.Contains(got, ".:jars/*") {
		t.Errorf("classpath does not use the libs path: %q", got)
	}
}

func TestWriteScript_Windows(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(out, "runtime", "bin", "java.exe"), "")

	path, err := WriteScript(out, "app.main", ScriptOptions{
		Script:  platform.ScriptWindows,
		JVMOpts: []string{"-Dname=a b"},
	})
	if err != nil {
		t.Fatalf("WriteScript() error = %v", err)
	}
	if path != filepath.Join(out, "bin", "run.bat") {
		t.Errorf("path = %q", path)
	}

	want := "@echo off\r\n" +
		`cd /d "%~dp0.."` + "\r\n" +
		`runtime\bin\java.exe "-Dname=a b" -cp ".;lib\*" clojure.main -m app.main %*` + "\r\n"
	if got := testutil.MustReadFile(t, path); got != want {
		t.Errorf("script =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderScript_WindowsEscapesPercent(t *testing.T) {
	t.Parallel()

	content, err := RenderScript(platform.ScriptWindows, "java", "app.main", ScriptOptions{
		JVMOpts: []string{"-Dlog.pattern=%d %m", "-Dhome=%USERPROFILE%"},
		Args:    []string{"100%"},
	})
	if err != nil {
		t.Fatalf("RenderScript() error = %v", err)
	}
	for _, want := range []string{`"-Dlog.pattern=%%d %%m"`, ` -Dhome=%%USERPROFILE%% `, ` 100%% %*`} {
		if !strings.Contains(content, want) {
			t.Errorf("script lacks %s:\n%s", want, content)
		}
	}
}

func TestWriteScript_Errors(t *testing.T) {
	t.Parallel()

	if _, err := WriteScript(t.TempDir(), "", ScriptOptions{}); !errors.Is(err, ErrNoEntryPoint) {
		t.Errorf("error = %v, want ErrNoEntryPoint", err)
	}
	if _, err := WriteScript(t.TempDir(), "app", ScriptOptions{Script: "amiga"}); !errors.Is(err, platform.ErrInvalidScript) {
		t.Errorf("error = %v, want ErrInvalidScript", err)
	}
}

func TestRenderScript_HostDefault(t *testing.T) {
	t.Parallel()

	content, err := RenderScript(platform.HostScript(), "java", "app.main", ScriptOptions{})
	if err != nil {
		t.Fatalf("RenderScript() error = %v", err)
	}
	if !strings.HasPrefix(content, platform.HostScript().Header()) {
		t.Errorf("script does not start with the host header:\n%s", content)
	}
}
