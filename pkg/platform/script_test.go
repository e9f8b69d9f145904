// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"runtime"
	"testing"
)

func TestScriptProperties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		script  Script
		relPath string
		header  string
		cpSep   string
		pathSep string
		args    string
	}{
		{ScriptPosix, "bin/run.sh", "#!/bin/sh", ":", "/", `"$@"`},
		{ScriptWindows, "bin/run.bat", "@echo off", ";", `\`, "%*"},
	}

	for _, tt := range tests {
		t.Run(tt.script.String(), func(t *testing.T) {
			t.Parallel()
			if got := tt.script.RelPath(); got != tt.relPath {
				t.Errorf("RelPath() = %q, want %q", got, tt.relPath)
			}
			if got := tt.script.Header(); got != tt.header {
				t.Errorf("Header() = %q, want %q", got, tt.header)
			}
			if got := tt.script.ClasspathSeparator(); got != tt.cpSep {
				t.Errorf("ClasspathSeparator() = %q, want %q", got, tt.cpSep)
			}
			if got := tt.script.PathSeparator(); got != tt.pathSep {
				t.Errorf("PathSeparator() = %q, want %q", got, tt.pathSep)
			}
			if got := tt.script.PassThroughArgs(); got != tt.args {
				t.Errorf("PassThroughArgs() = %q, want %q", got, tt.args)
			}
		})
	}
}

func TestParseScript(t *testing.T) {
	t.Parallel()

	got, err := ParseScript("")
	if err != nil {
		t.Fatalf("ParseScript(\"\") error = %v", err)
	}
	if got != ScriptFor(runtime.GOOS) {
		t.Errorf("ParseScript(\"\") = %q, want host flavor", got)
	}

	if got, err := ParseScript("windows"); err != nil || got != ScriptWindows {
		t.Errorf("ParseScript(windows) = %q, %v", got, err)
	}

	_, err = ParseScript("plan9")
	if !errors.Is(err, ErrInvalidScript) {
		t.Errorf("ParseScript(plan9) error = %v, want ErrInvalidScript", err)
	}
}

func TestScriptFor(t *testing.T) {
	t.Parallel()

	if ScriptFor("windows") != ScriptWindows {
		t.Error("ScriptFor(windows) should be ScriptWindows")
	}
	for _, goos := range []string{"linux", "darwin", "freebsd"} {
		if ScriptFor(goos) != ScriptPosix {
			t.Errorf("ScriptFor(%s) should be ScriptPosix", goos)
		}
	}
}
