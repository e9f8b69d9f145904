// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"
)

// stubRender replaces glamour with the identity function for the test.
func stubRender(t *testing.T) {
	t.Helper()
	orig := render
	t.Cleanup(func() { render = orig })
	render = func(in, _ string) (string, error) { return in, nil }
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	// Each entry's body must mention the flag, setting or concept that
	// gets the user unstuck.
	want := map[Id]string{
		FileNotFoundId:             "File not found",
		ConfigLoadFailedId:         "Failed to load configuration",
		DependencyFileInvalidId:    "Invalid dependency file",
		InvalidLibraryNameId:       "Invalid library name",
		InvalidArchivePathId:       ".jar",
		UnreproducibleDependencyId: "--allow-all-dependencies",
		UnstableDependencyId:       "--allow-unstable-deps",
		BundleConflictId:           "--exclude-lib",
		InvalidPatternId:           "doublestar",
		UnsafeArchiveEntryId:       "Unsafe archive entry",
		EntryPointMissingId:        "--no-script",
		JlinkNotFoundId:            "JAVA_HOME",
		JlinkFailedId:              "jlink failed",
		PermissionDeniedId:         "Permission denied",
	}

	all := Values()
	if len(all) != len(want) {
		t.Fatalf("catalog has %d entries, want %d", len(all), len(want))
	}
	for i, entry := range all {
		if entry.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want ids ordered from 1", i, entry.Id())
		}
		if Get(entry.Id()) != entry {
			t.Errorf("Get(%d) disagrees with Values()", entry.Id())
		}
		md := strings.TrimSpace(string(entry.MarkdownMsg()))
		if !strings.HasPrefix(md, "# ") {
			t.Errorf("entry %d does not start with a title: %.30q", entry.Id(), md)
		}
		if !strings.Contains(md, want[entry.Id()]) {
			t.Errorf("entry %d lacks %q", entry.Id(), want[entry.Id()])
		}
	}

	if Get(Id(0)) != nil || Get(Id(len(want)+1)) != nil {
		t.Error("Get should return nil outside the catalog")
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	entry := Get(JlinkNotFoundId)
	links := entry.ExtLinks()
	if len(links) == 0 {
		t.Fatal("jlink entry should link to the JDK documentation")
	}
	links[0] = "changed"
	if entry.ExtLinks()[0] == "changed" {
		t.Error("ExtLinks() exposed the entry's backing slice")
	}
	if entry.DocLinks() != nil {
		t.Errorf("DocLinks() = %v, want nil", entry.DocLinks())
	}
}

//nolint:paralleltest // swaps the package renderer
func TestIssue_Render(t *testing.T) {
	stubRender(t)

	tests := []struct {
		name  string
		issue *Issue
		want  []string
		avoid string
	}{
		{
			name: "links become a see-also list",
			issue: &Issue{
				mdMsg:    "# Broken\n\nbody",
				docLinks: []HttpLink{"https://docs.example.com"},
				extLinks: []HttpLink{"https://jdk.example.com"},
			},
			want: []string{
				"## See also\n",
				"- [https://docs.example.com](https://docs.example.com)\n",
				"- [https://jdk.example.com](https://jdk.example.com)\n",
			},
		},
		{
			name:  "no links",
			issue: &Issue{mdMsg: "# Broken\n\nbody"},
			want:  []string{"# Broken"},
			avoid: "See also",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.issue.Render("")
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Render() = %q, missing %q", out, w)
				}
			}
			if tt.avoid != "" && strings.Contains(out, tt.avoid) {
				t.Errorf("Render() = %q, should not contain %q", out, tt.avoid)
			}
		})
	}

	for _, entry := range Values() {
		if out, err := entry.Render(""); err != nil || out == "" {
			t.Errorf("entry %d: Render() = %q, %v", entry.Id(), out, err)
		}
	}
}

func TestIssue_RenderGlamour(t *testing.T) {
	t.Parallel()

	out, err := glamour.Render(string(Get(BundleConflictId).MarkdownMsg()), "notty")
	if err != nil {
		t.Fatalf("glamour.Render() error: %v", err)
	}
	if !strings.Contains(out, "Conflicting files in bundle") {
		t.Errorf("rendered output lost the title: %q", out)
	}
}
