// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

// ZipEntry is one entry of a zip fixture. Names ending in "/" are
// directories.
type ZipEntry struct {
	Name    string
	Content string
}

// MustWriteZip writes a zip archive at path holding entries in order,
// creating parent directories. The test fails immediately on error.
func MustWriteZip(t testing.TB, path string, entries ...ZipEntry) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", e.Name, err)
		}
		if strings.HasSuffix(e.Name, "/") {
			continue
		}
		if _, err := io.WriteString(w, e.Content); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", e.Name, err)
		}
	}
	MustClose(t, zw)
	MustClose(t, f)
}

// ZipContents is the decoded content of an archive.
type ZipContents struct {
	// Names lists entry names in archive order.
	Names []string
	// Files maps file entry names to their content.
	Files map[string]string
}

// Has reports whether the archive contains an entry named name.
func (z ZipContents) Has(name string) bool {
	return slices.Contains(z.Names, name)
}

// ReadZip decodes every entry of the archive at path.
// The test fails immediately on error.
func ReadZip(t testing.TB, path string) ZipContents {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open zip %s: %v", path, err)
	}
	defer DeferClose(t, r)()

	contents := ZipContents{Files: make(map[string]string)}
	for _, f := range r.File {
		contents.Names = append(contents.Names, f.Name)
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open zip entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		MustClose(t, rc)
		if err != nil {
			t.Fatalf("failed to read zip entry %s: %v", f.Name, err)
		}
		contents.Files[f.Name] = string(data)
	}
	return contents
}
