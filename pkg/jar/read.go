// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/zeebo/blake3"

	"github.com/invowk/badigeon/pkg/manifest"
)

// Contents is a summary of an existing archive.
type Contents struct {
	Path     string
	Entries  []string
	Manifest *manifest.Manifest
	Digest   string
}

// Inspect lists the entries of the archive at path and parses its manifest
// when present.
func Inspect(path string) (contents *Contents, err error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	contents = &Contents{Path: path}
	for _, f := range r.File {
		contents.Entries = append(contents.Entries, f.Name)
		if f.Name != manifest.EntryName {
			continue
		}
		if contents.Manifest, err = readManifest(f); err != nil {
			return nil, err
		}
	}

	if contents.Digest, err = Digest(path); err != nil {
		return nil, err
	}
	return contents, nil
}

func readManifest(f *zip.File) (m *manifest.Manifest, err error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	m, err = manifest.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

// Digest returns the BLAKE3 hex digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer func() { _ = f.Close() }() // Read-only; close error is non-critical

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
