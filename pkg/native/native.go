// SPDX-License-Identifier: MPL-2.0

// Package native extracts native libraries embedded in dependency archives
// into a bundle.
package native

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/invowk/badigeon/pkg/deps"
	"github.com/invowk/badigeon/pkg/fspath"
	"github.com/invowk/badigeon/pkg/types"
)

// DefaultNativesPath is the bundle subfolder receiving native libraries.
const DefaultNativesPath = "lib"

// ErrUnsafeEntry is returned for archive entries that would be written
// outside the natives folder.
var ErrUnsafeEntry = errors.New("archive entry escapes the output folder")

// DefaultPatterns match shared and static native libraries of the common
// platforms.
var DefaultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.so$`),
	regexp.MustCompile(`\.so(\.[0-9]+)+$`),
	regexp.MustCompile(`\.dylib$`),
	regexp.MustCompile(`\.jnilib$`),
	regexp.MustCompile(`\.dll$`),
	regexp.MustCompile(`\.a$`),
	regexp.MustCompile(`\.lib$`),
}

type (
	// Rule selects the entries of one dependency's archives.
	Rule struct {
		// Prefix is the entry folder holding the libraries. It is stripped
		// from extracted paths. An empty prefix selects the whole archive.
		Prefix   string
		Patterns []*regexp.Regexp
	}

	// Options configures Extract.
	Options struct {
		OutputRoot string
		// NativesPath is resolved against OutputRoot unless absolute.
		// Defaults to DefaultNativesPath.
		NativesPath  string
		Dependencies []deps.ResolvedDependency
		// Prefixes declares which dependencies are scanned and the entry
		// folder of each.
		Prefixes map[types.LibraryName]string
		// Patterns defaults to DefaultPatterns.
		Patterns []*regexp.Regexp
		// Claim, when set, is called before each library is written, with
		// the source as archive!/entry. An error aborts extraction.
		Claim func(source, dest string) error
	}
)

// Match reports whether entry is selected and returns its path below the
// prefix. The path is not normalized; callers pass it through
// fspath.CleanEntryName.
func (r Rule) Match(entry string) (string, bool) {
	if strings.HasSuffix(entry, "/") || !matchesAny(r.Patterns, entry) {
		return "", false
	}

	prefix := strings.Trim(r.Prefix, "/")
	rel := entry
	if prefix != "" {
		var ok bool
		if rel, ok = strings.CutPrefix(entry, prefix+"/"); !ok {
			return "", false
		}
	}
	return rel, true
}

// Extract copies native libraries from the archives of every dependency
// with a declared prefix. It returns the output root.
func Extract(ctx context.Context, opts Options) (string, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	nativesPath := opts.NativesPath
	if nativesPath == "" {
		nativesPath = DefaultNativesPath
	}
	outDir := fspath.ResolveUnder(opts.OutputRoot, nativesPath)

	for _, dep := range opts.Dependencies {
		prefix, declared := opts.Prefixes[dep.Lib]
		if !declared {
			continue
		}
		for _, p := range dep.Paths {
			if !deps.IsArchive(p) {
				continue
			}
			if _, err := extract(ctx, p, Rule{Prefix: prefix, Patterns: patterns}, outDir, opts.Claim); err != nil {
				return "", fmt.Errorf("failed to extract natives of %s: %w", dep.Lib, err)
			}
		}
	}
	return opts.OutputRoot, nil
}

// ExtractFile extracts the native libraries under prefix from one archive
// into outDir and returns the written files.
func ExtractFile(ctx context.Context, archivePath, prefix, outDir string, patterns []*regexp.Regexp) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return extract(ctx, archivePath, Rule{Prefix: prefix, Patterns: patterns}, outDir, nil)
}

func extract(ctx context.Context, archivePath string, rule Rule, outDir string, claim func(source, dest string) error) (written []string, err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		rel, ok := rule.Match(f.Name)
		if !ok {
			continue
		}
		clean, safe := fspath.CleanEntryName(rel)
		if !safe {
			return written, fmt.Errorf("%w: %s", ErrUnsafeEntry, f.Name)
		}
		dest := filepath.Join(outDir, filepath.FromSlash(clean))
		if claim != nil {
			if err := claim(archivePath+"!/"+f.Name, dest); err != nil {
				return written, err
			}
		}
		if err := copyEntry(f, dest); err != nil {
			return written, err
		}
		slog.Debug("extracted native library", "archive", archivePath, "entry", f.Name, "dest", dest)
		written = append(written, dest)
	}
	return written, nil
}

func copyEntry(f *zip.File, dest string) (err error) {
	if err = os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return nil
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
