// SPDX-License-Identifier: MPL-2.0

package jar

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/invowk/badigeon/pkg/fspath"
)

// writer streams entries into a zip container and remembers which names it
// has written.
type writer struct {
	file    *os.File
	zw      *zip.Writer
	self    fs.FileInfo
	now     time.Time
	seen    map[string]struct{}
	entries []string
}

func create(path string, now time.Time) (*writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	self, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}
	return &writer{
		file: f,
		zw:   zip.NewWriter(f),
		self: self,
		now:  now,
		seen: make(map[string]struct{}),
	}, nil
}

// Close flushes the central directory and closes the file.
func (w *writer) Close() (err error) {
	defer func() {
		if closeErr := w.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

// Entries returns entry names in write order.
func (w *writer) Entries() []string {
	return w.entries
}

// AddBytes writes data under name, stamped with the writer's clock.
func (w *writer) AddBytes(name string, data []byte) error {
	header := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: w.now}
	header.SetMode(0o644)
	dst, ok, err := w.create(header)
	if err != nil || !ok {
		return err
	}
	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// AddDir writes a directory entry for name, keeping the directory's
// modification time.
func (w *writer) AddDir(name string, info fs.FileInfo) error {
	header := &zip.FileHeader{
		Name:     strings.TrimSuffix(name, "/") + "/",
		Method:   zip.Store,
		Modified: info.ModTime(),
	}
	header.SetMode(info.Mode())
	_, _, err := w.create(header)
	return err
}

// AddFile copies the file at path into the entry name. The archive being
// written is never added to itself.
func (w *writer) AddFile(name, path string, info fs.FileInfo) (err error) {
	if os.SameFile(w.self, info) {
		slog.Debug("skipping the archive being written", "path", path)
		return nil
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = name
	header.Method = zip.Deflate

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	dst, ok, err := w.create(header)
	if err != nil || !ok {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write entry %s: %w", name, err)
	}
	return nil
}

// create opens a new entry. ok is false when the name was already written.
func (w *writer) create(header *zip.FileHeader) (io.Writer, bool, error) {
	isDir := strings.HasSuffix(header.Name, "/")
	name, valid := fspath.CleanEntryName(header.Name)
	if !valid {
		return nil, false, fmt.Errorf("invalid archive entry name %q", header.Name)
	}
	if isDir {
		name += "/"
	}
	header.Name = name

	if _, dup := w.seen[name]; dup {
		slog.Debug("skipping duplicate archive entry", "entry", name)
		return nil, false, nil
	}

	dst, err := w.zw.CreateHeader(header)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	w.seen[name] = struct{}{}
	w.entries = append(w.entries, name)
	return dst, true, nil
}
