// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package txtar reads txtar archives and extracts them to directories on
// disk.
//
// The archive format itself is implemented by [golang.org/x/tools/txtar];
// this package adds helpers used by the devtools configuration loader and by
// tests.
package txtar

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/tools/txtar"
)

// Archive is a collection of files.
type Archive = txtar.Archive

// File is a single file in an archive.
type File = txtar.File

// Parse parses the serialized form of an Archive.
func Parse(data []byte) *Archive { return txtar.Parse(data) }

// ParseFile parses the named file as an archive.
func ParseFile(name string) (*Archive, error) { return txtar.ParseFile(name) }

// Lookup returns the data of the first file in a with the given name.
func Lookup(a *Archive, name string) (data []byte, ok bool) {
	for _, f := range a.Files {
		if f.Name == name {
			return f.Data, true
		}
	}
	return nil, false
}

// Extract writes the files of a to dir, creating parent directories as
// needed. File names must be relative and stay within dir.
func Extract(a *Archive, dir string) error {
	for _, f := range a.Files {
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			return fmt.Errorf("txtar: file %q escapes destination directory", f.Name)
		}
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// ErrNoArchive is returned by ParseFileIfExists when the archive is absent.
var ErrNoArchive = errors.New("txtar: archive does not exist")

// ParseFileIfExists is like ParseFile, but reports a missing file as
// ErrNoArchive wrapped together with [fs.ErrNotExist].
func ParseFileIfExists(name string) (*Archive, error) {
	a, err := ParseFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrNoArchive, err)
	}
	return a, err
}
