// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package internal holds code shared by the devtools programs: locating the
// project root and loading their configuration.
package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.astrophena.name/cctools/internal/srcwalk"
	"go.astrophena.name/cctools/txtar"
)

// ConfigFile is the path of the devtools configuration archive, relative to
// the project root.
var ConfigFile = filepath.Join(".devtools", "config.txtar")

// rootMarkers identify a project root, in order of precedence.
var rootMarkers = []string{ConfigFile, ".git", "third_party"}

// ErrNoRoot is returned when no ancestor directory looks like a project root.
var ErrNoRoot = errors.New("project root not found")

// FindRoot returns the nearest ancestor of dir (including dir itself) that
// contains one of the root markers.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRoot
		}
		dir = parent
	}
}

// EnsureRoot changes the working directory to the project root and returns
// it. args, interpreted relative to the previous working directory, are
// returned rewritten relative to the root; paths outside the root become
// absolute.
func EnsureRoot(args ...string) (root string, rebased []string, err error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	root, err = FindRoot(wd)
	if err != nil {
		return "", nil, fmt.Errorf("%w from %s", err, wd)
	}
	for _, arg := range args {
		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(wd, arg)
		}
		if rel, err := filepath.Rel(root, abs); err == nil && filepath.IsLocal(rel) {
			abs = rel
		}
		rebased = append(rebased, abs)
	}
	if root != wd {
		if err := os.Chdir(root); err != nil {
			return "", nil, err
		}
	}
	return root, rebased, nil
}

// ErrTrailingData is returned by LoadConfig when a configuration member holds
// more than one JSON value.
var ErrTrailingData = errors.New("unexpected data after the configuration object")

// LoadConfig decodes the JSON member name of the configuration archive on top
// of def. A missing archive or member leaves def untouched. Unknown fields
// and content after the first JSON value are errors. Slices in def may be
// overwritten in place.
func LoadConfig[T any](name string, def T) (T, error) {
	ar, err := txtar.ParseFileIfExists(ConfigFile)
	if errors.Is(err, fs.ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	data, ok := txtar.Lookup(ar, name)
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return def, nil
	}

	cfg := def
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return def, fmt.Errorf("%s: %s: %w", ConfigFile, name, err)
	}
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return def, fmt.Errorf("%s: %s: %w", ConfigFile, name, ErrTrailingData)
	}
	return cfg, nil
}

// Sources returns the files a program should process: args filtered by opts
// when any are given, otherwise the files collected under opts.Root.
func Sources(ctx context.Context, opts srcwalk.Options, args []string) ([]string, error) {
	if len(args) > 0 {
		return srcwalk.Filter(args, opts)
	}
	return srcwalk.Collect(ctx, opts)
}
