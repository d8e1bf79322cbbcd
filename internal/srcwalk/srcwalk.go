// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package srcwalk collects source files from a directory tree.
package srcwalk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	ignore "github.com/sabhiram/go-gitignore"

	"go.astrophena.name/cctools/logger"
)

// Options control which files Collect returns.
type Options struct {
	// Root is the directory to walk.
	Root string `json:"root"`
	// Include lists doublestar patterns. A pattern without a slash is matched
	// against the base name, otherwise against the slash-separated path
	// relative to Root. A file is collected if any pattern matches.
	Include []string `json:"include"`
	// Exclude lists path suffixes. A file whose slash-separated path ends
	// with any of them is skipped.
	Exclude []string `json:"exclude"`
	// IgnoreFile, if set, names a .gitignore file. Paths are matched
	// relative to the directory containing it. A missing file is ignored.
	IgnoreFile string `json:"ignore_file"`
}

// DefaultInclude matches C++ sources and headers.
func DefaultInclude() []string { return []string{"*.cc", "*.h"} }

// ErrBadPattern is returned for malformed include patterns.
var ErrBadPattern = errors.New("bad include pattern")

type matcher struct {
	opts      Options
	ignore    *ignore.GitIgnore
	ignoreDir string
}

func newMatcher(opts Options) (*matcher, error) {
	for _, p := range opts.Include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	m := &matcher{opts: opts}
	if opts.IgnoreFile == "" {
		return m, nil
	}
	gi, err := ignore.CompileIgnoreFile(opts.IgnoreFile)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", opts.IgnoreFile, err)
	}
	dir, err := filepath.Abs(filepath.Dir(opts.IgnoreFile))
	if err != nil {
		return nil, err
	}
	m.ignore, m.ignoreDir = gi, dir
	return m, nil
}

// ignored reports whether p is matched by the gitignore file.
func (m *matcher) ignored(p string, isDir bool) bool {
	if m.ignore == nil {
		return false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(m.ignoreDir, abs)
	if err != nil || !filepath.IsLocal(rel) {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		return m.ignore.MatchesPath(rel + "/")
	}
	return m.ignore.MatchesPath(rel)
}

func (m *matcher) excluded(p string) bool {
	p = filepath.ToSlash(p)
	for _, suffix := range m.opts.Exclude {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

// included reports whether rel, a slash-separated path relative to the walk
// root, matches an include pattern.
func (m *matcher) included(rel string) bool {
	base := path.Base(rel)
	for _, p := range m.opts.Include {
		name := rel
		if !strings.Contains(p, "/") {
			name = base
		}
		// Patterns were validated in newMatcher.
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Collect walks opts.Root and returns the regular files accepted by opts,
// joined on opts.Root and sorted lexically. Symbolic links to regular files
// are returned like the files themselves; symbolic links to directories are
// not descended into.
func Collect(ctx context.Context, opts Options) ([]string, error) {
	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(opts.Root); err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}

	var (
		files []string
		size  int64
	)
	err = filepath.WalkDir(opts.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != opts.Root && m.ignored(p, true) {
				return filepath.SkipDir
			}
			return nil
		}
		var info fs.FileInfo
		switch {
		case d.Type().IsRegular():
			info, _ = d.Info()
		case d.Type()&fs.ModeSymlink != 0:
			// Links to regular files are collected. Links to directories are
			// not followed, and dangling links are skipped.
			fi, err := os.Stat(p)
			if err != nil || !fi.Mode().IsRegular() {
				return nil
			}
			info = fi
		default:
			return nil
		}
		rel, err := filepath.Rel(opts.Root, p)
		if err != nil {
			return err
		}
		if !m.included(filepath.ToSlash(rel)) || m.excluded(p) || m.ignored(p, false) {
			return nil
		}
		if info != nil {
			size += info.Size()
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	logger.Debug(ctx, "collected source files",
		slog.String("root", opts.Root),
		slog.Int("count", len(files)),
		slog.String("size", humanize.Bytes(uint64(size))),
	)
	return files, nil
}

// Filter applies the include, exclude, and ignore rules of opts to an
// explicit list of files. Paths are matched by their base name and their
// path relative to opts.Root when they lie inside it. Every path must name an
// existing regular file.
func Filter(files []string, opts Options) ([]string, error) {
	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: not a regular file", f)
		}
		rel := filepath.Base(f)
		if r, err := filepath.Rel(opts.Root, f); err == nil && filepath.IsLocal(r) {
			rel = r
		}
		if !m.included(filepath.ToSlash(rel)) || m.excluded(f) || m.ignored(f, false) {
			continue
		}
		out = append(out, filepath.Clean(f))
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
