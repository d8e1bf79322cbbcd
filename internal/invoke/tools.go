// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package invoke

import (
	"path/filepath"
	"strings"
)

// Pythons lists interpreter names tried, in order, when no interpreter is
// configured.
var Pythons = []string{"python3", "python"}

// DefaultCpplint is the vendored location of cpplint.py.
var DefaultCpplint = filepath.Join("third_party", "cpplint", "cpplint.py")

// DefaultClangFormat returns the vendored location of clang-format for goos.
func DefaultClangFormat(goos string) string {
	name := "clang-format"
	if goos == "windows" {
		name += ".exe"
	}
	return filepath.Join("third_party", "clang-format", name)
}

// Cpplint describes a cpplint run. All files are checked by one process.
type Cpplint struct {
	// Python is the interpreter.
	Python string
	// Script is the path to cpplint.py.
	Script string
	// Root is passed as --root, so header guards are computed relative to it.
	Root string
	// Filters are joined into a single --filter flag when non-empty.
	Filters []string
}

// Command returns the cpplint command line for files.
func (c Cpplint) Command(files []string) *Command {
	args := []string{c.Script}
	if c.Root != "" {
		args = append(args, "--root="+filepath.ToSlash(c.Root))
	}
	if len(c.Filters) > 0 {
		args = append(args, "--filter="+strings.Join(c.Filters, ","))
	}
	args = append(args, files...)
	return &Command{Path: c.Python, Args: args}
}

// ClangFormat describes clang-format runs. Each file gets its own process.
type ClangFormat struct {
	// Binary is the clang-format executable.
	Binary string
	// Style, if set, is passed as -style. Otherwise clang-format looks for a
	// .clang-format file.
	Style string
	// Check reports needed changes as errors instead of rewriting files.
	Check bool
}

// Command returns the clang-format command line for file.
func (c ClangFormat) Command(file string) *Command {
	var args []string
	if c.Style != "" {
		args = append(args, "-style="+c.Style)
	}
	if c.Check {
		args = append(args, "--dry-run", "--Werror")
	} else {
		args = append(args, "-i")
	}
	args = append(args, file)
	return &Command{Path: c.Binary, Args: args}
}
