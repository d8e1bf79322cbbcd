// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Cclint checks C++ sources with the vendored cpplint.

It changes into the project root, collects the .cc and .h files under src,
and runs third_party/cpplint/cpplint.py over all of them in one process:

	python3 third_party/cpplint/cpplint.py --root=src \
		--filter=-build/include,-readability/check src/...

The generated zevv-peep.h and the unused entry_linux.cc are skipped. A
non-zero cpplint exit status is reported as an error.

Files given as arguments are linted instead of the whole tree, after the
same filters are applied.

The tool is configured through the cclint.json member of the
.devtools/config.txtar archive in the project root. All fields are optional:

  - sources.root: Directory to walk. Defaults to "src".
  - sources.include: Doublestar patterns of files to lint. Patterns without
    a slash match base names. Defaults to ["*.cc", "*.h"].
  - sources.exclude: Path suffixes to skip.
  - sources.ignore_file: A .gitignore file whose rules also apply.
  - python: Python interpreter. Looked up on PATH when empty.
  - cpplint: Path to cpplint.py.
  - root: Value of cpplint's --root flag.
  - filters: cpplint filter list. An empty list lints with cpplint's
    defaults.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/cctools/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
