// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Ccformat formats C++ sources in place with the vendored clang-format.

It changes into the project root, collects the .cc and .h files under src,
and runs clang-format once per file:

	third_party/clang-format/clang-format -i src/...

On Windows the binary is clang-format.exe. With -check, files are not
rewritten; clang-format runs with --dry-run --Werror and every file that
needs formatting is reported as an error. Files are formatted one at a time
unless -j asks for more. Output of each file is printed in path order once
all runs finish, and failures do not stop the remaining files.

Files given as arguments are formatted instead of the whole tree.

The tool is configured through the ccformat.json member of the
.devtools/config.txtar archive in the project root. All fields are optional:

  - sources: Which files to format, as for cclint. Nothing is excluded by
    default.
  - clang_format: Path or name of the clang-format binary.
  - style: Value for clang-format's -style flag. When empty, clang-format
    uses the nearest .clang-format file.
  - jobs: Number of files formatted at once. Defaults to 1.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/cctools/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
