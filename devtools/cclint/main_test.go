// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/cctools/cli/clitest"
	"go.astrophena.name/cctools/internal/invoke"
	"go.astrophena.name/cctools/testutil"
)

// With CCLINT_FAKE set the test binary stands in for the Python interpreter:
// it prints the arguments after the script path and fails on any file
// named bad.cc.
func TestMain(m *testing.M) {
	if os.Getenv("CCLINT_FAKE") == "" {
		os.Exit(m.Run())
	}
	args := os.Args[2:]
	fmt.Println(strings.Join(args, " "))
	for _, arg := range args {
		if filepath.Base(arg) == "bad.cc" {
			fmt.Fprintf(os.Stderr, "%s:1:  Missing semicolon  [whitespace/semicolon] [5]\n", arg)
			os.Exit(1)
		}
	}
	os.Exit(0)
}

// setup extracts the test tree and points the configuration at the test
// binary. extra is merged into cclint.json.
func setup(extra map[string]any) func(t *testing.T) *app {
	return func(t *testing.T) *app {
		dir, _ := testutil.Tree(t, filepath.Join("testdata", "tree.txtar"))

		exe, err := os.Executable()
		if err != nil {
			t.Fatal(err)
		}
		cfg := map[string]any{"python": exe}
		for k, v := range extra {
			cfg[k] = v
		}
		data, err := json.Marshal(cfg)
		if err != nil {
			t.Fatal(err)
		}
		writeConfig(t, dir, "cclint.json", data)

		t.Setenv("CCLINT_FAKE", "1")
		t.Chdir(filepath.Join(dir, "src"))
		return new(app)
	}
}

func writeConfig(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, ".devtools", "config.txtar")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	archive := fmt.Sprintf("-- %s --\n%s\n", name, data)
	if err := os.WriteFile(path, []byte(archive), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	const defaultFilter = "--filter=-build/include,-readability/check"

	clitest.Run(t, setup(nil), map[string]clitest.Case[*app]{
		"lints the source tree": {
			WantInStdout: "--root=src " + defaultFilter + " src/gfx.h src/main.cc src/ui/focus.cc\n",
		},
		"empty filter flag uses cpplint defaults": {
			Args:         []string{"-filter="},
			WantInStdout: "--root=src src/gfx.h src/main.cc src/ui/focus.cc\n",
		},
		"filter flag replaces configured filters": {
			Args:         []string{"-filter", "-whitespace, -legal/copyright"},
			WantInStdout: "--root=src --filter=-whitespace,-legal/copyright src/gfx.h",
		},
		"explicit files are filtered": {
			Args:         []string{"main.cc", "zevv-peep.h", "ui/notes.txt"},
			WantInStdout: defaultFilter + " src/main.cc\n",
		},
		"dry run prints the command": {
			Args:         []string{"-dry"},
			WantInStdout: filepath.Join("third_party", "cpplint", "cpplint.py") + " --root=src " + defaultFilter,
		},
		"lint failures are errors": {
			Args:         []string{"../other/bad.cc"},
			WantErrType:  &invoke.ExitError{},
			WantInStderr: "Missing semicolon",
		},
	})
}

func TestRunConfig(t *testing.T) {
	clitest.Run(t, setup(map[string]any{
		"filters": []string{},
		"sources": map[string]any{"root": "src/ui"},
	}), map[string]clitest.Case[*app]{
		"configured tree without filters": {
			WantInStdout: "--root=src src/ui/focus.cc\n",
		},
	})

	clitest.Run(t, setup(map[string]any{
		"sources": map[string]any{"include": []string{"*.py"}},
	}), map[string]clitest.Case[*app]{
		"nothing to lint": {
			WantInStderr: "no files to lint",
		},
	})

	clitest.Run(t, setup(map[string]any{"cpplint": "third_party/missing/cpplint.py"}), map[string]clitest.Case[*app]{
		"missing cpplint": {
			WantErr: invoke.ErrToolNotFound,
		},
	})
}

func TestSplitList(t *testing.T) {
	testutil.AssertEqual(t, splitList(""), []string(nil))
	testutil.AssertEqual(t, splitList(" -a ,,-b/c "), []string{"-a", "-b/c"})
}
