// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/cctools/cli"
	"go.astrophena.name/cctools/cli/clitest"
	"go.astrophena.name/cctools/internal/invoke"
	"go.astrophena.name/cctools/testutil"
)

const marker = "// clang-formatted\n"

// With CCFORMAT_FAKE set the test binary stands in for clang-format. With -i
// it appends marker to the file. With --dry-run it fails for files lacking
// the marker. Files named broken.cc always fail.
func TestMain(m *testing.M) {
	if os.Getenv("CCFORMAT_FAKE") == "" {
		os.Exit(m.Run())
	}
	args := os.Args[1:]
	file := args[len(args)-1]
	if filepath.Base(file) == "broken.cc" {
		fmt.Fprintf(os.Stderr, "%s:1:12: error: expected ')'\n", file)
		os.Exit(1)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	switch args[0] {
	case "-i":
		if !bytes.HasSuffix(data, []byte(marker)) {
			data = append(data, marker...)
		}
		if err := os.WriteFile(file, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	case "--dry-run":
		if !bytes.HasSuffix(data, []byte(marker)) {
			fmt.Fprintf(os.Stderr, "%s:1:1: error: code should be clang-formatted [-Wclang-format-violations]\n", file)
			os.Exit(1)
		}
	default:
		fmt.Printf("style %s\n", strings.TrimPrefix(args[0], "-style="))
	}
	os.Exit(0)
}

// setup extracts the test tree, points the configuration at the test binary,
// and returns the tree's root through dir.
func setup(dir *string, extra map[string]any) func(t *testing.T) *app {
	return func(t *testing.T) *app {
		root, _ := testutil.Tree(t, filepath.Join("testdata", "tree.txtar"))
		*dir = root

		exe, err := os.Executable()
		if err != nil {
			t.Fatal(err)
		}
		cfg := map[string]any{"clang_format": exe}
		for k, v := range extra {
			cfg[k] = v
		}
		data, err := json.Marshal(cfg)
		if err != nil {
			t.Fatal(err)
		}
		configPath := filepath.Join(root, ".devtools", "config.txtar")
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(configPath, fmt.Appendf(nil, "-- ccformat.json --\n%s\n", data), 0o644); err != nil {
			t.Fatal(err)
		}

		t.Setenv("CCFORMAT_FAKE", "1")
		t.Chdir(root)
		return new(app)
	}
}

func formatted(t *testing.T, dir string) []string {
	t.Helper()
	var got []string
	for _, f := range []string{"src/gfx.h", "src/main.cc", "src/ui/README", "src/ui/focus.cc", "src/zevv-peep.h", "broken/broken.cc"} {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(f)))
		if err != nil {
			t.Fatal(err)
		}
		if bytes.HasSuffix(data, []byte(marker)) {
			got = append(got, f)
		}
	}
	return got
}

func TestRun(t *testing.T) {
	var dir string
	all := []string{"src/gfx.h", "src/main.cc", "src/ui/focus.cc", "src/zevv-peep.h"}

	clitest.Run(t, setup(&dir, nil), map[string]clitest.Case[*app]{
		"formats every source file": {
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, formatted(t, dir), all)
			},
		},
		"parallel jobs": {
			Args: []string{"-j", "3"},
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, formatted(t, dir), all)
			},
		},
		"explicit files": {
			Args: []string{"src/main.cc", "src/ui/README"},
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, formatted(t, dir), []string{"src/main.cc"})
			},
		},
		"check reports unformatted files": {
			Args:        []string{"-check"},
			WantErrType: &invoke.ExitError{},
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, formatted(t, dir), []string(nil))
			},
		},
		"dry run prints commands": {
			Args:         []string{"-dry", "-check"},
			WantInStdout: "--dry-run --Werror " + filepath.Join("src", "gfx.h") + "\n",
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, formatted(t, dir), []string(nil))
			},
		},
		"failure does not stop other files": {
			Args:        []string{"broken/broken.cc", "src/main.cc"},
			WantErrType: &invoke.ExitError{},
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, formatted(t, dir), []string{"src/main.cc"})
			},
		},
		"negative jobs": {
			Args:    []string{"-j", "-1"},
			WantErr: cli.ErrInvalidArgs,
		},
	})
}

func TestRunStyle(t *testing.T) {
	var dir string
	clitest.Run(t, setup(&dir, map[string]any{"style": "Google"}), map[string]clitest.Case[*app]{
		"style output is printed in path order": {
			Args:         []string{"src/main.cc", "src/gfx.h"},
			WantInStdout: "style Google\nstyle Google\n",
		},
	})
}

func TestCheckAfterFormat(t *testing.T) {
	var dir string
	setupFn := setup(&dir, map[string]any{"jobs": 2})
	clitest.Run(t, func(t *testing.T) *app {
		a := setupFn(t)
		ctx := cli.WithEnv(t.Context(), &cli.Env{
			Getenv: func(string) string { return "" },
			Stdin:  strings.NewReader(""),
			Stdout: io.Discard,
			Stderr: io.Discard,
		})
		if err := new(app).Run(ctx); err != nil {
			t.Fatalf("formatting: %v", err)
		}
		return a
	}, map[string]clitest.Case[*app]{
		"formatted tree passes check": {
			Args: []string{"-check"},
		},
	})
}

func TestProgressMessage(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		current       int
		total         int
		file          string
		terminalWidth int
		want          string
	}{
		"no terminal width does not shorten": {
			current:       1,
			total:         1,
			file:          "src/ui/source_view/source_view.cc",
			terminalWidth: 0,
			want:          "[1/1] Formatting src/ui/source_view/source_view.cc",
		},
		"fits": {
			current:       1,
			total:         2,
			file:          "src/gfx.h",
			terminalWidth: 80,
			want:          "[1/2] Formatting src/gfx.h",
		},
		"small width with ellipsis": {
			current:       2,
			total:         10,
			file:          "src/ui/focus.cc",
			terminalWidth: 26,
			want:          "[2/10] Formatting src/u...",
		},
		"width of the prefix keeps prefix only": {
			current:       3,
			total:         10,
			file:          "src/ui/focus.cc",
			terminalWidth: 18,
			want:          "[3/10] Formatting ",
		},
		"narrower than the prefix trims the prefix": {
			current:       3,
			total:         10,
			file:          "src/ui/focus.cc",
			terminalWidth: 10,
			want:          "[3/10] For",
		},
		"very small width trims without ellipsis": {
			current:       2,
			total:         100,
			file:          "src/ui/focus.cc",
			terminalWidth: 21,
			want:          "[2/100] Formatting sr",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := progressMessage(tc.current, tc.total, tc.file, tc.terminalWidth)
			if got != tc.want {
				t.Fatalf("progressMessage() = %q, want %q", got, tc.want)
			}
			if tc.terminalWidth > 0 && len(got) > tc.terminalWidth {
				t.Fatalf("progressMessage() = %q is wider than %d", got, tc.terminalWidth)
			}
		})
	}
}
