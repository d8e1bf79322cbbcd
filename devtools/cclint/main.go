// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"go.astrophena.name/cctools/cli"
	"go.astrophena.name/cctools/devtools/internal"
	"go.astrophena.name/cctools/internal/invoke"
	"go.astrophena.name/cctools/internal/srcwalk"
	"go.astrophena.name/cctools/logger"
)

type config struct {
	Sources srcwalk.Options `json:"sources"`
	Python  string          `json:"python"`
	Cpplint string          `json:"cpplint"`
	Root    string          `json:"root"`
	Filters []string        `json:"filters"`
}

func defaultConfig() config {
	return config{
		Sources: srcwalk.Options{
			Root:    "src",
			Include: srcwalk.DefaultInclude(),
			Exclude: []string{
				// Generated.
				"zevv-peep.h",
				// Not used yet.
				"entry_linux.cc",
			},
		},
		Cpplint: invoke.DefaultCpplint,
		Root:    "src",
		Filters: []string{
			// We don't have any include tree.
			"-build/include",
			// We don't have the _EQ variants it wants.
			"-readability/check",
		},
	}
}

func main() { cli.Main(new(app)) }

type app struct {
	dry    bool
	filter *string
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.dry, "dry", false, "Print the cpplint command instead of running it.")
	fs.Func("filter", "Comma-separated cpplint `filters`, replacing the configured ones. Pass an empty value to use cpplint's defaults.", func(s string) error {
		a.filter = &s
		return nil
	})
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	_, args, err := internal.EnsureRoot(env.Args...)
	if err != nil {
		return err
	}

	cfg, err := internal.LoadConfig("cclint.json", defaultConfig())
	if err != nil {
		return err
	}
	if a.filter != nil {
		cfg.Filters = splitList(*a.filter)
	}

	files, err := internal.Sources(ctx, cfg.Sources, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn(ctx, "no files to lint", slog.String("root", cfg.Sources.Root))
		return nil
	}

	python, err := resolvePython(cfg.Python)
	if err != nil {
		return err
	}
	script, err := invoke.Resolve(cfg.Cpplint)
	if err != nil {
		return err
	}

	cmd := invoke.Cpplint{
		Python:  python,
		Script:  script,
		Root:    cfg.Root,
		Filters: cfg.Filters,
	}.Command(files)

	if a.dry {
		fmt.Fprintln(env.Stdout, cmd)
		return nil
	}

	logger.Debug(ctx, "running cpplint", slog.String("command", cmd.String()))
	if err := cmd.Run(ctx, env.Stdout, env.Stderr); err != nil {
		return fmt.Errorf("linting %d files: %w", len(files), err)
	}
	logger.Info(ctx, "lint passed", slog.Int("files", len(files)))
	return nil
}

func resolvePython(configured string) (string, error) {
	if configured != "" {
		return invoke.Resolve(configured)
	}
	return invoke.ResolveFirst(invoke.Pythons...)
}

func splitList(s string) []string {
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
