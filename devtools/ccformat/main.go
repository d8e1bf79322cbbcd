// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"go.astrophena.name/cctools/cli"
	"go.astrophena.name/cctools/devtools/internal"
	"go.astrophena.name/cctools/internal/invoke"
	"go.astrophena.name/cctools/internal/srcwalk"
	"go.astrophena.name/cctools/logger"
	"go.astrophena.name/cctools/syncx"
)

type config struct {
	Sources     srcwalk.Options `json:"sources"`
	ClangFormat string          `json:"clang_format"`
	Style       string          `json:"style"`
	Jobs        int             `json:"jobs"`
}

func defaultConfig() config {
	return config{
		Sources: srcwalk.Options{
			Root:    "src",
			Include: srcwalk.DefaultInclude(),
		},
		ClangFormat: invoke.DefaultClangFormat(runtime.GOOS),
		Jobs:        1,
	}
}

func main() { cli.Main(new(app)) }

type app struct {
	dry   bool
	check bool
	jobs  int
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.dry, "dry", false, "Print the clang-format commands instead of running them.")
	fs.BoolVar(&a.check, "check", false, "Report files that need formatting without changing them.")
	fs.IntVar(&a.jobs, "j", 0, "Format up to `n` files at once. Overrides the configured number of jobs.")
}

type result struct {
	output []byte
	err    error
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	_, args, err := internal.EnsureRoot(env.Args...)
	if err != nil {
		return err
	}

	cfg, err := internal.LoadConfig("ccformat.json", defaultConfig())
	if err != nil {
		return err
	}
	if a.jobs < 0 {
		return fmt.Errorf("%w: -j must not be negative", cli.ErrInvalidArgs)
	}
	if a.jobs > 0 {
		cfg.Jobs = a.jobs
	}
	cfg.Jobs = max(cfg.Jobs, 1)

	files, err := internal.Sources(ctx, cfg.Sources, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn(ctx, "no files to format", slog.String("root", cfg.Sources.Root))
		return nil
	}

	binary, err := invoke.Resolve(cfg.ClangFormat)
	if err != nil {
		return err
	}
	tool := invoke.ClangFormat{Binary: binary, Style: cfg.Style, Check: a.check}

	if a.dry {
		for _, f := range files {
			fmt.Fprintln(env.Stdout, tool.Command(f))
		}
		return nil
	}

	progress := newProgress(env, len(files))
	var results syncx.Map[string, result]

	g := new(errgroup.Group)
	g.SetLimit(cfg.Jobs)
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			cmd := tool.Command(f)
			logger.Debug(ctx, "running clang-format", slog.String("command", cmd.String()))
			out, err := cmd.CombinedOutput(ctx)
			results.Store(f, result{output: out, err: err})
			progress.done(f)
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	var errs []error
	for _, f := range results.Keys() {
		r, _ := results.Load(f)
		if r.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, r.err))
			continue
		}
		if len(r.output) > 0 {
			env.Stdout.Write(r.output)
		}
	}
	if len(errs) > 0 {
		verb := "formatting"
		if a.check {
			verb = "checking"
		}
		return fmt.Errorf("%s failed for %d of %d files:\n%w", verb, len(errs), len(files), errors.Join(errs...))
	}

	logger.Info(ctx, "formatted files", slog.Int("files", len(files)), slog.Bool("check", a.check))
	return nil
}

// progress reports finished files on stderr when it is a terminal.
type progress struct {
	env      *cli.Env
	total    int
	finished atomic.Int32
	width    int
	enabled  bool
}

func newProgress(env *cli.Env, total int) *progress {
	p := &progress{env: env, total: total}
	fd, ok := cli.Terminal(env.Stderr)
	if !ok {
		return p
	}
	p.enabled = true
	if w, _, err := term.GetSize(fd); err == nil {
		p.width = w
	}
	return p
}

func (p *progress) done(file string) {
	n := int(p.finished.Add(1))
	if p.enabled {
		p.env.Logf("%s", progressMessage(n, p.total, file, p.width))
	}
}

const ellipsis = "..."

// progressMessage formats a progress line that fits into terminalWidth
// columns. A zero width disables shortening.
func progressMessage(current, total int, file string, terminalWidth int) string {
	prefix := fmt.Sprintf("[%d/%d] Formatting ", current, total)
	if terminalWidth <= 0 {
		return prefix + file
	}
	avail := terminalWidth - len(prefix)
	if avail <= 0 {
		return prefix[:terminalWidth]
	}
	name := []rune(file)
	if len(name) <= avail {
		return prefix + file
	}
	if avail <= len(ellipsis) {
		return prefix + string(name[:avail])
	}
	return prefix + string(name[:avail-len(ellipsis)]) + ellipsis
}
