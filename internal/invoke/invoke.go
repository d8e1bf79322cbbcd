// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package invoke builds and runs command lines for the vendored C++ tools.
//
// Commands are executed directly, never through a shell, so file names reach
// the tool verbatim.
package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Command is a single tool invocation.
type Command struct {
	// Path is the executable to run.
	Path string
	// Args are the arguments passed to the executable.
	Args []string
}

// Argv returns the full argument vector, starting with Path.
func (c *Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// String returns the command line with arguments quoted where needed, for
// display only.
func (c *Command) String() string {
	argv := c.Argv()
	quoted := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\n\"'\\$") {
			a = strconv.Quote(a)
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}

// ExitError reports a tool that exited with a non-zero status.
type ExitError struct {
	Command *Command
	Code    int
	// Output holds the combined output when it was captured.
	Output []byte
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", filepath.Base(e.Command.Path), e.Code)
	if len(e.Output) > 0 {
		msg += ":\n" + strings.TrimRight(string(e.Output), "\n")
	}
	return msg
}

// Run executes the command, connecting it to stdout and stderr. Canceling
// ctx kills the process.
func (c *Command) Run(ctx context.Context, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return c.wrap(ctx, cmd.Run(), nil)
}

// CombinedOutput executes the command and returns its combined stdout and
// stderr. On a non-zero exit the returned *ExitError carries the output too.
func (c *Command) CombinedOutput(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), c.wrap(ctx, err, buf.Bytes())
}

func (c *Command) wrap(ctx context.Context, err error, output []byte) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Command: c, Code: ee.ExitCode(), Output: output}
	}
	return fmt.Errorf("running %s: %w", c.Path, err)
}

// ErrToolNotFound is returned when a configured tool cannot be located.
var ErrToolNotFound = errors.New("tool not found")

// LookPath is used to find executables given by bare name. Tests may
// replace it.
var LookPath = exec.LookPath

// Resolve locates a tool. A bare name is looked up on PATH; anything with a
// directory component is taken relative to the working directory and must
// exist.
func Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty path", ErrToolNotFound)
	}
	if !strings.ContainsRune(filepath.ToSlash(name), '/') {
		p, err := LookPath(name)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrToolNotFound, name, err)
		}
		return p, nil
	}
	if _, err := os.Stat(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		return "", err
	}
	return filepath.Abs(name)
}

// ResolveFirst returns the first of names that Resolve can locate.
func ResolveFirst(names ...string) (string, error) {
	var errs []error
	for _, name := range names {
		p, err := Resolve(name)
		if err == nil {
			return p, nil
		}
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}
