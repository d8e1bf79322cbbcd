// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest provides table-driven testing of [cli.App] implementations.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"go.astrophena.name/cctools/cli"
)

// Case describes a single invocation of an application under test.
type Case[T cli.App] struct {
	// Args are the command-line arguments passed to the application.
	Args []string
	// Stdin is the application's standard input. Empty if nil.
	Stdin io.Reader
	// Env holds environment variables visible through Getenv.
	Env map[string]string

	// WantErr, if set, must match the returned error with errors.Is.
	WantErr error
	// WantErrType, if set, must match the returned error with errors.As.
	WantErrType error
	// WantNothingPrinted requires both stdout and stderr to stay empty.
	WantNothingPrinted bool
	// WantInStdout and WantInStderr must be substrings of the respective
	// outputs.
	WantInStdout string
	WantInStderr string

	// CheckFunc, if set, is called with the application after it ran.
	CheckFunc func(*testing.T, T)
}

// Run runs each case as a subtest. setup is called once per case to build a
// fresh application.
func Run[T cli.App](t *testing.T, setup func(*testing.T) T, cases map[string]Case[T]) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)

			var stdout, stderr bytes.Buffer
			stdin := tc.Stdin
			if stdin == nil {
				stdin = strings.NewReader("")
			}
			env := &cli.Env{
				Args:   tc.Args,
				Stdin:  stdin,
				Stdout: &stdout,
				Stderr: &stderr,
				Getenv: func(key string) string { return tc.Env[key] },
			}

			err := cli.Run(cli.WithEnv(context.Background(), env), app)
			check(t, tc, err, stdout.String(), stderr.String())

			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}

func check[T cli.App](t *testing.T, tc Case[T], err error, stdout, stderr string) {
	t.Helper()

	switch {
	case tc.WantErr != nil:
		if !errors.Is(err, tc.WantErr) {
			t.Fatalf("want error %v, got %v", tc.WantErr, err)
		}
	case tc.WantErrType != nil:
		target := reflect.New(reflect.TypeOf(tc.WantErrType))
		if !errors.As(err, target.Interface()) {
			t.Fatalf("want error of type %T, got %v", tc.WantErrType, err)
		}
	case err != nil:
		t.Fatalf("unexpected error: %v\nstderr:\n%s", err, stderr)
	}

	if tc.WantNothingPrinted && (stdout != "" || stderr != "") {
		t.Errorf("want nothing printed, got stdout %q and stderr %q", stdout, stderr)
	}
	if tc.WantInStdout != "" && !strings.Contains(stdout, tc.WantInStdout) {
		t.Errorf("stdout must contain %q, got %q", tc.WantInStdout, stdout)
	}
	if tc.WantInStderr != "" && !strings.Contains(stderr, tc.WantInStderr) {
		t.Errorf("stderr must contain %q, got %q", tc.WantInStderr, stderr)
	}
}
