// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner invokes the benchmark supervisor and captures its raw
// data output.
//
// The supervisor is run as
//
//	<path> <prefix...> --github-user=<user> [--branch=<branch>]
//		[-w<worker>...] [-x<worker>...] [--suite] [<extra>...]
//		bench --raw-data --uncompressed
//
// and must write one record per line to stdout.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Defaults for the supervisor invocation.
const (
	DefaultPath       = "cargo"
	DefaultGitHubUser = "fenhl"
)

// DefaultPrefix is the argument prefix used when Command.Prefix is nil.
var DefaultPrefix = []string{"run", "--release", "--"}

// A Command describes one benchmark invocation.
type Command struct {
	// Path is the executable to run. If empty, DefaultPath is used.
	Path string
	// Prefix is passed before the supervisor's own arguments.
	// If nil, DefaultPrefix is used.
	Prefix []string

	// GitHubUser owns the randomizer fork to benchmark.
	// If empty, DefaultGitHubUser is used.
	GitHubUser string
	// Branch selects a branch of the fork. Empty means the default
	// branch.
	Branch string

	// Workers restricts the run to the named workers;
	// ExcludeWorkers removes the named workers.
	Workers        []string
	ExcludeWorkers []string

	// Suite runs the whole benchmarking suite rather than the
	// default settings only.
	Suite bool

	// Extra arguments go just before the bench subcommand.
	Extra []string

	// Dir is the working directory. Empty means the current one.
	Dir string
	// Env is added to the inherited environment.
	Env []string
}

// Argv returns the full argument vector of c, including the
// executable.
func (c *Command) Argv() []string {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	prefix := c.Prefix
	if prefix == nil {
		prefix = DefaultPrefix
	}
	user := c.GitHubUser
	if user == "" {
		user = DefaultGitHubUser
	}

	argv := append([]string{path}, prefix...)
	argv = append(argv, "--github-user="+user)
	if c.Branch != "" {
		argv = append(argv, "--branch="+c.Branch)
	}
	for _, w := range c.Workers {
		argv = append(argv, "-w"+w)
	}
	for _, w := range c.ExcludeWorkers {
		argv = append(argv, "-x"+w)
	}
	if c.Suite {
		argv = append(argv, "--suite")
	}
	argv = append(argv, c.Extra...)
	return append(argv, "bench", "--raw-data", "--uncompressed")
}

func (c *Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// ErrExternalProcess matches every *ProcessError.
var ErrExternalProcess = errors.New("benchmark process failed")

// A ProcessError reports a benchmark process that could not be started
// or that exited unsuccessfully.
type ProcessError struct {
	Argv []string
	// ExitCode is the process's exit status, or -1 if it did not
	// exit normally.
	ExitCode int
	// Stderr is what the process wrote to standard error.
	Stderr []byte
	Err    error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Argv, " "), e.Err)
	if s := strings.TrimSpace(string(e.Stderr)); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

func (e *ProcessError) Is(target error) bool {
	return target == ErrExternalProcess
}

// Run runs c to completion and returns everything it wrote to stdout.
// If the process cannot be started, exits with a non-zero status, or is
// killed because ctx is done, Run returns a *ProcessError.
func Run(ctx context.Context, c *Command) ([]byte, error) {
	argv := c.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		perr := &ProcessError{Argv: argv, ExitCode: -1, Stderr: stderr.Bytes(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			perr.Err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return nil, perr
	}
	return stdout.Bytes(), nil
}
