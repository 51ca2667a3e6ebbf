// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package exec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cli/safeexec"

	"targetkit.sh/log"
)

type Process struct {
	executable *Executable
	opts       *ExecOptions
	cmd        *exec.Cmd
}

// NewProcess prepares a process to be executed from a given binary name and
// optional execution options
func NewProcess(bin string, args []string, eopts ...ExecOption) (*Process, error) {
	executable, err := NewExecutable(bin, nil, args...)
	if err != nil {
		return nil, err
	}

	return NewProcessFromExecutable(executable, eopts...)
}

// NewProcessFromExecutable prepares a process to be executed from a given
// *Executable object and optional execution options
func NewProcessFromExecutable(executable *Executable, eopts ...ExecOption) (*Process, error) {
	if executable == nil {
		return nil, fmt.Errorf("cannot prepare process without executable")
	}

	opts, err := NewExecOptions(eopts...)
	if err != nil {
		return nil, err
	}

	return &Process{
		executable: executable,
		opts:       opts,
	}, nil
}

// Cmdline returns the full command line to be executed
func (e *Process) Cmdline() string {
	return strings.Join(append([]string{e.executable.bin}, e.executable.Args()...), " ")
}

// LookPath resolves a bare binary name against PATH without considering the
// current working directory.  Paths are returned untouched.
func LookPath(bin string) (string, error) {
	if strings.ContainsRune(bin, filepath.Separator) || strings.ContainsRune(bin, '/') {
		return bin, nil
	}

	return safeexec.LookPath(bin)
}

// Start the process
func (e *Process) Start(ctx context.Context) error {
	bin, err := LookPath(e.executable.bin)
	if err != nil {
		return fmt.Errorf("could not find %s: %w", e.executable.bin, err)
	}

	e.cmd = exec.CommandContext(ctx, bin, e.executable.Args()...)
	e.cmd.Dir = e.opts.dir
	e.cmd.Stdin = e.opts.stdin
	e.cmd.Stdout = e.opts.stdout

	if e.opts.stderr != nil {
		e.cmd.Stderr = e.opts.stderr
	} else {
		e.cmd.Stderr = e.opts.stdout
	}

	// Add any set environmental variables including the host's
	e.cmd.Env = append(os.Environ(), e.opts.env...)

	log.G(ctx).Debug(e.Cmdline())

	return e.cmd.Start()
}

// Wait for the process to complete
func (e *Process) Wait() error {
	if e.cmd == nil {
		return fmt.Errorf("process has not yet started cannot wait")
	}

	err := e.cmd.Wait()
	for _, cb := range e.opts.callbacks {
		cb(e.cmd.ProcessState.ExitCode())
	}

	return err
}

// StartAndWait starts the process and waits for it to exit
func (e *Process) StartAndWait(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		return err
	}

	return e.Wait()
}
