// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package cc compiles a single C translation unit into a static archive by
// driving the system compiler and archiver.
package cc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"targetkit.sh/exec"
	"targetkit.sh/log"
	"targetkit.sh/macro"
)

// Invocation describes one unit to compile.
type Invocation struct {
	// Source is the path of the translation unit.
	Source string

	// Defines are passed as -D NAME=VALUE in order.
	Defines macro.Values

	// Artifact is the archive name without the lib prefix and .a suffix.
	Artifact string
}

// Artifact is the result of a successful compilation.
type Artifact struct {
	Name    string
	Object  string
	Archive string
	Size    int64
}

// Error is returned when the compiler or archiver fails.  Output holds the
// combined standard output and error of the failing tool.
type Error struct {
	Output string
	Err    error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Diagnostic returns the tool output.
func (e *Error) Diagnostic() string {
	return e.Output
}

// compileArgs are serialized through their flag tags.
type compileArgs struct {
	compile     bool     `flag:"-c"`
	output      string   `flag:"-o"`
	debug       bool     `flag:"-g"`
	pic         bool     `flag:"-fPIC"`
	includeDirs []string `flag:"-I"`
	defines     []string `flag:"-D"`
}

// Compiler invokes a GNU-compatible C compiler and archiver.
type Compiler struct {
	opts *CompilerOptions
}

// New prepares a compiler from the given options.
func New(copts ...CompilerOption) (*Compiler, error) {
	opts, err := NewCompilerOptions(copts...)
	if err != nil {
		return nil, err
	}

	if len(opts.outDir) == 0 {
		return nil, fmt.Errorf("cannot compile without an output directory")
	}

	return &Compiler{
		opts: opts,
	}, nil
}

// Options returns the settings the compiler was created with.
func (c *Compiler) Options() *CompilerOptions {
	return c.opts
}

func objectName(inv Invocation) string {
	base := filepath.Base(inv.Source)
	return inv.Artifact + "-" + strings.TrimSuffix(base, filepath.Ext(base)) + ".o"
}

// ArchivePath returns where the archive of name is written.
func (c *Compiler) ArchivePath(name string) string {
	return filepath.Join(c.opts.outDir, "lib"+name+".a")
}

// command pairs a process with the buffer collecting its output.
type command struct {
	process *exec.Process
	output  *bytes.Buffer
	failed  *bool
}

func (c *Compiler) prepare(inv Invocation) ([]command, *Artifact, error) {
	if len(inv.Source) == 0 {
		return nil, nil, fmt.Errorf("cannot compile without a source")
	}

	if len(inv.Artifact) == 0 {
		return nil, nil, fmt.Errorf("cannot compile %s without an artifact name", inv.Source)
	}

	artifact := &Artifact{
		Name:    inv.Artifact,
		Object:  filepath.Join(c.opts.outDir, objectName(inv)),
		Archive: c.ArchivePath(inv.Artifact),
	}

	var extra []string
	if len(c.opts.optLevel) > 0 {
		extra = append(extra, "-O"+c.opts.optLevel)
	}
	extra = append(extra, c.opts.flags...)
	extra = append(extra, inv.Source)

	compileExec, err := exec.NewExecutable(c.opts.cc, compileArgs{
		compile:     true,
		output:      artifact.Object,
		debug:       c.opts.debug,
		pic:         c.opts.pic,
		includeDirs: c.opts.includeDirs,
		defines:     inv.Defines.Strings(),
	}, extra...)
	if err != nil {
		return nil, nil, err
	}

	archiveExec, err := exec.NewExecutable(c.opts.ar, nil, "crs", artifact.Archive, artifact.Object)
	if err != nil {
		return nil, nil, err
	}

	var commands []command
	for _, e := range []*exec.Executable{compileExec, archiveExec} {
		var out bytes.Buffer
		failed := new(bool)

		eopts := append([]exec.ExecOption{}, c.opts.eopts...)
		eopts = append(eopts,
			exec.WithStdout(&out),
			exec.WithOnExitCallback(func(code int) {
				*failed = code != 0
			}),
		)

		process, err := exec.NewProcessFromExecutable(e, eopts...)
		if err != nil {
			return nil, nil, err
		}

		commands = append(commands, command{process, &out, failed})
	}

	return commands, artifact, nil
}

// Compile builds the invocation's source into an object and archives it.  The
// archive is recreated on every call so no stale members survive.
func (c *Compiler) Compile(ctx context.Context, inv Invocation) (*Artifact, error) {
	commands, artifact, err := c.prepare(inv)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.opts.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}

	if err := os.Remove(artifact.Archive); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not remove previous archive: %w", err)
	}

	processes := make([]*exec.Process, 0, len(commands))
	for _, cmd := range commands {
		processes = append(processes, cmd.process)
	}

	seq, err := exec.NewSequential(processes...)
	if err != nil {
		return nil, err
	}

	if err := seq.StartAndWait(ctx); err != nil {
		var output string
		for _, cmd := range commands {
			if *cmd.failed {
				output = cmd.output.String()
				break
			}
		}

		return nil, &Error{
			Output: output,
			Err:    err,
		}
	}

	if fi, err := os.Stat(artifact.Archive); err == nil {
		artifact.Size = fi.Size()
	}

	log.G(ctx).
		WithField("archive", artifact.Archive).
		WithField("size", humanize.Bytes(uint64(artifact.Size))).
		Info("archived")

	return artifact, nil
}
