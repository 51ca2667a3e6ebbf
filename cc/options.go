// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cc

import (
	"fmt"
	"strings"

	"targetkit.sh/exec"
)

const (
	DefaultCompiler = "cc"
	DefaultArchiver = "ar"
)

// CompilerOptions holds the settings shared by every invocation of a
// Compiler.
type CompilerOptions struct {
	cc          string
	ar          string
	flags       []string
	includeDirs []string
	optLevel    string
	debug       bool
	pic         bool
	outDir      string
	eopts       []exec.ExecOption
}

type CompilerOption func(co *CompilerOptions) error

// NewCompilerOptions applies each option in order over the defaults.
func NewCompilerOptions(copts ...CompilerOption) (*CompilerOptions, error) {
	co := &CompilerOptions{
		cc: DefaultCompiler,
		ar: DefaultArchiver,
	}

	for _, o := range copts {
		if err := o(co); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	return co, nil
}

// WithCC sets the compiler command.  It may carry leading arguments, for
// example "ccache clang".  An empty value keeps the current setting.
func WithCC(cc string) CompilerOption {
	return func(co *CompilerOptions) error {
		if len(strings.TrimSpace(cc)) > 0 {
			co.cc = cc
		}
		return nil
	}
}

// WithAR sets the static archiver command.  An empty value keeps the current
// setting.
func WithAR(ar string) CompilerOption {
	return func(co *CompilerOptions) error {
		if len(strings.TrimSpace(ar)) > 0 {
			co.ar = ar
		}
		return nil
	}
}

// WithFlags appends raw compiler flags, e.g. the split contents of CFLAGS.
func WithFlags(flags ...string) CompilerOption {
	return func(co *CompilerOptions) error {
		co.flags = append(co.flags, flags...)
		return nil
	}
}

// WithIncludeDirs appends header search directories.  Equivalent to -I.
func WithIncludeDirs(dirs ...string) CompilerOption {
	return func(co *CompilerOptions) error {
		co.includeDirs = append(co.includeDirs, dirs...)
		return nil
	}
}

// WithOptLevel sets the optimization level, one of 0, 1, 2, 3, s or z.
// Equivalent to -O<level>.  An empty level passes no -O flag.
func WithOptLevel(level string) CompilerOption {
	return func(co *CompilerOptions) error {
		switch level {
		case "", "0", "1", "2", "3", "s", "z":
			co.optLevel = level
			return nil
		}

		return fmt.Errorf("unknown optimization level %q", level)
	}
}

// WithDebug emits debug information.  Equivalent to -g.
func WithDebug(debug bool) CompilerOption {
	return func(co *CompilerOptions) error {
		co.debug = debug
		return nil
	}
}

// WithPIC produces position independent code.  Equivalent to -fPIC.
func WithPIC(pic bool) CompilerOption {
	return func(co *CompilerOptions) error {
		co.pic = pic
		return nil
	}
}

// WithOutDir sets the directory receiving objects and archives.
func WithOutDir(dir string) CompilerOption {
	return func(co *CompilerOptions) error {
		co.outDir = dir
		return nil
	}
}

// WithExecOptions passes options to every spawned process.
func WithExecOptions(eopts ...exec.ExecOption) CompilerOption {
	return func(co *CompilerOptions) error {
		co.eopts = append(co.eopts, eopts...)
		return nil
	}
}

// CC returns the configured compiler command.
func (co *CompilerOptions) CC() string {
	return co.cc
}

// AR returns the configured archiver command.
func (co *CompilerOptions) AR() string {
	return co.ar
}

// OutDir returns the output directory.
func (co *CompilerOptions) OutDir() string {
	return co.outDir
}
