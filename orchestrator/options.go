// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package orchestrator

import (
	"fmt"
	"io"

	"targetkit.sh/cc"
	"targetkit.sh/generate"
	"targetkit.sh/native"
	"targetkit.sh/param"
	"targetkit.sh/unit"
)

type RunOptions struct {
	stdout   io.Writer
	prefix   string
	emitter  *generate.Emitter
	compiler native.Compiler
	copts    []cc.CompilerOption
	units    []unit.Unit
	params   []param.Spec
}

type RunOption func(ro *RunOptions) error

// NewRunOptions applies each option in order.
func NewRunOptions(ropts ...RunOption) (*RunOptions, error) {
	ro := &RunOptions{}

	for _, o := range ropts {
		if err := o(ro); err != nil {
			return nil, fmt.Errorf("could not apply option: %v", err)
		}
	}

	return ro, nil
}

// WithStdout sets where host directives are written.  Without it directives
// are discarded.
func WithStdout(stdout io.Writer) RunOption {
	return func(ro *RunOptions) error {
		ro.stdout = stdout
		return nil
	}
}

// WithDirectivePrefix overrides the configured directive prefix.
func WithDirectivePrefix(prefix string) RunOption {
	return func(ro *RunOptions) error {
		ro.prefix = prefix
		return nil
	}
}

// WithEmitter overrides the configured constants emitter.
func WithEmitter(emitter generate.Emitter) RunOption {
	return func(ro *RunOptions) error {
		ro.emitter = &emitter
		return nil
	}
}

// WithCompiler replaces the default system compiler.
func WithCompiler(compiler native.Compiler) RunOption {
	return func(ro *RunOptions) error {
		ro.compiler = compiler
		return nil
	}
}

// WithCompilerOptions are applied after those derived from the configuration
// and environment when building the default compiler.
func WithCompilerOptions(copts ...cc.CompilerOption) RunOption {
	return func(ro *RunOptions) error {
		ro.copts = append(ro.copts, copts...)
		return nil
	}
}

// WithUnits replaces the built-in unit catalog.
func WithUnits(units ...unit.Unit) RunOption {
	return func(ro *RunOptions) error {
		ro.units = units
		return nil
	}
}

// WithParams replaces the built-in parameter declarations.
func WithParams(specs ...param.Spec) RunOption {
	return func(ro *RunOptions) error {
		ro.params = specs
		return nil
	}
}

func (ro *RunOptions) catalog() []unit.Unit {
	if ro.units != nil {
		return ro.units
	}

	return unit.Catalog()
}

func (ro *RunOptions) specs() []param.Spec {
	if ro.params != nil {
		return ro.params
	}

	return param.Defaults()
}
