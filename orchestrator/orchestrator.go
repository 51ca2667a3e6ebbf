// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package orchestrator runs a complete build: it resolves the parameters,
// writes the constants module, plans the units and compiles them, reporting
// every consulted input to the host build system as it goes.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/shlex"

	"targetkit.sh/cc"
	"targetkit.sh/config"
	"targetkit.sh/generate"
	"targetkit.sh/internal/errs"
	"targetkit.sh/log"
	"targetkit.sh/native"
	"targetkit.sh/param"
	"targetkit.sh/rebuild"
	"targetkit.sh/unit"
)

// Result describes a successful run.
type Result struct {
	Params    *param.Set
	Module    string
	Planned   []unit.Planned
	Artifacts []*cc.Artifact
	Triggers  []rebuild.Trigger
}

// Plan resolves the parameters and selects the units without writing,
// compiling or emitting anything.
func Plan(ctx context.Context, bctx Context, ropts ...RunOption) (*param.Set, []unit.Planned, error) {
	opts, err := NewRunOptions(ropts...)
	if err != nil {
		return nil, nil, err
	}

	params, err := param.Resolve(bctx.lookup, opts.specs(), nil)
	if err != nil {
		return nil, nil, err
	}

	planned, err := unit.Plan(opts.catalog(), bctx.Features, bctx.Platform, params)
	if err != nil {
		return nil, nil, err
	}

	return params, planned, nil
}

// Run executes the build.  Every step is fatal: the first error is returned
// and nothing after it runs.  Rebuild triggers already emitted stay emitted.
func Run(ctx context.Context, bctx Context, ropts ...RunOption) (*Result, error) {
	if len(bctx.OutDir) == 0 {
		return nil, fmt.Errorf("%w: output directory is not set", errs.ErrInvalid)
	}

	opts, err := NewRunOptions(ropts...)
	if err != nil {
		return nil, err
	}

	cfg := config.G(ctx)

	prefix := opts.prefix
	if len(prefix) == 0 {
		prefix = cfg.Directives.Prefix
	}

	directives := rebuild.NewDirectives(opts.stdout, prefix)
	tracker := rebuild.NewTracker(directives)

	if len(bctx.ConfigFile) > 0 {
		tracker.File(bctx.ConfigFile)
	}

	params, err := param.Resolve(bctx.lookup, opts.specs(), tracker)
	if err != nil {
		return nil, err
	}

	for _, p := range params.All() {
		log.G(ctx).
			WithField("key", p.EnvKey).
			WithField("value", p.Value).
			WithField("overridden", p.Overridden).
			Debug("resolved " + p.Name)
	}

	emitter := opts.emitter
	if emitter == nil {
		lang, err := generate.LanguageFromString(cfg.Generate.Lang)
		if err != nil {
			return nil, err
		}

		emitter = &generate.Emitter{
			Language: lang,
			Package:  cfg.Generate.Package,
			FileName: cfg.Generate.FileName,
		}
	}

	module, err := emitter.Emit(ctx, params, bctx.OutDir)
	if err != nil {
		return nil, err
	}

	planned, err := unit.Plan(opts.catalog(), bctx.Features, bctx.Platform, params)
	if err != nil {
		return nil, err
	}

	compiler := opts.compiler
	if compiler == nil {
		compiler, err = newCompiler(cfg, bctx, tracker, opts.copts)
		if err != nil {
			return nil, err
		}
	}

	driver := &native.Driver{
		Compiler:   compiler,
		Tracker:    tracker,
		Directives: directives,
		SrcDir:     bctx.SrcDir,
		OutDir:     bctx.OutDir,
	}

	artifacts, err := driver.Run(ctx, planned)
	if err != nil {
		return nil, err
	}

	if len(bctx.Script) > 0 {
		tracker.File(bctx.Script)
	}

	if err := tracker.Err(); err != nil {
		return nil, fmt.Errorf("could not write directives: %w", err)
	}

	return &Result{
		Params:    params,
		Module:    module,
		Planned:   planned,
		Artifacts: artifacts,
		Triggers:  tracker.Triggers(),
	}, nil
}

// newCompiler builds the system compiler.  CC, AR and CFLAGS from the build
// context take precedence over the configuration and are watched.
func newCompiler(cfg *config.TargetKit, bctx Context, tracker *rebuild.Tracker, extra []cc.CompilerOption) (*cc.Compiler, error) {
	for _, key := range []string{EnvCC, EnvAR, EnvCFLAGS} {
		tracker.Env(key)
	}

	ccBin, _ := bctx.lookup(EnvCC)
	arBin, _ := bctx.lookup(EnvAR)

	optLevel := bctx.OptLevel
	if len(optLevel) == 0 {
		optLevel = cfg.Compiler.OptLevel
	}

	copts := []cc.CompilerOption{
		cc.WithCC(cfg.Compiler.CC),
		cc.WithCC(ccBin),
		cc.WithAR(cfg.Compiler.AR),
		cc.WithAR(arBin),
		cc.WithOutDir(bctx.OutDir),
		cc.WithOptLevel(optLevel),
		cc.WithDebug(bctx.Debug || cfg.Compiler.Debug),
		cc.WithPIC(bctx.Platform.Family != unit.FamilyWindows),
		cc.WithIncludeDirs(cfg.Compiler.IncludeDirs...),
		cc.WithFlags(cfg.Compiler.Flags...),
	}

	if cflags, ok := bctx.lookup(EnvCFLAGS); ok {
		flags, err := shlex.Split(cflags)
		if err != nil {
			return nil, fmt.Errorf("%w: could not split %s: %v", errs.ErrInvalid, EnvCFLAGS, err)
		}

		copts = append(copts, cc.WithFlags(flags...))
	}

	return cc.New(append(copts, extra...)...)
}
