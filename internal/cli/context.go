// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package cli holds what the targetkit subcommands share.
package cli

import (
	"context"
	"fmt"
	"os"

	"targetkit.sh/config"
	"targetkit.sh/generate"
	"targetkit.sh/internal/errs"
	"targetkit.sh/orchestrator"
	"targetkit.sh/unit"
)

// ContextOptions are the flags which shape the build context.  Each flag
// overrides the matching cargo variable.
type ContextOptions struct {
	OutDir       string   `long:"out-dir" short:"o" usage:"Directory receiving the generated module and archives (default $OUT_DIR)"`
	SrcDir       string   `long:"src-dir" short:"s" usage:"Directory holding the native sources (default $CARGO_MANIFEST_DIR/src)"`
	Script       string   `long:"script" usage:"Build script watched for changes (default $CARGO_MANIFEST_DIR/build.rs)"`
	Features     []string `long:"features" short:"F" usage:"Comma separated feature flags, added to $CARGO_FEATURE_*"`
	TargetOS     string   `long:"target-os" usage:"Target operating system (default $CARGO_CFG_TARGET_OS or the host)"`
	TargetFamily string   `long:"target-family" usage:"Target platform class, unix or windows"`
}

// BuildContext derives the orchestrator context from the process environment
// and the flags.
func (opts *ContextOptions) BuildContext(ctx context.Context) (orchestrator.Context, error) {
	bctx := orchestrator.ContextFromEnv(os.Environ())

	if len(opts.OutDir) > 0 {
		bctx.OutDir = opts.OutDir
	}

	if len(opts.SrcDir) > 0 {
		bctx.SrcDir = opts.SrcDir
	}

	if len(opts.Script) > 0 {
		bctx.Script = opts.Script
	}

	bctx.Features = bctx.Features.Merge(unit.ParseFeatures(opts.Features...))

	if len(opts.TargetOS) > 0 {
		bctx.Platform = unit.PlatformFromOS(opts.TargetOS)
	}

	switch unit.Family(opts.TargetFamily) {
	case "":
	case unit.FamilyUnix, unit.FamilyWindows:
		bctx.Platform.Family = unit.Family(opts.TargetFamily)
	default:
		return bctx, fmt.Errorf("%w: unknown target family %q", errs.ErrInvalid, opts.TargetFamily)
	}

	// Only a configuration file which was actually read is watched.
	if cfgm, ok := config.ManagerFromContext(ctx); ok && len(cfgm.ConfigFile) > 0 {
		if _, err := os.Stat(cfgm.ConfigFile); err == nil {
			bctx.ConfigFile = cfgm.ConfigFile
		}
	}

	return bctx, nil
}

// EmitterOptions override the configured constants module settings.
type EmitterOptions struct {
	Lang     string `long:"lang" short:"l" usage:"Language of the constants module: rust, go or c"`
	Package  string `long:"package" usage:"Package clause of a Go constants module"`
	FileName string `long:"file-name" usage:"Name of the constants module"`
}

// Emitter merges the flags over the configuration.
func (opts *EmitterOptions) Emitter(ctx context.Context) (generate.Emitter, error) {
	cfg := config.G(ctx)

	lang := cfg.Generate.Lang
	if len(opts.Lang) > 0 {
		lang = opts.Lang
	}

	language, err := generate.LanguageFromString(lang)
	if err != nil {
		return generate.Emitter{}, err
	}

	emitter := generate.Emitter{
		Language: language,
		Package:  cfg.Generate.Package,
		FileName: cfg.Generate.FileName,
	}

	if len(opts.Package) > 0 {
		emitter.Package = opts.Package
	}

	if len(opts.FileName) > 0 {
		emitter.FileName = opts.FileName
	}

	return emitter, nil
}
