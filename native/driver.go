// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package native compiles the planned units in order and announces the
// produced archives to the host build system.
package native

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"targetkit.sh/cc"
	"targetkit.sh/internal/errs"
	"targetkit.sh/log"
	"targetkit.sh/rebuild"
	"targetkit.sh/unit"
)

// Compiler turns one invocation into a static archive.  *cc.Compiler is the
// default implementation.
type Compiler interface {
	Compile(ctx context.Context, inv cc.Invocation) (*cc.Artifact, error)
}

// Driver compiles planned units sequentially.
type Driver struct {
	Compiler Compiler

	// Tracker receives a file trigger for every source and header.
	Tracker *rebuild.Tracker

	// Directives receives the link directives once every unit is built.
	Directives *rebuild.Directives

	// SrcDir is joined with relative unit sources and headers.
	SrcDir string

	// OutDir is announced as the native link search path.
	OutDir string
}

func (d *Driver) path(name string) string {
	if filepath.IsAbs(name) || len(d.SrcDir) == 0 {
		return name
	}

	return filepath.Join(d.SrcDir, name)
}

// Run compiles each planned unit in order.  The first failure is returned as
// an *errs.NativeCompilationError naming the unit and no later unit is
// attempted.  Link directives are only written when every unit succeeded.
func (d *Driver) Run(ctx context.Context, planned []unit.Planned) ([]*cc.Artifact, error) {
	if d.Compiler == nil {
		return nil, fmt.Errorf("%w: no native compiler configured", errs.ErrInvalid)
	}

	artifacts := make([]*cc.Artifact, 0, len(planned))

	for _, p := range planned {
		source := d.path(p.Unit.Source)

		if d.Tracker != nil {
			d.Tracker.File(source)
			for _, h := range p.Headers {
				d.Tracker.File(d.path(h))
			}
		}

		log.G(ctx).
			WithField("unit", p.Unit.ID).
			WithField("defines", len(p.Defines)).
			Info("compiling")

		artifact, err := d.Compiler.Compile(ctx, cc.Invocation{
			Source:   source,
			Defines:  p.Defines,
			Artifact: p.Unit.ArtifactName(),
		})
		if err != nil {
			cerr := &errs.NativeCompilationError{
				Unit: p.Unit.ID,
				Err:  err,
			}

			var diag interface{ Diagnostic() string }
			if errors.As(err, &diag) {
				cerr.Diagnostic = diag.Diagnostic()
			}

			return nil, cerr
		}

		artifacts = append(artifacts, artifact)
	}

	if d.Directives == nil {
		return artifacts, nil
	}

	for _, artifact := range artifacts {
		if err := d.Directives.LinkLib(artifact.Name); err != nil {
			return nil, err
		}
	}

	if err := d.Directives.LinkSearch(d.OutDir); err != nil {
		return nil, err
	}

	return artifacts, nil
}
