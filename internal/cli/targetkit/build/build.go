// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"targetkit.sh/cmdfactory"
	"targetkit.sh/config"
	"targetkit.sh/internal/cli"
	"targetkit.sh/internal/fancymap"
	"targetkit.sh/log"
	"targetkit.sh/orchestrator"
	"targetkit.sh/rebuild"
)

type BuildOptions struct {
	cli.ContextOptions
	cli.EmitterOptions

	DirectivePrefix string `long:"directive-prefix" usage:"Prefix of host build system directives (default cargo:)"`
	Watch           bool   `long:"watch" short:"w" usage:"Rebuild whenever a watched file changes"`

	stdout io.Writer
	stderr io.Writer
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&BuildOptions{}, cobra.Command{
		Short: "Generate the constants module and compile the native units",
		Use:   "build [FLAGS]",
		Args:  cmdfactory.NoArgsQuoteReminder,
		Long: heredoc.Doc(`
			Resolve the map size parameters, write the constants module and
			compile every native unit enabled for the target into a static
			archive in the output directory.

			Parameters are overridden through LIBAFL_EDGES_MAP_SIZE,
			LIBAFL_CMP_MAP_SIZE, LIBAFL_CMPLOG_MAP_W, LIBAFL_CMPLOG_MAP_H and
			LIBAFL_ACCOUNTING_MAP_SIZE.  The compiler is taken from CC, AR and
			CFLAGS when set.
		`),
		Example: heredoc.Doc(`
			# Build from within a cargo build script
			$ targetkit build

			# Rebuild on every change to the native sources
			$ targetkit build --out-dir out --watch

			# Build for Linux with the cmplog instrumentation into ./out
			$ LIBAFL_CMPLOG_MAP_W=128 targetkit build --out-dir out --target-os linux --features sancov_cmplog
		`),
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *BuildOptions) Pre(cmd *cobra.Command, _ []string) error {
	opts.stdout = cmd.OutOrStdout()
	opts.stderr = cmd.ErrOrStderr()
	return nil
}

func (opts *BuildOptions) Run(ctx context.Context, _ []string) error {
	bctx, err := opts.BuildContext(ctx)
	if err != nil {
		return err
	}

	emitter, err := opts.Emitter(ctx)
	if err != nil {
		return err
	}

	ropts := []orchestrator.RunOption{
		orchestrator.WithStdout(opts.stdout),
		orchestrator.WithEmitter(emitter),
		orchestrator.WithDirectivePrefix(opts.DirectivePrefix),
	}

	result, err := orchestrator.Run(ctx, bctx, ropts...)
	if err != nil {
		return err
	}

	opts.report(ctx, result)

	if !opts.Watch {
		return nil
	}

	// A failed rebuild keeps waiting on the inputs of the last successful one.
	for {
		changed, err := rebuild.WaitForChange(ctx, result.Triggers)
		if errors.Is(err, context.Canceled) {
			return nil
		} else if err != nil {
			return err
		}

		log.G(ctx).WithField("file", changed).Info("rebuilding")

		next, err := orchestrator.Run(ctx, bctx, ropts...)
		if err != nil {
			log.G(ctx).Error(err)
			continue
		}

		result = next
		opts.report(ctx, result)
	}
}

func (opts *BuildOptions) report(ctx context.Context, result *orchestrator.Result) {
	var total int64
	for _, artifact := range result.Artifacts {
		total += artifact.Size
	}

	log.G(ctx).
		WithField("module", result.Module).
		WithField("archives", len(result.Artifacts)).
		WithField("size", humanize.Bytes(uint64(total))).
		WithField("triggers", len(result.Triggers)).
		Debug("build complete")

	if log.LoggerTypeFromString(config.G(ctx).Log.Type) != log.FANCY {
		return
	}

	units := make([]string, 0, len(result.Planned))
	for _, p := range result.Planned {
		units = append(units, p.Unit.ID)
	}

	fancymap.PrintFancyMap(opts.stderr, "build complete", true,
		fancymap.FancyMapEntry{
			Key:   "module",
			Value: result.Module,
		},
		fancymap.FancyMapEntry{
			Key:   "units",
			Value: strings.Join(units, ", "),
		},
		fancymap.FancyMapEntry{
			Key:   "archives",
			Value: fmt.Sprintf("%d", len(result.Artifacts)),
			Right: fmt.Sprintf("(%s)", humanize.Bytes(uint64(total))),
		},
		fancymap.FancyMapEntry{
			Key:   "triggers",
			Value: fmt.Sprintf("%d", len(result.Triggers)),
		},
	)
}
