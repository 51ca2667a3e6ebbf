// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package targetkit

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"targetkit.sh/cmdfactory"
	"targetkit.sh/config"
	"targetkit.sh/log"

	"targetkit.sh/internal/cli/targetkit/build"
	"targetkit.sh/internal/cli/targetkit/plan"
	"targetkit.sh/internal/version"
)

type TargetKitOptions struct {
	ConfigFile    string `long:"config" short:"c" env:"TARGETKIT_CONFIG" usage:"Path to the configuration file"`
	LogLevel      string `long:"log-level" usage:"Log level verbosity"`
	LogType       string `long:"log-type" usage:"Log type: quiet, basic, fancy or json"`
	LogTimestamps bool   `long:"log-timestamps" usage:"Enable log timestamps"`
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&TargetKitOptions{}, cobra.Command{
		Short:   "Build the native helpers of a fuzzing target library",
		Use:     "targetkit [FLAGS] SUBCOMMAND",
		Version: version.String(),
		Long: heredoc.Doc(`
			Resolve the map size parameters, write them as a constants module
			and compile the native helper units into static archives.

			targetkit reads the variables cargo hands to a build script, so it
			can be invoked from build.rs or stand in for it.  Host build system
			directives are written to standard output, logs to standard error.
		`),
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	})
	if err != nil {
		panic(err)
	}

	cmd.AddCommand(build.NewCmd())
	cmd.AddCommand(plan.NewCmd())

	return cmd
}

// PersistentPre loads the configuration and sets up logging for every
// subcommand.
func (opts *TargetKitOptions) PersistentPre(cmd *cobra.Command, _ []string) error {
	copts := []config.ConfigManagerOption{}
	if len(opts.ConfigFile) > 0 {
		copts = append(copts, config.WithFile(opts.ConfigFile, false))
	} else {
		copts = append(copts, config.WithDefaultConfigFile())
	}
	copts = append(copts, config.WithEnv(nil))

	cfgm, err := config.NewConfigManager(copts...)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfgm.Config.Log.Level = opts.LogLevel
	}
	if flags.Changed("log-type") {
		cfgm.Config.Log.Type = opts.LogType
	}
	if flags.Changed("log-timestamps") {
		cfgm.Config.Log.Timestamps = opts.LogTimestamps
	}

	level, err := log.ParseLevel(cfgm.Config.Log.Level)
	if err != nil {
		return cmdfactory.FlagErrorWrap(err)
	}

	logger := log.New(
		cmd.ErrOrStderr(),
		log.LoggerTypeFromString(cfgm.Config.Log.Type),
		level,
		cfgm.Config.Log.Timestamps,
	)

	ctx := config.WithConfigManager(cmd.Context(), cfgm)
	ctx = log.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	logger.WithField("version", version.Version()).Trace("targetkit")

	return nil
}

func (opts *TargetKitOptions) Run(_ context.Context, _ []string) error {
	return pflag.ErrHelp
}

// Main runs the targetkit command line and returns the exit code.
func Main(args []string) int {
	cmd := NewCmd()
	cmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cmdfactory.Main(ctx, cmd)
}
