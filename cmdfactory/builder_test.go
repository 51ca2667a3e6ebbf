// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cmdfactory

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) String() string { return string(c) }

type Common struct {
	Verbose bool `long:"verbose" short:"v" usage:"Be verbose"`
}

type ExampleCommand struct {
	Common

	OutDir   string           `long:"out-dir" usage:"Output directory" env:"TARGETKIT_TEST_OUT_DIR"`
	Lang     string           `long:"lang" usage:"Language" default:"rust"`
	Features []string         `long:"features" usage:"Features"`
	Size     uint64           `long:"size" usage:"Size" default:"65536"`
	Jobs     int              `long:"jobs" short:"j" usage:"Jobs"`
	Color    *EnumFlag[color] `long:"color" usage:"Color"`
	Internal string           `noattribute:"true"`

	ran  bool
	args []string
}

func (opts *ExampleCommand) Run(_ context.Context, args []string) error {
	opts.ran = true
	opts.args = args
	return nil
}

func newExample() *ExampleCommand {
	return &ExampleCommand{
		Color: NewEnumFlag([]color{"red", "blue"}, color("red")),
	}
}

func TestNewParsesTaggedFlags(t *testing.T) {
	opts := newExample()

	cmd, err := New(opts, cobra.Command{})
	require.NoError(t, err)
	assert.Equal(t, "example [FLAGS]", cmd.Use)

	cmd.SetArgs([]string{
		"--out-dir", "/out",
		"--features", "a,b",
		"--features", "c",
		"-v",
		"-j", "4",
		"--color", "BLUE",
		"pos",
	})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.True(t, opts.ran)
	assert.Equal(t, []string{"pos"}, opts.args)
	assert.Equal(t, "/out", opts.OutDir)
	assert.Equal(t, "rust", opts.Lang)
	assert.Equal(t, []string{"a", "b", "c"}, opts.Features)
	assert.Equal(t, uint64(65536), opts.Size)
	assert.Equal(t, 4, opts.Jobs)
	assert.True(t, opts.Verbose)
	assert.Equal(t, color("blue"), opts.Color.Value)
	assert.Nil(t, cmd.Flags().Lookup("internal"))
}

func TestAttributeFlagsEnvironment(t *testing.T) {
	t.Setenv("TARGETKIT_TEST_OUT_DIR", "/from/env")

	opts := newExample()
	cmd, err := New(opts, cobra.Command{})
	require.NoError(t, err)

	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "/from/env", opts.OutDir)
}

func TestEnumFlagRejectsUnknown(t *testing.T) {
	opts := newExample()
	cmd, err := New(opts, cobra.Command{})
	require.NoError(t, err)

	cmd.SetArgs([]string{"--color", "green"})
	err = cmd.ExecuteContext(context.Background())
	require.Error(t, err)

	var flagErr *FlagError
	assert.True(t, errors.As(err, &flagErr))
	assert.False(t, opts.ran)
}

func TestName(t *testing.T) {
	assert.Equal(t, "example", Name(&ExampleCommand{}))

	long, short := name("OutDir", "", "")
	assert.Equal(t, "out-dir", long)
	assert.Empty(t, short)
}

func TestNoArgsQuoteReminder(t *testing.T) {
	cmd := &cobra.Command{}
	assert.NoError(t, NoArgsQuoteReminder(cmd, nil))

	err := NoArgsQuoteReminder(cmd, []string{"a", "b"})
	assert.EqualError(t, err, `unknown arguments ["a" "b"]`)
}

func TestMutuallyExclusive(t *testing.T) {
	assert.NoError(t, MutuallyExclusive("nope", true, false))
	assert.Error(t, MutuallyExclusive("nope", true, true))
}
