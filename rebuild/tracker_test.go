// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package rebuild

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerEmitsAsRegistered(t *testing.T) {
	var out bytes.Buffer
	tracker := NewTracker(NewDirectives(&out, ""))

	tracker.Env("LIBAFL_EDGES_MAP_SIZE")
	tracker.File("src/coverage.c")
	tracker.File("src/coverage.c")

	assert.Equal(t, ""+
		"cargo:rerun-if-env-changed=LIBAFL_EDGES_MAP_SIZE\n"+
		"cargo:rerun-if-changed=src/coverage.c\n"+
		"cargo:rerun-if-changed=src/coverage.c\n",
		out.String(),
	)

	assert.Equal(t, []Trigger{
		{Kind: KindEnv, ID: "LIBAFL_EDGES_MAP_SIZE"},
		{Kind: KindFile, ID: "src/coverage.c"},
		{Kind: KindFile, ID: "src/coverage.c"},
	}, tracker.Triggers())
	assert.NoError(t, tracker.Err())
}

func TestDirectivesLinking(t *testing.T) {
	var out bytes.Buffer
	d := NewDirectives(&out, "cargo::")

	assert.NoError(t, d.LinkLib("coverage"))
	assert.NoError(t, d.LinkSearch("/tmp/out"))

	assert.Equal(t, ""+
		"cargo::rustc-link-lib=static=coverage\n"+
		"cargo::rustc-link-search=native=/tmp/out\n",
		out.String(),
	)
}

func TestTrackerWithoutDirectives(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Env("CC")

	assert.Len(t, tracker.Triggers(), 1)
	assert.NoError(t, tracker.Err())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTrackerKeepsFirstWriteError(t *testing.T) {
	tracker := NewTracker(NewDirectives(failingWriter{}, ""))
	tracker.File("build.rs")

	assert.EqualError(t, tracker.Err(), "closed")
	assert.Len(t, tracker.Triggers(), 1)
}
