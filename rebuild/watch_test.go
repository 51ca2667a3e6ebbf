// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package rebuild

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"targetkit.sh/internal/errs"
)

func TestWaitForChange(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "coverage.c")
	other := filepath.Join(dir, "notes.txt")

	require.NoError(t, os.WriteFile(watched, []byte("int x;\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	type result struct {
		path string
		err  error
	}

	done := make(chan result, 1)
	go func() {
		path, err := WaitForChange(ctx, []Trigger{
			{Kind: KindEnv, ID: "CC"},
			{Kind: KindFile, ID: watched},
		})
		done <- result{path, err}
	}()

	// The watcher is registered asynchronously, so keep touching both files
	// until it reports.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case r := <-done:
			require.NoError(t, r.err)
			assert.Equal(t, watched, r.path)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
			require.NoError(t, os.WriteFile(watched, []byte("int y;\n"), 0o644))
		case <-ctx.Done():
			t.Fatal("no change reported")
		}
	}
}

func TestWaitForChangeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitForChange(ctx, []Trigger{{Kind: KindFile, ID: filepath.Join(t.TempDir(), "build.rs")}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForChangeNothingToWatch(t *testing.T) {
	_, err := WaitForChange(context.Background(), []Trigger{{Kind: KindEnv, ID: "CFLAGS"}})
	assert.True(t, errs.IsInvalidError(err))
}
