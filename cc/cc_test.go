// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"targetkit.sh/exec"
	"targetkit.sh/macro"
)

func TestCompileCommandLines(t *testing.T) {
	tests := []struct {
		name    string
		opts    []CompilerOption
		inv     Invocation
		compile string
		archive string
	}{
		{
			name: "defaults",
			opts: []CompilerOption{WithOutDir("/out")},
			inv: Invocation{
				Source:   "/src/coverage.c",
				Artifact: "coverage",
				Defines:  macro.NewValues("EDGES_MAP_SIZE=65536", "ACCOUNTING_MAP_SIZE=65536"),
			},
			compile: "cc -c -o /out/coverage-coverage.o -D EDGES_MAP_SIZE=65536 -D ACCOUNTING_MAP_SIZE=65536 /src/coverage.c",
			archive: "ar crs /out/libcoverage.a /out/coverage-coverage.o",
		},
		{
			name: "all options",
			opts: []CompilerOption{
				WithOutDir("/out"),
				WithCC("ccache clang"),
				WithAR("llvm-ar"),
				WithOptLevel("3"),
				WithDebug(true),
				WithPIC(true),
				WithIncludeDirs("/inc"),
				WithFlags("-Wall", "-fsanitize-coverage=trace-pc-guard"),
			},
			inv: Invocation{
				Source:   "/src/sancov_cmp.c",
				Artifact: "sancov_cmp",
				Defines:  macro.NewValues("SANCOV_CMPLOG=1"),
			},
			compile: "ccache clang -c -o /out/sancov_cmp-sancov_cmp.o -g -fPIC -I /inc -D SANCOV_CMPLOG=1 -O3 -Wall -fsanitize-coverage=trace-pc-guard /src/sancov_cmp.c",
			archive: "llvm-ar crs /out/libsancov_cmp.a /out/sancov_cmp-sancov_cmp.o",
		},
		{
			name: "empty overrides keep defaults",
			opts: []CompilerOption{WithOutDir("/out"), WithCC(""), WithAR("  ")},
			inv: Invocation{
				Source:   "/src/libfuzzer.c",
				Artifact: "libfuzzer",
			},
			compile: "cc -c -o /out/libfuzzer-libfuzzer.o /src/libfuzzer.c",
			archive: "ar crs /out/liblibfuzzer.a /out/libfuzzer-libfuzzer.o",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.opts...)
			require.NoError(t, err)

			commands, artifact, err := c.prepare(tc.inv)
			require.NoError(t, err)
			require.Len(t, commands, 2)

			assert.Equal(t, tc.compile, commands[0].process.Cmdline())
			assert.Equal(t, tc.archive, commands[1].process.Cmdline())
			assert.Equal(t, tc.inv.Artifact, artifact.Name)
		})
	}
}

func TestNewRequiresOutDir(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}

func TestWithOptLevel(t *testing.T) {
	for _, level := range []string{"", "0", "1", "2", "3", "s", "z"} {
		_, err := NewCompilerOptions(WithOptLevel(level))
		assert.NoError(t, err, level)
	}

	_, err := NewCompilerOptions(WithOptLevel("fast"))
	assert.Error(t, err)
}

func TestPrepareRejectsIncompleteInvocation(t *testing.T) {
	c, err := New(WithOutDir(t.TempDir()))
	require.NoError(t, err)

	_, _, err = c.prepare(Invocation{Artifact: "x"})
	assert.Error(t, err)

	_, _, err = c.prepare(Invocation{Source: "x.c"})
	assert.Error(t, err)
}

func TestCompileMissingCompiler(t *testing.T) {
	c, err := New(
		WithOutDir(t.TempDir()),
		WithCC("targetkit-no-such-compiler"),
	)
	require.NoError(t, err)

	_, err = c.Compile(context.Background(), Invocation{
		Source:   "x.c",
		Artifact: "x",
	})
	require.Error(t, err)

	var ccErr *Error
	assert.True(t, errors.As(err, &ccErr))
}

func requireTool(t *testing.T, bin string) {
	t.Helper()

	if _, err := exec.LookPath(bin); err != nil {
		t.Skipf("%s not available: %v", bin, err)
	}
}

func TestCompileHostToolchain(t *testing.T) {
	requireTool(t, DefaultCompiler)
	requireTool(t, DefaultArchiver)

	src := t.TempDir()
	out := t.TempDir()

	source := filepath.Join(src, "width.c")
	require.NoError(t, os.WriteFile(source, []byte(`
#ifndef CMPLOG_MAP_W
#error CMPLOG_MAP_W is not defined
#endif
unsigned long targetkit_width = CMPLOG_MAP_W;
`), 0o644))

	c, err := New(WithOutDir(out))
	require.NoError(t, err)

	artifact, err := c.Compile(context.Background(), Invocation{
		Source:   source,
		Artifact: "width",
		Defines:  macro.NewValues("CMPLOG_MAP_W=128"),
	})
	require.NoError(t, err)

	assert.FileExists(t, artifact.Archive)
	assert.Positive(t, artifact.Size)

	// Without the definition the preprocessor rejects the unit and the
	// diagnostic carries its message.
	_, err = c.Compile(context.Background(), Invocation{
		Source:   source,
		Artifact: "width",
	})
	require.Error(t, err)

	var ccErr *Error
	require.True(t, errors.As(err, &ccErr))
	assert.Contains(t, ccErr.Diagnostic(), "CMPLOG_MAP_W is not defined")
	assert.NoFileExists(t, artifact.Archive)
}
