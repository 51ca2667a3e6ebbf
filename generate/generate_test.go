// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"targetkit.sh/internal/errs"
	"targetkit.sh/param"
)

func resolve(t *testing.T, env map[string]string) *param.Set {
	t.Helper()

	set, err := param.Resolve(param.LookupMap(env), param.Defaults(), nil)
	require.NoError(t, err)

	return set
}

func TestRenderRust(t *testing.T) {
	out, err := Emitter{}.Render(resolve(t, map[string]string{
		"LIBAFL_CMPLOG_MAP_W": "128",
	}))
	require.NoError(t, err)

	expected := `// These constants are autogenerated by targetkit. Do not edit.

/// The size of the edges map
pub const EDGES_MAP_SIZE: usize = 65536;
/// The size of the cmps map
pub const CMP_MAP_SIZE: usize = 65536;
/// The width of the CmpLog map
pub const CMPLOG_MAP_W: usize = 128;
/// The height of the CmpLog map
pub const CMPLOG_MAP_H: usize = 32;
/// The size of the accounting maps
pub const ACCOUNTING_MAP_SIZE: usize = 65536;
`

	assert.Equal(t, expected, string(out))
}

func TestRenderGo(t *testing.T) {
	out, err := Emitter{Language: LanguageGo, Package: "maps"}.Render(resolve(t, nil))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "// Code generated by targetkit. DO NOT EDIT.\n")
	assert.Contains(t, s, "package maps\n")
	assert.Contains(t, s, "EdgesMapSize = 65536")
	assert.Contains(t, s, "CmplogMapH = 32")
	assert.Contains(t, s, "// CmplogMapW is the width of the CmpLog map.")
	assert.Contains(t, s, "// Override with LIBAFL_ACCOUNTING_MAP_SIZE.")
}

func TestRenderC(t *testing.T) {
	out, err := Emitter{Language: LanguageC}.Render(resolve(t, nil))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "#ifndef TARGETKIT_CONSTANTS_H\n#define TARGETKIT_CONSTANTS_H\n")
	assert.Contains(t, s, "#define CMPLOG_MAP_W 65536\n")
	assert.Contains(t, s, "#endif /* TARGETKIT_CONSTANTS_H */\n")
}

func TestLanguageFromString(t *testing.T) {
	tests := []struct {
		in     string
		expect Language
		err    bool
	}{
		{in: "", expect: LanguageRust},
		{in: "rust", expect: LanguageRust},
		{in: "Go", expect: LanguageGo},
		{in: "c", expect: LanguageC},
		{in: "zig", err: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			l, err := LanguageFromString(tc.in)
			if tc.err {
				assert.True(t, errs.IsInvalidError(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expect, l)
		})
	}
}

func TestEmitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	set := resolve(t, nil)

	path, err := Emitter{}.Emit(ctx, set, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "constants.rs"), path)

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = Emitter{}.Emit(ctx, set, dir)
	require.NoError(t, err)

	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEmitFailureKeepsPreviousModule(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	path, err := Emitter{Language: LanguageGo}.Emit(ctx, resolve(t, nil), dir)
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// An invalid package clause fails formatting.
	_, err = Emitter{Language: LanguageGo, Package: "not a package"}.Emit(ctx, resolve(t, nil), dir)
	require.Error(t, err)
	assert.True(t, errs.IsGeneratedFileError(err))
	assert.Contains(t, err.Error(), path)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEmitIntoUnwritableLocation(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := Emitter{}.Emit(context.Background(), resolve(t, nil), file)
	assert.True(t, errs.IsGeneratedFileError(err))
}
