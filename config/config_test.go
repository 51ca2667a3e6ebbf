// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	c, err := NewDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "fancy", c.Log.Type)
	assert.False(t, c.Log.Timestamps)
	assert.Equal(t, "rust", c.Generate.Lang)
	assert.Equal(t, "constants", c.Generate.Package)
	assert.Equal(t, "cargo:", c.Directives.Prefix)
	assert.Empty(t, c.Compiler.CC)
}

func TestDefault(t *testing.T) {
	tests := []struct {
		key    string
		expect string
	}{
		{key: "log.level", expect: "info"},
		{key: "generate.lang", expect: "rust"},
		{key: "directives.prefix", expect: "cargo:"},
		{key: "compiler.cc", expect: ""},
		{key: "nope", expect: ""},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.expect, Default(tc.key))
		})
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(contents), 0o644))

	return file
}

func TestFeedOrder(t *testing.T) {
	file := writeConfig(t, `
log:
  level: debug
compiler:
  cc: clang
  opt_level: "2"
generate:
  lang: go
`)

	env := map[string]string{
		"TARGETKIT_CC":        "gcc",
		"TARGETKIT_CFLAGS":    "-Wall '-DNAME=a b'",
		"TARGETKIT_DEBUG":     "true",
		"TARGETKIT_LOG_LEVEL": "trace",
	}

	cm, err := NewConfigManager(
		WithFile(file, false),
		WithEnv(func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, file, cm.ConfigFile)
	assert.Equal(t, "trace", cm.Config.Log.Level)
	assert.Equal(t, "gcc", cm.Config.Compiler.CC)
	assert.Equal(t, "2", cm.Config.Compiler.OptLevel)
	assert.Equal(t, []string{"-Wall", "-DNAME=a b"}, cm.Config.Compiler.Flags)
	assert.True(t, cm.Config.Compiler.Debug)
	assert.Equal(t, "go", cm.Config.Generate.Lang)
	assert.Equal(t, "constants", cm.Config.Generate.Package)
}

func TestWithFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewConfigManager(WithFile(missing, false))
	assert.Error(t, err)

	cm, err := NewConfigManager(WithFile(missing, true))
	require.NoError(t, err)
	assert.Equal(t, "info", cm.Config.Log.Level)

	_, err = NewConfigManager(WithFile("config.toml", true))
	assert.Error(t, err)

	_, err = NewConfigManager(WithFile(writeConfig(t, "unknown: true\n"), false))
	assert.Error(t, err)

	_, err = NewConfigManager(WithFile(writeConfig(t, ""), false))
	assert.NoError(t, err)
}

func TestEnvFeederInvalidValue(t *testing.T) {
	c, err := NewDefaultConfig()
	require.NoError(t, err)

	err = EnvFeeder{Lookup: func(key string) (string, bool) {
		return "sometimes", key == "TARGETKIT_DEBUG"
	}}.Feed(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TARGETKIT_DEBUG")

	assert.Error(t, EnvFeeder{}.Feed(*c))
}

func TestConfigDir(t *testing.T) {
	t.Setenv(TARGETKIT_CONFIG_DIR, "")
	t.Setenv(XDG_CONFIG_HOME, "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "targetkit"), ConfigDir())

	t.Setenv(TARGETKIT_CONFIG_DIR, "/etc/targetkit")
	assert.Equal(t, "/etc/targetkit", ConfigDir())
	assert.Equal(t, filepath.Join("/etc/targetkit", "config.yaml"), DefaultConfigFile())
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, "info", G(context.Background()).Log.Level)

	cm, err := NewConfigManager()
	require.NoError(t, err)
	cm.Config.Log.Level = "warn"

	ctx := WithConfigManager(context.Background(), cm)
	assert.Equal(t, "warn", G(ctx).Log.Level)
}

func TestAllowedValues(t *testing.T) {
	assert.Contains(t, AllowedValues("generate.lang"), "go")
	assert.Empty(t, AllowedValues("compiler.cc"))
}
