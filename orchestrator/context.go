// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package orchestrator

import (
	"path/filepath"
	"strings"

	"targetkit.sh/param"
	"targetkit.sh/unit"
)

// Variables set by cargo for build scripts.
const (
	EnvOutDir       = "OUT_DIR"
	EnvManifestDir  = "CARGO_MANIFEST_DIR"
	EnvTargetOS     = "CARGO_CFG_TARGET_OS"
	EnvTargetFamily = "CARGO_CFG_TARGET_FAMILY"
	EnvOptLevel     = "OPT_LEVEL"
	EnvDebug        = "DEBUG"
)

// Variables consulted when building the default compiler.
const (
	EnvCC     = "CC"
	EnvAR     = "AR"
	EnvCFLAGS = "CFLAGS"
)

// Context is everything a run reads from its surroundings.  Nothing is read
// from the process environment directly.
type Context struct {
	// Lookup reads parameter overrides and compiler variables.  A nil Lookup
	// sees an empty environment.
	Lookup param.LookupFunc

	// OutDir receives the generated module, objects and archives.  Required.
	OutDir string

	// SrcDir holds the unit sources and headers.
	SrcDir string

	// Script is the path of the calling build script, watched for changes.
	Script string

	// ConfigFile is watched for changes when set.
	ConfigFile string

	Features unit.Features
	Platform unit.Platform

	// OptLevel and Debug mirror the host build profile.
	OptLevel string
	Debug    bool
}

func (c Context) lookup(key string) (string, bool) {
	if c.Lookup == nil {
		return "", false
	}

	return c.Lookup(key)
}

// environMap splits KEY=VALUE entries.  Later entries win.
func environMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if key, value, ok := strings.Cut(kv, "="); ok {
			env[key] = value
		}
	}

	return env
}

// familyFromList reads cargo's comma separated target family list.
func familyFromList(list string) (unit.Family, bool) {
	for _, f := range strings.Split(list, ",") {
		switch unit.Family(strings.TrimSpace(f)) {
		case unit.FamilyWindows:
			return unit.FamilyWindows, true
		case unit.FamilyUnix:
			return unit.FamilyUnix, true
		}
	}

	return unit.FamilyUnknown, false
}

// ContextFromEnv builds a Context from the variables cargo hands to a build
// script.  Without CARGO_CFG_TARGET_OS the host platform is assumed.
func ContextFromEnv(environ []string) Context {
	env := environMap(environ)

	c := Context{
		Lookup:   param.LookupMap(env),
		OutDir:   env[EnvOutDir],
		SrcDir:   "src",
		Script:   "build.rs",
		Features: unit.FeaturesFromEnv(environ),
		Platform: unit.HostPlatform(),
		OptLevel: env[EnvOptLevel],
		Debug:    env[EnvDebug] == "true",
	}

	if dir := env[EnvManifestDir]; len(dir) > 0 {
		c.SrcDir = filepath.Join(dir, c.SrcDir)
		c.Script = filepath.Join(dir, c.Script)
	}

	if targetOS := env[EnvTargetOS]; len(targetOS) > 0 {
		c.Platform = unit.PlatformFromOS(targetOS)
	}

	if family, ok := familyFromList(env[EnvTargetFamily]); ok {
		c.Platform.Family = family
	}

	return c
}
