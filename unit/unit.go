// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package unit declares the native helper compilation units and plans which
// of them are built, and with which preprocessor definitions, for a given set
// of feature flags and target platform.
package unit

// Define is a preprocessor definition attached to a unit.  Exactly one of
// Param or Value is used: Param names a resolved parameter whose decimal value
// becomes the macro value, Value is a literal.  When, if set, restricts the
// definition independently of the unit's own Enabled predicate.
type Define struct {
	Macro string
	Param string
	Value string
	When  Predicate
}

// Watch is an additional input, typically a header, whose change must cause a
// rebuild.  When restricts it the same way as for Define.
type Watch struct {
	Path string
	When Predicate
}

// Unit is a single native translation unit compiled into its own static
// artifact.
type Unit struct {
	// ID identifies the unit in logs and errors.
	ID string

	// Source is relative to the source directory.
	Source string

	// Headers are relative to the source directory.
	Headers []Watch

	// Enabled gates the whole unit.  A nil predicate is always enabled.
	Enabled Predicate

	Defines []Define

	// Artifact is the static library name, without the lib prefix or
	// extension.  Defaults to ID.
	Artifact string
}

// ArtifactName returns the name of the produced static library.
func (u Unit) ArtifactName() string {
	if len(u.Artifact) > 0 {
		return u.Artifact
	}

	return u.ID
}
