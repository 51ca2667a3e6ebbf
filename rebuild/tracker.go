// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package rebuild accumulates the inputs which, when changed, must cause the
// host build system to rerun the orchestration.
package rebuild

// Kind is the type of input watched by a Trigger.
type Kind string

const (
	KindFile Kind = "file"
	KindEnv  Kind = "env"
)

// Trigger is a single watched input.
type Trigger struct {
	Kind Kind
	ID   string
}

// Tracker emits each trigger to the host as soon as it is registered and keeps
// the append-only list for inspection.  Registering the same input twice is
// harmless.
type Tracker struct {
	directives *Directives
	triggers   []Trigger
	err        error
}

// NewTracker returns a Tracker which writes through directives.  A nil
// directives value only records triggers.
func NewTracker(directives *Directives) *Tracker {
	return &Tracker{
		directives: directives,
	}
}

// File watches a file path.
func (t *Tracker) File(path string) {
	t.triggers = append(t.triggers, Trigger{Kind: KindFile, ID: path})
	t.keep(t.directives.RerunIfChanged(path))
}

// Env watches an environment variable, set or not.
func (t *Tracker) Env(key string) {
	t.triggers = append(t.triggers, Trigger{Kind: KindEnv, ID: key})
	t.keep(t.directives.RerunIfEnvChanged(key))
}

// Triggers returns a copy of every trigger registered so far in order.
func (t *Tracker) Triggers() []Trigger {
	return append([]Trigger(nil), t.triggers...)
}

// Err returns the first error encountered writing a directive.
func (t *Tracker) Err() error {
	return t.err
}

func (t *Tracker) keep(err error) {
	if t.err == nil {
		t.err = err
	}
}
