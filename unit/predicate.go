// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package unit

import (
	"fmt"
	"strings"
)

// Env is what predicates are evaluated against.
type Env struct {
	Features Features
	Platform Platform
}

// Predicate decides whether a unit, definition or watched file applies.
type Predicate interface {
	fmt.Stringer
	Eval(Env) bool
}

type predicateFunc struct {
	desc string
	fn   func(Env) bool
}

func (p predicateFunc) Eval(env Env) bool { return p.fn(env) }

func (p predicateFunc) String() string { return p.desc }

// eval treats a nil predicate as always true.
func eval(p Predicate, env Env) bool {
	return p == nil || p.Eval(env)
}

// Always holds unconditionally.
func Always() Predicate {
	return predicateFunc{"always", func(Env) bool { return true }}
}

// Feature holds when the named feature flag is active.
func Feature(name string) Predicate {
	return predicateFunc{"feature=" + normalizeFeature(name), func(env Env) bool {
		return env.Features.Has(name)
	}}
}

// TargetOS holds when the target operating system is one of names.
func TargetOS(names ...string) Predicate {
	return predicateFunc{"os=" + strings.Join(names, "|"), func(env Env) bool {
		for _, name := range names {
			if strings.EqualFold(env.Platform.OS, name) {
				return true
			}
		}

		return false
	}}
}

// TargetFamily holds when the target belongs to the platform class f.
func TargetFamily(f Family) Predicate {
	return predicateFunc{"family=" + f.String(), func(env Env) bool {
		return env.Platform.Family == f
	}}
}

// All holds when every predicate holds.
func All(ps ...Predicate) Predicate {
	return predicateFunc{join("all", ps), func(env Env) bool {
		for _, p := range ps {
			if !eval(p, env) {
				return false
			}
		}

		return true
	}}
}

// Any holds when at least one predicate holds.
func Any(ps ...Predicate) Predicate {
	return predicateFunc{join("any", ps), func(env Env) bool {
		for _, p := range ps {
			if eval(p, env) {
				return true
			}
		}

		return false
	}}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return predicateFunc{join("not", []Predicate{p}), func(env Env) bool {
		return !eval(p, env)
	}}
}

func join(op string, ps []Predicate) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if p == nil {
			parts = append(parts, "always")
		} else {
			parts = append(parts, p.String())
		}
	}

	return op + "(" + strings.Join(parts, ", ") + ")"
}
