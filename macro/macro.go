// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package macro holds the preprocessor definitions handed to the native
// compiler for each compilation unit.
package macro

import (
	"sort"
	"strings"
)

// Value is a single preprocessor definition, rendered as NAME=VALUE.  An empty
// Value renders as a bare NAME which the compiler defines to 1.
type Value struct {
	Name  string
	Value string
}

func (v Value) String() string {
	if len(v.Value) == 0 {
		return v.Name
	}

	return v.Name + "=" + v.Value
}

// Values is an insertion-ordered list of definitions.  Setting a name which
// already exists replaces its value in place so the rendered order stays
// stable between runs.
type Values []Value

// NewValues parses entries in the form NAME=VALUE or NAME.
func NewValues(entries ...string) Values {
	var values Values

	for _, entry := range entries {
		tokens := strings.SplitN(entry, "=", 2)
		if len(tokens) > 1 {
			values = values.Set(tokens[0], tokens[1])
		} else {
			values = values.Set(entry, "")
		}
	}

	return values
}

// Set adds or replaces the definition of name.
func (vs Values) Set(name, value string) Values {
	for i := range vs {
		if vs[i].Name == name {
			vs[i].Value = value
			return vs
		}
	}

	return append(vs, Value{Name: name, Value: value})
}

// Unset removes the definition of name if present.
func (vs Values) Unset(name string) Values {
	for i := range vs {
		if vs[i].Name == name {
			return append(vs[:i:i], vs[i+1:]...)
		}
	}

	return vs
}

// Get returns the value of name and whether it is defined.
func (vs Values) Get(name string) (string, bool) {
	for _, v := range vs {
		if v.Name == name {
			return v.Value, true
		}
	}

	return "", false
}

// OverrideBy sets every definition of other on top of vs.
func (vs Values) OverrideBy(other Values) Values {
	for _, v := range other {
		vs = vs.Set(v.Name, v.Value)
	}

	return vs
}

// Map returns the definitions as a plain map.
func (vs Values) Map() map[string]string {
	m := make(map[string]string, len(vs))
	for _, v := range vs {
		m[v.Name] = v.Value
	}

	return m
}

// Strings renders each definition as NAME=VALUE in order.
func (vs Values) Strings() []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}

	return out
}

// Names returns the sorted definition names.
func (vs Values) Names() []string {
	names := make([]string, 0, len(vs))
	for _, v := range vs {
		names = append(names, v.Name)
	}

	sort.Strings(names)

	return names
}
