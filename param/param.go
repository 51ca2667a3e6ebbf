// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package param resolves the numeric build parameters from environment
// overrides, falling back to documented defaults.
package param

import (
	"fmt"
	"strconv"

	"targetkit.sh/internal/errs"
)

// Names of the built-in parameters.
const (
	EdgesMapSize      = "edges map size"
	CmpMapSize        = "cmp map size"
	CmplogMapW        = "cmplog map w"
	CmplogMapH        = "cmplog map h"
	AccountingMapSize = "accounting map size"
)

// Spec declares a parameter: its name, the environment key which may override
// it and the value used when the key is absent.
type Spec struct {
	Name        string
	EnvKey      string
	Default     uint64
	Description string
}

// Parameter is a resolved Spec.
type Parameter struct {
	Spec

	// Value is either the parsed override or the default.
	Value uint64

	// Overridden is true when the environment supplied the value.
	Overridden bool
}

// Defaults returns the built-in parameter declarations in their canonical
// order.
func Defaults() []Spec {
	return []Spec{
		{
			Name:        EdgesMapSize,
			EnvKey:      "LIBAFL_EDGES_MAP_SIZE",
			Default:     65536,
			Description: "The size of the edges map",
		},
		{
			Name:        CmpMapSize,
			EnvKey:      "LIBAFL_CMP_MAP_SIZE",
			Default:     65536,
			Description: "The size of the cmps map",
		},
		{
			Name:        CmplogMapW,
			EnvKey:      "LIBAFL_CMPLOG_MAP_W",
			Default:     65536,
			Description: "The width of the CmpLog map",
		},
		{
			Name:        CmplogMapH,
			EnvKey:      "LIBAFL_CMPLOG_MAP_H",
			Default:     32,
			Description: "The height of the CmpLog map",
		},
		{
			Name:        AccountingMapSize,
			EnvKey:      "LIBAFL_ACCOUNTING_MAP_SIZE",
			Default:     65536,
			Description: "The size of the accounting maps",
		},
	}
}

// LookupFunc reads a key from an environment snapshot.
type LookupFunc func(key string) (string, bool)

// Registrar is notified of every environment key consulted during resolution.
type Registrar interface {
	Env(key string)
}

// Resolve looks up each spec's override in order.  Every key is registered
// with reg before it is read, whether or not it is set, so that its later
// appearance is noticed by the host build system.  A value which does not
// parse as an unsigned integer aborts resolution with an
// *errs.ConfigurationError and no Set is returned.
func Resolve(lookup LookupFunc, specs []Spec, reg Registrar) (*Set, error) {
	set := &Set{
		index: make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		if _, dup := set.index[spec.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate parameter %q", errs.ErrInvalid, spec.Name)
		}

		if reg != nil {
			reg.Env(spec.EnvKey)
		}

		p := Parameter{
			Spec:  spec,
			Value: spec.Default,
		}

		if raw, ok := lookup(spec.EnvKey); ok {
			value, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return nil, &errs.ConfigurationError{
					Key:   spec.EnvKey,
					Value: raw,
					Err:   err,
				}
			}

			p.Value = value
			p.Overridden = true
		}

		set.index[spec.Name] = len(set.params)
		set.params = append(set.params, p)
	}

	return set, nil
}

// LookupMap returns a LookupFunc over a fixed map.
func LookupMap(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
