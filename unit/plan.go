// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package unit

import (
	"fmt"
	"strconv"

	"targetkit.sh/internal/errs"
	"targetkit.sh/macro"
	"targetkit.sh/param"
)

// Planned is a unit selected for compilation with its definitions resolved.
type Planned struct {
	Unit    Unit
	Defines macro.Values

	// Headers are the watched files whose predicates held.
	Headers []string
}

// Plan evaluates every unit against the features and platform and returns the
// enabled ones, in declaration order, with parameter values substituted into
// their definitions.  Definitions and headers carrying their own predicate
// are included only when it holds.
func Plan(units []Unit, features Features, platform Platform, params *param.Set) ([]Planned, error) {
	env := Env{
		Features: features,
		Platform: platform,
	}

	var planned []Planned
	seen := make(map[string]struct{}, len(units))

	for _, u := range units {
		if len(u.ID) == 0 || len(u.Source) == 0 {
			return nil, fmt.Errorf("%w: unit requires an identifier and a source", errs.ErrInvalid)
		}

		if _, dup := seen[u.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate unit %q", errs.ErrInvalid, u.ID)
		}
		seen[u.ID] = struct{}{}

		if !eval(u.Enabled, env) {
			continue
		}

		p := Planned{
			Unit: u,
		}

		for _, def := range u.Defines {
			if !eval(def.When, env) {
				continue
			}

			value := def.Value
			if len(def.Param) > 0 {
				if params == nil {
					return nil, fmt.Errorf("%w: unit %s references parameter %q without a parameter set", errs.ErrInvalid, u.ID, def.Param)
				}

				v, ok := params.Get(def.Param)
				if !ok {
					return nil, fmt.Errorf("%w: unit %s references unknown parameter %q", errs.ErrInvalid, u.ID, def.Param)
				}

				value = strconv.FormatUint(v, 10)
			}

			p.Defines = p.Defines.Set(def.Macro, value)
		}

		for _, h := range u.Headers {
			if eval(h.When, env) {
				p.Headers = append(p.Headers, h.Path)
			}
		}

		planned = append(planned, p)
	}

	return planned, nil
}
