// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package cmdfactory

import (
	"fmt"
	"strings"
)

// EnumFlag is a pflag.Value accepting one of a fixed set of values,
// compared case-insensitively.
type EnumFlag[T fmt.Stringer] struct {
	Allowed []T
	Value   T
}

// NewEnumFlag give a list of allowed flag parameters, where the second argument
// is the default
func NewEnumFlag[T fmt.Stringer](allowed []T, d T) *EnumFlag[T] {
	return &EnumFlag[T]{
		Allowed: allowed,
		Value:   d,
	}
}

func (a *EnumFlag[T]) String() string {
	return a.Value.String()
}

// Values returns the allowed values as strings.
func (a *EnumFlag[T]) Values() []string {
	allowed := make([]string, len(a.Allowed))
	for i := range a.Allowed {
		allowed[i] = a.Allowed[i].String()
	}

	return allowed
}

func (a *EnumFlag[T]) Set(p string) error {
	for _, opt := range a.Allowed {
		if strings.EqualFold(p, opt.String()) {
			a.Value = opt
			return nil
		}
	}

	return fmt.Errorf("%s is not included in: %s", p, strings.Join(a.Values(), ", "))
}

func (a *EnumFlag[T]) Type() string {
	return "string"
}
