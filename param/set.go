// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package param

// Set is the ordered, read-only result of Resolve.
type Set struct {
	params []Parameter
	index  map[string]int
}

// Get returns the resolved value of the named parameter.
func (s *Set) Get(name string) (uint64, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}

	return s.params[i].Value, true
}

// Value returns the resolved value of the named parameter, or zero.
func (s *Set) Value(name string) uint64 {
	v, _ := s.Get(name)
	return v
}

// All returns a copy of the resolved parameters in declaration order.
func (s *Set) All() []Parameter {
	return append([]Parameter(nil), s.params...)
}

// Len returns the number of parameters.
func (s *Set) Len() int {
	return len(s.params)
}
