// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		is       func(error) bool
		contains string
	}{
		{
			name:     "configuration error names the key",
			err:      &ConfigurationError{Key: "LIBAFL_CMP_MAP_SIZE", Value: "abc", Err: cause},
			is:       IsConfigurationError,
			contains: "LIBAFL_CMP_MAP_SIZE",
		},
		{
			name:     "generated file error names the path",
			err:      &GeneratedFileError{Path: "/out/constants.rs", Err: cause},
			is:       IsGeneratedFileError,
			contains: "/out/constants.rs",
		},
		{
			name:     "native compilation error names the unit",
			err:      &NativeCompilationError{Unit: "coverage", Diagnostic: "coverage.c:1: error", Err: cause},
			is:       IsNativeCompilationError,
			contains: "coverage.c:1: error",
		},
		{
			name:     "wrapped invalid",
			err:      fmt.Errorf("%w: missing output directory", ErrInvalid),
			is:       IsInvalidError,
			contains: "missing output directory",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("run: %w", tc.err)
			assert.True(t, tc.is(wrapped))
			assert.Contains(t, wrapped.Error(), tc.contains)
		})
	}

	assert.False(t, IsConfigurationError(&GeneratedFileError{Err: cause}))
	assert.ErrorIs(t, &NativeCompilationError{Unit: "cmplog", Err: cause}, cause)
}
