// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration is returned when an environment override cannot be
	// parsed into its parameter's type.
	ErrConfiguration = errors.New("configuration error")

	// ErrGeneratedFile is returned when the generated constants module cannot
	// be created or written.
	ErrGeneratedFile = errors.New("generated file error")

	// ErrNativeCompilation is returned when the native compiler fails for a
	// compilation unit.
	ErrNativeCompilation = errors.New("native compilation error")

	// ErrInvalid is returned when the build context or a unit declaration is
	// invalid
	ErrInvalid = errors.New("invalid")
)

// ConfigurationError names the environment key whose value could not be
// parsed.
type ConfigurationError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("could not parse %s=%q as a non-negative integer: %v", e.Key, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// GeneratedFileError names the generated module which could not be written.
type GeneratedFileError struct {
	Path string
	Err  error
}

func (e *GeneratedFileError) Error() string {
	return fmt.Sprintf("could not write generated module %s: %v", e.Path, e.Err)
}

func (e *GeneratedFileError) Unwrap() error { return e.Err }

func (e *GeneratedFileError) Is(target error) bool { return target == ErrGeneratedFile }

// NativeCompilationError names the compilation unit which failed to build
// alongside any diagnostic output of the compiler.
type NativeCompilationError struct {
	Unit       string
	Diagnostic string
	Err        error
}

func (e *NativeCompilationError) Error() string {
	msg := fmt.Sprintf("could not compile unit %s: %v", e.Unit, e.Err)
	if diag := strings.TrimSpace(e.Diagnostic); len(diag) > 0 {
		msg += "\n" + diag
	}

	return msg
}

func (e *NativeCompilationError) Unwrap() error { return e.Err }

func (e *NativeCompilationError) Is(target error) bool { return target == ErrNativeCompilation }

// IsConfigurationError returns true if the unwrapped error is ErrConfiguration
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsGeneratedFileError returns true if the unwrapped error is ErrGeneratedFile
func IsGeneratedFileError(err error) bool {
	return errors.Is(err, ErrGeneratedFile)
}

// IsNativeCompilationError returns true if the unwrapped error is
// ErrNativeCompilation
func IsNativeCompilationError(err error) bool {
	return errors.Is(err, ErrNativeCompilation)
}

// IsInvalidError returns true if the unwrapped error is ErrInvalid
func IsInvalidError(err error) bool {
	return errors.Is(err, ErrInvalid)
}
