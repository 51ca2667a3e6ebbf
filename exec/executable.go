// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

package exec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/shlex"
)

type Executable struct {
	bin  string
	args []string
}

// NewExecutable accepts an input argument bin which is the path or executable
// name to be ultimately executed.  The binary may carry leading arguments, e.g.
// "ccache cc", which are split shell-style.  An optional positional argument
// face can be provided which uses the attribute annotation tags
// `flag:"-o"` to serialize the executable's command-line arguments.
func NewExecutable(bin string, face interface{}, args ...string) (*Executable, error) {
	if len(strings.TrimSpace(bin)) == 0 {
		return nil, fmt.Errorf("binary argument cannot be empty")
	}

	parts, err := shlex.Split(bin)
	if err != nil {
		return nil, fmt.Errorf("could not split binary %q: %w", bin, err)
	}

	e := &Executable{
		bin:  parts[0],
		args: parts[1:],
	}

	if face != nil {
		ifaceArgs, err := ParseInterfaceArgs(face)
		if err != nil {
			return nil, err
		}

		e.args = append(e.args, ifaceArgs...)
	}

	e.args = append(e.args, args...)

	return e, nil
}

// Bin returns the binary name or path to be executed
func (e *Executable) Bin() string {
	return e.bin
}

func (e *Executable) Args() []string {
	return e.args
}

// ParseInterfaceArgs returns the array of arguments detected from a structure
// with tag annotations `flag`.  Supported attribute kinds are bool (flag is
// passed alone when true), string (flag and value when non-empty) and
// []string (flag and value for each element).  Untagged embedded structures
// are walked recursively.
func ParseInterfaceArgs(face interface{}, args ...string) ([]string, error) {
	v := reflect.ValueOf(face)
	if v.Kind() == reflect.Ptr {
		return nil, fmt.Errorf("cannot derive interface arguments from pointer: passed by reference")
	}

	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot derive interface arguments from %s", v.Kind())
	}

	return parseStructArgs(v, args)
}

func parseStructArgs(v reflect.Value, args []string) ([]string, error) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		flag := strings.Split(t.Field(i).Tag.Get("flag"), ",")[0]
		field := v.Field(i)

		if len(flag) == 0 {
			if field.Kind() == reflect.Struct {
				var err error
				args, err = parseStructArgs(field, args)
				if err != nil {
					return nil, err
				}
			}

			continue
		}

		switch field.Kind() {
		case reflect.Bool:
			if field.Bool() {
				args = append(args, flag)
			}

		case reflect.String:
			if value := field.String(); len(value) > 0 {
				args = append(args, flag, value)
			}

		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				return nil, fmt.Errorf("unsupported slice type for flag %s: %s", flag, field.Type())
			}

			for j := 0; j < field.Len(); j++ {
				args = append(args, flag, field.Index(j).String())
			}

		default:
			return nil, fmt.Errorf("unsupported type for flag %s: %s", flag, field.Kind())
		}
	}

	return args, nil
}
