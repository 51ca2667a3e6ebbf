// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"os"
	"reflect"
)

// EnvFeeder feeds using environment variables named by `env` struct tags.
type EnvFeeder struct {
	// Lookup reads a variable.  Defaults to os.LookupEnv.
	Lookup func(key string) (string, bool)
}

// Feed the environment variables into the given pointer to a structure.
// Variables which are unset leave the field untouched.
func (f EnvFeeder) Feed(structure interface{}) error {
	lookup := f.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	v := reflect.ValueOf(structure)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("cannot feed environment into %T", structure)
	}

	return feedEnv(v.Elem(), lookup)
}

func feedEnv(v reflect.Value, lookup func(string) (string, bool)) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		key := t.Field(i).Tag.Get("env")

		if field.Kind() == reflect.Struct {
			if err := feedEnv(field, lookup); err != nil {
				return err
			}
			continue
		}

		if len(key) == 0 || !field.CanSet() {
			continue
		}

		raw, ok := lookup(key)
		if !ok {
			continue
		}

		if err := setValue(field, raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	return nil
}
