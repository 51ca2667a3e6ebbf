// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/mitchellh/go-homedir"
)

const (
	TARGETKIT_CONFIG_DIR = "TARGETKIT_CONFIG_DIR"
	XDG_CONFIG_HOME      = "XDG_CONFIG_HOME"
	APP_DATA             = "AppData"
)

// NewDefaultConfig returns a configuration holding only the values of the
// `default` struct tags.
func NewDefaultConfig() (*TargetKit, error) {
	c := &TargetKit{}

	if err := setDefaults(c); err != nil {
		return nil, fmt.Errorf("could not set defaults for config: %s", err)
	}

	return c, nil
}

// ConfigDir returns the directory holding the configuration file.
//
// Config path precedence
// 1. TARGETKIT_CONFIG_DIR
// 2. XDG_CONFIG_HOME
// 3. AppData (windows only)
// 4. HOME
func ConfigDir() string {
	if a := os.Getenv(TARGETKIT_CONFIG_DIR); a != "" {
		if expanded, err := homedir.Expand(a); err == nil {
			return expanded
		}
		return a
	} else if b := os.Getenv(XDG_CONFIG_HOME); b != "" {
		return filepath.Join(b, "targetkit")
	} else if c := os.Getenv(APP_DATA); runtime.GOOS == "windows" && c != "" {
		return filepath.Join(c, "TargetKit")
	}

	home, _ := homedir.Dir()
	return filepath.Join(home, ".config", "targetkit")
}

// DefaultConfigFile is the configuration file read when none is given.
func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func setDefaults(s interface{}) error {
	return setDefaultValue(reflect.ValueOf(s), "")
}

// setValue assigns raw to v according to its kind.  It is shared by the
// defaults and the environment feeder.
func setValue(v reflect.Value, raw string) error {
	switch v.Kind() {
	case reflect.Int:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("could not parse integer value: %s", err)
		}
		v.SetInt(i)

	case reflect.String:
		v.SetString(raw)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("could not parse boolean value: %s", err)
		}
		v.SetBool(b)

	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", v.Type())
		}

		items, err := shlex.Split(raw)
		if err != nil {
			return fmt.Errorf("could not split list value: %s", err)
		}
		v.Set(reflect.ValueOf(items))
	}

	return nil
}

func setDefaultValue(v reflect.Value, def string) error {
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("not a pointer value")
	}

	v = reflect.Indirect(v)

	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err := setDefaultValue(
				v.Field(i).Addr(),
				v.Type().Field(i).Tag.Get("default"),
			); err != nil {
				return err
			}
		}

	default:
		if len(strings.TrimSpace(def)) == 0 {
			return nil
		}

		return setValue(v, def)
	}

	return nil
}
