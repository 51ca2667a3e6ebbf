// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ConfigManager holds the configuration and the feeders it is populated from.
// Feeders are applied in order so later ones take precedence.
type ConfigManager struct {
	Config     *TargetKit
	ConfigFile string
	Feeders    []Feeder
}

type ConfigManagerOption func(cm *ConfigManager) error

func WithFeeder(feeder Feeder) ConfigManagerOption {
	return func(cm *ConfigManager) error {
		cm.AddFeeder(feeder)
		return nil
	}
}

// WithFile reads the YAML file at path.  A missing file is an error unless
// optional is set.
func WithFile(file string, optional bool) ConfigManagerOption {
	return func(cm *ConfigManager) error {
		file, err := homedir.Expand(file)
		if err != nil {
			return fmt.Errorf("could not expand config file path: %v", err)
		}

		ext := strings.Split(file, ".")
		if len(ext) == 1 {
			return fmt.Errorf("unknown file extension for config file: %s", file)
		}

		switch ext[len(ext)-1] {
		case "yaml", "yml":
			cm.ConfigFile = file
			return WithFeeder(YamlFeeder{
				File:     file,
				Optional: optional,
			})(cm)
		default:
			return fmt.Errorf("unsupported file extension: %s", file)
		}
	}
}

// WithDefaultConfigFile reads DefaultConfigFile when it exists.
func WithDefaultConfigFile() ConfigManagerOption {
	return WithFile(DefaultConfigFile(), true)
}

// WithEnv reads TARGETKIT_* variables through lookup.  A nil lookup reads the
// process environment.
func WithEnv(lookup func(string) (string, bool)) ConfigManagerOption {
	return WithFeeder(EnvFeeder{
		Lookup: lookup,
	})
}

func NewConfigManager(opts ...ConfigManagerOption) (*ConfigManager, error) {
	cm := &ConfigManager{}

	c, err := NewDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("could not seed default values for config: %s", err)
	}

	cm.Config = c

	for _, o := range opts {
		if err := o(cm); err != nil {
			return nil, fmt.Errorf("could not apply config manager option: %v", err)
		}
	}

	// Feed the config, pass the manager anyway if this fails, we still have
	// defaults
	if err := cm.Feed(); err != nil {
		return cm, fmt.Errorf("could not feed config: %v", err)
	}

	return cm, nil
}

// AddFeeder adds a feeder that provides configuration data.
func (cm *ConfigManager) AddFeeder(f Feeder) *ConfigManager {
	cm.Feeders = append(cm.Feeders, f)
	return cm
}

// Feed binds configuration data from added feeders to the configuration.
func (cm *ConfigManager) Feed() error {
	for _, f := range cm.Feeders {
		if err := f.Feed(cm.Config); err != nil {
			return fmt.Errorf("failed to feed config: %v", err)
		}
	}

	return nil
}

// Default returns the `default` tag of the dotted YAML key, e.g. log.level.
func Default(key string) string {
	def, _ := findConfigDefault(strings.Split(key, "."), reflect.TypeOf(TargetKit{}))
	return def
}

func findConfigDefault(path []string, t reflect.Type) (string, bool) {
	if len(path) == 0 || t.Kind() != reflect.Struct {
		return "", false
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if name != path[0] {
			continue
		}

		if len(path) == 1 {
			return field.Tag.Get("default"), true
		}

		return findConfigDefault(path[1:], field.Type)
	}

	return "", false
}
