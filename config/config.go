// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package config holds the user-level settings of targetkit, seeded from
// struct tag defaults and fed from a YAML file and TARGETKIT_* environment
// variables.
package config

type TargetKit struct {
	Log struct {
		Level      string `yaml:"level" env:"TARGETKIT_LOG_LEVEL" long:"log-level" usage:"Log level verbosity" default:"info"`
		Timestamps bool   `yaml:"timestamps" env:"TARGETKIT_LOG_TIMESTAMPS" long:"log-timestamps" usage:"Enable log timestamps"`
		Type       string `yaml:"type" env:"TARGETKIT_LOG_TYPE" long:"log-type" usage:"Log type" default:"fancy"`
	} `yaml:"log"`

	Compiler struct {
		CC          string   `yaml:"cc,omitempty" env:"TARGETKIT_CC" long:"cc" usage:"C compiler, overridden by CC"`
		AR          string   `yaml:"ar,omitempty" env:"TARGETKIT_AR" long:"ar" usage:"Static archiver, overridden by AR"`
		Flags       []string `yaml:"flags,omitempty" env:"TARGETKIT_CFLAGS" long:"cflag" usage:"Additional C compiler flags"`
		IncludeDirs []string `yaml:"include_dirs,omitempty" env:"TARGETKIT_INCLUDE_DIRS" long:"include-dir" usage:"Additional header search directories"`
		OptLevel    string   `yaml:"opt_level,omitempty" env:"TARGETKIT_OPT_LEVEL" long:"opt-level" usage:"Optimization level when the build system does not set OPT_LEVEL"`
		Debug       bool     `yaml:"debug" env:"TARGETKIT_DEBUG" long:"debug-info" usage:"Emit debug information"`
	} `yaml:"compiler"`

	Generate struct {
		Lang     string `yaml:"lang" env:"TARGETKIT_GENERATE_LANG" long:"lang" usage:"Language of the generated constants module" default:"rust"`
		Package  string `yaml:"package" env:"TARGETKIT_GENERATE_PACKAGE" long:"package" usage:"Package of the generated Go module" default:"constants"`
		FileName string `yaml:"file_name,omitempty" env:"TARGETKIT_GENERATE_FILE_NAME" long:"file-name" usage:"Name of the generated constants module"`
	} `yaml:"generate"`

	Directives struct {
		Prefix string `yaml:"prefix" env:"TARGETKIT_DIRECTIVE_PREFIX" long:"directive-prefix" usage:"Prefix of host build system directives" default:"cargo:"`
	} `yaml:"directives"`
}

type ConfigDetail struct {
	Key           string
	Description   string
	AllowedValues []string
}

// Descriptions of each configuration parameter as well as valid values
var configDetails = []ConfigDetail{
	{
		Key:         "log.level",
		Description: "Set the logging verbosity",
		AllowedValues: []string{
			"fatal",
			"error",
			"warn",
			"info",
			"debug",
			"trace",
		},
	},
	{
		Key:         "log.type",
		Description: "Set the logging output style",
		AllowedValues: []string{
			"quiet",
			"basic",
			"fancy",
			"json",
		},
	},
	{
		Key:         "log.timestamps",
		Description: "Show timestamps with log output",
	},
	{
		Key:         "compiler.opt_level",
		Description: "Optimization level passed as -O<level>",
		AllowedValues: []string{
			"0",
			"1",
			"2",
			"3",
			"s",
			"z",
		},
	},
	{
		Key:         "generate.lang",
		Description: "Language of the generated constants module",
		AllowedValues: []string{
			"rust",
			"go",
			"c",
		},
	},
}

func ConfigDetails() []ConfigDetail {
	return configDetails
}

// AllowedValues returns the permitted values of key, or none when any value
// is accepted.
func AllowedValues(key string) []string {
	for _, details := range ConfigDetails() {
		if details.Key == key {
			return details.AllowedValues
		}
	}

	return []string{}
}
