// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package unit

import (
	"sort"
	"strings"
)

// Feature flags understood by the built-in catalog.
const (
	FeatureSancovValueProfile = "sancov_value_profile"
	FeatureSancovCmplog       = "sancov_cmplog"
	FeatureLibfuzzer          = "libfuzzer"
	FeatureSanitizersFlags    = "sanitizers_flags"
)

// cargoFeaturePrefix is how cargo exposes enabled features to build scripts.
const cargoFeaturePrefix = "CARGO_FEATURE_"

// Features is the set of active feature flags.
type Features map[string]struct{}

// NewFeatures returns a set holding names.  Names are normalised so that
// "sancov-cmplog" and "SANCOV_CMPLOG" are the same flag.
func NewFeatures(names ...string) Features {
	fs := Features{}
	for _, name := range names {
		fs.Add(name)
	}

	return fs
}

// ParseFeatures splits comma or whitespace separated feature lists.
func ParseFeatures(lists ...string) Features {
	fs := Features{}
	for _, list := range lists {
		for _, name := range strings.FieldsFunc(list, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}) {
			fs.Add(name)
		}
	}

	return fs
}

// FeaturesFromEnv collects every CARGO_FEATURE_<NAME> variable of environ.
func FeaturesFromEnv(environ []string) Features {
	fs := Features{}
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		if name, ok := strings.CutPrefix(key, cargoFeaturePrefix); ok && len(name) > 0 {
			fs.Add(name)
		}
	}

	return fs
}

func normalizeFeature(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// Add enables a feature.
func (fs Features) Add(name string) {
	if name = normalizeFeature(name); len(name) > 0 {
		fs[name] = struct{}{}
	}
}

// Has reports whether name is enabled.
func (fs Features) Has(name string) bool {
	_, ok := fs[normalizeFeature(name)]
	return ok
}

// Merge returns the union of fs and other.
func (fs Features) Merge(other Features) Features {
	out := Features{}
	for name := range fs {
		out[name] = struct{}{}
	}
	for name := range other {
		out[name] = struct{}{}
	}

	return out
}

// Names returns the enabled features sorted.
func (fs Features) Names() []string {
	names := make([]string, 0, len(fs))
	for name := range fs {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
