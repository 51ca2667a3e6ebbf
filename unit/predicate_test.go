// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	env := Env{
		Features: NewFeatures("sancov-cmplog"),
		Platform: PlatformFromOS("Linux"),
	}

	tests := []struct {
		pred   Predicate
		expect bool
		desc   string
	}{
		{Always(), true, "always"},
		{Feature(FeatureSancovCmplog), true, "feature=sancov_cmplog"},
		{Feature(FeatureLibfuzzer), false, "feature=libfuzzer"},
		{TargetOS("freebsd", "linux"), true, "os=freebsd|linux"},
		{TargetFamily(FamilyWindows), false, "family=windows"},
		{All(Feature(FeatureSancovCmplog), TargetFamily(FamilyUnix)), true, "all(feature=sancov_cmplog, family=unix)"},
		{All(Feature(FeatureSancovCmplog), Feature(FeatureLibfuzzer)), false, "all(feature=sancov_cmplog, feature=libfuzzer)"},
		{Any(Feature(FeatureLibfuzzer), nil), true, "any(feature=libfuzzer, always)"},
		{Any(), false, "any()"},
		{Not(TargetFamily(FamilyWindows)), true, "not(family=windows)"},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.pred.Eval(env))
			assert.Equal(t, tc.desc, tc.pred.String())
		})
	}
}

func TestFeaturesFromEnv(t *testing.T) {
	fs := FeaturesFromEnv([]string{
		"CARGO_FEATURE_SANCOV_CMPLOG=1",
		"CARGO_FEATURE_LIBFUZZER=1",
		"CARGO_FEATURE_=1",
		"CARGO_PKG_NAME=libafl_targets",
		"PATH=/usr/bin",
	})

	assert.Equal(t, []string{"libfuzzer", "sancov_cmplog"}, fs.Names())
}

func TestParseFeatures(t *testing.T) {
	fs := ParseFeatures("sancov_value_profile, libfuzzer", "sanitizers-flags")

	assert.True(t, fs.Has(FeatureSanitizersFlags))
	assert.True(t, fs.Has("SANCOV_VALUE_PROFILE"))
	assert.False(t, fs.Has(FeatureSancovCmplog))

	merged := fs.Merge(NewFeatures(FeatureSancovCmplog))
	assert.Len(t, merged, 4)
	assert.Len(t, fs, 3)
}

func TestPlatformFromOS(t *testing.T) {
	assert.Equal(t, Platform{OS: "linux", Family: FamilyUnix}, PlatformFromOS("linux"))
	assert.Equal(t, Platform{OS: "windows", Family: FamilyWindows}, PlatformFromOS(" Windows "))
	assert.Equal(t, FamilyUnknown, PlatformFromOS("uefi").Family)
	assert.NotEmpty(t, HostPlatform().OS)
}
