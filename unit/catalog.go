// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package unit

import "targetkit.sh/param"

// Catalog returns the native helper units in declaration order.  Later units
// may reference symbols exported by earlier ones, so the order is kept as is
// when compiling.
func Catalog() []Unit {
	return []Unit{
		{
			ID:     "sancov_cmp",
			Source: "sancov_cmp.c",
			Headers: []Watch{
				{Path: "value_profile.h", When: Feature(FeatureSancovValueProfile)},
			},
			Enabled: Any(
				Feature(FeatureSancovValueProfile),
				Feature(FeatureSancovCmplog),
			),
			Defines: []Define{
				{Macro: "SANCOV_VALUE_PROFILE", Value: "1", When: Feature(FeatureSancovValueProfile)},
				{Macro: "SANCOV_CMPLOG", Value: "1", When: Feature(FeatureSancovCmplog)},
				{Macro: "CMP_MAP_SIZE", Param: param.CmpMapSize},
				{Macro: "CMPLOG_MAP_W", Param: param.CmplogMapW},
				{Macro: "CMPLOG_MAP_H", Param: param.CmplogMapH},
			},
		},
		{
			ID:      "libfuzzer",
			Source:  "libfuzzer.c",
			Enabled: Feature(FeatureLibfuzzer),
		},
		{
			ID:     "common",
			Source: "common.c",
			Headers: []Watch{
				{Path: "common.h"},
			},
			Defines: []Define{
				{Macro: "DEFAULT_SANITIZERS_OPTIONS", Value: "1", When: Feature(FeatureSanitizersFlags)},
			},
		},
		{
			ID:     "coverage",
			Source: "coverage.c",
			Defines: []Define{
				{Macro: "EDGES_MAP_SIZE", Param: param.EdgesMapSize},
				{Macro: "ACCOUNTING_MAP_SIZE", Param: param.AccountingMapSize},
			},
		},
		{
			ID:     "cmplog",
			Source: "cmplog.c",
			Headers: []Watch{
				{Path: "cmplog.h"},
			},
			Defines: []Define{
				{Macro: "CMPLOG_MAP_W", Param: param.CmplogMapW},
				{Macro: "CMPLOG_MAP_H", Param: param.CmplogMapH},
			},
		},
		{
			ID:      "forkserver",
			Source:  "forkserver.c",
			Enabled: TargetOS("linux", "freebsd"),
		},
		{
			ID:      "windows_asan",
			Source:  "windows_asan.c",
			Enabled: TargetFamily(FamilyWindows),
		},
	}
}
