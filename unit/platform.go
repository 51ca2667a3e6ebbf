// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package unit

import (
	"runtime"
	"strings"
)

// Family is the platform class of a target operating system.
type Family string

const (
	FamilyUnknown = Family("unknown")
	FamilyUnix    = Family("unix")
	FamilyWindows = Family("windows")
)

func (f Family) String() string {
	return string(f)
}

// Platform identifies the target the units are compiled for.
type Platform struct {
	OS     string
	Family Family
}

func (p Platform) String() string {
	return p.OS + "/" + p.Family.String()
}

// FamiliesByOS maps known operating system names to their platform class.
func FamiliesByOS() map[string]Family {
	return map[string]Family{
		"android":   FamilyUnix,
		"darwin":    FamilyUnix,
		"dragonfly": FamilyUnix,
		"freebsd":   FamilyUnix,
		"illumos":   FamilyUnix,
		"ios":       FamilyUnix,
		"linux":     FamilyUnix,
		"macos":     FamilyUnix,
		"netbsd":    FamilyUnix,
		"openbsd":   FamilyUnix,
		"solaris":   FamilyUnix,
		"windows":   FamilyWindows,
	}
}

// PlatformFromOS derives the platform class from the operating system name.
func PlatformFromOS(os string) Platform {
	os = strings.ToLower(strings.TrimSpace(os))

	family, ok := FamiliesByOS()[os]
	if !ok {
		family = FamilyUnknown
	}

	return Platform{
		OS:     os,
		Family: family,
	}
}

// HostPlatform returns the platform of the running process.
func HostPlatform() Platform {
	return PlatformFromOS(runtime.GOOS)
}
