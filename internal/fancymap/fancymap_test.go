// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package fancymap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintFancyMap(t *testing.T) {
	var out bytes.Buffer

	PrintFancyMap(&out, "build complete", true,
		FancyMapEntry{Key: "module", Value: "/out/constants.rs"},
		FancyMapEntry{Key: "archives", Value: "5", Right: "(12 kB)"},
	)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "build complete")
	assert.Contains(t, lines[2], "├")
	assert.Contains(t, lines[2], "module: /out/constants.rs")
	assert.Contains(t, lines[3], "└")
	assert.Contains(t, lines[3], "archives: 5")
	assert.True(t, strings.HasSuffix(lines[3], "(12 kB)"))
}
