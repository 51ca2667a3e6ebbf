// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextFallsBackToGlobal(t *testing.T) {
	assert.Same(t, L, G(context.Background()))

	logger := logrus.New()
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, G(ctx))
}

func TestBasicFormatter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, BASIC, logrus.DebugLevel, false)

	logger.WithField("unit", "coverage").Debug("compiling")

	assert.Equal(t, "level=debug msg=compiling unit=coverage\n", buf.String())
}

func TestQuietDiscards(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, QUIET, logrus.TraceLevel, false)

	logger.Error("nothing to see")

	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerTypeRoundTrip(t *testing.T) {
	for _, typ := range []LoggerType{QUIET, BASIC, FANCY, JSON} {
		assert.Equal(t, typ, LoggerTypeFromString(typ.String()))
	}

	assert.Equal(t, BASIC, LoggerTypeFromString("unknown"))
}
