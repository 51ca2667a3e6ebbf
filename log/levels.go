// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Levels returns a map of log level string names to their constant equivalent.
func Levels() map[string]logrus.Level {
	return map[string]logrus.Level{
		"panic":   logrus.PanicLevel,
		"fatal":   logrus.FatalLevel,
		"error":   logrus.ErrorLevel,
		"warning": logrus.WarnLevel,
		"warn":    logrus.WarnLevel,
		"info":    logrus.InfoLevel,
		"debug":   logrus.DebugLevel,
		"trace":   logrus.TraceLevel,
	}
}

// ParseLevel looks up a level by its name, case-insensitively.
func ParseLevel(name string) (logrus.Level, error) {
	level, ok := Levels()[strings.ToLower(name)]
	if !ok {
		return logrus.InfoLevel, fmt.Errorf("unknown log level: %s", name)
	}

	return level, nil
}
