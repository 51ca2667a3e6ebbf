// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New prepares a logger which writes to out using the formatter matching the
// provided type.  Build output on stdout is reserved for host directives, so
// callers normally pass os.Stderr.
func New(out io.Writer, typ LoggerType, level logrus.Level, timestamps bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch typ {
	case QUIET:
		logger.SetOutput(io.Discard)
	case FANCY:
		logger.SetFormatter(&TextFormatter{
			ForceFormatting: true,
			Timestamps:      timestamps,
		})
	case JSON:
		logger.SetFormatter(&logrus.JSONFormatter{
			DisableTimestamp: !timestamps,
		})
	default:
		logger.SetFormatter(&TextFormatter{
			Timestamps: timestamps,
		})
	}

	return logger
}
