// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

// Feeder populates a configuration structure from one source.
type Feeder interface {
	Feed(structure interface{}) error
}
