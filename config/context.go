// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"context"
)

// G is an alias for FromContext.
var G = FromContext

// contextKey is used to retrieve the configuration manager from the context.
type contextKey struct{}

// WithConfigManager returns a new context with the provided manager.
func WithConfigManager(ctx context.Context, cfgm *ConfigManager) context.Context {
	return context.WithValue(ctx, contextKey{}, cfgm)
}

// FromContext returns the configuration in the context, or the defaults when
// none is set.
func FromContext(ctx context.Context) *TargetKit {
	if cfgm, ok := ctx.Value(contextKey{}).(*ConfigManager); ok && cfgm != nil {
		return cfgm.Config
	}

	c, _ := NewDefaultConfig()
	return c
}

// ManagerFromContext returns the configuration manager in the context.
func ManagerFromContext(ctx context.Context) (*ConfigManager, bool) {
	cfgm, ok := ctx.Value(contextKey{}).(*ConfigManager)
	return cfgm, ok && cfgm != nil
}
