// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package rebuild

import (
	"fmt"
	"io"
)

// DefaultPrefix is the directive prefix understood by cargo build scripts.
const DefaultPrefix = "cargo:"

// Directives writes host build system instructions, one per line.
type Directives struct {
	out    io.Writer
	prefix string
}

// NewDirectives returns a writer which emits directives to out.  An empty
// prefix selects DefaultPrefix.
func NewDirectives(out io.Writer, prefix string) *Directives {
	if len(prefix) == 0 {
		prefix = DefaultPrefix
	}

	return &Directives{
		out:    out,
		prefix: prefix,
	}
}

func (d *Directives) emit(key, value string) error {
	if d == nil || d.out == nil {
		return nil
	}

	_, err := fmt.Fprintf(d.out, "%s%s=%s\n", d.prefix, key, value)
	return err
}

// RerunIfChanged asks the host to rerun when path changes.
func (d *Directives) RerunIfChanged(path string) error {
	return d.emit("rerun-if-changed", path)
}

// RerunIfEnvChanged asks the host to rerun when the variable key changes.
func (d *Directives) RerunIfEnvChanged(key string) error {
	return d.emit("rerun-if-env-changed", key)
}

// LinkSearch announces dir as a location of native static artifacts.
func (d *Directives) LinkSearch(dir string) error {
	return d.emit("rustc-link-search", "native="+dir)
}

// LinkLib announces a static library produced by this run.
func (d *Directives) LinkLib(name string) error {
	return d.emit("rustc-link-lib", "static="+name)
}
