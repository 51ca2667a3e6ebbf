// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package fancymap prints a key-value summary list to a writer.
package fancymap

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	gray  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	red   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// FancyMapEntry represents one item in the fancy list.
type FancyMapEntry struct {
	Key   string
	Value string
	Right string
}

// PrintFancyMap writes title followed by entries as a tree, with keys and
// values aligned in columns.  The bullet before the title is green when
// success is set and red otherwise.
func PrintFancyMap(w io.Writer, title string, success bool, entries ...FancyMapEntry) {
	keyPad, valPad := 0, 0

	for _, entry := range entries {
		if newLen := len(entry.Key); newLen >= keyPad {
			keyPad = newLen + 1
		}
		if newLen := len(entry.Value); newLen > valPad {
			valPad = newLen
		}
	}

	bullet := red
	if success {
		bullet = green
	}

	var b strings.Builder

	fmt.Fprintf(&b, "\n%s%s%s %s\n %s\n",
		gray.Render("["), bullet.Render("●"), gray.Render("]"),
		title,
		gray.Render("│"),
	)

	for i, entry := range entries {
		anchor := "├"
		if i == len(entries)-1 {
			anchor = "└"
		}

		fmt.Fprintf(&b, " %s %s: %s",
			gray.Render(anchor+strings.Repeat("─", keyPad-len(entry.Key))),
			gray.Render(entry.Key),
			entry.Value,
		)

		if len(entry.Right) > 0 {
			fmt.Fprintf(&b, " %s%s", strings.Repeat(" ", valPad-len(entry.Value)), entry.Right)
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")

	_, _ = io.WriteString(w, b.String())
}
