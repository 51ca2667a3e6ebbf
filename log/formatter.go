// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var baseTimestamp = time.Now()

func badge(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.AdaptiveColor{Light: "15", Dark: "0"})
}

var levelBadges = map[logrus.Level]struct {
	text  string
	style lipgloss.Style
}{
	logrus.PanicLevel: {"X", badge("9")},
	logrus.FatalLevel: {"!", badge("9")},
	logrus.ErrorLevel: {"E", badge("9")},
	logrus.WarnLevel:  {"W", badge("11")},
	logrus.InfoLevel:  {"i", badge("8")},
	logrus.DebugLevel: {"D", badge("12")},
	logrus.TraceLevel: {"T", lipgloss.NewStyle().Foreground(lipgloss.Color("15"))},
}

// TextFormatter renders entries either as a coloured single line with a level
// badge (FANCY) or as plain logfmt-style key/value pairs (BASIC).
type TextFormatter struct {
	// Render badges and colours even when the output is not a terminal.
	ForceFormatting bool

	// Never emit colours.
	DisableColors bool

	// Show a timestamp on each line.
	Timestamps bool

	// Timestamp layout used when the output is not formatted.
	TimestampFormat string

	isTerminal bool
	once       sync.Once
}

func (f *TextFormatter) init(entry *logrus.Entry) {
	if entry.Logger == nil {
		return
	}

	if file, ok := entry.Logger.Out.(*os.File); ok {
		f.isTerminal = term.IsTerminal(int(file.Fd()))
	}
}

// Format implements logrus.Formatter
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	f.once.Do(func() { f.init(entry) })

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if f.ForceFormatting || f.isTerminal {
		f.writeFancy(b, entry, keys)
	} else {
		f.writePlain(b, entry, keys)
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *TextFormatter) writeFancy(b *bytes.Buffer, entry *logrus.Entry, keys []string) {
	lvl, ok := levelBadges[entry.Level]
	if !ok {
		lvl = levelBadges[logrus.DebugLevel]
	}

	style := lvl.style
	if f.DisableColors {
		style = lipgloss.NewStyle()
	}

	fmt.Fprint(b, style.Render(" "+lvl.text+" "))
	if f.Timestamps {
		fmt.Fprintf(b, " [%04d]", int(time.Since(baseTimestamp)/time.Second))
	}
	fmt.Fprintf(b, " %s", entry.Message)

	for _, k := range keys {
		key := k
		if !f.DisableColors {
			key = lipgloss.NewStyle().Foreground(style.GetBackground()).Render(k)
		}
		fmt.Fprintf(b, " %s=%+v", key, entry.Data[k])
	}
}

func (f *TextFormatter) writePlain(b *bytes.Buffer, entry *logrus.Entry, keys []string) {
	if f.Timestamps {
		layout := f.TimestampFormat
		if layout == "" {
			layout = time.RFC3339
		}
		appendKeyValue(b, "time", entry.Time.Format(layout))
		b.WriteByte(' ')
	}

	appendKeyValue(b, "level", entry.Level.String())
	if entry.Message != "" {
		b.WriteByte(' ')
		appendKeyValue(b, "msg", entry.Message)
	}

	for _, k := range keys {
		b.WriteByte(' ')
		appendKeyValue(b, k, entry.Data[k])
	}
}

func appendKeyValue(w io.Writer, key string, value interface{}) {
	str, ok := value.(string)
	if !ok {
		if err, isErr := value.(error); isErr {
			str = err.Error()
		} else {
			str = fmt.Sprint(value)
		}
	}

	if needsQuoting(str) {
		fmt.Fprintf(w, "%s=%q", key, str)
	} else {
		fmt.Fprintf(w, "%s=%s", key, str)
	}
}

func needsQuoting(text string) bool {
	if len(text) == 0 {
		return true
	}

	for _, ch := range text {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '_' || ch == '/') {
			return true
		}
	}

	return false
}
