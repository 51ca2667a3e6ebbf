// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package generate writes the resolved parameters as a source file of named
// constants which the library being built includes verbatim.
package generate

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/iancoleman/strcase"
	gofmt "mvdan.cc/gofumpt/format"

	"targetkit.sh/internal/errs"
	"targetkit.sh/log"
	"targetkit.sh/param"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Language selects the syntax of the generated module.
type Language string

const (
	LanguageRust = Language("rust")
	LanguageGo   = Language("go")
	LanguageC    = Language("c")
)

func (l Language) String() string {
	return string(l)
}

// Languages returns every supported language.
func Languages() []Language {
	return []Language{
		LanguageRust,
		LanguageGo,
		LanguageC,
	}
}

// LanguageFromString returns the Language named s.  An empty string selects
// LanguageRust.
func LanguageFromString(s string) (Language, error) {
	if len(s) == 0 {
		return LanguageRust, nil
	}

	for _, l := range Languages() {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}

	return "", fmt.Errorf("%w: unsupported language %q", errs.ErrInvalid, s)
}

// DefaultFileName is the name of the generated module for the language.
func (l Language) DefaultFileName() string {
	switch l {
	case LanguageGo:
		return "constants.go"
	case LanguageC:
		return "constants.h"
	default:
		return "constants.rs"
	}
}

// DefaultPackage is used for Go output when Emitter.Package is empty.
const DefaultPackage = "constants"

// Emitter renders a param.Set as a constants module.
type Emitter struct {
	// Language of the output, defaults to LanguageRust.
	Language Language

	// Package is the Go package clause.  Ignored for other languages.
	Package string

	// FileName overrides Language.DefaultFileName.
	FileName string
}

type constant struct {
	Name        string
	EnvKey      string
	Description string
	Value       uint64
}

type module struct {
	Package   string
	Guard     string
	Constants []constant
}

func (e Emitter) language() Language {
	if len(e.Language) == 0 {
		return LanguageRust
	}

	return e.Language
}

func (e Emitter) fileName() string {
	if len(e.FileName) > 0 {
		return e.FileName
	}

	return e.language().DefaultFileName()
}

func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["screaming"] = strcase.ToScreamingSnake
	funcs["camel"] = strcase.ToCamel

	return funcs
}

// guard derives an include guard from a file name, e.g. constants.h becomes
// TARGETKIT_CONSTANTS_H.
func guard(name string) string {
	return "TARGETKIT_" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, filepath.Base(name))
}

// Render returns the module contents without touching the filesystem.  The
// output depends only on the set, so rendering the same set twice yields the
// same bytes.
func (e Emitter) Render(set *param.Set) ([]byte, error) {
	lang := e.language()

	data := module{
		Package: e.Package,
		Guard:   guard(e.fileName()),
	}
	if len(data.Package) == 0 {
		data.Package = DefaultPackage
	}

	if set != nil {
		for _, p := range set.All() {
			data.Constants = append(data.Constants, constant{
				Name:        p.Name,
				EnvKey:      p.EnvKey,
				Description: p.Description,
				Value:       p.Value,
			})
		}
	}

	tmpl, err := template.New(lang.String()).
		Funcs(funcMap()).
		ParseFS(templates, "templates/"+lang.String()+".tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported language %q", errs.ErrInvalid, lang)
	}

	var ret bytes.Buffer
	if err := tmpl.ExecuteTemplate(&ret, lang.String()+".tmpl", data); err != nil {
		return nil, fmt.Errorf("could not execute template: %w", err)
	}

	if lang != LanguageGo {
		return ret.Bytes(), nil
	}

	formatted, err := gofmt.Source(ret.Bytes(), gofmt.Options{})
	if err != nil {
		return nil, fmt.Errorf("could not format generated source: %w", err)
	}

	return formatted, nil
}

// Emit renders the module and writes it to outDir, replacing any previous
// version.  The file is written next to its destination and renamed into
// place, so a failure at any point leaves the previous module untouched.
// The returned path is that of the written module.
func (e Emitter) Emit(ctx context.Context, set *param.Set, outDir string) (string, error) {
	path := filepath.Join(outDir, e.fileName())

	fail := func(err error) (string, error) {
		return "", &errs.GeneratedFileError{
			Path: path,
			Err:  err,
		}
	}

	contents, err := e.Render(set)
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fail(err)
	}

	tmp, err := os.CreateTemp(outDir, "."+e.fileName()+".*.tmp")
	if err != nil {
		return fail(err)
	}

	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		return fail(err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fail(err)
	}

	if err := tmp.Close(); err != nil {
		return fail(err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(err)
	}

	log.G(ctx).
		WithField("path", path).
		WithField("lang", e.language()).
		Debug("wrote constants")

	return path, nil
}
