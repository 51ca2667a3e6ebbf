// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package cmdfactory builds cobra commands whose flags are declared as tagged
// struct attributes.
package cmdfactory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"targetkit.sh/log"
)

var caseRegexp = regexp.MustCompile("([a-z])([A-Z])")

type PersistentPreRunnable interface {
	PersistentPre(cmd *cobra.Command, args []string) error
}

type PreRunnable interface {
	Pre(cmd *cobra.Command, args []string) error
}

type Runnable interface {
	Run(ctx context.Context, args []string) error
}

type fieldInfo struct {
	FieldType  reflect.StructField
	FieldValue reflect.Value
}

// fields flattens the attributes of obj, descending into exported embedded
// structures.
func fields(obj any) []fieldInfo {
	objValue := reflect.ValueOf(obj)
	if objValue.Kind() == reflect.Ptr {
		objValue = objValue.Elem()
	}

	var result []fieldInfo

	for i := 0; i < objValue.NumField(); i++ {
		fieldType := objValue.Type().Field(i)
		if fieldType.Anonymous && fieldType.Type.Kind() == reflect.Struct {
			if fieldType.IsExported() {
				result = append(result, fields(objValue.Field(i).Addr().Interface())...)
			}
		} else if !fieldType.Anonymous {
			result = append(result, fieldInfo{
				FieldValue: objValue.Field(i),
				FieldType:  fieldType,
			})
		}
	}

	return result
}

// Name derives the command name from the type of obj, e.g. BuildCommand
// becomes build.
func Name(obj any) string {
	objValue := reflect.ValueOf(obj).Elem()
	commandName := strings.Replace(objValue.Type().Name(), "Command", "", 1)
	commandName, _ = name(commandName, "", "")
	return commandName
}

// Main executes the given command and returns the process exit code.  A
// command returning pflag.ErrHelp prints its usage.
func Main(ctx context.Context, cmd *cobra.Command) int {
	executed, err := cmd.ExecuteContextC(ctx)
	if errors.Is(err, pflag.ErrHelp) && executed != nil {
		_ = executed.Help()
		return 0
	} else if err != nil {
		if executed != nil && executed.Context() != nil {
			ctx = executed.Context()
		}

		log.G(ctx).Error(err)
		return 1
	}

	return 0
}

// AttributeFlags associates a given struct with public attributes and a set of
// tags with the provided cobra command so as to enable dynamic population of
// CLI flags.
//
// Recognised tags are `long`, `short`, `usage`, `env` (read when the flag is
// registered, taking precedence over the attribute's current value),
// `default`, `local` (register on the command only rather than persistently),
// `hidden` and `noattribute` (skip the attribute).
func AttributeFlags(c *cobra.Command, obj any) error {
	slices := map[string]reflect.Value{}

	for _, info := range fields(obj) {
		fieldType := info.FieldType
		v := info.FieldValue

		if !fieldType.IsExported() || fieldType.Tag.Get("noattribute") == "true" {
			continue
		}

		name, alias := name(fieldType.Name, fieldType.Tag.Get("long"), fieldType.Tag.Get("short"))
		usage := fieldType.Tag.Get("usage")
		envName := fieldType.Tag.Get("env")
		defValue := fieldType.Tag.Get("default")

		strValue := ""
		if !v.IsZero() && v.Kind() != reflect.Slice && v.Kind() != reflect.Ptr {
			strValue = fmt.Sprint(v)
		}

		// Set the value from the environmental value, if known, it takes precedent
		// over the provided value which would otherwise come from a configuration
		// file.
		if envName != "" {
			if envValue := os.Getenv(envName); envValue != "" {
				strValue = envValue
			}
		}

		if strValue == "" && defValue != "" {
			strValue = defValue
		}

		flags := c.PersistentFlags()
		if fieldType.Tag.Get("local") == "true" {
			flags = c.Flags()
		}

		switch fieldType.Type.Kind() {
		case reflect.Uint64:
			def, _ := strconv.ParseUint(defValue, 10, 64)
			flags.Uint64VarP(v.Addr().Interface().(*uint64), name, alias, def, usage)
		case reflect.Int:
			def, _ := strconv.Atoi(defValue)
			flags.IntVarP(v.Addr().Interface().(*int), name, alias, def, usage)
		case reflect.String:
			flags.StringVarP(v.Addr().Interface().(*string), name, alias, defValue, usage)
		case reflect.Bool:
			flags.BoolVarP(v.Addr().Interface().(*bool), name, alias, false, usage)
		case reflect.Slice:
			if fieldType.Type.Elem().Kind() != reflect.String {
				continue
			}

			slices[name] = v
			ptr := v.Addr().Interface().(*[]string)
			flags.StringSliceVarP(ptr, name, alias, *ptr, usage)
			strValue = ""
		case reflect.Ptr:
			value, ok := v.Interface().(pflag.Value)
			if !ok || v.IsNil() {
				continue
			}

			flags.VarP(value, name, alias, usage)
		case reflect.Struct:
			// Recursively set embedded structs
			if err := AttributeFlags(c, v.Addr().Interface()); err != nil {
				return err
			}
			continue
		default:
			continue
		}

		if strValue != "" {
			if err := flags.Set(name, strValue); err != nil {
				return fmt.Errorf("could not set %s: %w", name, err)
			}
		}

		if fieldType.Tag.Get("hidden") == "true" {
			if err := flags.MarkHidden(name); err != nil {
				return err
			}
		}
	}

	c.PreRunE = bind(c.PreRunE, slices)
	c.RunE = bind(c.RunE, slices)

	return nil
}

// New populates a cobra.Command object by extracting args from struct tags of the
// Runnable obj passed.  Also the Run method is assigned to the RunE of the command.
func New(obj Runnable, cmd cobra.Command) (*cobra.Command, error) {
	c := cmd
	if c.Use == "" {
		c.Use = fmt.Sprintf("%s [FLAGS]", Name(obj))
	}

	if p, ok := obj.(PersistentPreRunnable); ok {
		c.PersistentPreRunE = p.PersistentPre
	}

	if p, ok := obj.(PreRunnable); ok {
		c.PreRunE = p.Pre
	}

	c.SilenceErrors = true
	c.SilenceUsage = true
	c.DisableFlagsInUseLine = true
	c.InitDefaultHelpFlag()

	if obj != nil {
		c.RunE = func(cmd *cobra.Command, args []string) error {
			return obj.Run(cmd.Context(), args)
		}

		// Parse the attributes of this object into addressable flags for this command
		if err := AttributeFlags(&c, obj); err != nil {
			return nil, err
		}
	}

	c.SetUsageFunc(rootUsageFunc)
	c.SetFlagErrorFunc(rootFlagErrorFunc)

	return &c, nil
}

// assignSlices normalises a slice flag which was given explicitly but empty,
// e.g. --features "", into a single empty element so it is distinguishable
// from an absent flag.
func assignSlices(cmd *cobra.Command, slices map[string]reflect.Value) error {
	for k, v := range slices {
		flag := cmd.Flags().Lookup(k)
		if flag == nil || !flag.Changed {
			continue
		}

		s, err := cmd.Flags().GetStringSlice(k)
		if err != nil {
			return err
		}

		if len(s) == 0 {
			s = []string{""}
		}

		v.Set(reflect.ValueOf(s))
	}

	return nil
}

func name(name, setName, short string) (string, string) {
	if setName != "" {
		return setName, short
	}
	parts := strings.Split(name, "_")
	i := len(parts) - 1
	name = caseRegexp.ReplaceAllString(parts[i], "$1-$2")
	name = strings.ToLower(name)
	result := append([]string{name}, parts[0:i]...)
	for i := 0; i < len(result); i++ {
		result[i] = strings.ToLower(result[i])
	}
	if short == "" && len(result) > 1 {
		short = result[1]
	}
	return result[0], short
}

func bind(next func(*cobra.Command, []string) error, slices map[string]reflect.Value) func(*cobra.Command, []string) error {
	if next == nil {
		return nil
	}

	return func(cmd *cobra.Command, args []string) error {
		if err := assignSlices(cmd, slices); err != nil {
			return err
		}

		return next(cmd, args)
	}
}
