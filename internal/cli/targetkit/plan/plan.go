// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2024, The TargetKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package plan

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"
	"gopkg.in/yaml.v3"

	"targetkit.sh/cmdfactory"
	"targetkit.sh/internal/cli"
	"targetkit.sh/orchestrator"
	"targetkit.sh/param"
	"targetkit.sh/unit"
)

type OutputFormat string

const (
	OutputTable = OutputFormat("table")
	OutputTree  = OutputFormat("tree")
	OutputYaml  = OutputFormat("yaml")
)

func (f OutputFormat) String() string {
	return string(f)
}

type PlanOptions struct {
	cli.ContextOptions

	Output *cmdfactory.EnumFlag[OutputFormat] `long:"output" usage:"Output format: table, tree or yaml"`

	stdout io.Writer
}

func NewCmd() *cobra.Command {
	cmd, err := cmdfactory.New(&PlanOptions{
		Output: cmdfactory.NewEnumFlag([]OutputFormat{OutputTable, OutputTree, OutputYaml}, OutputTable),
	}, cobra.Command{
		Short: "Show the resolved parameters and the units a build would compile",
		Use:   "plan [FLAGS]",
		Args:  cmdfactory.NoArgsQuoteReminder,
		Long: heredoc.Doc(`
			Resolve the map size parameters and select the native units for the
			target without writing, compiling or emitting anything.
		`),
		Example: heredoc.Doc(`
			# Show what a Windows build with libfuzzer support would compile
			$ targetkit plan --target-os windows --features libfuzzer

			# Machine readable output
			$ targetkit plan --output yaml
		`),
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *PlanOptions) Pre(cmd *cobra.Command, _ []string) error {
	opts.stdout = cmd.OutOrStdout()
	return nil
}

func (opts *PlanOptions) Run(ctx context.Context, _ []string) error {
	bctx, err := opts.BuildContext(ctx)
	if err != nil {
		return err
	}

	params, planned, err := orchestrator.Plan(ctx, bctx)
	if err != nil {
		return err
	}

	r := newReport(bctx, params, planned)

	switch opts.Output.Value {
	case OutputYaml:
		enc := yaml.NewEncoder(opts.stdout)
		enc.SetIndent(2)

		if err := enc.Encode(r); err != nil {
			return err
		}

		return enc.Close()
	case OutputTree:
		_, err := fmt.Fprint(opts.stdout, r.tree().String())
		return err
	default:
		return r.render(opts.stdout)
	}
}

type reportParam struct {
	Name       string `yaml:"name"`
	EnvKey     string `yaml:"env"`
	Value      uint64 `yaml:"value"`
	Default    uint64 `yaml:"default"`
	Overridden bool   `yaml:"overridden"`
}

type reportUnit struct {
	ID      string   `yaml:"id"`
	Source  string   `yaml:"source"`
	Archive string   `yaml:"archive"`
	Defines []string `yaml:"defines,omitempty"`
	Headers []string `yaml:"headers,omitempty"`
}

// report is the serialisable form of a plan.
type report struct {
	Platform string        `yaml:"platform"`
	Features []string      `yaml:"features"`
	Params   []reportParam `yaml:"params"`
	Units    []reportUnit  `yaml:"units"`
}

func newReport(bctx orchestrator.Context, params *param.Set, planned []unit.Planned) report {
	r := report{
		Platform: bctx.Platform.String(),
		Features: bctx.Features.Names(),
	}

	for _, p := range params.All() {
		r.Params = append(r.Params, reportParam{
			Name:       p.Name,
			EnvKey:     p.EnvKey,
			Value:      p.Value,
			Default:    p.Default,
			Overridden: p.Overridden,
		})
	}

	for _, p := range planned {
		r.Units = append(r.Units, reportUnit{
			ID:      p.Unit.ID,
			Source:  p.Unit.Source,
			Archive: "lib" + p.Unit.ArtifactName() + ".a",
			Defines: p.Defines.Strings(),
			Headers: p.Headers,
		})
	}

	return r
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func (r report) render(w io.Writer) error {
	features := strings.Join(r.Features, ", ")
	if len(features) == 0 {
		features = "none"
	}

	params := newTable("PARAMETER", "ENV", "VALUE", "SOURCE")
	for _, p := range r.Params {
		source := "default"
		if p.Overridden {
			source = "environment"
		}

		params.Row(p.Name, p.EnvKey, strconv.FormatUint(p.Value, 10), source)
	}

	units := newTable("UNIT", "SOURCE", "ARCHIVE", "DEFINES")
	for _, u := range r.Units {
		units.Row(u.ID, u.Source, u.Archive, strings.Join(u.Defines, "\n"))
	}

	_, err := fmt.Fprintf(w, "%s %s\n%s %s\n\n%s\n\n%s\n",
		titleStyle.Render("platform:"), r.Platform,
		titleStyle.Render("features:"), features,
		params.Render(),
		units.Render(),
	)

	return err
}

func (r report) tree() treeprint.Tree {
	tree := treeprint.NewWithRoot(r.Platform)

	params := tree.AddBranch(fmt.Sprintf("params (%d)", len(r.Params)))
	for _, p := range r.Params {
		params.AddMetaNode(p.EnvKey, fmt.Sprintf("%s: %d", p.Name, p.Value))
	}

	units := tree.AddBranch(fmt.Sprintf("units (%d)", len(r.Units)))
	for _, u := range r.Units {
		branch := units.AddMetaBranch(u.Archive, u.ID)
		branch.AddNode("source: " + u.Source)

		for _, header := range u.Headers {
			branch.AddNode("header: " + header)
		}

		for _, define := range u.Defines {
			branch.AddNode("-D " + define)
		}
	}

	return tree
}
