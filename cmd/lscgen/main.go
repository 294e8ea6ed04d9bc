// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command lscgen plans memory-access call sites against GPU platforms and
// emits the selected primitives as Go tables.
//
// Usage:
//
//	lscgen platforms
//	lscgen plan -m kernels.yaml -p xe2,dg2
//	lscgen emit -m kernels.yaml -p all -o ./kernels
//
// Or via go:generate:
//
//	//go:generate lscgen emit -m kernels.yaml -p all -o .
//
// The manifest lists call sites with the same fields as lsc.Request. plan
// prints the primitive selected for each site, or the reason it was
// rejected; emit writes one lsc_plan_<platform>.gen.go file per platform.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-lsc/lsc"
)

type globalFlags struct {
	platforms string
	disable   string
	verbose   bool
	workers   int
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "lscgen",
		Short:         "Plan and emit LSC memory-access primitives for GPU call sites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	g.register(root.PersistentFlags())

	root.AddCommand(
		newPlatformsCmd(g),
		newPlanCmd(g),
		newEmitCmd(g),
	)
	return root
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&g.platforms, "platforms", "p", "xe2", "Comma-separated platforms ("+joinNames(lsc.AvailablePlatforms())+") or 'all'")
	fs.StringVar(&g.disable, "disable", "", "Comma-separated features to disable on every platform")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Log every translated site")
	fs.IntVar(&g.workers, "workers", 0, "Translation workers per platform (default GOMAXPROCS)")
}

func (g *globalFlags) logger(w io.Writer) *lsc.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return lsc.NewTextLogger(w, level)
}

func (g *globalFlags) planOptions(w io.Writer) (planOptions, error) {
	platforms, err := parsePlatforms(g.platforms)
	if err != nil {
		return planOptions{}, err
	}
	disabled, err := parseFeatures(g.disable)
	if err != nil {
		return planOptions{}, err
	}
	return planOptions{
		Platforms: platforms,
		Disabled:  disabled,
		Workers:   g.workers,
		Logger:    g.logger(w),
	}, nil
}

func newPlatformsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List platforms and their features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			platforms, err := parsePlatforms(g.platforms)
			if err != nil {
				return err
			}
			disabled, err := parseFeatures(g.disable)
			if err != nil {
				return err
			}
			writePlatforms(cmd.OutOrStdout(), platforms, disabled)
			return nil
		},
	}
}

func newPlanCmd(g *globalFlags) *cobra.Command {
	var manifest string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Translate the manifest's call sites and report the selected primitives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := loadManifest(manifest)
			if err != nil {
				return err
			}
			opts, err := g.planOptions(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			plans, err := planAll(cmd.Context(), m, opts)
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), plans)
			if n := countFailed(plans); n > 0 {
				return fmt.Errorf("%d call sites failed translation", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Call-site manifest (required)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func newEmitCmd(g *globalFlags) *cobra.Command {
	var (
		manifest  string
		outputDir string
		pkg       string
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Write one generated plan file per platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := loadManifest(manifest)
			if err != nil {
				return err
			}
			if pkg != "" {
				m.Package = pkg
			}
			opts, err := g.planOptions(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			plans, err := planAll(cmd.Context(), m, opts)
			if err != nil {
				return err
			}
			if n := countFailed(plans); n > 0 && strict {
				writeReport(cmd.ErrOrStderr(), plans)
				return fmt.Errorf("%d call sites failed translation", n)
			}
			for _, p := range plans {
				filename, err := writePlanFile(outputDir, m, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s\n", filename)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&manifest, "manifest", "m", "", "Call-site manifest (required)")
	f.StringVarP(&outputDir, "output", "o", ".", "Output directory")
	f.StringVar(&pkg, "pkg", "", "Output package name (default: the manifest's package)")
	f.BoolVar(&strict, "strict", false, "Fail instead of emitting rejected sites as comments")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}
