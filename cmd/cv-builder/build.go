// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cv-builder/internal/pipeline"
	"github.com/pdiddy/cv-builder/internal/watch"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compose a CV for a profile and write it",
	Long: `Build loads every item, validates items and the profile, selects and
orders items per section, projects them into the profile's locale, and writes
the composed document to the profile's output_file (or --output).

Nothing is written when any validation stage fails. With --watch the build
re-runs whenever files under modular_cv change.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	profile, _ := cmd.Flags().GetString("profile")
	output, _ := cmd.Flags().GetString("output")
	validateOnly, _ := cmd.Flags().GetBool("validate-only")
	watchMode, _ := cmd.Flags().GetBool("watch")

	cfg := buildConfig()
	cfg.OutputPath = output
	cfg.ValidateOnly = validateOnly

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !watchMode {
		_, err := pipeline.Run(ctx, cfg, profile, os.Stdout)
		return err
	}

	rebuild := func(ctx context.Context) error {
		fmt.Fprintln(os.Stdout, "\n--- rebuilding ---")
		if _, err := pipeline.Run(ctx, cfg, profile, os.Stdout); err != nil {
			reportError(err)
		}
		return nil
	}
	if err := rebuild(ctx); err != nil {
		return err
	}

	root := newLoader().Root()
	fmt.Fprintf(os.Stdout, "\nWatching %s (Ctrl-C to stop)\n", root)
	return watch.Run(ctx, []string{root}, watchConfig().Debounce, rebuild)
}

func init() {
	buildCmd.Flags().StringP("profile", "p", "", "profile name (without .yaml extension)")
	buildCmd.Flags().StringP("output", "o", "", "output file path (overrides the profile's output_file)")
	buildCmd.Flags().Bool("validate-only", false, "only validate items and profile without generating output")
	buildCmd.Flags().String("schema", "", "JSON Schema the composed document must satisfy")
	buildCmd.Flags().Bool("watch", false, "rebuild whenever files under modular_cv change")
	_ = buildCmd.MarkFlagRequired("profile")
	_ = viper.BindPFlag(keySchema, buildCmd.Flags().Lookup("schema"))

	rootCmd.AddCommand(buildCmd)
}
