// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cv-builder/internal/validate"
	"github.com/pdiddy/cv-builder/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [profile...]",
	Short: "Validate items and, optionally, profiles",
	Long: `Validate checks every item under modular_cv/cv_items. Each named
profile (or every profile with --all) is then checked for references to
unknown items. All problems are reported; nothing is written.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	l := newLoader()

	items, err := l.LoadItems()
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d items\n", len(items))

	if errs := validate.Items(items); len(errs) > 0 {
		return &types.ValidationError{Stage: types.StageItems, Messages: errs}
	}
	fmt.Println("All items valid")

	names := args
	if all {
		if names, err = l.ProfileNames(); err != nil {
			return err
		}
	}

	available := make(map[string]*types.Item, len(items))
	for _, it := range items {
		available[it.ID] = it
	}

	var problems []string
	for _, name := range names {
		profile, err := l.LoadProfile(name)
		if err != nil {
			return err
		}
		errs := validate.Profile(profile, available)
		if len(errs) == 0 {
			fmt.Printf("Profile '%s' valid\n", name)
		}
		problems = append(problems, errs...)
	}
	if len(problems) > 0 {
		return &types.ValidationError{Stage: types.StageProfile, Messages: problems}
	}
	return nil
}

func init() {
	validateCmd.Flags().Bool("all", false, "validate every profile under modular_cv/profiles")
	rootCmd.AddCommand(validateCmd)
}
