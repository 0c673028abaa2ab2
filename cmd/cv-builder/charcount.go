// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cv-builder/internal/charcount"
)

var charcountCmd = &cobra.Command{
	Use:   "charcount",
	Short: "Maintain the per-item character-count cache",
	Long: `Charcount manages the sidecar files under each item directory's
.metadata/ folder. They record each item's character count per locale and the
digest of the source they were computed from. The cache is advisory; builds
never read it.`,
}

var charcountRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Recompute character counts for every item",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLoader()
		paths, err := l.ItemPaths()
		if err != nil {
			return err
		}
		fmt.Printf("Refreshing %d item(s) under %s\n\n", len(paths), l.ItemsDir())
		summary := charcount.RefreshAll(paths, l.ItemsDir(), os.Stdout)
		if summary.HasFailures() {
			return fmt.Errorf("%d item(s) failed", summary.Failed)
		}
		return nil
	},
}

var charcountStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List items whose cached counts are missing or stale",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLoader()
		paths, err := l.ItemPaths()
		if err != nil {
			return err
		}

		stale := 0
		for _, p := range paths {
			isStale, err := charcount.Stale(p)
			if err != nil {
				return err
			}
			if isStale {
				rel, _ := filepath.Rel(l.ItemsDir(), p)
				fmt.Printf("stale %s\n", rel)
				stale++
			}
		}
		fmt.Printf("\n%d of %d item(s) stale\n", stale, len(paths))

		if strict, _ := cmd.Flags().GetBool("strict"); strict && stale > 0 {
			return fmt.Errorf("%d item(s) have stale character counts", stale)
		}
		return nil
	},
}

func init() {
	charcountStatusCmd.Flags().Bool("strict", false, "exit non-zero when any cache entry is stale")

	charcountCmd.AddCommand(charcountRefreshCmd)
	charcountCmd.AddCommand(charcountStatusCmd)
	rootCmd.AddCommand(charcountCmd)
}
