// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cv-builder/internal/catalog"
	"github.com/pdiddy/cv-builder/pkg/types"
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Index and search items (catalog)",
	Long: `Items maintains a local SQLite catalog of every item, searchable by
text in either language, kind and tag. Use it to find item IDs while writing
profiles. The catalog is rebuilt from the item files and can be deleted at
any time.`,
}

var itemsIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Bring the catalog up to date with the item files",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := newLoader().LoadItems()
		if err != nil {
			return err
		}

		store, err := catalog.NewStore(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Index(context.Background(), items, os.Stdout)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d item(s) failed indexing", summary.Failed)
		}
		return nil
	},
}

var itemsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog with full-text search and filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		tag, _ := cmd.Flags().GetString("tag")
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		if kind != "" {
			if _, err := types.ParseKind(kind); err != nil {
				return err
			}
		}

		store, err := catalog.NewStore(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		results, err := store.Search(context.Background(), catalog.QueryOptions{
			Query:      strings.Join(args, " "),
			Kind:       kind,
			Tag:        tag,
			MaxResults: limit,
		})
		if err != nil {
			return err
		}
		return formatSearchOutput(results, jsonOutput)
	},
}

func catalogConfig() types.CatalogConfig {
	dir := viper.GetString(keyCatalogIndexDir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(viper.GetString(keyBaseDir), dir)
	}
	return types.CatalogConfig{
		IndexDir:   dir,
		MaxResults: viper.GetInt(keyCatalogMaxResults),
	}
}

func formatSearchOutput(results []catalog.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-16s  %-4s  %s\n", "ID", "Kind", "Prio", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-24s  %-16s  %-4d  %s\n", r.ID, r.Kind, r.Priority, truncate(r.TitleEN, 40))
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func init() {
	itemsSearchCmd.Flags().String("kind", "", "filter by item type: work_experience, project, education, additional_info")
	itemsSearchCmd.Flags().String("tag", "", "filter by tag")
	itemsSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	itemsSearchCmd.Flags().Bool("json", false, "output results as JSON")

	itemsCmd.PersistentFlags().String("index-dir", "", "catalog directory (default .cv-builder/index under base dir)")
	_ = viper.BindPFlag(keyCatalogIndexDir, itemsCmd.PersistentFlags().Lookup("index-dir"))

	itemsCmd.AddCommand(itemsIndexCmd)
	itemsCmd.AddCommand(itemsSearchCmd)
	rootCmd.AddCommand(itemsCmd)
}
