// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cv-builder CLI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cv-builder/internal/loader"
	"github.com/pdiddy/cv-builder/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Configuration keys shared by flags, the config file and CV_BUILDER_* env vars.
const (
	keyBaseDir           = "base_dir"
	keyItemsGlob         = "items_glob"
	keySchema            = "schema"
	keyCatalogIndexDir   = "catalog.index_dir"
	keyCatalogMaxResults = "catalog.max_results"
	keyWatchDebounce     = "watch.debounce"
)

// rootCmd is the base command for the cv-builder CLI.
var rootCmd = &cobra.Command{
	Use:   "cv-builder",
	Short: "Compose CVs from reusable bilingual components",
	Long: `cv-builder composes a structured CV document from reusable, bilingual
(en/kr) content items and a per-audience profile.

Items live under modular_cv/cv_items, profiles under modular_cv/profiles and
base documents under modular_cv/base. The build command validates everything,
selects and orders items per profile section, and writes a YAML document for
an external renderer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cv-builder.yaml or ~/.config/cv-builder/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("base-dir", ".", "project root containing modular_cv/")
	rootCmd.PersistentFlags().String("items-glob", loader.DefaultItemsGlob, "item file pattern under modular_cv/cv_items")

	_ = viper.BindPFlag(keyBaseDir, rootCmd.PersistentFlags().Lookup("base-dir"))
	_ = viper.BindPFlag(keyItemsGlob, rootCmd.PersistentFlags().Lookup("items-glob"))

	viper.SetDefault(keyCatalogIndexDir, filepath.Join(".cv-builder", "index"))
	viper.SetDefault(keyCatalogMaxResults, 20)
	viper.SetDefault(keyWatchDebounce, 200*time.Millisecond)
}

func initConfig() {
	// A .env file is optional.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cv-builder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cv-builder"))
		}
	}

	viper.SetEnvPrefix("CV_BUILDER")
	// catalog.index_dir is read from CV_BUILDER_CATALOG_INDEX_DIR.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the shared composition settings from viper.
func buildConfig() types.BuildConfig {
	return types.BuildConfig{
		BaseDir:    viper.GetString(keyBaseDir),
		ItemsGlob:  viper.GetString(keyItemsGlob),
		SchemaPath: viper.GetString(keySchema),
	}
}

// watchConfig reads rebuild-on-change settings from viper.
func watchConfig() types.WatchConfig {
	return types.WatchConfig{Debounce: viper.GetDuration(keyWatchDebounce)}
}

func newLoader() *loader.Loader {
	cfg := buildConfig()
	return loader.New(cfg.BaseDir, loader.WithItemsGlob(cfg.ItemsGlob), loader.WithLogger(slog.Default()))
}

// reportError prints validation messages the way authors read them: one
// per line under a heading for the failed stage.
func reportError(err error) {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(os.Stderr, "\n%s validation errors:\n", verr.Stage)
		for _, msg := range verr.Messages {
			fmt.Fprintf(os.Stderr, "  - %s\n", msg)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}
