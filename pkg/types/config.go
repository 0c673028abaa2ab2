// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BuildConfig holds settings for one composition run.
type BuildConfig struct {
	// BaseDir is the project root containing modular_cv/.
	BaseDir string `json:"base_dir" yaml:"base_dir"`

	// ItemsGlob selects item files under modular_cv/cv_items (doublestar syntax).
	ItemsGlob string `json:"items_glob" yaml:"items_glob"`

	// OutputPath overrides the profile's output_file when set.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// SchemaPath is an optional JSON Schema the composed document must satisfy.
	SchemaPath string `json:"schema,omitempty" yaml:"schema,omitempty"`

	// ValidateOnly stops the run after profile validation.
	ValidateOnly bool `json:"validate_only" yaml:"validate_only"`
}

// CatalogConfig holds settings for the local item search index.
type CatalogConfig struct {
	// IndexDir contains catalog.db.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default search result limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// WatchConfig holds settings for rebuild-on-change.
type WatchConfig struct {
	// Debounce is how long the tree must be quiet before a rebuild (default 200ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce"`
}
