// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SectionSpec selects items for one output section.
type SectionSpec struct {
	// Name is the section key in the output document.
	Name string `json:"name" yaml:"name"`

	// IncludeIDs lists candidate item IDs. Selection reorders them by priority.
	IncludeIDs []string `json:"include_ids" yaml:"include_ids"`

	// MaxItems caps the section when set to a positive value.
	MaxItems *int `json:"max_items,omitempty" yaml:"max_items,omitempty"`
}

// Profile describes one audience-specific CV: which items go into which
// sections, in which language, on top of which base document.
type Profile struct {
	Name       string `json:"name" yaml:"name"`
	Locale     Locale `json:"locale" yaml:"locale"`
	BaseFile   string `json:"base_file" yaml:"base_file"`
	OutputFile string `json:"output_file" yaml:"output_file"`

	// Sections are kept in authored order, which is also the output order.
	Sections []SectionSpec `json:"sections" yaml:"sections"`

	// Source is the file the profile was loaded from, empty for in-memory profiles.
	Source string `json:"-" yaml:"-"`
}
