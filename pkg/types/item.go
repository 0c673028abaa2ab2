// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"go.yaml.in/yaml/v3"
)

// Kind is the closed set of CV item variants.
type Kind string

const (
	KindWorkExperience Kind = "work_experience"
	KindProject        Kind = "project"
	KindEducation      Kind = "education"
	KindAdditionalInfo Kind = "additional_info"
)

// Kinds lists every item kind in canonical order.
var Kinds = []Kind{KindWorkExperience, KindProject, KindEducation, KindAdditionalInfo}

// UnknownKindError reports an item type string outside the closed Kind set.
type UnknownKindError struct {
	Type string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown item type %q", e.Type)
}

// ParseKind classifies an authored type string. It is strict: anything that
// is not one of Kinds is an *UnknownKindError.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindWorkExperience, KindProject, KindEducation, KindAdditionalInfo:
		return k, nil
	default:
		return "", &UnknownKindError{Type: s}
	}
}

// ItemMetadata is derived data cached beside an item's source file. It is
// advisory: nothing in validation or composition reads it.
type ItemMetadata struct {
	// CharCount maps each locale to the item's character count in that locale.
	CharCount map[Locale]int `json:"char_count,omitempty" yaml:"char_count,omitempty"`

	// SourceSHA256 is the digest of the item file the counts were computed from.
	SourceSHA256 string `json:"source_sha256,omitempty" yaml:"source_sha256,omitempty"`

	// ComputedAt records when the counts were last refreshed.
	ComputedAt time.Time `json:"computed_at,omitempty" yaml:"computed_at,omitempty"`
}

// Item is one reusable CV entry.
type Item struct {
	// ID is unique across every loaded item.
	ID string `json:"id" yaml:"id"`

	// Type is the kind exactly as authored; see ParseKind.
	Type string `json:"type" yaml:"type"`

	// Tags are free-form labels.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Priority orders items within a section; lower comes first.
	Priority int `json:"priority" yaml:"priority"`

	// Data is the variant payload as authored. The validator inspects it field
	// by field; Payload decodes it into the typed shape for the item's kind.
	Data map[string]any `json:"data" yaml:"data"`

	Metadata ItemMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Source is the file the item was loaded from, empty for in-memory items.
	Source string `json:"-" yaml:"-"`
}

// Kind classifies the item's Type.
func (it *Item) Kind() (Kind, error) {
	return ParseKind(it.Type)
}

// Payload decodes Data into the typed payload for the item's kind.
func (it *Item) Payload() (Payload, error) {
	kind, err := it.Kind()
	if err != nil {
		return nil, err
	}

	var p Payload
	switch kind {
	case KindWorkExperience:
		p = &WorkExperience{}
	case KindProject:
		p = &Project{}
	case KindEducation:
		p = &Education{}
	case KindAdditionalInfo:
		p = &AdditionalInfo{}
	}

	raw, err := yaml.Marshal(it.Data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s data: %w", it.ID, err)
	}
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decoding %s data as %s: %w", it.ID, kind, err)
	}
	return p, nil
}
