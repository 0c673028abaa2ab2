// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"
)

// itemRecord is the on-disk shape of an item. Required keys are pointers or
// maps so that an absent key can be told apart from an empty value.
type itemRecord struct {
	ID       *string        `yaml:"id" validate:"required"`
	Type     *string        `yaml:"type" validate:"required"`
	Tags     []string       `yaml:"tags"`
	Priority int            `yaml:"priority"`
	Data     map[string]any `yaml:"data" validate:"required"`
	Metadata ItemMetadata   `yaml:"metadata"`
}

type profileRecord struct {
	Name       *string    `yaml:"name" validate:"required"`
	Locale     *string    `yaml:"locale" validate:"required"`
	BaseFile   *string    `yaml:"base_file" validate:"required"`
	Sections   *yaml.Node `yaml:"sections" validate:"required"`
	OutputFile *string    `yaml:"output_file" validate:"required"`
}

type sectionRecord struct {
	IncludeIDs []string `yaml:"include_ids" validate:"required"`
	MaxItems   *int     `yaml:"max_items"`
}

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML key so messages match the source files.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// missingKeys runs the required-key checks on a decoded record and returns
// the YAML names of every absent key.
func missingKeys(record any) ([]string, error) {
	err := recordValidator.Struct(record)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing, nil
}

// orEmptyMapping stands in an empty mapping for an empty document so that
// every required key is reported missing.
func orEmptyMapping(node *yaml.Node) *yaml.Node {
	if node == nil || node.Kind == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return node
}

// ParseItem decodes a single item from YAML bytes. See DecodeItem.
func ParseItem(data []byte) (*Item, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing item: %w", err)
	}
	return DecodeItem(&node)
}

// DecodeItem builds an Item from a raw YAML mapping. It fails with a
// *SchemaError when id, type or data is absent. Priority defaults to 0.
func DecodeItem(node *yaml.Node) (*Item, error) {
	node = orEmptyMapping(node)
	var rec itemRecord
	if err := node.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding item record: %w", err)
	}
	missing, err := missingKeys(&rec)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Record: "item", Missing: missing}
	}

	return &Item{
		ID:       *rec.ID,
		Type:     *rec.Type,
		Tags:     rec.Tags,
		Priority: rec.Priority,
		Data:     rec.Data,
		Metadata: rec.Metadata,
	}, nil
}

// ParseProfile decodes a profile from YAML bytes. See DecodeProfile.
func ParseProfile(data []byte) (*Profile, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return DecodeProfile(&node)
}

// DecodeProfile builds a Profile from a raw YAML mapping. It fails with a
// *SchemaError when name, locale, base_file, sections or output_file is
// absent, or when a section has no include_ids. Sections keep the order of
// the source mapping.
func DecodeProfile(node *yaml.Node) (*Profile, error) {
	node = orEmptyMapping(node)
	var rec profileRecord
	if err := node.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding profile record: %w", err)
	}
	missing, err := missingKeys(&rec)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Record: "profile", Missing: missing}
	}

	if rec.Sections.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("profile %s: sections must be a mapping", *rec.Name)
	}

	p := &Profile{
		Name:       *rec.Name,
		Locale:     Locale(*rec.Locale),
		BaseFile:   *rec.BaseFile,
		OutputFile: *rec.OutputFile,
		Sections:   make([]SectionSpec, 0, len(rec.Sections.Content)/2),
	}

	var sectionMissing []string
	for i := 0; i+1 < len(rec.Sections.Content); i += 2 {
		name := rec.Sections.Content[i].Value
		var sec sectionRecord
		if err := rec.Sections.Content[i+1].Decode(&sec); err != nil {
			return nil, fmt.Errorf("profile %s: decoding section %s: %w", p.Name, name, err)
		}
		keys, err := missingKeys(&sec)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			sectionMissing = append(sectionMissing, "sections."+name+"."+k)
		}
		p.Sections = append(p.Sections, SectionSpec{
			Name:       name,
			IncludeIDs: sec.IncludeIDs,
			MaxItems:   sec.MaxItems,
		})
	}
	if len(sectionMissing) > 0 {
		return nil, &SchemaError{Record: "profile", Missing: sectionMissing}
	}

	return p, nil
}
