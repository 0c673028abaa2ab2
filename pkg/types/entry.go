// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Entry is one rendered, single-locale item inside an output section.
type Entry interface {
	Kind() Kind
}

// WorkExperienceEntry is a rendered work_experience item.
type WorkExperienceEntry struct {
	Company    string   `json:"company" yaml:"company"`
	Position   string   `json:"position" yaml:"position"`
	StartDate  string   `json:"start_date" yaml:"start_date"`
	EndDate    string   `json:"end_date" yaml:"end_date"`
	Location   string   `json:"location" yaml:"location"`
	Highlights []string `json:"highlights" yaml:"highlights"`
}

// ProjectEntry is a rendered project item.
type ProjectEntry struct {
	Name       string   `json:"name" yaml:"name"`
	Highlights []string `json:"highlights" yaml:"highlights"`
}

// EducationEntry is a rendered education item.
type EducationEntry struct {
	Institution string   `json:"institution" yaml:"institution"`
	Area        string   `json:"area" yaml:"area"`
	Degree      string   `json:"degree,omitempty" yaml:"degree,omitempty"`
	StartDate   string   `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	Highlights  []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// AdditionalInfoEntry is a rendered additional_info item.
type AdditionalInfoEntry struct {
	Label   string `json:"label" yaml:"label"`
	Details string `json:"details" yaml:"details"`
}

func (*WorkExperienceEntry) Kind() Kind { return KindWorkExperience }
func (*ProjectEntry) Kind() Kind        { return KindProject }
func (*EducationEntry) Kind() Kind      { return KindEducation }
func (*AdditionalInfoEntry) Kind() Kind { return KindAdditionalInfo }

// Section is a named, ordered list of rendered entries.
type Section struct {
	Name    string
	Entries []Entry
}

// Sections keeps output sections in profile order. It marshals to a YAML
// mapping whose keys follow that order.
type Sections []Section

// Get returns the entries of the named section.
func (s Sections) Get(name string) ([]Entry, bool) {
	for _, sec := range s {
		if sec.Name == name {
			return sec.Entries, true
		}
	}
	return nil, false
}

// Names returns the section names in order.
func (s Sections) Names() []string {
	names := make([]string, len(s))
	for i, sec := range s {
		names[i] = sec.Name
	}
	return names
}

// MarshalYAML implements yaml.Marshaler.
func (s Sections) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, sec := range s {
		entries := []Entry{}
		if sec.Entries != nil {
			entries = sec.Entries
		}
		var value yaml.Node
		if err := value.Encode(entries); err != nil {
			return nil, fmt.Errorf("encoding section %s: %w", sec.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sec.Name},
			&value,
		)
	}
	return node, nil
}
