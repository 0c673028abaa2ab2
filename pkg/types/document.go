// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "go.yaml.in/yaml/v3"

// Document is a composed CV: the base document tree with cv.sections injected.
type Document struct {
	root     *yaml.Node
	sections Sections
}

// NewDocument wraps a composed mapping node and the sections injected into it.
func NewDocument(root *yaml.Node, sections Sections) *Document {
	return &Document{root: root, sections: sections}
}

// Root returns the document's mapping node.
func (d *Document) Root() *yaml.Node {
	return d.root
}

// Sections returns the sections injected at cv.sections.
func (d *Document) Sections() Sections {
	return d.sections
}

// Decode decodes the whole document into v.
func (d *Document) Decode(v any) error {
	return d.root.Decode(v)
}

// MarshalYAML implements yaml.Marshaler.
func (d *Document) MarshalYAML() (any, error) {
	return d.root, nil
}
