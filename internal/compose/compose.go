// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns validated items and a profile into an output
// document: it selects and ranks items per section, projects them into the
// profile's locale, and merges the sections into the base document.
//
// Every function here is pure. Projection is permissive: an item whose kind
// is unknown is skipped rather than reported, since composition runs only
// after validation has rejected such items.
package compose

import (
	"fmt"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-builder/pkg/types"
)

// SelectedSection holds the items chosen for one profile section, in output order.
type SelectedSection struct {
	Name  string
	Items []*types.Item
}

// Selection holds every selected section in profile order.
type Selection []SelectedSection

// SelectItems resolves each section's IncludeIDs against all, orders the
// result by ascending priority (ties keep IncludeIDs order), and truncates
// to MaxItems when it is positive. IDs absent from all are dropped.
func SelectItems(all map[string]*types.Item, profile *types.Profile) Selection {
	selection := make(Selection, 0, len(profile.Sections))
	for _, spec := range profile.Sections {
		items := make([]*types.Item, 0, len(spec.IncludeIDs))
		for _, id := range spec.IncludeIDs {
			if it, ok := all[id]; ok {
				items = append(items, it)
			}
		}

		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Priority < items[j].Priority
		})

		if spec.MaxItems != nil && *spec.MaxItems > 0 && len(items) > *spec.MaxItems {
			items = items[:*spec.MaxItems]
		}

		selection = append(selection, SelectedSection{Name: spec.Name, Items: items})
	}
	return selection
}

// Project renders one item at locale. It reports false when the item's kind
// is unknown or its data does not fit the kind's shape.
func Project(item *types.Item, locale types.Locale) (types.Entry, bool) {
	payload, err := item.Payload()
	if err != nil {
		return nil, false
	}
	return payload.Project(locale), true
}

// BuildSections projects every selected item at locale, skipping items that
// Project rejects.
func BuildSections(selection Selection, locale types.Locale) types.Sections {
	sections := make(types.Sections, 0, len(selection))
	for _, sel := range selection {
		entries := make([]types.Entry, 0, len(sel.Items))
		for _, it := range sel.Items {
			if entry, ok := Project(it, locale); ok {
				entries = append(entries, entry)
			}
		}
		sections = append(sections, types.Section{Name: sel.Name, Entries: entries})
	}
	return sections
}

// ItemCharCount counts the characters the item renders at locale. It always
// recomputes and never consults the item's cached metadata.
func ItemCharCount(item *types.Item, locale types.Locale) int {
	payload, err := item.Payload()
	if err != nil {
		return 0
	}
	return types.CharCount(payload, locale)
}

// SectionStat summarises one selected section.
type SectionStat struct {
	Name       string `json:"name" yaml:"name"`
	ItemCount  int    `json:"item_count" yaml:"item_count"`
	TotalChars int    `json:"total_chars" yaml:"total_chars"`
}

// SectionStats computes item and character counts per section at locale.
func SectionStats(selection Selection, locale types.Locale) []SectionStat {
	stats := make([]SectionStat, 0, len(selection))
	for _, sel := range selection {
		total := 0
		for _, it := range sel.Items {
			total += ItemCharCount(it, locale)
		}
		stats = append(stats, SectionStat{Name: sel.Name, ItemCount: len(sel.Items), TotalChars: total})
	}
	return stats
}

// ComposeCV returns a copy of base with sections injected at cv.sections,
// creating the cv mapping when base has none. base is left untouched: the
// root and cv mappings are copied, other subtrees are shared.
func ComposeCV(base *yaml.Node, sections types.Sections) (*types.Document, error) {
	root, err := copyRoot(base)
	if err != nil {
		return nil, err
	}

	var sectionsNode yaml.Node
	if err := sectionsNode.Encode(sections); err != nil {
		return nil, fmt.Errorf("encoding sections: %w", err)
	}

	cvKey, cvIdx := lookup(root, "cv")
	var cv *yaml.Node
	switch {
	case cvKey == nil:
		cv = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content = append(root.Content, scalar("cv"), cv)
	case isNull(root.Content[cvIdx+1]):
		cv = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root.Content[cvIdx+1] = cv
	default:
		orig := root.Content[cvIdx+1]
		if orig.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("base document: cv must be a mapping, got %s", kindName(orig))
		}
		cv = shallowCopy(orig)
		root.Content[cvIdx+1] = cv
	}

	if key, idx := lookup(cv, "sections"); key != nil {
		cv.Content[idx+1] = &sectionsNode
	} else {
		cv.Content = append(cv.Content, scalar("sections"), &sectionsNode)
	}

	return types.NewDocument(root, sections), nil
}

// copyRoot returns a shallow copy of the base document's top-level mapping.
// A nil or empty base yields an empty mapping.
func copyRoot(base *yaml.Node) (*yaml.Node, error) {
	if base == nil || base.Kind == 0 {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	n := base
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
		}
		n = n.Content[0]
	}
	if isNull(n) {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("base document must be a mapping, got %s", kindName(n))
	}
	return shallowCopy(n), nil
}

func shallowCopy(n *yaml.Node) *yaml.Node {
	c := *n
	c.Content = append([]*yaml.Node(nil), n.Content...)
	return &c
}

// lookup finds key in a mapping node and returns the key node and its index.
func lookup(m *yaml.Node, key string) (*yaml.Node, int) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i], i
		}
	}
	return nil, -1
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "mapping"
	}
}
