// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks CV items and profiles before composition. Every
// check runs regardless of earlier failures; results are flat, ordered lists
// of human-readable messages where an empty list means valid.
package validate

import (
	"fmt"
	"time"

	"github.com/pdiddy/cv-builder/pkg/types"
)

const (
	// PresentSentinel marks an ongoing period. The format check accepts it as
	// either date; only as an end date does it carry meaning.
	PresentSentinel = "present"

	monthLayout = "2006-01"
)

// schema lists the fields a kind must carry and which of its fields hold
// bilingual text.
type schema struct {
	label     string
	required  []string
	bilingual []string
}

func schemaFor(kind types.Kind) schema {
	switch kind {
	case types.KindWorkExperience:
		return schema{
			label:     "Work experience",
			required:  []string{"company", "position", "start_date", "end_date", "location", "highlights"},
			bilingual: []string{"company", "position", "location"},
		}
	case types.KindProject:
		return schema{
			label:     "Project",
			required:  []string{"name", "highlights"},
			bilingual: []string{"name"},
		}
	case types.KindEducation:
		return schema{
			label:     "Education",
			required:  []string{"institution", "area", "degree"},
			bilingual: []string{"institution", "area", "degree", "location"},
		}
	case types.KindAdditionalInfo:
		return schema{
			label:     "Additional info",
			required:  []string{"label", "details"},
			bilingual: []string{"label", "details"},
		}
	}
	panic(fmt.Sprintf("validate: no schema for kind %q", kind))
}

// Items validates a whole item collection: duplicate IDs first, then every
// item in order.
func Items(items []*types.Item) []string {
	errs := duplicateIDs(items)
	for _, it := range items {
		errs = append(errs, Item(it)...)
	}
	return errs
}

// duplicateIDs reports every repeat of an ID; n items sharing one ID yield
// n-1 messages.
func duplicateIDs(items []*types.Item) []string {
	var errs []string
	first := make(map[string]*types.Item, len(items))
	for _, it := range items {
		prev, seen := first[it.ID]
		if !seen {
			first[it.ID] = it
			continue
		}
		msg := fmt.Sprintf("Duplicate item ID: %s", it.ID)
		if it.Source != "" && prev.Source != "" {
			msg += fmt.Sprintf(" (%s conflicts with %s)", it.Source, prev.Source)
		}
		errs = append(errs, msg)
	}
	return errs
}

// Item validates a single item against the rules of its kind. An unknown
// kind yields one message and no further checks.
func Item(it *types.Item) []string {
	kind, err := it.Kind()
	if err != nil {
		return []string{fmt.Sprintf("Unknown item type: %s for item %s", it.Type, it.ID)}
	}

	s := schemaFor(kind)
	data := it.Data
	var errs []string

	for _, field := range s.required {
		if _, ok := data[field]; !ok {
			errs = append(errs, fmt.Sprintf("%s '%s' missing required field: %s", s.label, it.ID, field))
		}
	}

	for _, field := range s.bilingual {
		if v, ok := data[field]; ok {
			errs = append(errs, Bilingual(v, it.ID+"."+field)...)
		}
	}

	errs = append(errs, dates(s.label, it.ID, data)...)

	if v, ok := data["highlights"]; ok {
		highlights, isList := v.([]any)
		if !isList || len(highlights) == 0 {
			errs = append(errs, fmt.Sprintf("%s '%s' must have at least one highlight", s.label, it.ID))
		} else {
			for i, h := range highlights {
				errs = append(errs, Bilingual(h, fmt.Sprintf("%s.highlights[%d]", it.ID, i))...)
			}
		}
	}

	return errs
}

// Bilingual checks one bilingual value. Missing English and missing Korean
// are reported independently.
func Bilingual(v any, name string) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s must be a mapping with 'en' and 'kr' keys", name)}
	}
	var errs []string
	if !nonEmpty(m, string(types.LocaleEN)) {
		errs = append(errs, fmt.Sprintf("%s missing English translation", name))
	}
	if !nonEmpty(m, string(types.LocaleKR)) {
		errs = append(errs, fmt.Sprintf("%s missing Korean translation", name))
	}
	return errs
}

func nonEmpty(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && s != ""
}

func dates(label, id string, data map[string]any) []string {
	var errs []string
	parsed := make(map[string]time.Time, 2)
	for _, field := range []string{"start_date", "end_date"} {
		v, ok := data[field]
		if !ok {
			continue
		}
		s, _ := v.(string)
		if !ValidDate(s) {
			errs = append(errs, fmt.Sprintf("%s '%s' has invalid %s format", label, id, field))
			continue
		}
		if s != PresentSentinel {
			parsed[field], _ = time.Parse(monthLayout, s)
		}
	}

	start, hasStart := parsed["start_date"]
	end, hasEnd := parsed["end_date"]
	if hasStart && hasEnd && start.After(end) {
		errs = append(errs, fmt.Sprintf("%s '%s' has end_date before start_date", label, id))
	}
	return errs
}

// ValidDate reports whether s is a YYYY-MM month or the present sentinel.
func ValidDate(s string) bool {
	if s == PresentSentinel {
		return true
	}
	_, err := time.Parse(monthLayout, s)
	return err == nil
}

// Profile checks that every item a profile references exists. It reports one
// message per missing reference and performs no other checks.
func Profile(p *types.Profile, available map[string]*types.Item) []string {
	var errs []string
	for _, sec := range p.Sections {
		for _, id := range sec.IncludeIDs {
			if _, ok := available[id]; !ok {
				errs = append(errs, fmt.Sprintf("Profile '%s' section '%s' references unknown item: %s", p.Name, sec.Name, id))
			}
		}
	}
	return errs
}
