// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the loader, validator and
// composer: CV items and their typed payloads, profiles, rendered entries,
// the composed document, configuration, and the pipeline's error kinds.
package types

// Locale identifies an output language.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleKR Locale = "kr"
)

// Locales lists every locale an item carries text for, in canonical order.
var Locales = []Locale{LocaleEN, LocaleKR}

// BilingualText is a user-facing string authored in both English and Korean.
type BilingualText struct {
	EN string `json:"en" yaml:"en"`
	KR string `json:"kr" yaml:"kr"`
}

// In returns the text for locale. English is the fallback whenever the
// requested locale has no text or is not a recognised locale.
func (b BilingualText) In(locale Locale) string {
	if locale == LocaleKR && b.KR != "" {
		return b.KR
	}
	return b.EN
}

func inAll(texts []BilingualText, locale Locale) []string {
	if texts == nil {
		return nil
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = t.In(locale)
	}
	return out
}
