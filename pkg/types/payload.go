// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "unicode/utf8"

// Payload is the typed, statically shaped data of one item kind.
type Payload interface {
	// Kind returns the variant this payload belongs to.
	Kind() Kind

	// Project renders the payload at locale.
	Project(locale Locale) Entry

	// Texts returns every bilingual value of the payload at locale, highlights
	// included, in field order. Dates are not text and are left out.
	Texts(locale Locale) []string
}

// CharCount sums the characters (Unicode code points) of every text the
// payload renders at locale.
func CharCount(p Payload, locale Locale) int {
	total := 0
	for _, s := range p.Texts(locale) {
		total += utf8.RuneCountInString(s)
	}
	return total
}

// WorkExperience is the payload of a work_experience item.
type WorkExperience struct {
	Company    BilingualText   `yaml:"company"`
	Position   BilingualText   `yaml:"position"`
	StartDate  string          `yaml:"start_date"`
	EndDate    string          `yaml:"end_date"`
	Location   BilingualText   `yaml:"location"`
	Highlights []BilingualText `yaml:"highlights"`
}

func (*WorkExperience) Kind() Kind { return KindWorkExperience }

func (w *WorkExperience) Project(locale Locale) Entry {
	return &WorkExperienceEntry{
		Company:    w.Company.In(locale),
		Position:   w.Position.In(locale),
		StartDate:  w.StartDate,
		EndDate:    w.EndDate,
		Location:   w.Location.In(locale),
		Highlights: inAll(w.Highlights, locale),
	}
}

func (w *WorkExperience) Texts(locale Locale) []string {
	texts := []string{w.Company.In(locale), w.Position.In(locale), w.Location.In(locale)}
	return append(texts, inAll(w.Highlights, locale)...)
}

// Project is the payload of a project item.
type Project struct {
	Name       BilingualText   `yaml:"name"`
	Highlights []BilingualText `yaml:"highlights"`
}

func (*Project) Kind() Kind { return KindProject }

func (p *Project) Project(locale Locale) Entry {
	return &ProjectEntry{
		Name:       p.Name.In(locale),
		Highlights: inAll(p.Highlights, locale),
	}
}

func (p *Project) Texts(locale Locale) []string {
	return append([]string{p.Name.In(locale)}, inAll(p.Highlights, locale)...)
}

// Education is the payload of an education item. Only institution, area and
// degree are required; the rest appear in the entry only when authored.
type Education struct {
	Institution BilingualText   `yaml:"institution"`
	Area        BilingualText   `yaml:"area"`
	Degree      *BilingualText  `yaml:"degree"`
	StartDate   string          `yaml:"start_date"`
	EndDate     string          `yaml:"end_date"`
	Location    *BilingualText  `yaml:"location"`
	Highlights  []BilingualText `yaml:"highlights"`
}

func (*Education) Kind() Kind { return KindEducation }

func (e *Education) Project(locale Locale) Entry {
	entry := &EducationEntry{
		Institution: e.Institution.In(locale),
		Area:        e.Area.In(locale),
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Highlights:  inAll(e.Highlights, locale),
	}
	if e.Degree != nil {
		entry.Degree = e.Degree.In(locale)
	}
	if e.Location != nil {
		entry.Location = e.Location.In(locale)
	}
	return entry
}

func (e *Education) Texts(locale Locale) []string {
	texts := []string{e.Institution.In(locale), e.Area.In(locale)}
	if e.Degree != nil {
		texts = append(texts, e.Degree.In(locale))
	}
	if e.Location != nil {
		texts = append(texts, e.Location.In(locale))
	}
	return append(texts, inAll(e.Highlights, locale)...)
}

// AdditionalInfo is the payload of an additional_info item.
type AdditionalInfo struct {
	Label   BilingualText `yaml:"label"`
	Details BilingualText `yaml:"details"`
}

func (*AdditionalInfo) Kind() Kind { return KindAdditionalInfo }

func (a *AdditionalInfo) Project(locale Locale) Entry {
	return &AdditionalInfoEntry{
		Label:   a.Label.In(locale),
		Details: a.Details.In(locale),
	}
}

func (a *AdditionalInfo) Texts(locale Locale) []string {
	return []string{a.Label.In(locale), a.Details.In(locale)}
}
