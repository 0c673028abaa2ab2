// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cv-builder/pkg/types"
)

func bi(en, kr string) map[string]any {
	return map[string]any{"en": en, "kr": kr}
}

func workExperience(id string) *types.Item {
	return &types.Item{
		ID:   id,
		Type: "work_experience",
		Data: map[string]any{
			"company":    bi("Acme", "애크미"),
			"position":   bi("Engineer", "엔지니어"),
			"start_date": "2020-01",
			"end_date":   "2022-06",
			"location":   bi("Seoul", "서울"),
			"highlights": []any{bi("Built it", "만들었다")},
		},
	}
}

func TestItemsValid(t *testing.T) {
	items := []*types.Item{
		workExperience("acme"),
		{ID: "p1", Type: "project", Data: map[string]any{
			"name":       bi("CLI", "CLI"),
			"highlights": []any{bi("Fast", "빠름")},
		}},
		{ID: "uni", Type: "education", Data: map[string]any{
			"institution": bi("KAIST", "카이스트"),
			"area":        bi("CS", "전산학"),
			"degree":      bi("BS", "학사"),
		}},
		{ID: "lang", Type: "additional_info", Data: map[string]any{
			"label":   bi("Languages", "언어"),
			"details": bi("Korean", "한국어"),
		}},
	}
	assert.Empty(t, Items(items))
}

func TestItemsDuplicateIDs(t *testing.T) {
	a := workExperience("dup")
	a.Source = "work_experience/a.yaml"
	b := workExperience("dup")
	b.Source = "work_experience/b.yaml"
	c := workExperience("dup")

	errs := Items([]*types.Item{a, b, c, workExperience("other")})
	require.Len(t, errs, 2)
	assert.Equal(t, "Duplicate item ID: dup (work_experience/b.yaml conflicts with work_experience/a.yaml)", errs[0])
	assert.Equal(t, "Duplicate item ID: dup", errs[1])
}

func TestItemUnknownType(t *testing.T) {
	errs := Item(&types.Item{ID: "x", Type: "hobby", Data: map[string]any{}})
	assert.Equal(t, []string{"Unknown item type: hobby for item x"}, errs)
}

func TestItemRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		item *types.Item
		want []string
	}{
		{
			name: "work experience missing everything",
			item: &types.Item{ID: "w", Type: "work_experience", Data: map[string]any{}},
			want: []string{
				"Work experience 'w' missing required field: company",
				"Work experience 'w' missing required field: position",
				"Work experience 'w' missing required field: start_date",
				"Work experience 'w' missing required field: end_date",
				"Work experience 'w' missing required field: location",
				"Work experience 'w' missing required field: highlights",
			},
		},
		{
			name: "project missing highlights",
			item: &types.Item{ID: "p", Type: "project", Data: map[string]any{"name": bi("A", "에이")}},
			want: []string{"Project 'p' missing required field: highlights"},
		},
		{
			name: "education missing degree",
			item: &types.Item{ID: "e", Type: "education", Data: map[string]any{
				"institution": bi("U", "유"),
				"area":        bi("CS", "전산"),
			}},
			want: []string{"Education 'e' missing required field: degree"},
		},
		{
			name: "additional info missing details",
			item: &types.Item{ID: "a", Type: "additional_info", Data: map[string]any{"label": bi("L", "엘")}},
			want: []string{"Additional info 'a' missing required field: details"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Item(tt.item))
		})
	}
}

func TestBilingual(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "complete", value: bi("A", "에이")},
		{name: "missing korean", value: map[string]any{"en": "A"}, want: []string{"f missing Korean translation"}},
		{name: "empty english", value: bi("", "에이"), want: []string{"f missing English translation"}},
		{
			name:  "missing both",
			value: map[string]any{},
			want:  []string{"f missing English translation", "f missing Korean translation"},
		},
		{
			name:  "both empty",
			value: bi("", ""),
			want:  []string{"f missing English translation", "f missing Korean translation"},
		},
		{name: "not a mapping", value: "Acme", want: []string{"f must be a mapping with 'en' and 'kr' keys"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bilingual(tt.value, "f"))
		})
	}
}

func TestItemDates(t *testing.T) {
	tests := []struct {
		name  string
		start any
		end   any
		want  []string
	}{
		{name: "ordered", start: "2019-01", end: "2020-01"},
		{name: "same month", start: "2020-01", end: "2020-01"},
		{
			name:  "end before start",
			start: "2020-01",
			end:   "2019-01",
			want:  []string{"Work experience 'w' has end_date before start_date"},
		},
		{name: "present end", start: "2099-12", end: "present"},
		{name: "present start is accepted", start: "present", end: "2020-01"},
		{
			name:  "bad start format",
			start: "2020/01",
			end:   "present",
			want:  []string{"Work experience 'w' has invalid start_date format"},
		},
		{
			name:  "bad month",
			start: "2020-13",
			end:   "2021-01",
			want:  []string{"Work experience 'w' has invalid start_date format"},
		},
		{
			name:  "non-string end",
			start: "2020-01",
			end:   2021,
			want:  []string{"Work experience 'w' has invalid end_date format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := workExperience("w")
			it.Data["start_date"] = tt.start
			it.Data["end_date"] = tt.end
			assert.Equal(t, tt.want, Item(it))
		})
	}
}

func TestEducationDateOrdering(t *testing.T) {
	it := &types.Item{ID: "e", Type: "education", Data: map[string]any{
		"institution": bi("U", "유"),
		"area":        bi("CS", "전산"),
		"degree":      bi("BS", "학사"),
		"start_date":  "2018-03",
		"end_date":    "2014-02",
	}}
	assert.Equal(t, []string{"Education 'e' has end_date before start_date"}, Item(it))
}

func TestItemHighlights(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		it := workExperience("w")
		it.Data["highlights"] = []any{}
		assert.Equal(t, []string{"Work experience 'w' must have at least one highlight"}, Item(it))
	})

	t.Run("not a list", func(t *testing.T) {
		it := workExperience("w")
		it.Data["highlights"] = "did things"
		assert.Equal(t, []string{"Work experience 'w' must have at least one highlight"}, Item(it))
	})

	t.Run("each element checked", func(t *testing.T) {
		it := workExperience("w")
		it.Data["highlights"] = []any{bi("ok", "좋음"), map[string]any{"en": "half"}, "plain"}
		assert.Equal(t, []string{
			"w.highlights[1] missing Korean translation",
			"w.highlights[2] must be a mapping with 'en' and 'kr' keys",
		}, Item(it))
	})

	t.Run("optional for education but checked when present", func(t *testing.T) {
		it := &types.Item{ID: "e", Type: "education", Data: map[string]any{
			"institution": bi("U", "유"),
			"area":        bi("CS", "전산"),
			"degree":      bi("BS", "학사"),
			"highlights":  []any{},
		}}
		assert.Equal(t, []string{"Education 'e' must have at least one highlight"}, Item(it))
	})
}

func TestItemsCollectsAcrossItems(t *testing.T) {
	bad := workExperience("bad")
	bad.Data["company"] = map[string]any{}
	bad.Data["end_date"] = "2019-01"

	errs := Items([]*types.Item{
		bad,
		{ID: "x", Type: "nope", Data: map[string]any{}},
		workExperience("fine"),
	})
	assert.Equal(t, []string{
		"bad.company missing English translation",
		"bad.company missing Korean translation",
		"Work experience 'bad' has end_date before start_date",
		"Unknown item type: nope for item x",
	}, errs)
}

func TestProfile(t *testing.T) {
	available := map[string]*types.Item{
		"a": workExperience("a"),
		"b": workExperience("b"),
	}
	p := &types.Profile{
		Name: "backend",
		Sections: []types.SectionSpec{
			{Name: "experience", IncludeIDs: []string{"a", "ghost", "b"}},
			{Name: "projects", IncludeIDs: []string{"phantom"}},
		},
	}

	assert.Equal(t, []string{
		"Profile 'backend' section 'experience' references unknown item: ghost",
		"Profile 'backend' section 'projects' references unknown item: phantom",
	}, Profile(p, available))

	p.Sections = p.Sections[:1]
	p.Sections[0].IncludeIDs = []string{"a", "b"}
	assert.Empty(t, Profile(p, available))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-02"))
	assert.True(t, ValidDate("present"))
	assert.False(t, ValidDate("2024-2"))
	assert.False(t, ValidDate("Present"))
	assert.False(t, ValidDate(""))
}
