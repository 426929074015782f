// Package rubric holds the built-in default rubric and rubric file import.
package rubric

import "ArticleScorer/internal/domain"

// Version identifies the default rubric revision shipped with the engine.
// Clients scoring offline compare it against the server's copy.
const Version = "2"

var defaults = []domain.Criterion{
	{
		Key:         "word_count",
		Label:       "Article length",
		Description: "At least 800 words; 300 is the minimum for partial credit",
		Icon:        "📝",
		MaxPoints:   15,
		CheckType:   domain.CheckWordCount,
		MinValue:    domain.Float(300),
		TargetValue: domain.Float(800),
	},
	{
		Key:         "keyword_in_title",
		Label:       "Keyword in title",
		Description: "The main keyword appears in the title, ideally at the start",
		Icon:        "🎯",
		MaxPoints:   10,
		CheckType:   domain.CheckKeywordInTitle,
	},
	{
		Key:         "keyword_in_meta",
		Label:       "Keyword in meta description",
		Description: "The main keyword appears in the meta description",
		Icon:        "🔎",
		MaxPoints:   5,
		CheckType:   domain.CheckKeywordInMeta,
	},
	{
		Key:         "meta_length",
		Label:       "Meta description length",
		Description: "Between 120 and 160 characters",
		Icon:        "📏",
		MaxPoints:   5,
		CheckType:   domain.CheckMetaLength,
		MinValue:    domain.Float(120),
		MaxValue:    domain.Float(160),
	},
	{
		Key:         "keyword_density",
		Label:       "Keyword density",
		Description: "The keyword makes up 1% to 2.5% of the words",
		Icon:        "📊",
		MaxPoints:   10,
		CheckType:   domain.CheckKeywordDensity,
		MinValue:    domain.Float(1),
		MaxValue:    domain.Float(2.5),
	},
	{
		Key:         "h1_count",
		Label:       "Single H1",
		Description: "Exactly one level-1 heading",
		Icon:        "🏷️",
		MaxPoints:   5,
		CheckType:   domain.CheckH1Count,
		TargetValue: domain.Float(1),
	},
	{
		Key:         "keyword_in_h1",
		Label:       "Keyword in H1",
		Description: "The main keyword appears in the first H1",
		Icon:        "🔤",
		MaxPoints:   5,
		CheckType:   domain.CheckKeywordInH1,
	},
	{
		Key:         "h2_count",
		Label:       "H2 structure",
		Description: "At least 4 level-2 headings; 2 for partial credit",
		Icon:        "📑",
		MaxPoints:   10,
		CheckType:   domain.CheckH2Count,
		MinValue:    domain.Float(2),
		TargetValue: domain.Float(4),
	},
	{
		Key:         "h3_count",
		Label:       "H3 sub-sections",
		Description: "At least one level-3 heading",
		Icon:        "📂",
		MaxPoints:   5,
		CheckType:   domain.CheckH3Count,
		MinValue:    domain.Float(1),
	},
	{
		Key:         "title_length",
		Label:       "Title length",
		Description: "Between 30 and 65 characters",
		Icon:        "📐",
		MaxPoints:   5,
		CheckType:   domain.CheckTitleLength,
		MinValue:    domain.Float(30),
		MaxValue:    domain.Float(65),
	},
	{
		Key:         "keyword_in_intro",
		Label:       "Keyword in introduction",
		Description: "The main keyword appears in the first 100 words",
		Icon:        "🚀",
		MaxPoints:   10,
		CheckType:   domain.CheckKeywordInIntro,
		TargetValue: domain.Float(100),
	},
	{
		Key:         "strong_count",
		Label:       "Bold emphasis",
		Description: "At least 3 bold passages; 1 for partial credit",
		Icon:        "💪",
		MaxPoints:   5,
		CheckType:   domain.CheckStrongCount,
		MinValue:    domain.Float(1),
		TargetValue: domain.Float(3),
	},
	{
		Key:         "title_present",
		Label:       "SEO title filled in",
		Icon:        "✅",
		MaxPoints:   5,
		CheckType:   domain.CheckTitlePresent,
	},
	{
		Key:         "meta_present",
		Label:       "Meta description filled in",
		Icon:        "✅",
		MaxPoints:   5,
		CheckType:   domain.CheckMetaPresent,
	},
}

// Default returns a fresh copy of the built-in rubric with every criterion enabled.
// Both the resolver fallback and scope seeding consume this list.
func Default() []domain.Criterion {
	out := make([]domain.Criterion, len(defaults))
	for i, c := range defaults {
		c.MinValue = clone(c.MinValue)
		c.MaxValue = clone(c.MaxValue)
		c.TargetValue = clone(c.TargetValue)
		c.Enabled = true
		c.SortOrder = i
		out[i] = c
	}
	return out
}

// DefaultInputs returns the default rubric shaped as upsert payloads.
func DefaultInputs() []domain.CriterionInput {
	list := Default()
	inputs := make([]domain.CriterionInput, 0, len(list))
	for _, c := range list {
		inputs = append(inputs, ToInput(c))
	}
	return inputs
}

// ToInput converts a criterion into an upsert payload.
func ToInput(c domain.Criterion) domain.CriterionInput {
	enabled := c.Enabled
	return domain.CriterionInput{
		Key:         c.Key,
		Label:       c.Label,
		Description: c.Description,
		Icon:        c.Icon,
		MaxPoints:   c.MaxPoints,
		CheckType:   string(c.CheckType),
		MinValue:    clone(c.MinValue),
		MaxValue:    clone(c.MaxValue),
		TargetValue: clone(c.TargetValue),
		Enabled:     &enabled,
	}
}

func clone(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
