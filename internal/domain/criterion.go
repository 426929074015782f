package domain

import (
	"fmt"
	"strings"
	"time"
)

// CheckType enumerates the measurements a criterion can perform.
type CheckType string

const (
	CheckWordCount      CheckType = "word_count"
	CheckKeywordInTitle CheckType = "keyword_in_title"
	CheckKeywordInMeta  CheckType = "keyword_in_meta"
	CheckMetaLength     CheckType = "meta_length"
	CheckKeywordDensity CheckType = "keyword_density"
	CheckH1Count        CheckType = "h1_count"
	CheckKeywordInH1    CheckType = "keyword_in_h1"
	CheckH2Count        CheckType = "h2_count"
	CheckH3Count        CheckType = "h3_count"
	CheckTitleLength    CheckType = "title_length"
	CheckKeywordInIntro CheckType = "keyword_in_intro"
	CheckStrongCount    CheckType = "strong_count"
	CheckTitlePresent   CheckType = "title_present"
	CheckMetaPresent    CheckType = "meta_present"
)

// CheckTypes lists every supported check in rubric order.
var CheckTypes = []CheckType{
	CheckWordCount,
	CheckKeywordInTitle,
	CheckKeywordInMeta,
	CheckMetaLength,
	CheckKeywordDensity,
	CheckH1Count,
	CheckKeywordInH1,
	CheckH2Count,
	CheckH3Count,
	CheckTitleLength,
	CheckKeywordInIntro,
	CheckStrongCount,
	CheckTitlePresent,
	CheckMetaPresent,
}

// ParseCheckType maps a stored tag onto the closed set of check types.
func ParseCheckType(value string) (CheckType, error) {
	ct := CheckType(strings.TrimSpace(value))
	if !ct.Valid() {
		return "", fmt.Errorf("unknown check type %q: %w", value, ErrInvalidCriterion)
	}
	return ct, nil
}

// Valid reports whether the check type is supported.
func (c CheckType) Valid() bool {
	for _, known := range CheckTypes {
		if c == known {
			return true
		}
	}
	return false
}

// SEOField reports whether the check only measures the title or meta description.
// Such checks are skipped entirely when an article has SEO fields disabled.
func (c CheckType) SEOField() bool {
	switch c {
	case CheckKeywordInTitle, CheckKeywordInMeta, CheckMetaLength,
		CheckTitleLength, CheckTitlePresent, CheckMetaPresent:
		return true
	default:
		return false
	}
}

// Criterion is one scored rule of a rubric.
type Criterion struct {
	ID          string    `json:"id,omitempty" yaml:"-"`
	Key         string    `json:"key" yaml:"key"`
	Label       string    `json:"label" yaml:"label"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	MaxPoints   int       `json:"max_points" yaml:"max_points"`
	CheckType   CheckType `json:"check_type" yaml:"check_type"`
	MinValue    *float64  `json:"min_value" yaml:"min_value,omitempty"`
	MaxValue    *float64  `json:"max_value" yaml:"max_value,omitempty"`
	TargetValue *float64  `json:"target_value" yaml:"target_value,omitempty"`
	Enabled     bool      `json:"enabled" yaml:"enabled"`
	SortOrder   int       `json:"sort_order" yaml:"-"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// CriterionInput is the payload accepted by upsert and batch operations.
// Enabled is a pointer so an omitted field can default to true.
type CriterionInput struct {
	Key         string   `json:"key" yaml:"key" validate:"required,max=64"`
	Label       string   `json:"label" yaml:"label" validate:"required,max=200"`
	Description string   `json:"description" yaml:"description"`
	Icon        string   `json:"icon" yaml:"icon"`
	MaxPoints   int      `json:"max_points" yaml:"max_points" validate:"gte=0"`
	CheckType   string   `json:"check_type" yaml:"check_type" validate:"required"`
	MinValue    *float64 `json:"min_value" yaml:"min_value"`
	MaxValue    *float64 `json:"max_value" yaml:"max_value"`
	TargetValue *float64 `json:"target_value" yaml:"target_value"`
	Enabled     *bool    `json:"enabled" yaml:"enabled"`
}

// Float returns a pointer to v, for building optional bounds.
func Float(v float64) *float64 {
	return &v
}
