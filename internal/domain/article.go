package domain

// ArticleFields carries the raw article text consumed by the scoring engine.
type ArticleFields struct {
	Content          string `json:"content"`
	Title            string `json:"title"`
	MetaDescription  string `json:"meta_description"`
	Keyword          string `json:"keyword"`
	SEOFieldsEnabled *bool  `json:"seo_fields_enabled,omitempty"`
}

// SEOEnabled treats a missing flag as enabled.
func (a ArticleFields) SEOEnabled() bool {
	return a.SEOFieldsEnabled == nil || *a.SEOFieldsEnabled
}

// CheckResult is the outcome of one criterion against an article.
type CheckResult struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Icon      string    `json:"icon,omitempty"`
	CheckType CheckType `json:"check_type"`
	Points    int       `json:"points"`
	MaxPoints int       `json:"max_points"`
	IsValid   bool      `json:"is_valid"`
	Detail    string    `json:"detail"`
}

// ScoreResult is the normalized score with its per-criterion breakdown.
type ScoreResult struct {
	Score       int           `json:"score"`
	TotalPoints int           `json:"total_points"`
	MaxPoints   int           `json:"max_points"`
	Details     []CheckResult `json:"details"`
}
