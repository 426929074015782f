// Package scoring evaluates article fields against a rubric and normalizes
// the earned points to a 0-100 score. Everything here is pure.
package scoring

import (
	"math"
	"strings"

	"ArticleScorer/internal/content"
	"ArticleScorer/internal/domain"
)

// Evaluate scores an article against the given criteria. Criteria that are
// disabled, unknown, or tied to SEO fields the article has switched off are
// dropped before any check runs, so they weigh on neither side of the ratio.
func Evaluate(criteria []domain.Criterion, fields domain.ArticleFields) domain.ScoreResult {
	if strings.TrimSpace(fields.Content) == "" {
		return domain.ScoreResult{Details: []domain.CheckResult{}}
	}

	applicable := Applicable(criteria, fields)
	analysis := content.Analyze(fields.Content)

	details := make([]domain.CheckResult, 0, len(applicable))
	for _, c := range applicable {
		details = append(details, Check(c, analysis, fields))
	}

	return Aggregate(details)
}

// Applicable filters the criteria that take part in an evaluation.
func Applicable(criteria []domain.Criterion, fields domain.ArticleFields) []domain.Criterion {
	seoEnabled := fields.SEOEnabled()
	out := make([]domain.Criterion, 0, len(criteria))
	for _, c := range criteria {
		if !c.Enabled || !c.CheckType.Valid() || c.MaxPoints <= 0 {
			continue
		}
		if !seoEnabled && c.CheckType.SEOField() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Aggregate sums earned and available points and rounds the ratio half-up.
func Aggregate(details []domain.CheckResult) domain.ScoreResult {
	res := domain.ScoreResult{Details: details}
	if res.Details == nil {
		res.Details = []domain.CheckResult{}
	}

	for _, d := range details {
		res.TotalPoints += d.Points
		res.MaxPoints += d.MaxPoints
	}

	res.Score = Normalize(res.TotalPoints, res.MaxPoints)
	return res
}

// Normalize maps earned/max onto [0,100].
func Normalize(total, maxPoints int) int {
	if maxPoints <= 0 {
		return 0
	}
	score := int(math.Floor(float64(total)/float64(maxPoints)*100 + 0.5))
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
