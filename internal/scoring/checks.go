package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"ArticleScorer/internal/content"
	"ArticleScorer/internal/domain"
)

// Partial-credit bands, converted to whole points per criterion.
const (
	tierWordCountLong  = 0.87
	tierWordCountMin   = 0.73
	tierTitleEarly     = 0.83
	tierTitleLate      = 0.67
	tierDensityLow     = 0.83
	tierH2Min          = 0.67
	tierStrongMin      = 0.80
	longArticleWords   = 500
	densityFloor       = 0.5
	titleEarlyPosition = 10
	defaultIntroWords  = 100
	defaultH1Target    = 1
)

// Check evaluates one criterion against an analyzed article. It never fails:
// missing data scores zero and an unknown check type is reported as such.
func Check(c domain.Criterion, a content.Analysis, f domain.ArticleFields) domain.CheckResult {
	res := domain.CheckResult{
		Key:       c.Key,
		Label:     c.Label,
		Icon:      c.Icon,
		CheckType: c.CheckType,
		MaxPoints: c.MaxPoints,
	}

	var points int
	switch c.CheckType {
	case domain.CheckWordCount:
		points, res.Detail = wordCount(c, a)
	case domain.CheckKeywordInTitle:
		points, res.Detail = keywordInTitle(c, f)
	case domain.CheckKeywordInMeta:
		points, res.Detail = keywordIn(c, f.Keyword, f.MetaDescription)
	case domain.CheckMetaLength:
		points, res.Detail = lengthWithin(c, f.MetaDescription)
	case domain.CheckKeywordDensity:
		points, res.Detail = keywordDensity(c, a, f.Keyword)
	case domain.CheckH1Count:
		points, res.Detail = h1Count(c, a)
	case domain.CheckKeywordInH1:
		points, res.Detail = keywordInH1(c, a, f.Keyword)
	case domain.CheckH2Count:
		points, res.Detail = h2Count(c, a)
	case domain.CheckH3Count:
		points, res.Detail = atLeast(c, a.H3Count, c.MinValue, "%d H3")
	case domain.CheckTitleLength:
		points, res.Detail = lengthWithin(c, f.Title)
	case domain.CheckKeywordInIntro:
		points, res.Detail = keywordInIntro(c, a, f.Keyword)
	case domain.CheckStrongCount:
		points, res.Detail = strongCount(c, a)
	case domain.CheckTitlePresent:
		points, res.Detail = present(c, f.Title)
	case domain.CheckMetaPresent:
		points, res.Detail = present(c, f.MetaDescription)
	default:
		res.Detail = fmt.Sprintf("unsupported check %q", c.CheckType)
	}

	res.Points = clampPoints(points, c.MaxPoints)
	res.IsValid = res.MaxPoints > 0 && res.Points == res.MaxPoints
	return res
}

func wordCount(c domain.Criterion, a content.Analysis) (int, string) {
	n := a.WordCount()
	detail := fmt.Sprintf("%d words", n)
	switch {
	case reached(n, c.TargetValue):
		return c.MaxPoints, detail
	case n >= longArticleWords:
		return tier(c.MaxPoints, tierWordCountLong), detail
	case reached(n, c.MinValue):
		return tier(c.MaxPoints, tierWordCountMin), detail
	default:
		return 0, detail
	}
}

func keywordInTitle(c domain.Criterion, f domain.ArticleFields) (int, string) {
	keyword := strings.TrimSpace(f.Keyword)
	if keyword == "" {
		return 0, "no keyword"
	}
	lower := strings.ToLower(f.Title)
	idx := strings.Index(lower, strings.ToLower(keyword))
	if idx < 0 {
		return 0, "keyword missing"
	}

	pos := utf8.RuneCountInString(lower[:idx])
	detail := fmt.Sprintf("position %d", pos)
	switch {
	case pos == 0:
		return c.MaxPoints, detail
	case pos < titleEarlyPosition:
		return tier(c.MaxPoints, tierTitleEarly), detail
	default:
		return tier(c.MaxPoints, tierTitleLate), detail
	}
}

func keywordIn(c domain.Criterion, keyword, text string) (int, string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return 0, "no keyword"
	}
	if content.ContainsFold(text, keyword) {
		return c.MaxPoints, "present"
	}
	return 0, "missing"
}

func lengthWithin(c domain.Criterion, text string) (int, string) {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	detail := fmt.Sprintf("%d characters", n)
	if within(float64(n), c.MinValue, c.MaxValue) {
		return c.MaxPoints, detail
	}
	return 0, detail
}

func keywordDensity(c domain.Criterion, a content.Analysis, keyword string) (int, string) {
	if strings.TrimSpace(keyword) == "" {
		return 0, "no keyword"
	}
	words := a.WordCount()
	if words == 0 {
		return 0, "0.00%"
	}

	hits := content.CountWholeWord(a.Text, keyword)
	density := float64(hits) / float64(words) * 100
	detail := fmt.Sprintf("%.2f%%", density)

	switch {
	case hits > 0 && within(density, c.MinValue, c.MaxValue):
		return c.MaxPoints, detail
	case c.MinValue != nil && density >= densityFloor && density < *c.MinValue:
		return tier(c.MaxPoints, tierDensityLow), detail
	default:
		return 0, detail
	}
}

func h1Count(c domain.Criterion, a content.Analysis) (int, string) {
	target := float64(defaultH1Target)
	if c.TargetValue != nil {
		target = *c.TargetValue
	}
	detail := fmt.Sprintf("%d H1", a.H1Count)
	if float64(a.H1Count) == target {
		return c.MaxPoints, detail
	}
	return 0, detail
}

func keywordInH1(c domain.Criterion, a content.Analysis, keyword string) (int, string) {
	if a.H1Count == 0 {
		return 0, "no H1"
	}
	return keywordIn(c, keyword, a.FirstH1)
}

func h2Count(c domain.Criterion, a content.Analysis) (int, string) {
	detail := fmt.Sprintf("%d H2", a.H2Count)
	switch {
	case reached(a.H2Count, c.TargetValue):
		return c.MaxPoints, detail
	case reached(a.H2Count, c.MinValue):
		return tier(c.MaxPoints, tierH2Min), detail
	default:
		return 0, detail
	}
}

func atLeast(c domain.Criterion, n int, bound *float64, format string) (int, string) {
	detail := fmt.Sprintf(format, n)
	if reached(n, bound) {
		return c.MaxPoints, detail
	}
	return 0, detail
}

func keywordInIntro(c domain.Criterion, a content.Analysis, keyword string) (int, string) {
	n := defaultIntroWords
	if c.TargetValue != nil && *c.TargetValue >= 1 {
		if *c.TargetValue >= float64(a.WordCount()) {
			n = a.WordCount()
		} else {
			n = int(*c.TargetValue)
		}
	}
	if strings.TrimSpace(keyword) == "" {
		return 0, "no keyword"
	}
	if content.ContainsFold(a.Intro(n), keyword) {
		return c.MaxPoints, fmt.Sprintf("present in first %d words", n)
	}
	return 0, fmt.Sprintf("missing from first %d words", n)
}

func strongCount(c domain.Criterion, a content.Analysis) (int, string) {
	detail := fmt.Sprintf("%d bold", a.StrongCount)
	switch {
	case reached(a.StrongCount, c.TargetValue):
		return c.MaxPoints, detail
	case reached(a.StrongCount, c.MinValue):
		return tier(c.MaxPoints, tierStrongMin), detail
	default:
		return 0, detail
	}
}

func present(c domain.Criterion, text string) (int, string) {
	if strings.TrimSpace(text) == "" {
		return 0, "empty"
	}
	return c.MaxPoints, "filled in"
}

// reached is false for a nil bound so an unset threshold grants nothing.
func reached(n int, bound *float64) bool {
	return bound != nil && float64(n) >= *bound
}

// within treats a nil bound as open-ended.
func within(v float64, lo, hi *float64) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

func tier(maxPoints int, share float64) int {
	return int(math.Round(float64(maxPoints) * share))
}

func clampPoints(points, maxPoints int) int {
	if points < 0 || maxPoints <= 0 {
		return 0
	}
	if points > maxPoints {
		return maxPoints
	}
	return points
}
