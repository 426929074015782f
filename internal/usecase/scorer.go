package usecase

import (
	"context"
	"log/slog"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/ports"
	"ArticleScorer/internal/rubric"
	"ArticleScorer/internal/scoring"
)

// RubricResolver is the part of RubricService the scorer depends on.
type RubricResolver interface {
	Resolve(ctx context.Context, userID string) (Resolution, error)
}

var _ RubricResolver = (*RubricService)(nil)

// ScorerDeps describes the collaborators of Scorer.
type ScorerDeps struct {
	Rubrics RubricResolver
	Metrics ports.Metrics
	Logger  *slog.Logger
}

// Outcome is a score together with the rubric it was computed against.
type Outcome struct {
	Result   domain.ScoreResult `json:"result"`
	Rubric   Resolution         `json:"rubric"`
	Fallback bool               `json:"fallback"`
}

// Scorer resolves the caller's rubric and evaluates an article against it.
type Scorer struct {
	rubrics RubricResolver
	metrics ports.Metrics
	logger  *slog.Logger
}

// NewScorer builds a Scorer.
func NewScorer(deps ScorerDeps) *Scorer {
	return &Scorer{
		rubrics: deps.Rubrics,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
}

// ScoreArticle never fails: when the rubric cannot be resolved the article is
// scored against the default rubric and Fallback is set.
func (s *Scorer) ScoreArticle(ctx context.Context, userID string, fields domain.ArticleFields) Outcome {
	res, err := s.rubrics.Resolve(ctx, userID)
	fallback := false
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("rubric resolution failed, scoring with defaults", "user", userID, "error", err)
		}
		res = Resolution{
			Criteria:  rubric.Default(),
			IsDefault: true,
		}
		fallback = true
	}

	result := scoring.Evaluate(res.Criteria, fields)
	if s.metrics != nil {
		s.metrics.ObserveScore(result, res.IsDefault, fallback)
	}
	if s.logger != nil {
		s.logger.Debug("article scored", "user", userID, "score", result.Score, "points", result.TotalPoints, "max", result.MaxPoints)
	}

	return Outcome{Result: result, Rubric: res, Fallback: fallback}
}
