package ports

import (
	"context"

	"ArticleScorer/internal/domain"
)

// CriteriaStore persists rubric rows per scope. Implementations return
// domain.ErrNotFound for absent keys and plain wrapped errors for I/O failures.
type CriteriaStore interface {
	List(ctx context.Context, scope domain.Scope) ([]domain.Criterion, error)
	Upsert(ctx context.Context, scope domain.Scope, criterion domain.Criterion) (domain.Criterion, error)
	Toggle(ctx context.Context, scope domain.Scope, key string) (domain.Criterion, error)
	Delete(ctx context.Context, scope domain.Scope, key string) (bool, error)
	// SeedIfEmpty inserts criteria only when the scope has no rows; it reports whether it did.
	SeedIfEmpty(ctx context.Context, scope domain.Scope, criteria []domain.Criterion) (bool, error)
	// Replace deletes every row of the scope and inserts criteria atomically.
	Replace(ctx context.Context, scope domain.Scope, criteria []domain.Criterion) error
}

// MembershipStore answers which organization, if any, a user belongs to.
type MembershipStore interface {
	MembershipFor(ctx context.Context, userID string) (domain.Membership, bool, error)
}

// Metrics records scoring and rubric activity.
type Metrics interface {
	ObserveScore(result domain.ScoreResult, isDefault, fallback bool)
	ObserveMutation(op string, err error)
}
