package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/infrastructure/storage"
	"ArticleScorer/internal/ports"
	"ArticleScorer/internal/rubric"
)

type recordingMetrics struct {
	mu        sync.Mutex
	mutations map[string][]error
	scores    []domain.ScoreResult
	fallbacks int
}

func (m *recordingMetrics) ObserveScore(result domain.ScoreResult, _, fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, result)
	if fallback {
		m.fallbacks++
	}
}

func (m *recordingMetrics) ObserveMutation(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mutations == nil {
		m.mutations = make(map[string][]error)
	}
	m.mutations[op] = append(m.mutations[op], err)
}

type fixture struct {
	svc     *RubricService
	members *storage.MembershipStore
	metrics *recordingMetrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctx := context.Background()
	db, err := storage.Connect(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	members := storage.NewMembershipStore(db)
	metrics := &recordingMetrics{}
	svc := NewRubricService(RubricDeps{
		Criteria: storage.NewCriteriaStore(db),
		Members:  members,
		Metrics:  metrics,
	})
	return fixture{svc: svc, members: members, metrics: metrics}
}

func (f fixture) join(t *testing.T, org, user string, role domain.Role) {
	t.Helper()
	require.NoError(t, f.members.SaveMembership(context.Background(), domain.Membership{
		OrganizationID: org,
		UserID:         user,
		Role:           role,
	}))
}

func input(key string) domain.CriterionInput {
	return domain.CriterionInput{
		Key:       key,
		Label:     "Custom " + key,
		CheckType: string(domain.CheckH3Count),
		MinValue:  domain.Float(1),
	}
}

func TestResolveWithoutMembershipReturnsDefault(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	res, err := f.svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, res.IsDefault)
	assert.False(t, res.IsOrganization)
	assert.True(t, res.CanManage)
	assert.Equal(t, domain.IndividualScope("u1"), res.Scope)
	require.Len(t, res.Criteria, 14)
	for _, c := range res.Criteria {
		assert.True(t, c.Enabled, c.Key)
	}

	// resolving must not persist the defaults
	_, err = f.svc.Initialize(context.Background(), "u1")
	require.NoError(t, err)
}

func TestResolveMissingUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestOrganizationMemberCannotManage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.join(t, "org1", "owner", domain.RoleOwner)
	_, err := f.svc.Initialize(ctx, "owner")
	require.NoError(t, err)

	f.join(t, "org1", "u1", domain.RoleMember)

	res, err := f.svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, res.IsOrganization)
	assert.False(t, res.IsDefault)
	assert.Len(t, res.Criteria, 14)
	assert.False(t, res.CanManage)
	assert.Equal(t, domain.OrganizationScope("org1"), res.Scope)

	_, err = f.svc.Initialize(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = f.svc.Upsert(ctx, "u1", input("x"))
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = f.svc.BatchReplace(ctx, "u1", []domain.CriterionInput{input("x")})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	_, err = f.svc.Toggle(ctx, "u1", "word_count")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.ErrorIs(t, f.svc.Delete(ctx, "u1", "word_count"), domain.ErrNotAuthorized)
	_, err = f.svc.Reset(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	assert.Len(t, f.metrics.mutations[OpUpsert], 1)
	assert.ErrorIs(t, f.metrics.mutations[OpUpsert][0], domain.ErrNotAuthorized)

	after, err := f.svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, after.Criteria, 14)
	assert.Equal(t, "word_count", after.Criteria[0].Key)
	assert.True(t, after.Criteria[0].Enabled)
}

func TestRoleIsCheckedAtCallTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	f.join(t, "org1", "u1", domain.RoleAdmin)

	_, err := f.svc.Initialize(ctx, "u1")
	require.NoError(t, err)

	f.join(t, "org1", "u1", domain.RoleMember)
	_, err = f.svc.Toggle(ctx, "u1", "word_count")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestOrganizationRubricWinsOverPersonalRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Upsert(ctx, "u1", input("personal"))
	require.NoError(t, err)

	f.join(t, "org1", "owner", domain.RoleOwner)
	_, err = f.svc.Upsert(ctx, "owner", input("shared"))
	require.NoError(t, err)

	f.join(t, "org1", "u1", domain.RoleMember)
	res, err := f.svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, res.Criteria, 1)
	assert.Equal(t, "shared", res.Criteria[0].Key)
	assert.False(t, res.IsDefault)
}

func TestInitializeTwiceFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	seeded, err := f.svc.Initialize(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, seeded, 14)

	_, err = f.svc.Initialize(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)

	res, err := f.svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, res.IsDefault)
	assert.Len(t, res.Criteria, 14)
}

func TestUpsertValidatesAndDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	saved, err := f.svc.Upsert(ctx, "u1", domain.CriterionInput{
		Key:       "intro",
		Label:     "Intro",
		CheckType: string(domain.CheckKeywordInIntro),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, saved.MaxPoints)
	assert.Equal(t, "📌", saved.Icon)
	assert.True(t, saved.Enabled)

	_, err = f.svc.Upsert(ctx, "u1", domain.CriterionInput{Key: "bad", Label: "Bad", CheckType: "reading_time"})
	assert.ErrorIs(t, err, domain.ErrInvalidCriterion)

	_, err = f.svc.Upsert(ctx, "u1", domain.CriterionInput{Label: "No key", CheckType: string(domain.CheckH2Count)})
	assert.ErrorIs(t, err, domain.ErrInvalidCriterion)
}

func TestBatchReplaceIsBestEffort(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	bad := input("broken")
	bad.CheckType = "nope"
	saved, err := f.svc.BatchReplace(ctx, "u1", []domain.CriterionInput{input("a"), bad, input("b")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidCriterion)
	assert.Contains(t, err.Error(), "broken")
	require.Len(t, saved, 2)
	assert.Equal(t, "a", saved[0].Key)
	assert.Equal(t, "b", saved[1].Key)

	res, err := f.svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, res.Criteria, 2)
}

func TestToggleAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Initialize(ctx, "u1")
	require.NoError(t, err)

	c, err := f.svc.Toggle(ctx, "u1", "word_count")
	require.NoError(t, err)
	assert.False(t, c.Enabled)

	_, err = f.svc.Toggle(ctx, "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)

	require.NoError(t, f.svc.Delete(ctx, "u1", "word_count"))
	require.NoError(t, f.svc.Delete(ctx, "u1", "word_count"))

	res, err := f.svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, res.Criteria, 13)
}

func TestResetRestoresDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	for _, key := range []string{"c1", "c2", "c3", "c4", "c5"} {
		_, err := f.svc.Upsert(ctx, "u1", input(key))
		require.NoError(t, err)
	}

	reset, err := f.svc.Reset(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, reset, 14)

	res, err := f.svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, res.IsDefault)
	require.Len(t, res.Criteria, 14)

	defaults := rubric.Default()
	for i, c := range res.Criteria {
		assert.Equal(t, defaults[i].Key, c.Key)
		assert.Equal(t, defaults[i].CheckType, c.CheckType)
		assert.Equal(t, defaults[i].MaxPoints, c.MaxPoints)
		assert.True(t, c.Enabled, c.Key)
	}
}

type brokenStore struct {
	ports.CriteriaStore
}

func (brokenStore) List(context.Context, domain.Scope) ([]domain.Criterion, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailuresAreUnavailable(t *testing.T) {
	t.Parallel()

	svc := NewRubricService(RubricDeps{Criteria: brokenStore{}})
	_, err := svc.Resolve(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDedupeKeepsFirstRow(t *testing.T) {
	t.Parallel()

	rows := []domain.Criterion{
		{Key: "a", CheckType: domain.CheckH2Count, Label: "first"},
		{Key: "a", CheckType: domain.CheckH2Count, Label: "second"},
		{Key: "a", CheckType: domain.CheckH3Count, Label: "other type"},
	}
	out := dedupe(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Label)
}
