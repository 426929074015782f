package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/ports"
	"ArticleScorer/internal/rubric"
)

// Mutation names used in logs and metrics.
const (
	OpInitialize   = "initialize"
	OpUpsert       = "upsert"
	OpBatchReplace = "batch_replace"
	OpToggle       = "toggle"
	OpDelete       = "delete"
	OpReset        = "reset"
)

// Resolution is the rubric that applies to a user and what they may do with it.
type Resolution struct {
	Criteria       []domain.Criterion `json:"criteria"`
	IsDefault      bool               `json:"is_default"`
	IsOrganization bool               `json:"is_organization"`
	CanManage      bool               `json:"can_manage"`
	Scope          domain.Scope       `json:"scope"`
}

// RubricDeps wires the driven adapters of the rubric service.
type RubricDeps struct {
	Criteria ports.CriteriaStore
	Members  ports.MembershipStore
	Metrics  ports.Metrics
	Logger   *slog.Logger
}

// RubricService resolves and mutates rubrics. Scope and manage rights are
// recomputed on every call because roles can change between requests.
type RubricService struct {
	criteria ports.CriteriaStore
	members  ports.MembershipStore
	metrics  ports.Metrics
	logger   *slog.Logger
}

// NewRubricService constructs the service.
func NewRubricService(deps RubricDeps) *RubricService {
	return &RubricService{
		criteria: deps.Criteria,
		members:  deps.Members,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

type access struct {
	scope     domain.Scope
	canManage bool
}

func (s *RubricService) access(ctx context.Context, userID string) (access, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return access{}, fmt.Errorf("%w: missing user id", domain.ErrNotAuthorized)
	}

	if s.members != nil {
		m, ok, err := s.members.MembershipFor(ctx, userID)
		if err != nil {
			return access{}, storeErr("lookup membership", err)
		}
		if ok {
			return access{
				scope:     domain.OrganizationScope(m.OrganizationID),
				canManage: m.Role.CanManageRubric(),
			}, nil
		}
	}

	return access{scope: domain.IndividualScope(userID), canManage: true}, nil
}

// Resolve returns the rubric applying to userID. An empty scope resolves to
// the built-in default without persisting anything.
func (s *RubricService) Resolve(ctx context.Context, userID string) (Resolution, error) {
	acc, err := s.access(ctx, userID)
	if err != nil {
		return Resolution{}, err
	}

	rows, err := s.criteria.List(ctx, acc.scope)
	if err != nil {
		return Resolution{}, storeErr("list criteria", err)
	}

	res := Resolution{
		Criteria:       dedupe(rows),
		IsOrganization: acc.scope.Kind == domain.ScopeOrganization,
		CanManage:      acc.canManage,
		Scope:          acc.scope,
	}
	if len(res.Criteria) == 0 {
		res.Criteria = rubric.Default()
		res.IsDefault = true
	}

	s.debug("rubric resolved", "user", userID, "scope", acc.scope.String(), "criteria", len(res.Criteria), "default", res.IsDefault)
	return res, nil
}

// Initialize seeds the default rubric into the caller's scope if it is empty.
func (s *RubricService) Initialize(ctx context.Context, userID string) (criteria []domain.Criterion, err error) {
	defer s.observe(OpInitialize, &err)

	scope, err := s.manage(ctx, userID)
	if err != nil {
		return nil, err
	}

	seeded, err := s.criteria.SeedIfEmpty(ctx, scope, rubric.Default())
	if err != nil {
		return nil, storeErr("seed rubric", err)
	}
	if !seeded {
		return nil, fmt.Errorf("initialize %s: %w", scope, domain.ErrAlreadyInitialized)
	}

	return s.list(ctx, scope)
}

// Upsert creates or updates one criterion by key.
func (s *RubricService) Upsert(ctx context.Context, userID string, in domain.CriterionInput) (saved domain.Criterion, err error) {
	defer s.observe(OpUpsert, &err)

	scope, err := s.manage(ctx, userID)
	if err != nil {
		return domain.Criterion{}, err
	}
	return s.upsert(ctx, scope, in)
}

// BatchReplace upserts every input in order. A failing element does not stop
// the others; the successfully saved criteria are returned together with the
// joined per-element errors.
func (s *RubricService) BatchReplace(ctx context.Context, userID string, inputs []domain.CriterionInput) (saved []domain.Criterion, err error) {
	defer s.observe(OpBatchReplace, &err)

	scope, err := s.manage(ctx, userID)
	if err != nil {
		return nil, err
	}

	saved = make([]domain.Criterion, 0, len(inputs))
	var errs []error
	for i, in := range inputs {
		c, uErr := s.upsert(ctx, scope, in)
		if uErr != nil {
			s.warn("batch element failed", "index", i, "key", in.Key, "error", uErr)
			errs = append(errs, fmt.Errorf("criterion %d (%s): %w", i, in.Key, uErr))
			continue
		}
		saved = append(saved, c)
	}

	return saved, errors.Join(errs...)
}

// Toggle flips a criterion's enabled flag.
func (s *RubricService) Toggle(ctx context.Context, userID, key string) (c domain.Criterion, err error) {
	defer s.observe(OpToggle, &err)

	scope, err := s.manage(ctx, userID)
	if err != nil {
		return domain.Criterion{}, err
	}

	c, err = s.criteria.Toggle(ctx, scope, key)
	if err != nil {
		return domain.Criterion{}, storeErr("toggle criterion", err)
	}
	return c, nil
}

// Delete removes a criterion; deleting an absent key is a no-op.
func (s *RubricService) Delete(ctx context.Context, userID, key string) (err error) {
	defer s.observe(OpDelete, &err)

	scope, err := s.manage(ctx, userID)
	if err != nil {
		return err
	}

	removed, err := s.criteria.Delete(ctx, scope, key)
	if err != nil {
		return storeErr("delete criterion", err)
	}
	s.debug("criterion deleted", "scope", scope.String(), "key", key, "existed", removed)
	return nil
}

// Reset replaces the scope's rubric with the defaults in one transaction.
func (s *RubricService) Reset(ctx context.Context, userID string) (criteria []domain.Criterion, err error) {
	defer s.observe(OpReset, &err)

	scope, err := s.manage(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.criteria.Replace(ctx, scope, rubric.Default()); err != nil {
		return nil, storeErr("reset rubric", err)
	}
	return s.list(ctx, scope)
}

func (s *RubricService) manage(ctx context.Context, userID string) (domain.Scope, error) {
	acc, err := s.access(ctx, userID)
	if err != nil {
		return domain.Scope{}, err
	}
	if !acc.canManage {
		return domain.Scope{}, fmt.Errorf("user %s on %s: %w", userID, acc.scope, domain.ErrNotAuthorized)
	}
	return acc.scope, nil
}

func (s *RubricService) upsert(ctx context.Context, scope domain.Scope, in domain.CriterionInput) (domain.Criterion, error) {
	c, err := rubric.Normalize(in)
	if err != nil {
		return domain.Criterion{}, err
	}
	saved, err := s.criteria.Upsert(ctx, scope, c)
	if err != nil {
		return domain.Criterion{}, storeErr("upsert criterion", err)
	}
	return saved, nil
}

func (s *RubricService) list(ctx context.Context, scope domain.Scope) ([]domain.Criterion, error) {
	rows, err := s.criteria.List(ctx, scope)
	if err != nil {
		return nil, storeErr("list criteria", err)
	}
	return rows, nil
}

func (s *RubricService) observe(op string, err *error) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(op, *err)
	}
	if *err != nil {
		s.warn("rubric mutation failed", "op", op, "error", *err)
	}
}

func (s *RubricService) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *RubricService) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// dedupe keeps the first row per check type and key.
func dedupe(rows []domain.Criterion) []domain.Criterion {
	seen := make(map[string]struct{}, len(rows))
	out := make([]domain.Criterion, 0, len(rows))
	for _, c := range rows {
		id := string(c.CheckType) + "/" + c.Key
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, c)
	}
	return out
}

func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
