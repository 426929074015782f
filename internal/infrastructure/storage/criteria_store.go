package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/ports"
)

var criterionColumns = []string{
	"id", "criterion_key", "label", "description", "icon", "max_points", "check_type",
	"min_value", "max_value", "target_value", "enabled", "sort_order", "created_at", "updated_at",
}

// CriteriaStore keeps rubric rows in a SQL database, one set per scope.
type CriteriaStore struct {
	db  *DB
	now func() time.Time
}

var _ ports.CriteriaStore = (*CriteriaStore)(nil)

// NewCriteriaStore wires a connected database.
func NewCriteriaStore(db *DB) *CriteriaStore {
	return &CriteriaStore{db: db, now: time.Now}
}

// List returns the scope's criteria in rubric order.
func (s *CriteriaStore) List(ctx context.Context, scope domain.Scope) ([]domain.Criterion, error) {
	query, args, err := s.db.builder().
		Select(criterionColumns...).
		From(criteriaTable).
		Where(scopeEq(scope)).
		OrderBy("sort_order", "created_at", "criterion_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.SQL.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query criteria: %w", err)
	}

	result := make([]domain.Criterion, 0)
	for rows.Next() {
		c, err := scanCriterion(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		result = append(result, c)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// Upsert updates the row with the same key or inserts a new one at the end of
// the rubric. A concurrent insert of the same key turns into an update, so the
// last writer wins.
func (s *CriteriaStore) Upsert(ctx context.Context, scope domain.Scope, c domain.Criterion) (domain.Criterion, error) {
	q := s.db.SQL

	updated, err := s.update(ctx, q, scope, c)
	if err != nil {
		return domain.Criterion{}, err
	}

	if !updated {
		order, err := s.nextSortOrder(ctx, q, scope)
		if err != nil {
			return domain.Criterion{}, err
		}
		c.SortOrder = order

		err = s.insert(ctx, q, scope, c)
		switch {
		case isUniqueViolation(err):
			if _, err := s.update(ctx, q, scope, c); err != nil {
				return domain.Criterion{}, err
			}
		case err != nil:
			return domain.Criterion{}, err
		}
	}

	return s.get(ctx, q, scope, c.Key)
}

// Toggle flips the enabled flag in a single statement.
func (s *CriteriaStore) Toggle(ctx context.Context, scope domain.Scope, key string) (domain.Criterion, error) {
	query, args, err := s.db.builder().
		Update(criteriaTable).
		Set("enabled", sq.Expr("NOT enabled")).
		Set("updated_at", s.now().UnixMilli()).
		Where(scopeEq(scope)).
		Where(sq.Eq{"criterion_key": key}).
		ToSql()
	if err != nil {
		return domain.Criterion{}, fmt.Errorf("build toggle query: %w", err)
	}

	res, err := s.db.SQL.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.Criterion{}, fmt.Errorf("toggle criterion %s: %w", key, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return domain.Criterion{}, fmt.Errorf("toggle criterion %s: %w", key, err)
	} else if n == 0 {
		return domain.Criterion{}, fmt.Errorf("toggle %s: %w", key, domain.ErrNotFound)
	}

	return s.get(ctx, s.db.SQL, scope, key)
}

// Delete removes the row and reports whether one existed.
func (s *CriteriaStore) Delete(ctx context.Context, scope domain.Scope, key string) (bool, error) {
	query, args, err := s.db.builder().
		Delete(criteriaTable).
		Where(scopeEq(scope)).
		Where(sq.Eq{"criterion_key": key}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete query: %w", err)
	}

	res, err := s.db.SQL.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete criterion %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete criterion %s: %w", key, err)
	}
	return n > 0, nil
}

// SeedIfEmpty inserts criteria in one transaction when the scope has no rows.
func (s *CriteriaStore) SeedIfEmpty(ctx context.Context, scope domain.Scope, criteria []domain.Criterion) (bool, error) {
	seeded := false
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := s.count(ctx, tx, scope)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := s.insertAll(ctx, tx, scope, criteria); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}

// Replace swaps the whole rubric of the scope atomically.
func (s *CriteriaStore) Replace(ctx context.Context, scope domain.Scope, criteria []domain.Criterion) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		query, args, err := s.db.builder().Delete(criteriaTable).Where(scopeEq(scope)).ToSql()
		if err != nil {
			return fmt.Errorf("build reset query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear scope %s: %w", scope, err)
		}
		return s.insertAll(ctx, tx, scope, criteria)
	})
}

func (s *CriteriaStore) count(ctx context.Context, q querier, scope domain.Scope) (int, error) {
	query, args, err := s.db.builder().Select("COUNT(*)").From(criteriaTable).Where(scopeEq(scope)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count criteria: %w", err)
	}
	return n, nil
}

func (s *CriteriaStore) get(ctx context.Context, q querier, scope domain.Scope, key string) (domain.Criterion, error) {
	query, args, err := s.db.builder().
		Select(criterionColumns...).
		From(criteriaTable).
		Where(scopeEq(scope)).
		Where(sq.Eq{"criterion_key": key}).
		ToSql()
	if err != nil {
		return domain.Criterion{}, fmt.Errorf("build get query: %w", err)
	}

	c, err := scanCriterion(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Criterion{}, fmt.Errorf("criterion %s: %w", key, domain.ErrNotFound)
	}
	return c, err
}

func (s *CriteriaStore) update(ctx context.Context, q querier, scope domain.Scope, c domain.Criterion) (bool, error) {
	query, args, err := s.db.builder().
		Update(criteriaTable).
		SetMap(map[string]any{
			"label":        c.Label,
			"description":  c.Description,
			"icon":         c.Icon,
			"max_points":   c.MaxPoints,
			"check_type":   string(c.CheckType),
			"min_value":    nullFloat(c.MinValue),
			"max_value":    nullFloat(c.MaxValue),
			"target_value": nullFloat(c.TargetValue),
			"enabled":      c.Enabled,
			"updated_at":   s.now().UnixMilli(),
		}).
		Where(scopeEq(scope)).
		Where(sq.Eq{"criterion_key": c.Key}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update query: %w", err)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update criterion %s: %w", c.Key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update criterion %s: %w", c.Key, err)
	}
	return n > 0, nil
}

func (s *CriteriaStore) insert(ctx context.Context, q querier, scope domain.Scope, c domain.Criterion) error {
	now := s.now().UnixMilli()
	query, args, err := s.db.builder().
		Insert(criteriaTable).
		Columns("id", "scope_kind", "scope_id", "criterion_key", "label", "description", "icon",
			"max_points", "check_type", "min_value", "max_value", "target_value",
			"enabled", "sort_order", "created_at", "updated_at").
		Values(uuid.NewString(), string(scope.Kind), scope.ID, c.Key, c.Label, c.Description, c.Icon,
			c.MaxPoints, string(c.CheckType), nullFloat(c.MinValue), nullFloat(c.MaxValue), nullFloat(c.TargetValue),
			c.Enabled, c.SortOrder, now, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert criterion %s: %w", c.Key, err)
	}
	return nil
}

func (s *CriteriaStore) insertAll(ctx context.Context, q querier, scope domain.Scope, criteria []domain.Criterion) error {
	for i, c := range criteria {
		c.SortOrder = i
		if err := s.insert(ctx, q, scope, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *CriteriaStore) nextSortOrder(ctx context.Context, q querier, scope domain.Scope) (int, error) {
	query, args, err := s.db.builder().
		Select("COALESCE(MAX(sort_order), -1) + 1").
		From(criteriaTable).
		Where(scopeEq(scope)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sort order query: %w", err)
	}
	var next int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	return next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCriterion(row rowScanner) (domain.Criterion, error) {
	var (
		c                   domain.Criterion
		checkType           string
		minV, maxV, targetV sql.NullFloat64
		created, updated    int64
	)

	err := row.Scan(&c.ID, &c.Key, &c.Label, &c.Description, &c.Icon, &c.MaxPoints, &checkType,
		&minV, &maxV, &targetV, &c.Enabled, &c.SortOrder, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Criterion{}, err
	}
	if err != nil {
		return domain.Criterion{}, fmt.Errorf("scan criterion: %w", err)
	}

	c.CheckType = domain.CheckType(checkType)
	c.MinValue = floatPtr(minV)
	c.MaxValue = floatPtr(maxV)
	c.TargetValue = floatPtr(targetV)
	c.CreatedAt = time.UnixMilli(created).UTC()
	c.UpdatedAt = time.UnixMilli(updated).UTC()
	return c, nil
}

func scopeEq(scope domain.Scope) sq.Eq {
	return sq.Eq{"scope_kind": string(scope.Kind), "scope_id": scope.ID}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
