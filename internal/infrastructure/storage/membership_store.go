package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/ports"
)

// MembershipStore reads organization membership rows.
type MembershipStore struct {
	db  *DB
	now func() time.Time
}

var _ ports.MembershipStore = (*MembershipStore)(nil)

// NewMembershipStore wires a connected database.
func NewMembershipStore(db *DB) *MembershipStore {
	return &MembershipStore{db: db, now: time.Now}
}

// MembershipFor returns the user's organization membership. A user is
// expected to belong to at most one organization; should several rows exist
// the earliest joined one wins so resolution stays deterministic.
func (s *MembershipStore) MembershipFor(ctx context.Context, userID string) (domain.Membership, bool, error) {
	query, args, err := s.db.builder().
		Select("organization_id", "role").
		From(membersTable).
		Where("user_id = ?", userID).
		OrderBy("joined_at", "organization_id").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Membership{}, false, fmt.Errorf("build membership query: %w", err)
	}

	m := domain.Membership{UserID: userID}
	var role string
	err = s.db.SQL.QueryRowContext(ctx, query, args...).Scan(&m.OrganizationID, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Membership{}, false, nil
	}
	if err != nil {
		return domain.Membership{}, false, fmt.Errorf("query membership: %w", err)
	}

	m.Role = domain.Role(role)
	return m, true, nil
}

// SaveMembership adds a user to an organization or changes their role.
func (s *MembershipStore) SaveMembership(ctx context.Context, m domain.Membership) error {
	query, args, err := s.db.builder().
		Insert(membersTable).
		Columns("organization_id", "user_id", "role", "joined_at").
		Values(m.OrganizationID, m.UserID, string(m.Role), s.now().UnixMilli()).
		Suffix("ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role").
		ToSql()
	if err != nil {
		return fmt.Errorf("build membership insert: %w", err)
	}

	if _, err := s.db.SQL.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save membership: %w", err)
	}
	return nil
}

// RemoveMembership drops a user from an organization.
func (s *MembershipStore) RemoveMembership(ctx context.Context, orgID, userID string) error {
	query, args, err := s.db.builder().
		Delete(membersTable).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build membership delete: %w", err)
	}

	if _, err := s.db.SQL.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}
	return nil
}
