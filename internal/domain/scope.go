package domain

import "fmt"

// ScopeKind distinguishes personal rubrics from organization-wide ones.
type ScopeKind string

const (
	ScopeIndividual   ScopeKind = "individual"
	ScopeOrganization ScopeKind = "organization"
)

// Scope is the ownership boundary of a rubric: one user or one organization, never both.
type Scope struct {
	Kind ScopeKind `json:"kind"`
	ID   string    `json:"id"`
}

// IndividualScope builds the personal scope of a user.
func IndividualScope(userID string) Scope {
	return Scope{Kind: ScopeIndividual, ID: userID}
}

// OrganizationScope builds the shared scope of an organization.
func OrganizationScope(orgID string) Scope {
	return Scope{Kind: ScopeOrganization, ID: orgID}
}

func (s Scope) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.ID)
}

// Role is a member's role inside an organization.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// CanManageRubric reports whether the role may change the shared rubric.
func (r Role) CanManageRubric() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Membership links a user to an organization.
type Membership struct {
	OrganizationID string
	UserID         string
	Role           Role
}
