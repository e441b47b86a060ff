package domain

import (
	"strings"
	"time"

	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// Role is the closed set of member roles.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleQAEngineer Role = "QA_ENGINEER"
	RoleDeveloper  Role = "DEVELOPER"
)

// ParseRole converts a request-supplied role name into a Role. Unknown names are rejected.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleQAEngineer, RoleDeveloper:
		return r, nil
	default:
		return "", domerrors.InvalidInputf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// User is a member of at most one organization.
type User struct {
	ID             UserID
	Email          string
	FirstName      string
	LastName       string
	Role           Role
	OrganizationID OrganizationID
	Enabled        bool
	// InviteToken is set while an invitation is pending and cleared once accepted.
	InviteToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasOrganization reports whether the user is attached to an organization.
func (u *User) HasOrganization() bool { return !u.OrganizationID.IsZero() }

// InvitationPending reports whether the user was invited but has not accepted yet.
func (u *User) InvitationPending() bool { return u.InviteToken != "" }

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
