// Package authz decides whether an actor may touch a resource.
//
// Existence failures (NOT_FOUND) are always reported before permission
// failures (ACCESS_DENIED). Callers compose the predicates in this order:
// id presence, fetch related entity, organization membership, role.
package authz

import (
	"slices"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// RequireUserExists fails when the actor is missing or has no id.
func RequireUserExists(user *domain.User) error {
	if user == nil || user.ID.IsZero() {
		return domerrors.ErrUserNotFound
	}
	return nil
}

// RequireSameOrganization fails unless the user belongs to the project's organization.
func RequireSameOrganization(user *domain.User, project *domain.Project) error {
	if project == nil {
		return domerrors.ErrProjectNotFound
	}
	return RequireSameOrganizationID(user, project.OrganizationID)
}

// RequireSameOrganizationID fails unless the user belongs to organization orgID.
func RequireSameOrganizationID(user *domain.User, orgID domain.OrganizationID) error {
	if err := RequireUserExists(user); err != nil {
		return err
	}
	if !user.HasOrganization() {
		return domerrors.ErrNoOrganization
	}
	if user.OrganizationID != orgID {
		return domerrors.ErrNotOrganizationMember
	}
	return nil
}

// RequireRole fails unless the user holds role.
func RequireRole(user *domain.User, role domain.Role) error {
	return RequireRoleIn(user, role)
}

// RequireRoleIn fails unless the user holds one of roles.
func RequireRoleIn(user *domain.User, roles ...domain.Role) error {
	if err := RequireUserExists(user); err != nil {
		return err
	}
	if !slices.Contains(roles, user.Role) {
		return domerrors.ErrRoleNotPermitted
	}
	return nil
}
