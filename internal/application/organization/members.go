package organization

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// Members lists and removes members of the actor's organization.
type Members struct {
	tx       ports.Transactor
	users    ports.UserRepository
	orgs     ports.OrganizationRepository
	identity ports.IdentityProvider
}

// NewMembers builds the use case.
func NewMembers(tx ports.Transactor, users ports.UserRepository, orgs ports.OrganizationRepository, identity ports.IdentityProvider) *Members {
	return &Members{tx: tx, users: users, orgs: orgs, identity: identity}
}

// List pages through the actor's organization, newest members first.
func (uc *Members) List(ctx context.Context, actor *domain.User, page domain.PageRequest) (domain.Page[*domain.User], error) {
	var out domain.Page[*domain.User]
	if err := authz.RequireUserExists(actor); err != nil {
		return out, err
	}
	if !actor.HasOrganization() {
		return out, domerrors.ErrNoOrganization
	}
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = uc.users.ListByOrganization(ctx, actor.OrganizationID, page.Normalize())
		return err
	})
	return out, err
}

// Remove detaches a member from the organization and deletes their identity
// account. The organization itself stays.
func (uc *Members) Remove(ctx context.Context, admin *domain.User, memberID domain.UserID) error {
	if err := authz.RequireUserExists(admin); err != nil {
		return err
	}
	if err := validation.Present("user id", memberID.IsZero()); err != nil {
		return err
	}
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		member, err := uc.users.GetByID(ctx, memberID)
		if err != nil {
			return err
		}
		if member == nil {
			return domerrors.ErrUserNotFound
		}
		org, err := uc.orgs.GetByID(ctx, member.OrganizationID)
		if err != nil {
			return err
		}
		if org == nil {
			return domerrors.ErrOrganizationNotFound
		}
		if err := authz.RequireSameOrganizationID(admin, org.ID); err != nil {
			return err
		}
		if err := authz.RequireRole(admin, domain.RoleAdmin); err != nil {
			return err
		}
		if member.ID == admin.ID {
			return domerrors.InvalidInput("admins cannot remove themselves")
		}
		if err := uc.orgs.RemoveUser(ctx, member, org); err != nil {
			return err
		}
		exists, err := uc.identity.AccountExists(ctx, member.Email)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}
		return uc.identity.DeleteAccount(ctx, member.Email)
	})
}
