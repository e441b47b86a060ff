package bug

import (
	"context"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// AssignBugInput names the bug and the developer to receive it.
type AssignBugInput struct {
	Assigner    *domain.User
	BugID       domain.BugID
	DeveloperID domain.UserID
}

// AssignBug hands a bug to a developer of the reporter's organization.
// Only admins and QA engineers may assign.
type AssignBug struct {
	tx       ports.Transactor
	bugs     ports.BugRepository
	users    ports.UserRepository
	projects ports.ProjectRepository
}

// NewAssignBug builds the use case.
func NewAssignBug(tx ports.Transactor, bugs ports.BugRepository, users ports.UserRepository, projects ports.ProjectRepository) *AssignBug {
	return &AssignBug{tx: tx, bugs: bugs, users: users, projects: projects}
}

func (uc *AssignBug) Execute(ctx context.Context, input AssignBugInput) (*domain.Bug, error) {
	if err := authz.RequireUserExists(input.Assigner); err != nil {
		return nil, err
	}
	if err := validation.Present("bug id", input.BugID.IsZero()); err != nil {
		return nil, err
	}
	if err := validation.Present("developer id", input.DeveloperID.IsZero()); err != nil {
		return nil, err
	}
	var b *domain.Bug
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = uc.bugs.GetByID(ctx, input.BugID)
		if err != nil {
			return err
		}
		if b == nil {
			return domerrors.ErrBugNotFound
		}
		developer, err := uc.users.GetByID(ctx, input.DeveloperID)
		if err != nil {
			return err
		}
		if developer == nil {
			return domerrors.ErrUserNotFound
		}
		orgID, err := uc.owningOrganization(ctx, b)
		if err != nil {
			return err
		}
		if err := authz.RequireSameOrganizationID(input.Assigner, orgID); err != nil {
			return err
		}
		if err := authz.RequireSameOrganizationID(developer, orgID); err != nil {
			return err
		}
		if err := authz.RequireRoleIn(input.Assigner, domain.RoleAdmin, domain.RoleQAEngineer); err != nil {
			return err
		}
		if developer.Role != domain.RoleDeveloper {
			return domerrors.InvalidInput("bugs can only be assigned to developers")
		}
		if err := b.AssignTo(developer.ID, time.Now()); err != nil {
			return err
		}
		return uc.bugs.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// owningOrganization is the reporter's organization, or the project's once the
// reporter has left.
func (uc *AssignBug) owningOrganization(ctx context.Context, b *domain.Bug) (domain.OrganizationID, error) {
	creator, err := uc.users.GetByID(ctx, b.CreatedBy)
	if err != nil {
		return domain.OrganizationID{}, err
	}
	if creator != nil && creator.HasOrganization() {
		return creator.OrganizationID, nil
	}
	project, err := uc.projects.GetByID(ctx, b.ProjectID)
	if err != nil {
		return domain.OrganizationID{}, err
	}
	if project == nil {
		return domain.OrganizationID{}, domerrors.ErrProjectNotFound
	}
	return project.OrganizationID, nil
}
