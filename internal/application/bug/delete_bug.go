package bug

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// DeleteBug removes a bug. Only admins of the project's organization may delete.
type DeleteBug struct {
	tx       ports.Transactor
	bugs     ports.BugRepository
	projects ports.ProjectRepository
}

// NewDeleteBug builds the use case.
func NewDeleteBug(tx ports.Transactor, bugs ports.BugRepository, projects ports.ProjectRepository) *DeleteBug {
	return &DeleteBug{tx: tx, bugs: bugs, projects: projects}
}

func (uc *DeleteBug) Execute(ctx context.Context, actor *domain.User, bugID domain.BugID) error {
	if err := authz.RequireUserExists(actor); err != nil {
		return err
	}
	if err := validation.Present("bug id", bugID.IsZero()); err != nil {
		return err
	}
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := uc.bugs.GetByID(ctx, bugID)
		if err != nil {
			return err
		}
		if b == nil {
			return domerrors.ErrBugNotFound
		}
		if _, err := projectScope(ctx, uc.projects, actor, b.ProjectID); err != nil {
			return err
		}
		if err := authz.RequireRole(actor, domain.RoleAdmin); err != nil {
			return err
		}
		return uc.bugs.Delete(ctx, b.ID)
	})
}
