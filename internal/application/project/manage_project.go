package project

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// Projects reads and deletes projects of the actor's organization.
type Projects struct {
	tx          ports.Transactor
	projectRepo ports.ProjectRepository
}

// NewProjects builds the use case.
func NewProjects(tx ports.Transactor, projectRepo ports.ProjectRepository) *Projects {
	return &Projects{tx: tx, projectRepo: projectRepo}
}

func (uc *Projects) load(ctx context.Context, actor *domain.User, id domain.ProjectID) (*domain.Project, error) {
	if err := authz.RequireUserExists(actor); err != nil {
		return nil, err
	}
	if err := validation.Present("project id", id.IsZero()); err != nil {
		return nil, err
	}
	p, err := uc.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireSameOrganization(actor, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns one project.
func (uc *Projects) Get(ctx context.Context, actor *domain.User, id domain.ProjectID) (*domain.Project, error) {
	var p *domain.Project
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		p, err = uc.load(ctx, actor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List pages through the organization's projects, newest first.
func (uc *Projects) List(ctx context.Context, actor *domain.User, page domain.PageRequest) (domain.Page[*domain.Project], error) {
	var out domain.Page[*domain.Project]
	if err := authz.RequireUserExists(actor); err != nil {
		return out, err
	}
	if !actor.HasOrganization() {
		return out, domerrors.ErrNoOrganization
	}
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = uc.projectRepo.List(ctx, actor.OrganizationID, page.Normalize())
		return err
	})
	return out, err
}

// Delete removes the project with its tasks and bugs. Admin only.
func (uc *Projects) Delete(ctx context.Context, actor *domain.User, id domain.ProjectID) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.load(ctx, actor, id)
		if err != nil {
			return err
		}
		if err := authz.RequireRole(actor, domain.RoleAdmin); err != nil {
			return err
		}
		return uc.projectRepo.Delete(ctx, p.ID)
	})
}
