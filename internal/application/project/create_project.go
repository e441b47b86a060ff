// Package project holds the project use cases.
package project

import (
	"context"
	"strings"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// CreateProjectInput is the project name and description.
type CreateProjectInput struct {
	Actor       *domain.User
	Name        string
	Description string
}

// CreateProjectResult returns the created project.
type CreateProjectResult struct {
	Project *domain.Project
}

// CreateProject creates a project in the admin's organization. Names are unique per organization.
type CreateProject struct {
	tx          ports.Transactor
	projectRepo ports.ProjectRepository
}

// NewCreateProject builds the use case.
func NewCreateProject(tx ports.Transactor, projectRepo ports.ProjectRepository) *CreateProject {
	return &CreateProject{tx: tx, projectRepo: projectRepo}
}

// Execute creates the project.
func (uc *CreateProject) Execute(ctx context.Context, input CreateProjectInput) (*CreateProjectResult, error) {
	actor := input.Actor
	if err := authz.RequireUserExists(actor); err != nil {
		return nil, err
	}
	if !actor.HasOrganization() {
		return nil, domerrors.ErrNoOrganization
	}
	if err := authz.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if err := validation.NotBlank("name", name); err != nil {
		return nil, err
	}
	var result *CreateProjectResult
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := uc.projectRepo.ExistsByNameAndOrganization(ctx, name, actor.OrganizationID)
		if err != nil {
			return err
		}
		if exists {
			return domerrors.ErrProjectExists
		}
		now := time.Now()
		project := &domain.Project{
			Name:           name,
			Description:    input.Description,
			CreatedBy:      actor.ID,
			OrganizationID: actor.OrganizationID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := uc.projectRepo.Save(ctx, project); err != nil {
			return err
		}
		result = &CreateProjectResult{Project: project}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
