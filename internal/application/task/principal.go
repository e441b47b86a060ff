// Package task holds the task lifecycle use cases.
package task

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// reload returns the stored user with actor's email. Role and organization
// decisions are made on the stored copy, never on the caller's.
func reload(ctx context.Context, users ports.UserRepository, actor *domain.User) (*domain.User, error) {
	if actor == nil || actor.Email == "" {
		return nil, domerrors.ErrUserNotFound
	}
	stored, err := users.GetByEmail(ctx, actor.Email)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireUserExists(stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// taskInOrganization fetches the task and its project and checks actor belongs to the project's organization.
func taskInOrganization(ctx context.Context, tasks ports.TaskRepository, projects ports.ProjectRepository, actor *domain.User, id domain.TaskID) (*domain.Task, *domain.Project, error) {
	t, err := tasks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, domerrors.ErrTaskNotFound
	}
	p, err := projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	if err := authz.RequireSameOrganization(actor, p); err != nil {
		return nil, nil, err
	}
	return t, p, nil
}
