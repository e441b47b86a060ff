package task

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// ReadTasks serves task lookups and listings.
type ReadTasks struct {
	tx       ports.Transactor
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
}

// NewReadTasks builds the use case.
func NewReadTasks(tx ports.Transactor, projects ports.ProjectRepository, tasks ports.TaskRepository) *ReadTasks {
	return &ReadTasks{tx: tx, projects: projects, tasks: tasks}
}

// Get returns a task of the actor's organization.
func (uc *ReadTasks) Get(ctx context.Context, actor *domain.User, id domain.TaskID) (*domain.Task, error) {
	if err := authz.RequireUserExists(actor); err != nil {
		return nil, err
	}
	if err := validation.Present("task id", id.IsZero()); err != nil {
		return nil, err
	}
	var t *domain.Task
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		t, _, err = taskInOrganization(ctx, uc.tasks, uc.projects, actor, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// InProject lists a project's tasks, newest first.
func (uc *ReadTasks) InProject(ctx context.Context, actor *domain.User, projectID domain.ProjectID, page domain.PageRequest) (domain.Page[*domain.Task], error) {
	var out domain.Page[*domain.Task]
	if err := authz.RequireUserExists(actor); err != nil {
		return out, err
	}
	if err := validation.Present("project id", projectID.IsZero()); err != nil {
		return out, err
	}
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		project, err := uc.projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return domerrors.ErrProjectNotFound
		}
		if err := authz.RequireSameOrganization(actor, project); err != nil {
			return err
		}
		out, err = uc.tasks.ListByProject(ctx, project.ID, page.Normalize())
		return err
	})
	return out, err
}

// AssignedTo lists tasks assigned to userID, newest first.
func (uc *ReadTasks) AssignedTo(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.Page[*domain.Task], error) {
	var out domain.Page[*domain.Task]
	if err := validation.Present("user id", userID.IsZero()); err != nil {
		return out, err
	}
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = uc.tasks.ListByAssignee(ctx, userID, page.Normalize())
		return err
	})
	return out, err
}
