package task

import (
	"context"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// ManageTask assigns, moves and deletes tasks. The actor is re-read by email
// before any role decision.
type ManageTask struct {
	tx       ports.Transactor
	users    ports.UserRepository
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
}

// NewManageTask builds the use case.
func NewManageTask(tx ports.Transactor, users ports.UserRepository, projects ports.ProjectRepository, tasks ports.TaskRepository) *ManageTask {
	return &ManageTask{tx: tx, users: users, projects: projects, tasks: tasks}
}

// Assign hands the task to a developer of the same organization. Admin only.
func (uc *ManageTask) Assign(ctx context.Context, caller *domain.User, id domain.TaskID, developerID domain.UserID) (*domain.Task, error) {
	if err := validation.Present("task id", id.IsZero()); err != nil {
		return nil, err
	}
	if err := validation.Present("developer id", developerID.IsZero()); err != nil {
		return nil, err
	}
	var t *domain.Task
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		actor, err := reload(ctx, uc.users, caller)
		if err != nil {
			return err
		}
		var project *domain.Project
		t, project, err = taskInOrganization(ctx, uc.tasks, uc.projects, actor, id)
		if err != nil {
			return err
		}
		developer, err := uc.users.GetByID(ctx, developerID)
		if err != nil {
			return err
		}
		if developer == nil {
			return domerrors.ErrUserNotFound
		}
		if err := authz.RequireSameOrganization(developer, project); err != nil {
			return err
		}
		if err := authz.RequireRole(actor, domain.RoleAdmin); err != nil {
			return err
		}
		if developer.Role != domain.RoleDeveloper {
			return domerrors.InvalidInput("tasks can only be assigned to developers")
		}
		if err := t.AssignTo(developer.ID, time.Now()); err != nil {
			return err
		}
		return uc.tasks.Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatus moves the task. Allowed for admins and the current assignee.
func (uc *ManageTask) UpdateStatus(ctx context.Context, caller *domain.User, id domain.TaskID, status domain.TaskStatus) (*domain.Task, error) {
	if err := validation.Present("task id", id.IsZero()); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseTaskStatus(string(status))
	if err != nil {
		return nil, err
	}
	var t *domain.Task
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		actor, err := reload(ctx, uc.users, caller)
		if err != nil {
			return err
		}
		t, _, err = taskInOrganization(ctx, uc.tasks, uc.projects, actor, id)
		if err != nil {
			return err
		}
		assignee := t.AssignedTo != nil && *t.AssignedTo == actor.ID
		if !assignee {
			if err := authz.RequireRole(actor, domain.RoleAdmin); err != nil {
				return err
			}
		}
		t.SetStatus(parsed, time.Now())
		return uc.tasks.Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the task. Admin only.
func (uc *ManageTask) Delete(ctx context.Context, caller *domain.User, id domain.TaskID) error {
	if err := validation.Present("task id", id.IsZero()); err != nil {
		return err
	}
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		actor, err := reload(ctx, uc.users, caller)
		if err != nil {
			return err
		}
		t, _, err := taskInOrganization(ctx, uc.tasks, uc.projects, actor, id)
		if err != nil {
			return err
		}
		if err := authz.RequireRole(actor, domain.RoleAdmin); err != nil {
			return err
		}
		return uc.tasks.DeleteByID(ctx, t.ID)
	})
}
