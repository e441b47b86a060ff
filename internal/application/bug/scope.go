// Package bug holds the bug lifecycle use cases: report, read, update, assign and delete.
package bug

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// taskScope resolves task, then its project, then checks the actor belongs to
// the project's organization.
func taskScope(ctx context.Context, tasks ports.TaskRepository, projects ports.ProjectRepository, actor *domain.User, taskID domain.TaskID) (*domain.Task, *domain.Project, error) {
	if err := authz.RequireUserExists(actor); err != nil {
		return nil, nil, err
	}
	if err := validation.Present("task id", taskID.IsZero()); err != nil {
		return nil, nil, err
	}
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	if task == nil {
		return nil, nil, domerrors.ErrTaskNotFound
	}
	project, err := projectScope(ctx, projects, actor, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

// projectScope fetches the project and checks the actor belongs to its organization.
func projectScope(ctx context.Context, projects ports.ProjectRepository, actor *domain.User, projectID domain.ProjectID) (*domain.Project, error) {
	if err := authz.RequireUserExists(actor); err != nil {
		return nil, err
	}
	if err := validation.Present("project id", projectID.IsZero()); err != nil {
		return nil, err
	}
	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domerrors.ErrProjectNotFound
	}
	if err := authz.RequireSameOrganization(actor, project); err != nil {
		return nil, err
	}
	return project, nil
}

// bugInTask fetches the bug only if it is linked to taskID.
func bugInTask(ctx context.Context, bugs ports.BugRepository, bugID domain.BugID, taskID domain.TaskID) (*domain.Bug, error) {
	b, err := bugs.GetByIDAndTaskID(ctx, bugID, taskID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domerrors.ErrBugNotFound
	}
	return b, nil
}
