package bug

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// ListBugs serves the paged bug listings. Pages are ordered newest first.
type ListBugs struct {
	tx       ports.Transactor
	bugs     ports.BugRepository
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
}

// NewListBugs builds the use case.
func NewListBugs(tx ports.Transactor, bugs ports.BugRepository, tasks ports.TaskRepository, projects ports.ProjectRepository) *ListBugs {
	return &ListBugs{tx: tx, bugs: bugs, tasks: tasks, projects: projects}
}

// InProject lists the bugs of a project in the actor's organization.
func (uc *ListBugs) InProject(ctx context.Context, actor *domain.User, projectID domain.ProjectID, page domain.PageRequest) (domain.Page[*domain.Bug], error) {
	var out domain.Page[*domain.Bug]
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		project, err := projectScope(ctx, uc.projects, actor, projectID)
		if err != nil {
			return err
		}
		out, err = uc.bugs.ListByProject(ctx, project.ID, page.Normalize())
		return err
	})
	return out, err
}

// InTask lists the bugs linked to a task in the actor's organization.
func (uc *ListBugs) InTask(ctx context.Context, actor *domain.User, taskID domain.TaskID, page domain.PageRequest) (domain.Page[*domain.Bug], error) {
	var out domain.Page[*domain.Bug]
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		task, _, err := taskScope(ctx, uc.tasks, uc.projects, actor, taskID)
		if err != nil {
			return err
		}
		out, err = uc.bugs.ListByTask(ctx, task.ID, page.Normalize())
		return err
	})
	return out, err
}

// AssignedTo lists bugs assigned to userID. Authorization happens at the transport.
func (uc *ListBugs) AssignedTo(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.Page[*domain.Bug], error) {
	if err := validation.Present("user id", userID.IsZero()); err != nil {
		return domain.Page[*domain.Bug]{}, err
	}
	var out domain.Page[*domain.Bug]
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = uc.bugs.ListByAssignee(ctx, userID, page.Normalize())
		return err
	})
	return out, err
}

// CreatedBy lists bugs reported by userID. Authorization happens at the transport.
func (uc *ListBugs) CreatedBy(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.Page[*domain.Bug], error) {
	if err := validation.Present("user id", userID.IsZero()); err != nil {
		return domain.Page[*domain.Bug]{}, err
	}
	var out domain.Page[*domain.Bug]
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = uc.bugs.ListByCreator(ctx, userID, page.Normalize())
		return err
	})
	return out, err
}
