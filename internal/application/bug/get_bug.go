package bug

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// GetBugInput addresses a bug through the task it belongs to.
type GetBugInput struct {
	Actor  *domain.User
	TaskID domain.TaskID
	BugID  domain.BugID
}

// GetBug reads one bug through its task.
type GetBug struct {
	tx       ports.Transactor
	bugs     ports.BugRepository
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
}

// NewGetBug builds the use case.
func NewGetBug(tx ports.Transactor, bugs ports.BugRepository, tasks ports.TaskRepository, projects ports.ProjectRepository) *GetBug {
	return &GetBug{tx: tx, bugs: bugs, tasks: tasks, projects: projects}
}

// Execute returns the bug if it is linked to the task and the actor shares the task's organization.
func (uc *GetBug) Execute(ctx context.Context, input GetBugInput) (*domain.Bug, error) {
	if err := authz.RequireUserExists(input.Actor); err != nil {
		return nil, err
	}
	if err := validation.Present("bug id", input.BugID.IsZero()); err != nil {
		return nil, err
	}
	var b *domain.Bug
	err := uc.tx.WithinReadTx(ctx, func(ctx context.Context) error {
		if _, _, err := taskScope(ctx, uc.tasks, uc.projects, input.Actor, input.TaskID); err != nil {
			return err
		}
		var err error
		b, err = bugInTask(ctx, uc.bugs, input.BugID, input.TaskID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
