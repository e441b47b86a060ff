package bug

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

// UpdateBugInput addresses one bug of one task. Only the fields read by the
// chosen use case matter.
type UpdateBugInput struct {
	Actor       *domain.User
	TaskID      domain.TaskID
	BugID       domain.BugID
	Title       string
	Description string
	Status      domain.BugStatus
	Severity    domain.Severity
}

// UpdateBug applies one kind of change to a bug inside the task's organization.
type UpdateBug struct {
	tx       ports.Transactor
	bugs     ports.BugRepository
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	check    func(UpdateBugInput) error
	apply    func(context.Context, *domain.Bug, UpdateBugInput) error
}

func newUpdateBug(tx ports.Transactor, bugs ports.BugRepository, tasks ports.TaskRepository, projects ports.ProjectRepository) *UpdateBug {
	return &UpdateBug{tx: tx, bugs: bugs, tasks: tasks, projects: projects}
}

// NewUpdateBugDetails overwrites title and description with the non-empty
// values given. Description is required, title optional.
func NewUpdateBugDetails(tx ports.Transactor, bugs ports.BugRepository, tasks ports.TaskRepository, projects ports.ProjectRepository) *UpdateBug {
	uc := newUpdateBug(tx, bugs, tasks, projects)
	uc.check = func(in UpdateBugInput) error {
		return validation.NotBlank("description", in.Description)
	}
	uc.apply = func(ctx context.Context, b *domain.Bug, in UpdateBugInput) error {
		in.Title = strings.TrimSpace(in.Title)
		if in.Title != "" && in.Title != b.Title {
			exists, err := bugs.ExistsByTitleAndProject(ctx, in.Title, b.ProjectID)
			if err != nil {
				return err
			}
			if exists {
				return domerrors.ErrBugExists
			}
		}
		b.ApplyDetails(in.Title, in.Description, time.Now())
		return nil
	}
	return uc
}

// NewUpdateBugStatus overwrites the status.
func NewUpdateBugStatus(tx ports.Transactor, bugs ports.BugRepository, tasks ports.TaskRepository, projects ports.ProjectRepository) *UpdateBug {
	uc := newUpdateBug(tx, bugs, tasks, projects)
	uc.check = func(in UpdateBugInput) error {
		if err := validation.Present("status", in.Status == ""); err != nil {
			return err
		}
		_, err := domain.ParseBugStatus(string(in.Status))
		return err
	}
	uc.apply = func(_ context.Context, b *domain.Bug, in UpdateBugInput) error {
		status, err := domain.ParseBugStatus(string(in.Status))
		if err != nil {
			return err
		}
		b.SetStatus(status, time.Now())
		return nil
	}
	return uc
}

// NewUpdateBugSeverity overwrites the severity.
func NewUpdateBugSeverity(tx ports.Transactor, bugs ports.BugRepository, tasks ports.TaskRepository, projects ports.ProjectRepository) *UpdateBug {
	uc := newUpdateBug(tx, bugs, tasks, projects)
	uc.check = func(in UpdateBugInput) error {
		if err := validation.Present("severity", in.Severity == ""); err != nil {
			return err
		}
		_, err := domain.ParseSeverity(string(in.Severity))
		return err
	}
	uc.apply = func(_ context.Context, b *domain.Bug, in UpdateBugInput) error {
		severity, err := domain.ParseSeverity(string(in.Severity))
		if err != nil {
			return err
		}
		b.SetSeverity(severity, time.Now())
		return nil
	}
	return uc
}

// Execute validates the input, resolves task, project and organization, then
// persists the changed bug.
func (uc *UpdateBug) Execute(ctx context.Context, input UpdateBugInput) (*domain.Bug, error) {
	if err := authz.RequireUserExists(input.Actor); err != nil {
		return nil, err
	}
	if err := validation.Present("bug id", input.BugID.IsZero()); err != nil {
		return nil, err
	}
	if err := uc.check(input); err != nil {
		return nil, err
	}
	var b *domain.Bug
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, _, err := taskScope(ctx, uc.tasks, uc.projects, input.Actor, input.TaskID); err != nil {
			return err
		}
		var err error
		b, err = bugInTask(ctx, uc.bugs, input.BugID, input.TaskID)
		if err != nil {
			return err
		}
		if err := uc.apply(ctx, b, input); err != nil {
			return err
		}
		return uc.bugs.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
