package task

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

// CreateTaskInput is a new task. Actor is only trusted for its email.
type CreateTaskInput struct {
	Actor       *domain.User
	ProjectID   domain.ProjectID
	Title       string
	Description string
	DueDate     *time.Time
}

// CreateTaskResult is the stored task.
type CreateTaskResult struct {
	Task *domain.Task
}

// CreateTask lets an admin open a PENDING task in a project of their organization.
type CreateTask struct {
	tx       ports.Transactor
	users    ports.UserRepository
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
}

// NewCreateTask builds the use case.
func NewCreateTask(tx ports.Transactor, users ports.UserRepository, projects ports.ProjectRepository, tasks ports.TaskRepository) *CreateTask {
	return &CreateTask{tx: tx, users: users, projects: projects, tasks: tasks}
}

// Execute re-reads the actor by email, requires ADMIN, and stores the task.
func (uc *CreateTask) Execute(ctx context.Context, input CreateTaskInput) (*CreateTaskResult, error) {
	title := strings.TrimSpace(input.Title)
	var result *CreateTaskResult
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		actor, err := reload(ctx, uc.users, input.Actor)
		if err != nil {
			return err
		}
		if err := authz.RequireRole(actor, domain.RoleAdmin); err != nil {
			return err
		}
		if err := validation.NotBlankAll(
			validation.F("title", title),
			validation.F("description", input.Description),
		); err != nil {
			return err
		}
		if err := validation.Present("project id", input.ProjectID.IsZero()); err != nil {
			return err
		}
		project, err := uc.projects.GetByID(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if project == nil {
			return domerrors.ErrProjectNotFound
		}
		if err := authz.RequireSameOrganization(actor, project); err != nil {
			return err
		}
		exists, err := uc.tasks.ExistsByTitleAndProject(ctx, title, project.ID)
		if err != nil {
			return err
		}
		if exists {
			return domerrors.ErrTaskExists
		}
		t := &domain.Task{
			Title:       title,
			Description: input.Description,
			DueDate:     input.DueDate,
		}
		t.Open(project.ID, time.Now())
		if err := uc.tasks.Save(ctx, t); err != nil {
			return err
		}
		result = &CreateTaskResult{Task: t}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
