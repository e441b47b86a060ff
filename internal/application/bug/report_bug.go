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

// ReportBugInput is a new bug. Severity and Priority default to MINOR and MEDIUM.
type ReportBugInput struct {
	Reporter    *domain.User
	ProjectID   domain.ProjectID
	TaskID      *domain.TaskID
	Title       string
	Description string
	Severity    domain.Severity
	Priority    domain.Priority
}

// ReportBugResult is the stored bug.
type ReportBugResult struct {
	Bug *domain.Bug
}

// ReportBug records a bug raised by a QA engineer of the project's organization.
type ReportBug struct {
	tx       ports.Transactor
	bugs     ports.BugRepository
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
}

// NewReportBug builds the use case.
func NewReportBug(tx ports.Transactor, bugs ports.BugRepository, tasks ports.TaskRepository, projects ports.ProjectRepository) *ReportBug {
	return &ReportBug{tx: tx, bugs: bugs, tasks: tasks, projects: projects}
}

// Execute persists the bug with status OPEN. Project existence and membership
// are checked before the role, and the role before any field.
func (uc *ReportBug) Execute(ctx context.Context, input ReportBugInput) (*ReportBugResult, error) {
	if err := authz.RequireUserExists(input.Reporter); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	var result *ReportBugResult
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		project, err := projectScope(ctx, uc.projects, input.Reporter, input.ProjectID)
		if err != nil {
			return err
		}
		if err := authz.RequireRole(input.Reporter, domain.RoleQAEngineer); err != nil {
			return err
		}
		if err := validation.NotBlankAll(
			validation.F("title", title),
			validation.F("description", input.Description),
		); err != nil {
			return err
		}
		severity, priority, err := classify(input.Severity, input.Priority)
		if err != nil {
			return err
		}
		if input.TaskID != nil {
			task, err := uc.tasks.GetByID(ctx, *input.TaskID)
			if err != nil {
				return err
			}
			if task == nil {
				return domerrors.ErrTaskNotFound
			}
			if task.ProjectID != project.ID {
				return domerrors.InvalidInput("task does not belong to the bug's project")
			}
		}
		exists, err := uc.bugs.ExistsByTitleAndProject(ctx, title, project.ID)
		if err != nil {
			return err
		}
		if exists {
			return domerrors.ErrBugExists
		}
		b := &domain.Bug{
			Title:       title,
			Description: input.Description,
			Severity:    severity,
			Priority:    priority,
			ProjectID:   project.ID,
			TaskID:      input.TaskID,
		}
		b.MarkReported(input.Reporter.ID, time.Now())
		if err := uc.bugs.Save(ctx, b); err != nil {
			return err
		}
		result = &ReportBugResult{Bug: b}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func classify(severity domain.Severity, priority domain.Priority) (domain.Severity, domain.Priority, error) {
	if severity == "" {
		severity = domain.SeverityMinor
	}
	if priority == "" {
		priority = domain.PriorityMedium
	}
	s, err := domain.ParseSeverity(string(severity))
	if err != nil {
		return "", "", err
	}
	p, err := domain.ParsePriority(string(priority))
	if err != nil {
		return "", "", err
	}
	return s, p, nil
}
