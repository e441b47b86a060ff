package ports

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

// Lookups return (nil, nil) when no row matches; services turn that into NOT_FOUND.
// Save inserts or updates the whole entity and fills generated ids.

// UserRepository persists users.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByInviteToken(ctx context.Context, token string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id domain.UserID) (bool, error)
	ListByOrganization(ctx context.Context, orgID domain.OrganizationID, page domain.PageRequest) (domain.Page[*domain.User], error)
}

// OrganizationRepository persists organizations and their membership.
type OrganizationRepository interface {
	Save(ctx context.Context, org *domain.Organization) error
	GetByName(ctx context.Context, name string) (*domain.Organization, error)
	GetByID(ctx context.Context, id domain.OrganizationID) (*domain.Organization, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// RemoveUser detaches user from org without deleting the organization.
	RemoveUser(ctx context.Context, user *domain.User, org *domain.Organization) error
}

// ProjectRepository persists projects.
type ProjectRepository interface {
	Save(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error)
	ExistsByID(ctx context.Context, id domain.ProjectID) (bool, error)
	ExistsByNameAndOrganization(ctx context.Context, name string, orgID domain.OrganizationID) (bool, error)
	List(ctx context.Context, orgID domain.OrganizationID, page domain.PageRequest) (domain.Page[*domain.Project], error)
	Delete(ctx context.Context, id domain.ProjectID) error
}

// TaskRepository persists tasks.
type TaskRepository interface {
	Save(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error)
	GetByTitle(ctx context.Context, projectID domain.ProjectID, title string) (*domain.Task, error)
	ExistsByTitleAndProject(ctx context.Context, title string, projectID domain.ProjectID) (bool, error)
	ListByProject(ctx context.Context, projectID domain.ProjectID, page domain.PageRequest) (domain.Page[*domain.Task], error)
	ListByAssignee(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.Page[*domain.Task], error)
	DeleteByID(ctx context.Context, id domain.TaskID) error
}

// BugRepository persists bugs. Paged listings are ordered by created_at descending.
type BugRepository interface {
	Save(ctx context.Context, bug *domain.Bug) error
	GetByID(ctx context.Context, id domain.BugID) (*domain.Bug, error)
	GetByIDAndTaskID(ctx context.Context, id domain.BugID, taskID domain.TaskID) (*domain.Bug, error)
	ExistsByID(ctx context.Context, id domain.BugID) (bool, error)
	ExistsByTitleAndProject(ctx context.Context, title string, projectID domain.ProjectID) (bool, error)
	ListByProject(ctx context.Context, projectID domain.ProjectID, page domain.PageRequest) (domain.Page[*domain.Bug], error)
	ListByTask(ctx context.Context, taskID domain.TaskID, page domain.PageRequest) (domain.Page[*domain.Bug], error)
	ListByAssignee(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.Page[*domain.Bug], error)
	ListByCreator(ctx context.Context, userID domain.UserID, page domain.PageRequest) (domain.Page[*domain.Bug], error)
	Delete(ctx context.Context, id domain.BugID) error
}

// OtpRepository persists one-time codes. Rows are never deleted.
type OtpRepository interface {
	Save(ctx context.Context, otp *domain.Otp) error
	FindByEmailAndCode(ctx context.Context, email, code string) (*domain.Otp, error)
}

// Transactor runs fn inside one unit of work. Repositories called with the
// ctx handed to fn join that unit of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}
