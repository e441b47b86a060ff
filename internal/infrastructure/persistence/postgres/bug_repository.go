package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

const (
	bugColumns = `id, title, description, status, severity, priority, project_id, task_id, created_by, assigned_to, created_at, updated_at`
	saveBugSQL = `INSERT INTO bugs (` + bugColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description, status = EXCLUDED.status,
	severity = EXCLUDED.severity, priority = EXCLUDED.priority, task_id = EXCLUDED.task_id,
	assigned_to = EXCLUDED.assigned_to, updated_at = EXCLUDED.updated_at`
	getBugByIDSQL          = `SELECT ` + bugColumns + ` FROM bugs WHERE id = $1`
	getBugByIDAndTaskSQL   = `SELECT ` + bugColumns + ` FROM bugs WHERE id = $1 AND task_id = $2`
	existsBugByIDSQL       = `SELECT EXISTS (SELECT 1 FROM bugs WHERE id = $1)`
	existsBugByTitleSQL    = `SELECT EXISTS (SELECT 1 FROM bugs WHERE title = $1 AND project_id = $2)`
	deleteBugSQL           = `DELETE FROM bugs WHERE id = $1`
	bugOrder               = ` ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	countBugsByProjectSQL  = `SELECT COUNT(*) FROM bugs WHERE project_id = $1`
	listBugsByProjectSQL   = `SELECT ` + bugColumns + ` FROM bugs WHERE project_id = $1` + bugOrder
	countBugsByTaskSQL     = `SELECT COUNT(*) FROM bugs WHERE task_id = $1`
	listBugsByTaskSQL      = `SELECT ` + bugColumns + ` FROM bugs WHERE task_id = $1` + bugOrder
	countBugsByAssigneeSQL = `SELECT COUNT(*) FROM bugs WHERE assigned_to = $1`
	listBugsByAssigneeSQL  = `SELECT ` + bugColumns + ` FROM bugs WHERE assigned_to = $1` + bugOrder
	countBugsByCreatorSQL  = `SELECT COUNT(*) FROM bugs WHERE created_by = $1`
	listBugsByCreatorSQL   = `SELECT ` + bugColumns + ` FROM bugs WHERE created_by = $1` + bugOrder
)

type BugRepository struct {
	pool *pgxpool.Pool
}

func NewBugRepository(pool *pgxpool.Pool) *BugRepository {
	return &BugRepository{pool: pool}
}

func (r *BugRepository) Save(ctx context.Context, b *domain.Bug) error {
	if b.ID.IsZero() {
		b.ID = domain.NewBugID(uuid.New())
	}
	var taskID, assignee pgtype.UUID
	if b.TaskID != nil {
		taskID = nullUUID(b.TaskID.UUID)
	}
	if b.AssignedTo != nil {
		assignee = nullUUID(b.AssignedTo.UUID)
	}
	_, err := conn(ctx, r.pool).Exec(ctx, saveBugSQL,
		b.ID.UUID, b.Title, b.Description, string(b.Status), string(b.Severity), string(b.Priority),
		b.ProjectID.UUID, taskID, b.CreatedBy.UUID, assignee, b.CreatedAt, b.UpdatedAt)
	return translate(err, domerrors.ErrBugExists)
}

func (r *BugRepository) GetByID(ctx context.Context, id domain.BugID) (*domain.Bug, error) {
	return r.one(ctx, getBugByIDSQL, id.UUID)
}

func (r *BugRepository) GetByIDAndTaskID(ctx context.Context, id domain.BugID, taskID domain.TaskID) (*domain.Bug, error) {
	return r.one(ctx, getBugByIDAndTaskSQL, id.UUID, taskID.UUID)
}

func (r *BugRepository) ExistsByID(ctx context.Context, id domain.BugID) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsBugByIDSQL, id.UUID).Scan(&ok)
	return ok, err
}

func (r *BugRepository) ExistsByTitleAndProject(ctx context.Context, title string, projectID domain.ProjectID) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsBugByTitleSQL, title, projectID.UUID).Scan(&ok)
	return ok, err
}

func (r *BugRepository) ListByProject(ctx context.Context, projectID domain.ProjectID, req domain.PageRequest) (domain.Page[*domain.Bug], error) {
	return page(ctx, conn(ctx, r.pool), countBugsByProjectSQL, listBugsByProjectSQL, projectID.UUID, req, scanBug)
}

func (r *BugRepository) ListByTask(ctx context.Context, taskID domain.TaskID, req domain.PageRequest) (domain.Page[*domain.Bug], error) {
	return page(ctx, conn(ctx, r.pool), countBugsByTaskSQL, listBugsByTaskSQL, taskID.UUID, req, scanBug)
}

func (r *BugRepository) ListByAssignee(ctx context.Context, userID domain.UserID, req domain.PageRequest) (domain.Page[*domain.Bug], error) {
	return page(ctx, conn(ctx, r.pool), countBugsByAssigneeSQL, listBugsByAssigneeSQL, userID.UUID, req, scanBug)
}

func (r *BugRepository) ListByCreator(ctx context.Context, userID domain.UserID, req domain.PageRequest) (domain.Page[*domain.Bug], error) {
	return page(ctx, conn(ctx, r.pool), countBugsByCreatorSQL, listBugsByCreatorSQL, userID.UUID, req, scanBug)
}

func (r *BugRepository) Delete(ctx context.Context, id domain.BugID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, deleteBugSQL, id.UUID)
	return err
}

func (r *BugRepository) one(ctx context.Context, sql string, args ...any) (*domain.Bug, error) {
	b, err := scanBug(conn(ctx, r.pool).QueryRow(ctx, forUpdate(ctx, sql), args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func scanBug(row pgx.Row) (*domain.Bug, error) {
	var (
		b                          domain.Bug
		id, projectID, createdBy   uuid.UUID
		status, severity, priority string
		taskID, assignee           pgtype.UUID
	)
	if err := row.Scan(&id, &b.Title, &b.Description, &status, &severity, &priority,
		&projectID, &taskID, &createdBy, &assignee, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.ID = domain.NewBugID(id)
	b.ProjectID = domain.NewProjectID(projectID)
	b.CreatedBy = domain.NewUserID(createdBy)
	b.Status = domain.BugStatus(status)
	b.Severity = domain.Severity(severity)
	b.Priority = domain.Priority(priority)
	if t, ok := fromNullUUID(taskID); ok {
		tid := domain.NewTaskID(t)
		b.TaskID = &tid
	}
	if a, ok := fromNullUUID(assignee); ok {
		uid := domain.NewUserID(a)
		b.AssignedTo = &uid
	}
	return &b, nil
}

var _ ports.BugRepository = (*BugRepository)(nil)
