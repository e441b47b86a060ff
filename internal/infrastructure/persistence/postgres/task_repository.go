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
	taskColumns = `id, title, description, status, assigned_to, project_id, due_date, created_at, updated_at`
	saveTaskSQL = `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description, status = EXCLUDED.status,
	assigned_to = EXCLUDED.assigned_to, due_date = EXCLUDED.due_date, updated_at = EXCLUDED.updated_at`
	getTaskByIDSQL          = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	getTaskByTitleSQL       = `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 AND title = $2`
	existsTaskByTitleSQL    = `SELECT EXISTS (SELECT 1 FROM tasks WHERE title = $1 AND project_id = $2)`
	countTasksByProjectSQL  = `SELECT COUNT(*) FROM tasks WHERE project_id = $1`
	listTasksByProjectSQL   = `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	countTasksByAssigneeSQL = `SELECT COUNT(*) FROM tasks WHERE assigned_to = $1`
	listTasksByAssigneeSQL  = `SELECT ` + taskColumns + ` FROM tasks WHERE assigned_to = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	deleteTaskSQL           = `DELETE FROM tasks WHERE id = $1`
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Save(ctx context.Context, t *domain.Task) error {
	if t.ID.IsZero() {
		t.ID = domain.NewTaskID(uuid.New())
	}
	var assignee pgtype.UUID
	if t.AssignedTo != nil {
		assignee = nullUUID(t.AssignedTo.UUID)
	}
	_, err := conn(ctx, r.pool).Exec(ctx, saveTaskSQL,
		t.ID.UUID, t.Title, t.Description, string(t.Status), assignee, t.ProjectID.UUID, t.DueDate, t.CreatedAt, t.UpdatedAt)
	return translate(err, domerrors.ErrTaskExists)
}

func (r *TaskRepository) GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	return r.one(ctx, getTaskByIDSQL, id.UUID)
}

func (r *TaskRepository) GetByTitle(ctx context.Context, projectID domain.ProjectID, title string) (*domain.Task, error) {
	return r.one(ctx, getTaskByTitleSQL, projectID.UUID, title)
}

func (r *TaskRepository) ExistsByTitleAndProject(ctx context.Context, title string, projectID domain.ProjectID) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsTaskByTitleSQL, title, projectID.UUID).Scan(&ok)
	return ok, err
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID domain.ProjectID, req domain.PageRequest) (domain.Page[*domain.Task], error) {
	return page(ctx, conn(ctx, r.pool), countTasksByProjectSQL, listTasksByProjectSQL, projectID.UUID, req, scanTask)
}

func (r *TaskRepository) ListByAssignee(ctx context.Context, userID domain.UserID, req domain.PageRequest) (domain.Page[*domain.Task], error) {
	return page(ctx, conn(ctx, r.pool), countTasksByAssigneeSQL, listTasksByAssigneeSQL, userID.UUID, req, scanTask)
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id domain.TaskID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, deleteTaskSQL, id.UUID)
	return err
}

func (r *TaskRepository) one(ctx context.Context, sql string, args ...any) (*domain.Task, error) {
	t, err := scanTask(conn(ctx, r.pool).QueryRow(ctx, forUpdate(ctx, sql), args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t             domain.Task
		id, projectID uuid.UUID
		status        string
		assignee      pgtype.UUID
	)
	if err := row.Scan(&id, &t.Title, &t.Description, &status, &assignee, &projectID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ID = domain.NewTaskID(id)
	t.ProjectID = domain.NewProjectID(projectID)
	t.Status = domain.TaskStatus(status)
	if a, ok := fromNullUUID(assignee); ok {
		uid := domain.NewUserID(a)
		t.AssignedTo = &uid
	}
	return &t, nil
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
