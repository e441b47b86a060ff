package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

const (
	projectColumns = `id, name, description, created_by, organization_id, created_at, updated_at`
	saveProjectSQL = `INSERT INTO projects (` + projectColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`
	getProjectByIDSQL         = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	existsProjectByIDSQL      = `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`
	existsProjectByNameOrgSQL = `SELECT EXISTS (SELECT 1 FROM projects WHERE name = $1 AND organization_id = $2)`
	countProjectsByOrgSQL     = `SELECT COUNT(*) FROM projects WHERE organization_id = $1`
	listProjectsByOrgSQL      = `SELECT ` + projectColumns + ` FROM projects WHERE organization_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	deleteProjectSQL          = `DELETE FROM projects WHERE id = $1`
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	if p.ID.IsZero() {
		p.ID = domain.NewProjectID(uuid.New())
	}
	_, err := conn(ctx, r.pool).Exec(ctx, saveProjectSQL,
		p.ID.UUID, p.Name, p.Description, p.CreatedBy.UUID, p.OrganizationID.UUID, p.CreatedAt, p.UpdatedAt)
	return translate(err, domerrors.ErrProjectExists)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	p, err := scanProject(conn(ctx, r.pool).QueryRow(ctx, getProjectByIDSQL, id.UUID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) ExistsByID(ctx context.Context, id domain.ProjectID) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsProjectByIDSQL, id.UUID).Scan(&ok)
	return ok, err
}

func (r *ProjectRepository) ExistsByNameAndOrganization(ctx context.Context, name string, orgID domain.OrganizationID) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsProjectByNameOrgSQL, name, orgID.UUID).Scan(&ok)
	return ok, err
}

func (r *ProjectRepository) List(ctx context.Context, orgID domain.OrganizationID, req domain.PageRequest) (domain.Page[*domain.Project], error) {
	return page(ctx, conn(ctx, r.pool), countProjectsByOrgSQL, listProjectsByOrgSQL, orgID.UUID, req, scanProject)
}

func (r *ProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	_, err := conn(ctx, r.pool).Exec(ctx, deleteProjectSQL, id.UUID)
	return err
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p                  domain.Project
		id, createdBy, org uuid.UUID
	)
	if err := row.Scan(&id, &p.Name, &p.Description, &createdBy, &org, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = domain.NewProjectID(id)
	p.CreatedBy = domain.NewUserID(createdBy)
	p.OrganizationID = domain.NewOrganizationID(org)
	return &p, nil
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
