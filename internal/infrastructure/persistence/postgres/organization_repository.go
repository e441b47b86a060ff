package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

const (
	saveOrganizationSQL = `INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`
	getOrganizationByNameSQL    = `SELECT id, name, created_at FROM organizations WHERE name = $1`
	getOrganizationByIDSQL      = `SELECT id, name, created_at FROM organizations WHERE id = $1`
	existsOrganizationByNameSQL = `SELECT EXISTS (SELECT 1 FROM organizations WHERE name = $1)`
	removeUserFromOrgSQL        = `UPDATE users SET organization_id = NULL, updated_at = NOW() WHERE id = $1 AND organization_id = $2`
)

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) Save(ctx context.Context, org *domain.Organization) error {
	if org.ID.IsZero() {
		org.ID = domain.NewOrganizationID(uuid.New())
	}
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, saveOrganizationSQL, org.ID.UUID, org.Name, org.CreatedAt)
	return translate(err, domerrors.ErrOrganizationExists)
}

func (r *OrganizationRepository) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	return r.one(ctx, getOrganizationByNameSQL, name)
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id domain.OrganizationID) (*domain.Organization, error) {
	if id.IsZero() {
		return nil, nil
	}
	return r.one(ctx, getOrganizationByIDSQL, id.UUID)
}

func (r *OrganizationRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsOrganizationByNameSQL, name).Scan(&ok)
	return ok, err
}

func (r *OrganizationRepository) RemoveUser(ctx context.Context, user *domain.User, org *domain.Organization) error {
	_, err := conn(ctx, r.pool).Exec(ctx, removeUserFromOrgSQL, user.ID.UUID, org.ID.UUID)
	return err
}

func (r *OrganizationRepository) one(ctx context.Context, sql string, arg any) (*domain.Organization, error) {
	var (
		o  domain.Organization
		id uuid.UUID
	)
	err := conn(ctx, r.pool).QueryRow(ctx, sql, arg).Scan(&id, &o.Name, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.ID = domain.NewOrganizationID(id)
	return &o, nil
}

var _ ports.OrganizationRepository = (*OrganizationRepository)(nil)
