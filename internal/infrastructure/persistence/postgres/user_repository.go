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
	userColumns = `id, email, first_name, last_name, role, organization_id, enabled, COALESCE(invite_token, ''), created_at, updated_at`
	saveUserSQL = `INSERT INTO users (id, email, first_name, last_name, role, organization_id, enabled, invite_token, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
	role = EXCLUDED.role, organization_id = EXCLUDED.organization_id, enabled = EXCLUDED.enabled,
	invite_token = EXCLUDED.invite_token, updated_at = EXCLUDED.updated_at`
	getUserByEmailSQL       = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	getUserByIDSQL          = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByInviteTokenSQL = `SELECT ` + userColumns + ` FROM users WHERE invite_token = $1`
	existsUserByEmailSQL    = `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`
	existsUserByIDSQL       = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	countUsersByOrgSQL      = `SELECT COUNT(*) FROM users WHERE organization_id = $1`
	listUsersByOrgSQL       = `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID.IsZero() {
		user.ID = domain.NewUserID(uuid.New())
	}
	_, err := conn(ctx, r.pool).Exec(ctx, saveUserSQL,
		user.ID.UUID, user.Email, user.FirstName, user.LastName, string(user.Role),
		nullUUID(user.OrganizationID.UUID), user.Enabled, nullText(user.InviteToken),
		user.CreatedAt, user.UpdatedAt)
	return translate(err, domerrors.ErrUserExists)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.one(ctx, getUserByEmailSQL, email)
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.one(ctx, getUserByIDSQL, id.UUID)
}

func (r *UserRepository) GetByInviteToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.one(ctx, forUpdate(ctx, getUserByInviteTokenSQL), token)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsUserByEmailSQL, email).Scan(&ok)
	return ok, err
}

func (r *UserRepository) ExistsByID(ctx context.Context, id domain.UserID) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsUserByIDSQL, id.UUID).Scan(&ok)
	return ok, err
}

func (r *UserRepository) ListByOrganization(ctx context.Context, orgID domain.OrganizationID, req domain.PageRequest) (domain.Page[*domain.User], error) {
	return page(ctx, conn(ctx, r.pool), countUsersByOrgSQL, listUsersByOrgSQL, orgID.UUID, req, scanUser)
}

func (r *UserRepository) one(ctx context.Context, sql string, arg any) (*domain.User, error) {
	u, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u     domain.User
		id    uuid.UUID
		role  string
		orgID pgtype.UUID
	)
	if err := row.Scan(&id, &u.Email, &u.FirstName, &u.LastName, &role, &orgID, &u.Enabled, &u.InviteToken, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = domain.NewUserID(id)
	u.Role = domain.Role(role)
	if org, ok := fromNullUUID(orgID); ok {
		u.OrganizationID = domain.NewOrganizationID(org)
	}
	return &u, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
