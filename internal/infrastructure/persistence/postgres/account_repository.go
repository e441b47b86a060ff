package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

const (
	insertAccountSQL = `INSERT INTO accounts (email, first_name, last_name, role, password_hash, enabled, created_at, updated_at)
VALUES (lower($1), $2, $3, $4, $5, $6, $7, $7)`
	getAccountSQL         = `SELECT email, first_name, last_name, role, password_hash, enabled FROM accounts WHERE email = lower($1)`
	existsAccountSQL      = `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = lower($1))`
	deleteAccountSQL      = `DELETE FROM accounts WHERE email = lower($1)`
	setAccountPasswordSQL = `UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE email = lower($1)`
	enableAccountSQL      = `UPDATE accounts SET enabled = TRUE, updated_at = $2 WHERE email = lower($1)`
)

// AccountRepository stores the credential records behind the local identity provider.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, a ports.Account) error {
	_, err := conn(ctx, r.pool).Exec(ctx, insertAccountSQL,
		a.Email, a.FirstName, a.LastName, string(a.Role), a.PasswordHash, a.Enabled, time.Now())
	return translate(err, domerrors.ErrUserExists)
}

func (r *AccountRepository) Get(ctx context.Context, email string) (*ports.Account, error) {
	var (
		a    ports.Account
		role string
	)
	err := conn(ctx, r.pool).QueryRow(ctx, getAccountSQL, email).
		Scan(&a.Email, &a.FirstName, &a.LastName, &role, &a.PasswordHash, &a.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}

func (r *AccountRepository) Exists(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, existsAccountSQL, email).Scan(&ok)
	return ok, err
}

func (r *AccountRepository) Delete(ctx context.Context, email string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, deleteAccountSQL, email)
	return err
}

// SetPassword reports false when no account has that email.
func (r *AccountRepository) SetPassword(ctx context.Context, email, hash string) (bool, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, setAccountPasswordSQL, email, hash, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Enable reports false when no account has that email.
func (r *AccountRepository) Enable(ctx context.Context, email string) (bool, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, enableAccountSQL, email, time.Now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
