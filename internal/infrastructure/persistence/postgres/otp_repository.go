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
	saveOtpSQL = `INSERT INTO otps (id, code, email, type, used, created_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET used = EXCLUDED.used, expires_at = EXCLUDED.expires_at WHERE otps.used = FALSE`
	findOtpSQL = `SELECT id, code, email, type, used, created_at, expires_at FROM otps
WHERE email = $1 AND code = $2 ORDER BY created_at DESC LIMIT 1`
)

type OtpRepository struct {
	pool *pgxpool.Pool
}

func NewOtpRepository(pool *pgxpool.Pool) *OtpRepository {
	return &OtpRepository{pool: pool}
}

// Save inserts a new code or updates an unused one. Writing over a code that
// was already consumed fails with ErrOtpUsed.
func (r *OtpRepository) Save(ctx context.Context, o *domain.Otp) error {
	if o.ID.UUID == uuid.Nil {
		o.ID = domain.NewOtpID(uuid.New())
	}
	tag, err := conn(ctx, r.pool).Exec(ctx, saveOtpSQL,
		o.ID.UUID, o.Code, o.Email, string(o.Type), o.Used, o.CreatedAt, o.ExpiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrOtpUsed
	}
	return nil
}

// FindByEmailAndCode returns the most recent code when the same one was issued twice.
func (r *OtpRepository) FindByEmailAndCode(ctx context.Context, email, code string) (*domain.Otp, error) {
	var (
		o   domain.Otp
		id  uuid.UUID
		typ string
	)
	err := conn(ctx, r.pool).QueryRow(ctx, forUpdate(ctx, findOtpSQL), email, code).
		Scan(&id, &o.Code, &o.Email, &typ, &o.Used, &o.CreatedAt, &o.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.ID = domain.NewOtpID(id)
	o.Type = domain.OtpType(typ)
	return &o, nil
}

var _ ports.OtpRepository = (*OtpRepository)(nil)
