package account

import (
	"context"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/otp"
	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// Verification consumes verification codes and re-sends them.
type Verification struct {
	tx       ports.Transactor
	users    ports.UserRepository
	identity ports.IdentityProvider
	otps     *otp.Service
}

// NewVerification builds the use case.
func NewVerification(tx ports.Transactor, users ports.UserRepository, identity ports.IdentityProvider, otps *otp.Service) *Verification {
	return &Verification{tx: tx, users: users, identity: identity, otps: otps}
}

// Verify consumes the code and enables the account in storage and at the identity provider.
func (uc *Verification) Verify(ctx context.Context, email, code string) (*domain.User, error) {
	if err := validation.Email(email); err != nil {
		return nil, err
	}
	if err := validation.OTPCode(code); err != nil {
		return nil, err
	}
	var user *domain.User
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.pending(ctx, email)
		if err != nil {
			return err
		}
		o, err := uc.otps.Validate(ctx, user.Email, code)
		if err != nil {
			return err
		}
		if o.Type != domain.OtpVerification {
			return domerrors.ErrOtpNotFound
		}
		if err := uc.identity.ActivateAccount(ctx, user.Email); err != nil {
			return err
		}
		user.Enabled = true
		user.UpdatedAt = time.Now()
		return uc.users.Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Resend issues a fresh code of type typ. Verification codes are only sent to
// accounts that are still disabled. Reset codes for unknown emails succeed
// silently with a nil Otp, like Passwords.Forgot.
func (uc *Verification) Resend(ctx context.Context, email string, typ domain.OtpType) (*domain.Otp, error) {
	if err := validation.Email(email); err != nil {
		return nil, err
	}
	typ, err := domain.ParseOtpType(string(typ))
	if err != nil {
		return nil, err
	}
	var o *domain.Otp
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var user *domain.User
		var err error
		if typ == domain.OtpVerification {
			user, err = uc.pending(ctx, email)
		} else {
			user, err = uc.users.GetByEmail(ctx, validation.NormalizeEmail(email))
		}
		if err != nil || user == nil {
			return err
		}
		o, err = uc.otps.Resend(ctx, user.FirstName, user.Email, typ)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *Verification) pending(ctx context.Context, email string) (*domain.User, error) {
	user, err := uc.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if user.Enabled {
		return nil, domerrors.ErrAccountAlreadyEnabled
	}
	return user, nil
}
