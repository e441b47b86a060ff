package account

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/otp"
	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// Passwords covers forgotten, reset and changed passwords.
type Passwords struct {
	tx       ports.Transactor
	users    ports.UserRepository
	identity ports.IdentityProvider
	hasher   ports.PasswordHasher
	otps     *otp.Service
}

// NewPasswords builds the use case.
func NewPasswords(tx ports.Transactor, users ports.UserRepository, identity ports.IdentityProvider, hasher ports.PasswordHasher, otps *otp.Service) *Passwords {
	return &Passwords{tx: tx, users: users, identity: identity, hasher: hasher, otps: otps}
}

// Forgot mails a reset code. Unknown emails succeed silently so callers cannot
// discover accounts.
func (uc *Passwords) Forgot(ctx context.Context, email string) error {
	if err := validation.Email(email); err != nil {
		return err
	}
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.users.GetByEmail(ctx, validation.NormalizeEmail(email))
		if err != nil || user == nil {
			return err
		}
		_, err = uc.otps.Create(ctx, user.FirstName, user.Email, domain.OtpResetPassword)
		return err
	})
}

// Reset consumes a reset code and sets the new password.
func (uc *Passwords) Reset(ctx context.Context, email, code, newPassword string) error {
	if err := validation.Email(email); err != nil {
		return err
	}
	if err := validation.OTPCode(code); err != nil {
		return err
	}
	if err := validation.Password(newPassword); err != nil {
		return err
	}
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		o, err := uc.otps.Validate(ctx, email, code)
		if err != nil {
			return err
		}
		if o.Type != domain.OtpResetPassword {
			return domerrors.ErrOtpNotFound
		}
		hash, err := uc.hasher.Hash(newPassword)
		if err != nil {
			return err
		}
		return uc.identity.ResetPassword(ctx, o.Email, hash)
	})
}

// Change replaces the actor's password after checking the current one.
func (uc *Passwords) Change(ctx context.Context, actor *domain.User, oldPassword, newPassword string) error {
	if err := authz.RequireUserExists(actor); err != nil {
		return err
	}
	if err := validation.NotBlank("old password", oldPassword); err != nil {
		return err
	}
	if err := validation.Password(newPassword); err != nil {
		return err
	}
	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return uc.identity.ChangePassword(ctx, actor.Email, oldPassword, hash)
}
