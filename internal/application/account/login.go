package account

import (
	"context"
	"errors"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// LoginInput holds the credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the issued session and the stored user.
type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
	User        *domain.User
}

// Login authenticates against the identity provider. Repeated failures lock
// the email out for a cooldown.
type Login struct {
	identity ports.IdentityProvider
	users    ports.UserRepository
	lockout  ports.LoginLockoutStore
}

// NewLogin builds the use case.
func NewLogin(identity ports.IdentityProvider, users ports.UserRepository, lockout ports.LoginLockoutStore) *Login {
	return &Login{identity: identity, users: users, lockout: lockout}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := validation.NotBlankAll(validation.F("email", input.Email), validation.F("password", input.Password)); err != nil {
		return nil, err
	}
	email := validation.NormalizeEmail(input.Email)
	if uc.lockout != nil {
		if locked, _ := uc.lockout.IsLocked(ctx, email); locked {
			return nil, domerrors.ErrAccountLocked
		}
	}
	session, err := uc.identity.Authenticate(ctx, email, input.Password)
	if err != nil {
		if uc.lockout != nil && errors.Is(err, domerrors.ErrInvalidCredentials) {
			uc.lockout.RecordFailure(ctx, email)
		}
		return nil, err
	}
	if uc.lockout != nil {
		uc.lockout.RecordSuccess(ctx, email)
	}
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrInvalidCredentials
	}
	if !user.Enabled {
		return nil, domerrors.ErrAccountDisabled
	}
	return &LoginResult{AccessToken: session.AccessToken, ExpiresIn: session.ExpiresIn, User: user}, nil
}
