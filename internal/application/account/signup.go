// Package account holds self-service account use cases: sign-up, verification,
// login and password management.
package account

import (
	"context"
	"strings"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/otp"
	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// SignUpInput is a self-registration. Role must parse to a known role.
type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// SignUpResult is the disabled user awaiting verification.
type SignUpResult struct {
	User *domain.User
}

// SignUp registers a user outside any organization. The account stays
// disabled until the emailed code is verified.
type SignUp struct {
	tx       ports.Transactor
	users    ports.UserRepository
	identity ports.IdentityProvider
	hasher   ports.PasswordHasher
	otps     *otp.Service
}

// NewSignUp builds the use case.
func NewSignUp(tx ports.Transactor, users ports.UserRepository, identity ports.IdentityProvider, hasher ports.PasswordHasher, otps *otp.Service) *SignUp {
	return &SignUp{tx: tx, users: users, identity: identity, hasher: hasher, otps: otps}
}

func (uc *SignUp) Execute(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	if err := validation.NotBlankAll(
		validation.F("first name", input.FirstName),
		validation.F("last name", input.LastName),
		validation.F("email", input.Email),
		validation.F("password", input.Password),
		validation.F("role", input.Role),
	); err != nil {
		return nil, err
	}
	if err := validation.Email(input.Email); err != nil {
		return nil, err
	}
	if err := validation.Password(input.Password); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	email := validation.NormalizeEmail(input.Email)

	var result *SignUpResult
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := uc.users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return domerrors.ErrUserExists
		}
		hash, err := uc.hasher.Hash(input.Password)
		if err != nil {
			return err
		}
		now := time.Now()
		user := &domain.User{
			Email:     email,
			FirstName: strings.TrimSpace(input.FirstName),
			LastName:  strings.TrimSpace(input.LastName),
			Role:      role,
			Enabled:   false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.identity.CreateAccount(ctx, ports.Account{
			Email:        email,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Role:         role,
			PasswordHash: hash,
		}); err != nil {
			return err
		}
		if err := uc.users.Save(ctx, user); err != nil {
			return err
		}
		if _, err := uc.otps.Create(ctx, user.FirstName, email, domain.OtpVerification); err != nil {
			return err
		}
		result = &SignUpResult{User: user}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
