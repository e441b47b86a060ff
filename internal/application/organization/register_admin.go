// Package organization holds organization registration and membership use cases.
package organization

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

// RegisterAdminInput is the first admin and the organization they found.
type RegisterAdminInput struct {
	OrganizationName string
	FirstName        string
	LastName         string
	Email            string
	Password         string
}

// RegisterAdminResult is the new organization and its disabled admin.
type RegisterAdminResult struct {
	User         *domain.User
	Organization *domain.Organization
}

// RegisterAdmin creates an organization and its disabled first admin, then
// sends the verification code.
type RegisterAdmin struct {
	tx       ports.Transactor
	users    ports.UserRepository
	orgs     ports.OrganizationRepository
	identity ports.IdentityProvider
	hasher   ports.PasswordHasher
	otps     *otp.Service
}

// NewRegisterAdmin builds the use case.
func NewRegisterAdmin(tx ports.Transactor, users ports.UserRepository, orgs ports.OrganizationRepository, identity ports.IdentityProvider, hasher ports.PasswordHasher, otps *otp.Service) *RegisterAdmin {
	return &RegisterAdmin{tx: tx, users: users, orgs: orgs, identity: identity, hasher: hasher, otps: otps}
}

func (uc *RegisterAdmin) Execute(ctx context.Context, input RegisterAdminInput) (*RegisterAdminResult, error) {
	if err := validation.NotBlankAll(
		validation.F("organization name", input.OrganizationName),
		validation.F("first name", input.FirstName),
		validation.F("last name", input.LastName),
		validation.F("email", input.Email),
		validation.F("password", input.Password),
	); err != nil {
		return nil, err
	}
	if err := validation.Email(input.Email); err != nil {
		return nil, err
	}
	if err := validation.Password(input.Password); err != nil {
		return nil, err
	}
	email := validation.NormalizeEmail(input.Email)
	orgName := strings.TrimSpace(input.OrganizationName)

	var result *RegisterAdminResult
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := uc.users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return domerrors.ErrUserExists
		}
		taken, err = uc.orgs.ExistsByName(ctx, orgName)
		if err != nil {
			return err
		}
		if taken {
			return domerrors.ErrOrganizationExists
		}
		now := time.Now()
		org := &domain.Organization{Name: orgName, CreatedAt: now}
		if err := uc.orgs.Save(ctx, org); err != nil {
			return err
		}
		hash, err := uc.hasher.Hash(input.Password)
		if err != nil {
			return err
		}
		admin := &domain.User{
			Email:          email,
			FirstName:      strings.TrimSpace(input.FirstName),
			LastName:       strings.TrimSpace(input.LastName),
			Role:           domain.RoleAdmin,
			OrganizationID: org.ID,
			Enabled:        false,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := uc.identity.CreateAccount(ctx, ports.Account{
			Email:        email,
			FirstName:    admin.FirstName,
			LastName:     admin.LastName,
			Role:         admin.Role,
			PasswordHash: hash,
		}); err != nil {
			return err
		}
		if err := uc.users.Save(ctx, admin); err != nil {
			return err
		}
		if _, err := uc.otps.Create(ctx, admin.FirstName, email, domain.OtpVerification); err != nil {
			return err
		}
		result = &RegisterAdminResult{User: admin, Organization: org}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
