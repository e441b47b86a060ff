package organization

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/otp"
	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// InviteMemberInput names the invitee and the role they will hold.
type InviteMemberInput struct {
	Admin *domain.User
	Email string
	Role  domain.Role
}

// InviteMemberResult carries the pending member and the token mailed to them.
type InviteMemberResult struct {
	User  *domain.User
	Token string
}

// InviteMember adds a pending member to the admin's organization and mails the invite token.
// Inviting a still pending member of the same organization refreshes token and role.
type InviteMember struct {
	tx      ports.Transactor
	users   ports.UserRepository
	orgs    ports.OrganizationRepository
	mailer  ports.EmailSender
	baseURL string
}

// NewInviteMember builds the use case.
func NewInviteMember(tx ports.Transactor, users ports.UserRepository, orgs ports.OrganizationRepository, mailer ports.EmailSender, baseURL string) *InviteMember {
	return &InviteMember{tx: tx, users: users, orgs: orgs, mailer: mailer, baseURL: baseURL}
}

func (uc *InviteMember) Execute(ctx context.Context, input InviteMemberInput) (*InviteMemberResult, error) {
	admin := input.Admin
	if err := authz.RequireUserExists(admin); err != nil {
		return nil, err
	}
	if !admin.HasOrganization() {
		return nil, domerrors.ErrNoOrganization
	}
	if err := authz.RequireRole(admin, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validation.Email(input.Email); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(string(input.Role))
	if err != nil {
		return nil, err
	}
	email := validation.NormalizeEmail(input.Email)

	var result *InviteMemberResult
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		org, err := uc.orgs.GetByID(ctx, admin.OrganizationID)
		if err != nil {
			return err
		}
		if org == nil {
			return domerrors.ErrOrganizationNotFound
		}
		token, err := newInviteToken()
		if err != nil {
			return err
		}
		now := time.Now()
		user, err := uc.users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		switch {
		case user == nil:
			user = &domain.User{Email: email, OrganizationID: org.ID, CreatedAt: now}
		case user.InvitationPending() && user.OrganizationID == org.ID:
		default:
			return domerrors.ErrUserExists
		}
		user.Role = role
		user.Enabled = false
		user.InviteToken = token
		user.UpdatedAt = now
		if err := uc.users.Save(ctx, user); err != nil {
			return err
		}
		subject := fmt.Sprintf("You are invited to join %s on Qonnect", org.Name)
		body := fmt.Sprintf("%s invited you to %s as %s.\n\nAccept the invitation: %s?token=%s\n",
			admin.FullName(), org.Name, role, uc.baseURL, token)
		if err := uc.mailer.Send(ctx, email, subject, body); err != nil {
			return err
		}
		result = &InviteMemberResult{User: user, Token: token}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func newInviteToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CompleteInviteInput is the mailed token plus the invitee's profile and password.
type CompleteInviteInput struct {
	Token     string
	FirstName string
	LastName  string
	Password  string
}

// CompleteInvite turns a pending invitation into a disabled account and sends
// the verification code.
type CompleteInvite struct {
	tx       ports.Transactor
	users    ports.UserRepository
	identity ports.IdentityProvider
	hasher   ports.PasswordHasher
	otps     *otp.Service
}

// NewCompleteInvite builds the use case.
func NewCompleteInvite(tx ports.Transactor, users ports.UserRepository, identity ports.IdentityProvider, hasher ports.PasswordHasher, otps *otp.Service) *CompleteInvite {
	return &CompleteInvite{tx: tx, users: users, identity: identity, hasher: hasher, otps: otps}
}

func (uc *CompleteInvite) Execute(ctx context.Context, input CompleteInviteInput) (*domain.User, error) {
	if err := validation.NotBlankAll(
		validation.F("token", input.Token),
		validation.F("first name", input.FirstName),
		validation.F("last name", input.LastName),
	); err != nil {
		return nil, err
	}
	if err := validation.Password(input.Password); err != nil {
		return nil, err
	}
	var user *domain.User
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = uc.users.GetByInviteToken(ctx, input.Token)
		if err != nil {
			return err
		}
		if user == nil {
			return domerrors.ErrInviteNotFound
		}
		hash, err := uc.hasher.Hash(input.Password)
		if err != nil {
			return err
		}
		user.FirstName = strings.TrimSpace(input.FirstName)
		user.LastName = strings.TrimSpace(input.LastName)
		user.InviteToken = ""
		user.Enabled = false
		user.UpdatedAt = time.Now()
		if err := uc.identity.CreateAccount(ctx, ports.Account{
			Email:        user.Email,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			Role:         user.Role,
			PasswordHash: hash,
		}); err != nil {
			return err
		}
		if err := uc.users.Save(ctx, user); err != nil {
			return err
		}
		_, err = uc.otps.Create(ctx, user.FirstName, user.Email, domain.OtpVerification)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
