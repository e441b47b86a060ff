package ports

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

// Account is the identity provider's record for a user.
type Account struct {
	Email        string
	FirstName    string
	LastName     string
	Role         domain.Role
	PasswordHash string
	Enabled      bool
}

// Session is issued on successful authentication.
type Session struct {
	AccessToken string
	ExpiresIn   int64
}

// IdentityProvider owns credentials and the enabled/disabled state of accounts.
// Implementations report failures as domain IDENTITY_PROVIDER_ERROR, except
// CreateAccount on a taken email which reports CONFLICT.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, account Account) error
	AccountExists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	DeleteAccount(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, email, oldPassword, newPasswordHash string) error
	ResetPassword(ctx context.Context, email, newPasswordHash string) error
	RevokeSession(ctx context.Context, accessToken string) error
	ActivateAccount(ctx context.Context, email string) error
}

// SessionRevoker records revoked access tokens until they would have expired anyway.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttlSeconds int64) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
