// Package identity is the built-in identity provider: credentials live in the
// accounts table and sessions are RS256 access tokens.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// AccountStore persists credential records. Lookups return (nil, nil) on a miss;
// SetPassword and Enable report whether a row matched.
type AccountStore interface {
	Create(ctx context.Context, account ports.Account) error
	Get(ctx context.Context, email string) (*ports.Account, error)
	Exists(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, email string) error
	SetPassword(ctx context.Context, email, hash string) (bool, error)
	Enable(ctx context.Context, email string) (bool, error)
}

// LocalProvider implements ports.IdentityProvider.
type LocalProvider struct {
	accounts  AccountStore
	hasher    ports.PasswordHasher
	issuer    ports.TokenIssuer
	revoker   ports.SessionRevoker
	expiresIn int64
	now       func() time.Time
	log       zerolog.Logger
}

func NewLocalProvider(accounts AccountStore, hasher ports.PasswordHasher, issuer ports.TokenIssuer, revoker ports.SessionRevoker, accessExpirySeconds int64, log zerolog.Logger) *LocalProvider {
	return &LocalProvider{
		accounts:  accounts,
		hasher:    hasher,
		issuer:    issuer,
		revoker:   revoker,
		expiresIn: accessExpirySeconds,
		now:       time.Now,
		log:       log,
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) CreateAccount(ctx context.Context, account ports.Account) error {
	account.Email = normalize(account.Email)
	if err := p.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domerrors.ErrUserExists) {
			return domerrors.ErrUserExists
		}
		return domerrors.IdentityProvider("create account", err)
	}
	return nil
}

func (p *LocalProvider) AccountExists(ctx context.Context, email string) (bool, error) {
	ok, err := p.accounts.Exists(ctx, normalize(email))
	if err != nil {
		return false, domerrors.IdentityProvider("account exists", err)
	}
	return ok, nil
}

func (p *LocalProvider) FindByEmail(ctx context.Context, email string) (*ports.Account, error) {
	a, err := p.accounts.Get(ctx, normalize(email))
	if err != nil {
		return nil, domerrors.IdentityProvider("find account", err)
	}
	return a, nil
}

// Authenticate checks the password before the enabled flag so a wrong password
// never reveals whether the account is verified.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*ports.Session, error) {
	a, err := p.accounts.Get(ctx, normalize(email))
	if err != nil {
		return nil, domerrors.IdentityProvider("authenticate", err)
	}
	if a == nil || !p.hasher.Verify(password, a.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	if !a.Enabled {
		return nil, domerrors.ErrAccountDisabled
	}
	token, err := p.issuer.IssueAccessToken(a.Email, p.expiresIn)
	if err != nil {
		return nil, domerrors.IdentityProvider("issue token", err)
	}
	return &ports.Session{AccessToken: token, ExpiresIn: p.expiresIn}, nil
}

func (p *LocalProvider) DeleteAccount(ctx context.Context, email string) error {
	if err := p.accounts.Delete(ctx, normalize(email)); err != nil {
		return domerrors.IdentityProvider("delete account", err)
	}
	return nil
}

func (p *LocalProvider) ChangePassword(ctx context.Context, email, oldPassword, newPasswordHash string) error {
	a, err := p.accounts.Get(ctx, normalize(email))
	if err != nil {
		return domerrors.IdentityProvider("change password", err)
	}
	if a == nil || !p.hasher.Verify(oldPassword, a.PasswordHash) {
		return domerrors.ErrInvalidCredentials
	}
	if _, err := p.accounts.SetPassword(ctx, a.Email, newPasswordHash); err != nil {
		return domerrors.IdentityProvider("change password", err)
	}
	return nil
}

func (p *LocalProvider) ResetPassword(ctx context.Context, email, newPasswordHash string) error {
	ok, err := p.accounts.SetPassword(ctx, normalize(email), newPasswordHash)
	if err != nil {
		return domerrors.IdentityProvider("reset password", err)
	}
	if !ok {
		return domerrors.ErrUserNotFound
	}
	return nil
}

func (p *LocalProvider) ActivateAccount(ctx context.Context, email string) error {
	ok, err := p.accounts.Enable(ctx, normalize(email))
	if err != nil {
		return domerrors.IdentityProvider("activate account", err)
	}
	if !ok {
		return domerrors.ErrUserNotFound
	}
	return nil
}

// RevokeSession blocks the token for the rest of its lifetime.
func (p *LocalProvider) RevokeSession(ctx context.Context, accessToken string) error {
	claims, err := p.issuer.ValidateAccessToken(accessToken)
	if err != nil {
		return domerrors.ErrInvalidToken
	}
	ttl := claims.ExpiresAt - p.now().Unix()
	if err := p.revoker.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return domerrors.IdentityProvider("revoke session", err)
	}
	p.log.Debug().Str("email", claims.Email).Msg("session revoked")
	return nil
}

// VerifyToken returns the claims of a valid access token that has not been revoked.
func (p *LocalProvider) VerifyToken(ctx context.Context, accessToken string) (*ports.AccessClaims, error) {
	claims, err := p.issuer.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	revoked, err := p.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, domerrors.IdentityProvider("check revocation", err)
	}
	if revoked {
		return nil, domerrors.ErrInvalidToken
	}
	return claims, nil
}

var _ ports.IdentityProvider = (*LocalProvider)(nil)
