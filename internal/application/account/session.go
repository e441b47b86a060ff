package account

import (
	"context"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/authz"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	"github.com/petim7277/Qonnect-sub000/internal/validation"
)

// Sessions ends sessions and reports the current principal.
type Sessions struct {
	identity ports.IdentityProvider
}

// NewSessions builds the use case.
func NewSessions(identity ports.IdentityProvider) *Sessions {
	return &Sessions{identity: identity}
}

// Logout revokes the access token until it would have expired.
func (uc *Sessions) Logout(ctx context.Context, accessToken string) error {
	if err := validation.NotBlank("token", accessToken); err != nil {
		return err
	}
	return uc.identity.RevokeSession(ctx, accessToken)
}

// Me returns the principal resolved for this request.
func (uc *Sessions) Me(_ context.Context, actor *domain.User) (*domain.User, error) {
	if err := authz.RequireUserExists(actor); err != nil {
		return nil, err
	}
	return actor, nil
}
