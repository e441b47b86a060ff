package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// TokenVerifier checks signature, expiry and revocation of an access token.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (*ports.AccessClaims, error)
}

// Authenticator resolves the bearer token to a stored user on every request.
// Role and organization always come from storage, never from the token.
type Authenticator struct {
	verifier TokenVerifier
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewAuthenticator(verifier TokenVerifier, users ports.UserRepository, log zerolog.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, users: users, log: log}
}

func (m *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeErr(w, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization")
			return
		}
		claims, err := m.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, domerrors.ErrInvalidToken) {
				writeErr(w, http.StatusUnauthorized, "invalid_token", err.Error())
				return
			}
			m.log.Error().Err(err).Msg("token verification failed")
			writeErr(w, http.StatusBadGateway, "identity_provider_error", "identity provider unavailable")
			return
		}
		user, err := m.users.GetByEmail(r.Context(), claims.Email)
		if err != nil {
			m.log.Error().Err(err).Msg("resolve principal failed")
			writeErr(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		if user == nil || !user.Enabled {
			writeErr(w, http.StatusUnauthorized, "invalid_token", domerrors.ErrInvalidToken.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), user, token)))
	})
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
