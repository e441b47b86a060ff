package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

// TokenIssuer implements ports.TokenIssuer with RS256.
type TokenIssuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	audience   string
	now        func() time.Time
}

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func NewTokenIssuer(privateKey *rsa.PrivateKey, issuer, audience string) *TokenIssuer {
	return &TokenIssuer{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

// IssueAccessToken signs a token for email with a fresh jti so it can be revoked on its own.
func (t *TokenIssuer) IssueAccessToken(email string, expiresInSeconds int64) (string, error) {
	now := t.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresInSeconds) * time.Second)),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(t.privateKey)
}

func (t *TokenIssuer) ValidateAccessToken(tokenString string) (*ports.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.publicKey, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid || claims.Email == "" || claims.ID == "" {
		return nil, errors.New("invalid token claims")
	}
	return &ports.AccessClaims{
		TokenID:   claims.ID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}, nil
}

var _ ports.TokenIssuer = (*TokenIssuer)(nil)
