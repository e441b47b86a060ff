package ports

// PasswordHasher hashes and verifies passwords (Argon2id).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// AccessClaims are the validated contents of an access token.
type AccessClaims struct {
	TokenID   string
	Email     string
	ExpiresAt int64
}

// TokenIssuer signs and validates access tokens (RS256).
type TokenIssuer interface {
	IssueAccessToken(email string, expiresInSeconds int64) (string, error)
	ValidateAccessToken(tokenString string) (*AccessClaims, error)
}
