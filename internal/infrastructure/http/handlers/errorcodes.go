package handlers

import domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"

// API error codes returned in JSON { "error": "...", "code": "..." } for stable client handling.
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeAccountDisabled    = "account_not_verified"
	ErrCodeAccountLocked      = "account_locked"
	ErrCodeInvalidToken       = "invalid_token"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeOtpUsed            = "otp_already_used"
	ErrCodeOtpExpired         = "otp_expired"
	ErrCodeIdentityProvider   = "identity_provider_error"
	ErrCodeInternal           = "internal_error"
)

// errCode picks the stable code for a domain error. Unauthorized errors are
// split so clients can tell a bad password from an unverified or locked account.
func errCode(err *domerrors.Error) string {
	switch err {
	case domerrors.ErrInvalidCredentials:
		return ErrCodeInvalidCredentials
	case domerrors.ErrAccountDisabled:
		return ErrCodeAccountDisabled
	case domerrors.ErrAccountLocked:
		return ErrCodeAccountLocked
	case domerrors.ErrInvalidToken:
		return ErrCodeInvalidToken
	}
	switch err.Kind {
	case domerrors.KindNotFound:
		return ErrCodeNotFound
	case domerrors.KindAccessDenied:
		return ErrCodeForbidden
	case domerrors.KindConflict:
		return ErrCodeConflict
	case domerrors.KindInvalidInput:
		return ErrCodeInvalidRequest
	case domerrors.KindUnauthorized:
		return ErrCodeUnauthorized
	case domerrors.KindOtpUsed:
		return ErrCodeOtpUsed
	case domerrors.KindOtpExpired:
		return ErrCodeOtpExpired
	case domerrors.KindIdentityProvider:
		return ErrCodeIdentityProvider
	default:
		return ErrCodeInternal
	}
}
