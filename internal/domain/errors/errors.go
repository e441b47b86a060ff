// Package errors holds the typed error taxonomy shared by every service.
// Handlers map Kind to an HTTP status; services never translate or swallow these.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindAccessDenied     Kind = "ACCESS_DENIED"
	KindConflict         Kind = "CONFLICT"
	KindInvalidInput     Kind = "INVALID_INPUT"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindOtpUsed          Kind = "OTP_ALREADY_USED"
	KindOtpExpired       Kind = "OTP_EXPIRED"
	KindIdentityProvider Kind = "IDENTITY_PROVIDER_ERROR"
)

// Error is a domain failure with a kind and a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind when the target carries no message,
// so errors.Is(err, ErrNotFound) holds for every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Status is the HTTP status hint for the kind.
func (e *Error) Status() int {
	return StatusOf(e.Kind)
}

// StatusOf maps a kind to an HTTP status.
func StatusOf(k Kind) int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindAccessDenied:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput, KindOtpUsed, KindOtpExpired:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindIdentityProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the kind of the first *Error in the chain, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Kind sentinels for errors.Is.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrAccessDenied     = &Error{Kind: KindAccessDenied}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrIdentityProvider = &Error{Kind: KindIdentityProvider}
)

// Sentinel errors for the common cases.
var (
	ErrUserNotFound         = NotFound("user not found")
	ErrOrganizationNotFound = NotFound("organization not found")
	ErrProjectNotFound      = NotFound("project not found")
	ErrTaskNotFound         = NotFound("task not found")
	ErrBugNotFound          = NotFound("bug not found")
	ErrOtpNotFound          = NotFound("invalid otp")
	ErrInviteNotFound       = NotFound("invitation not found")
	ErrNoOrganization       = NotFound("user does not belong to an organization")

	ErrNotOrganizationMember = AccessDenied("user does not belong to this organization")
	ErrRoleNotPermitted      = AccessDenied("user role is not permitted to perform this action")

	ErrUserExists            = Conflict("user with this email already exists")
	ErrOrganizationExists    = Conflict("organization with this name already exists")
	ErrProjectExists         = Conflict("project with this name already exists in the organization")
	ErrTaskExists            = Conflict("task with this title already exists in the project")
	ErrBugExists             = Conflict("bug with this title already exists in the project")
	ErrAlreadyAssigned       = Conflict("already assigned to this user")
	ErrAccountAlreadyEnabled = Conflict("account is already verified")

	ErrOtpUsed    = &Error{Kind: KindOtpUsed, Message: "otp already used"}
	ErrOtpExpired = &Error{Kind: KindOtpExpired, Message: "otp already expired"}

	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "invalid email or password"}
	ErrAccountDisabled    = &Error{Kind: KindUnauthorized, Message: "account is not verified"}
	ErrAccountLocked      = &Error{Kind: KindUnauthorized, Message: "too many failed attempts, try again later"}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "invalid or revoked token"}
)

// NotFound builds a NOT_FOUND error.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// AccessDenied builds an ACCESS_DENIED error.
func AccessDenied(msg string) *Error { return &Error{Kind: KindAccessDenied, Message: msg} }

// Conflict builds a CONFLICT error.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// InvalidInput builds an INVALID_INPUT error.
func InvalidInput(msg string) *Error { return &Error{Kind: KindInvalidInput, Message: msg} }

// InvalidInputf builds an INVALID_INPUT error with a formatted message.
func InvalidInputf(format string, args ...any) *Error {
	return InvalidInput(fmt.Sprintf(format, args...))
}

// IdentityProvider wraps a failure of the identity collaborator.
func IdentityProvider(op string, err error) *Error {
	return &Error{Kind: KindIdentityProvider, Message: "identity provider: " + op, Err: err}
}
