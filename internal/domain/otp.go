package domain

import (
	"strings"
	"time"

	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// OtpType selects the purpose (and expiry) of a one-time code.
type OtpType string

const (
	OtpVerification  OtpType = "VERIFICATION"
	OtpResetPassword OtpType = "RESET_PASSWORD"
)

// ParseOtpType converts a request value into an OtpType.
func ParseOtpType(s string) (OtpType, error) {
	switch t := OtpType(strings.ToUpper(strings.TrimSpace(s))); t {
	case OtpVerification, OtpResetPassword:
		return t, nil
	default:
		return "", domerrors.InvalidInputf("unknown otp type %q", s)
	}
}

// Otp is a single-use numeric code sent by email. Rows are kept after use.
type Otp struct {
	ID        OtpID
	Code      string
	Email     string
	Type      OtpType
	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether now is at or past the expiry time.
func (o *Otp) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

// Consume marks the code used. A used code fails before an expired one is considered.
func (o *Otp) Consume(now time.Time) error {
	if o.Used {
		return domerrors.ErrOtpUsed
	}
	if o.Expired(now) {
		return domerrors.ErrOtpExpired
	}
	o.Used = true
	return nil
}
