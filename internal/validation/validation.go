// Package validation holds the input checks shared by every service.
// Every failure is an INVALID_INPUT domain error.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var validate = validator.New()

// Field is a named string input.
type Field struct {
	Name  string
	Value string
}

// F builds a Field.
func F(name, value string) Field { return Field{Name: name, Value: value} }

// NotBlank fails when value is empty after trimming.
func NotBlank(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return domerrors.InvalidInputf("%s must not be blank", name)
	}
	return nil
}

// NotBlankAll checks fields in order and returns the first failure.
func NotBlankAll(fields ...Field) error {
	for _, f := range fields {
		if err := NotBlank(f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// Email fails for blank or malformed addresses.
func Email(email string) error {
	if err := NotBlank("email", email); err != nil {
		return err
	}
	if len(email) > MaxEmailLength || validate.Var(email, "email") != nil {
		return domerrors.InvalidInputf("email %q is not a valid address", email)
	}
	return nil
}

// Password enforces the length bounds.
func Password(password string) error {
	if err := NotBlank("password", password); err != nil {
		return err
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return domerrors.InvalidInputf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}
	return nil
}

// OTPCode fails unless code is exactly six digits.
func OTPCode(code string) error {
	if validate.Var(code, "len=6,number") != nil {
		return domerrors.InvalidInput("otp must be 6 digits")
	}
	return nil
}

// Present fails when an identifier is missing.
func Present(name string, missing bool) error {
	if missing {
		return domerrors.InvalidInputf("%s is required", name)
	}
	return nil
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
