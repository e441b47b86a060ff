package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	if ErrUserExists == nil {
		t.Error("ErrUserExists should not be nil")
	}
	if ErrInvalidCredentials == nil {
		t.Error("ErrInvalidCredentials should not be nil")
	}
	if ErrBugNotFound.Kind != KindNotFound {
		t.Errorf("ErrBugNotFound kind = %s", ErrBugNotFound.Kind)
	}
}

func TestIsMatchesKind(t *testing.T) {
	wrapped := fmt.Errorf("report bug: %w", ErrProjectNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("expected wrapped project not found to match ErrNotFound")
	}
	if !errors.Is(wrapped, ErrProjectNotFound) {
		t.Fatal("expected wrapped error to match its own sentinel")
	}
	if errors.Is(wrapped, ErrAccessDenied) {
		t.Fatal("not found must not match access denied")
	}
	if errors.Is(ErrProjectNotFound, ErrTaskNotFound) {
		t.Fatal("distinct messages must not match each other")
	}
}

func TestStatusOf(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:         http.StatusNotFound,
		KindAccessDenied:     http.StatusForbidden,
		KindConflict:         http.StatusConflict,
		KindInvalidInput:     http.StatusBadRequest,
		KindOtpUsed:          http.StatusBadRequest,
		KindOtpExpired:       http.StatusBadRequest,
		KindUnauthorized:     http.StatusUnauthorized,
		KindIdentityProvider: http.StatusBadGateway,
		Kind("other"):        http.StatusInternalServerError,
	}
	for k, want := range cases {
		if got := StatusOf(k); got != want {
			t.Errorf("StatusOf(%s) = %d, want %d", k, got, want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("x: %w", ErrOtpUsed)); got != KindOtpUsed {
		t.Fatalf("KindOf = %q", got)
	}
	if got := KindOf(errors.New("boom")); got != "" {
		t.Fatalf("KindOf(plain) = %q", got)
	}
}

func TestIdentityProviderUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := IdentityProvider("create account", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if !errors.Is(err, ErrIdentityProvider) {
		t.Fatal("expected identity provider kind")
	}
}
