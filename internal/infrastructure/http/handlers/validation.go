package handlers

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

// Validation limits.
const (
	MaxEmailLength    = 254
	MaxPasswordLength = 128
)

// newValidator registers the json names so validation messages match the request fields.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SanitizeEmail trims and lowercases email; returns empty if invalid length.
func SanitizeEmail(email string) string {
	s := strings.TrimSpace(strings.ToLower(email))
	if len(s) > MaxEmailLength {
		return ""
	}
	return s
}

// pageRequest reads ?page=&size= and leaves clamping to domain.PageRequest.
func pageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	return domain.PageRequest{Page: page, Size: size}
}

func chiParam(r *http.Request, name string) string { return chi.URLParam(r, name) }

// pathUUID parses the chi URL parameter name, writing 400 when it is not a UUID.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chiParam(r, name))
	if err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
