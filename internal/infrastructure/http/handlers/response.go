package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeDomainErr maps a service error to its status and code. Anything that is
// not a domain error is logged and reported as 500 without details.
func writeDomainErr(w http.ResponseWriter, log zerolog.Logger, err error) {
	var de *domerrors.Error
	if !errors.As(err, &de) {
		log.Error().Err(err).Msg("request failed")
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	if de.Kind == domerrors.KindIdentityProvider {
		log.Error().Err(err).Msg("identity provider failure")
	}
	message := de.Message
	if message == "" {
		message = string(de.Kind)
	}
	status := de.Status()
	if de == domerrors.ErrAccountLocked {
		status = http.StatusTooManyRequests
	}
	writeErr(w, status, errCode(de), message)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into dst and runs struct validation. It writes the
// 400 response itself and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid body")
		return false
	}
	if err := v.Struct(dst); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
	return err.Error()
}
