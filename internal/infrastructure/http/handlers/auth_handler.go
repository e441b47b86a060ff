package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/account"
	"github.com/petim7277/Qonnect-sub000/internal/application/organization"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/middleware"
)

// AuthUseCases groups the account flows served under /auth.
type AuthUseCases struct {
	RegisterAdmin  *organization.RegisterAdmin
	SignUp         *account.SignUp
	Verification   *account.Verification
	Login          *account.Login
	Passwords      *account.Passwords
	Sessions       *account.Sessions
	CompleteInvite *organization.CompleteInvite
}

type AuthHandler struct {
	uc       AuthUseCases
	audit    *Auditor
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(uc AuthUseCases, audit *Auditor, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, audit: audit, validate: newValidator(), log: log}
}

// principal returns the authenticated user or writes 401.
func principal(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u := middleware.PrincipalFromContext(r.Context())
	if u == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return nil, false
	}
	return u, true
}

func (h *AuthHandler) RegisterOrganization(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrganizationName string `json:"organization_name" validate:"required,max=200"`
		FirstName        string `json:"first_name" validate:"required,max=100"`
		LastName         string `json:"last_name" validate:"required,max=100"`
		Email            string `json:"email" validate:"required,email,max=254"`
		Password         string `json:"password" validate:"required,min=8,max=128"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	res, err := h.uc.RegisterAdmin.Execute(r.Context(), organization.RegisterAdminInput{
		OrganizationName: body.OrganizationName,
		FirstName:        body.FirstName,
		LastName:         body.LastName,
		Email:            SanitizeEmail(body.Email),
		Password:         body.Password,
	})
	middleware.RecordAuthAttempt("register_organization", err == nil)
	if err != nil {
		h.audit.Record(r, "organization.registered", nil, "", err)
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "organization.registered", res.User, res.Organization.ID.String(), nil)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":         toUser(res.User),
		"organization": toOrganization(res.Organization),
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FirstName string `json:"first_name" validate:"required,max=100"`
		LastName  string `json:"last_name" validate:"required,max=100"`
		Email     string `json:"email" validate:"required,email,max=254"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
		Role      string `json:"role" validate:"required"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	res, err := h.uc.SignUp.Execute(r.Context(), account.SignUpInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     SanitizeEmail(body.Email),
		Password:  body.Password,
		Role:      body.Role,
	})
	middleware.RecordAuthAttempt("signup", err == nil)
	if err != nil {
		h.audit.Record(r, "user.signup", nil, "", err)
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "user.signup", res.User, res.User.ID.String(), nil)
	writeJSON(w, http.StatusCreated, toUser(res.User))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	res, err := h.uc.Login.Execute(r.Context(), account.LoginInput{Email: SanitizeEmail(body.Email), Password: body.Password})
	middleware.RecordAuthAttempt("login", err == nil)
	if err != nil {
		h.audit.Record(r, "user.login", nil, "", err)
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "user.login", res.User, res.User.ID.String(), nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   res.ExpiresIn,
		"user":         toUser(res.User),
	})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
		Code  string `json:"code" validate:"required,len=6,numeric"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	user, err := h.uc.Verification.Verify(r.Context(), SanitizeEmail(body.Email), body.Code)
	middleware.RecordAuthAttempt("verify", err == nil)
	if err != nil {
		h.audit.Record(r, "user.verified", nil, "", err)
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "user.verified", user, user.ID.String(), nil)
	writeJSON(w, http.StatusOK, toUser(user))
}

func (h *AuthHandler) ResendOtp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
		Type  string `json:"type" validate:"omitempty,max=32"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	typ := domain.OtpVerification
	if body.Type != "" {
		parsed, err := domain.ParseOtpType(body.Type)
		if err != nil {
			writeDomainErr(w, h.log, err)
			return
		}
		typ = parsed
	}
	if _, err := h.uc.Verification.Resend(r.Context(), SanitizeEmail(body.Email), typ); err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "code sent"})
}

// ForgotPassword answers 202 whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	if err := h.uc.Passwords.Forgot(r.Context(), SanitizeEmail(body.Email)); err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "if the account exists, a reset code has been sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email" validate:"required,email,max=254"`
		Code        string `json:"code" validate:"required,len=6,numeric"`
		NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	err := h.uc.Passwords.Reset(r.Context(), SanitizeEmail(body.Email), body.Code, body.NewPassword)
	middleware.RecordAuthAttempt("reset_password", err == nil)
	h.audit.Record(r, "user.password_reset", nil, "", err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token     string `json:"token" validate:"required,max=128"`
		FirstName string `json:"first_name" validate:"required,max=100"`
		LastName  string `json:"last_name" validate:"required,max=100"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	user, err := h.uc.CompleteInvite.Execute(r.Context(), organization.CompleteInviteInput{
		Token:     body.Token,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Password:  body.Password,
	})
	if err != nil {
		h.audit.Record(r, "member.joined", nil, "", err)
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "member.joined", user, user.ID.String(), nil)
	writeJSON(w, http.StatusOK, toUser(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	err := h.uc.Sessions.Logout(r.Context(), middleware.AccessTokenFromContext(r.Context()))
	h.audit.Record(r, "user.logout", user, user.ID.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	var body struct {
		OldPassword string `json:"old_password" validate:"required,max=128"`
		NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	err := h.uc.Passwords.Change(r.Context(), user, body.OldPassword, body.NewPassword)
	h.audit.Record(r, "user.password_changed", user, user.ID.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
