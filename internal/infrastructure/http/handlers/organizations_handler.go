package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/organization"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/middleware"
)

// OrganizationsHandler handles /organization/* for the caller's own organization. Requires JWT.
type OrganizationsHandler struct {
	invite   *organization.InviteMember
	members  *organization.Members
	audit    *Auditor
	validate *validator.Validate
	log      zerolog.Logger
}

func NewOrganizationsHandler(invite *organization.InviteMember, members *organization.Members, audit *Auditor, log zerolog.Logger) *OrganizationsHandler {
	return &OrganizationsHandler{invite: invite, members: members, audit: audit, validate: newValidator(), log: log}
}

// Members lists the caller's organization, paginated.
func (h *OrganizationsHandler) Members(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	page, err := h.members.List(r.Context(), user, pageRequest(r))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toUser))
}

// Invite creates or refreshes a pending invitation and emails the token.
func (h *OrganizationsHandler) Invite(w http.ResponseWriter, r *http.Request) {
	admin, ok := principal(w, r)
	if !ok {
		return
	}
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
		Role  string `json:"role" validate:"required"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	role, err := domain.ParseRole(body.Role)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	res, err := h.invite.Execute(r.Context(), organization.InviteMemberInput{
		Admin: admin,
		Email: SanitizeEmail(body.Email),
		Role:  role,
	})
	if err != nil {
		h.audit.Record(r, "member.invited", admin, "", err)
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "member.invited", admin, res.User.ID.String(), nil)
	middleware.RecordDomainEvent("member.invited")
	writeJSON(w, http.StatusCreated, toUser(res.User))
}

// RemoveMember detaches a member from the organization and deletes their identity account.
func (h *OrganizationsHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	admin, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	err := h.members.Remove(r.Context(), admin, domain.NewUserID(id))
	h.audit.Record(r, "member.removed", admin, id.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	middleware.RecordDomainEvent("member.removed")
	w.WriteHeader(http.StatusNoContent)
}
