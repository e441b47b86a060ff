package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/project"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/middleware"
)

// ProjectsHandler handles /projects. Requires JWT.
type ProjectsHandler struct {
	create   *project.CreateProject
	projects *project.Projects
	audit    *Auditor
	validate *validator.Validate
	log      zerolog.Logger
}

func NewProjectsHandler(create *project.CreateProject, projects *project.Projects, audit *Auditor, log zerolog.Logger) *ProjectsHandler {
	return &ProjectsHandler{create: create, projects: projects, audit: audit, validate: newValidator(), log: log}
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	var body struct {
		Name        string `json:"name" validate:"required,max=200"`
		Description string `json:"description" validate:"max=4000"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	res, err := h.create.Execute(r.Context(), project.CreateProjectInput{Actor: user, Name: body.Name, Description: body.Description})
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "project.created", user, res.Project.ID.String(), nil)
	middleware.RecordDomainEvent("project.created")
	writeJSON(w, http.StatusCreated, toProject(res.Project))
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	page, err := h.projects.List(r.Context(), user, pageRequest(r))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toProject))
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.projects.Get(r.Context(), user, domain.NewProjectID(id))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProject(p))
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	err := h.projects.Delete(r.Context(), user, domain.NewProjectID(id))
	h.audit.Record(r, "project.deleted", user, id.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
