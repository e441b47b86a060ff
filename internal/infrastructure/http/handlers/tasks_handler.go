package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/task"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/middleware"
)

// TasksHandler handles /tasks and /projects/{id}/tasks. Requires JWT.
type TasksHandler struct {
	create   *task.CreateTask
	read     *task.ReadTasks
	manage   *task.ManageTask
	audit    *Auditor
	validate *validator.Validate
	log      zerolog.Logger
}

func NewTasksHandler(create *task.CreateTask, read *task.ReadTasks, manage *task.ManageTask, audit *Auditor, log zerolog.Logger) *TasksHandler {
	return &TasksHandler{create: create, read: read, manage: manage, audit: audit, validate: newValidator(), log: log}
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title       string     `json:"title" validate:"required,max=200"`
		Description string     `json:"description" validate:"required,max=4000"`
		DueDate     *time.Time `json:"due_date"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	res, err := h.create.Execute(r.Context(), task.CreateTaskInput{
		Actor:       user,
		ProjectID:   domain.NewProjectID(projectID),
		Title:       body.Title,
		Description: body.Description,
		DueDate:     body.DueDate,
	})
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "task.created", user, res.Task.ID.String(), nil)
	middleware.RecordDomainEvent("task.created")
	writeJSON(w, http.StatusCreated, toTask(res.Task))
}

func (h *TasksHandler) InProject(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	page, err := h.read.InProject(r.Context(), user, domain.NewProjectID(projectID), pageRequest(r))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toTask))
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.read.Get(r.Context(), user, domain.NewTaskID(id))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTask(t))
}

func (h *TasksHandler) Assign(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		DeveloperID string `json:"developer_id" validate:"required,uuid"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	t, err := h.manage.Assign(r.Context(), user, domain.NewTaskID(id), domain.NewUserID(uuid.MustParse(body.DeveloperID)))
	h.audit.Record(r, "task.assigned", user, id.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTask(t))
}

func (h *TasksHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" validate:"required,max=32"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	t, err := h.manage.UpdateStatus(r.Context(), user, domain.NewTaskID(id), domain.TaskStatus(body.Status))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTask(t))
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	err := h.manage.Delete(r.Context(), user, domain.NewTaskID(id))
	h.audit.Record(r, "task.deleted", user, id.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
