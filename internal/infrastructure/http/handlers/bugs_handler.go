package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/bug"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/middleware"
)

// BugUseCases groups the bug operations.
type BugUseCases struct {
	Report         *bug.ReportBug
	Get            *bug.GetBug
	UpdateDetails  *bug.UpdateBug
	UpdateStatus   *bug.UpdateBug
	UpdateSeverity *bug.UpdateBug
	List           *bug.ListBugs
	Assign         *bug.AssignBug
	Delete         *bug.DeleteBug
}

// BugsHandler handles bug routes under /projects, /tasks and /bugs. Requires JWT.
type BugsHandler struct {
	uc       BugUseCases
	audit    *Auditor
	validate *validator.Validate
	log      zerolog.Logger
}

func NewBugsHandler(uc BugUseCases, audit *Auditor, log zerolog.Logger) *BugsHandler {
	return &BugsHandler{uc: uc, audit: audit, validate: newValidator(), log: log}
}

// Report handles POST /projects/{id}/bugs. task_id is optional.
func (h *BugsHandler) Report(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Title       string `json:"title" validate:"required,max=200"`
		Description string `json:"description" validate:"required,max=4000"`
		Severity    string `json:"severity" validate:"max=32"`
		Priority    string `json:"priority" validate:"max=32"`
		TaskID      string `json:"task_id" validate:"omitempty,uuid"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	in := bug.ReportBugInput{
		Reporter:    user,
		ProjectID:   domain.NewProjectID(projectID),
		Title:       body.Title,
		Description: body.Description,
		Severity:    domain.Severity(body.Severity),
		Priority:    domain.Priority(body.Priority),
	}
	if body.TaskID != "" {
		taskID := domain.NewTaskID(uuid.MustParse(body.TaskID))
		in.TaskID = &taskID
	}
	res, err := h.uc.Report.Execute(r.Context(), in)
	if err != nil {
		h.audit.Record(r, "bug.reported", user, "", err)
		writeDomainErr(w, h.log, err)
		return
	}
	h.audit.Record(r, "bug.reported", user, res.Bug.ID.String(), nil)
	middleware.RecordDomainEvent("bug.reported")
	writeJSON(w, http.StatusCreated, toBug(res.Bug))
}

func (h *BugsHandler) InProject(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	projectID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	page, err := h.uc.List.InProject(r.Context(), user, domain.NewProjectID(projectID), pageRequest(r))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toBug))
}

func (h *BugsHandler) InTask(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	page, err := h.uc.List.InTask(r.Context(), user, domain.NewTaskID(taskID), pageRequest(r))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toBug))
}

func (h *BugsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, taskID, bugID, ok := h.taskBug(w, r)
	if !ok {
		return
	}
	b, err := h.uc.Get.Execute(r.Context(), bug.GetBugInput{Actor: user, TaskID: taskID, BugID: bugID})
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBug(b))
}

func (h *BugsHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	user, taskID, bugID, ok := h.taskBug(w, r)
	if !ok {
		return
	}
	var body struct {
		Title       string `json:"title" validate:"max=200"`
		Description string `json:"description" validate:"required,max=4000"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	h.update(w, r, h.uc.UpdateDetails, "bug.updated", bug.UpdateBugInput{
		Actor: user, TaskID: taskID, BugID: bugID, Title: body.Title, Description: body.Description,
	})
}

func (h *BugsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, taskID, bugID, ok := h.taskBug(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" validate:"required,max=32"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	h.update(w, r, h.uc.UpdateStatus, "bug.status_changed", bug.UpdateBugInput{
		Actor: user, TaskID: taskID, BugID: bugID, Status: domain.BugStatus(body.Status),
	})
}

func (h *BugsHandler) UpdateSeverity(w http.ResponseWriter, r *http.Request) {
	user, taskID, bugID, ok := h.taskBug(w, r)
	if !ok {
		return
	}
	var body struct {
		Severity string `json:"severity" validate:"required,max=32"`
	}
	if !decode(w, r, h.validate, &body) {
		return
	}
	h.update(w, r, h.uc.UpdateSeverity, "bug.severity_changed", bug.UpdateBugInput{
		Actor: user, TaskID: taskID, BugID: bugID, Severity: domain.Severity(body.Severity),
	})
}

func (h *BugsHandler) update(w http.ResponseWriter, r *http.Request, uc *bug.UpdateBug, event string, in bug.UpdateBugInput) {
	b, err := uc.Execute(r.Context(), in)
	h.audit.Record(r, event, in.Actor, in.BugID.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBug(b))
}

// Assign handles PUT /bugs/{id}/assignee.
func (h *BugsHandler) Assign(w http.ResponseWriter, r *http.Request) {
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
	b, err := h.uc.Assign.Execute(r.Context(), bug.AssignBugInput{
		Assigner:    user,
		BugID:       domain.NewBugID(id),
		DeveloperID: domain.NewUserID(uuid.MustParse(body.DeveloperID)),
	})
	h.audit.Record(r, "bug.assigned", user, id.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	middleware.RecordDomainEvent("bug.assigned")
	writeJSON(w, http.StatusOK, toBug(b))
}

func (h *BugsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	err := h.uc.Delete.Execute(r.Context(), user, domain.NewBugID(id))
	h.audit.Record(r, "bug.deleted", user, id.String(), err)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BugsHandler) taskBug(w http.ResponseWriter, r *http.Request) (*domain.User, domain.TaskID, domain.BugID, bool) {
	user, ok := principal(w, r)
	if !ok {
		return nil, domain.TaskID{}, domain.BugID{}, false
	}
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return nil, domain.TaskID{}, domain.BugID{}, false
	}
	bugID, ok := pathUUID(w, r, "bugID")
	if !ok {
		return nil, domain.TaskID{}, domain.BugID{}, false
	}
	return user, domain.NewTaskID(taskID), domain.NewBugID(bugID), true
}
