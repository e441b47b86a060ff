package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/account"
	"github.com/petim7277/Qonnect-sub000/internal/application/bug"
	"github.com/petim7277/Qonnect-sub000/internal/application/task"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

// UsersHandler handles /users/*. Requires JWT auth.
type UsersHandler struct {
	sessions *account.Sessions
	bugs     *bug.ListBugs
	tasks    *task.ReadTasks
	log      zerolog.Logger
}

func NewUsersHandler(sessions *account.Sessions, bugs *bug.ListBugs, tasks *task.ReadTasks, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{sessions: sessions, bugs: bugs, tasks: tasks, log: log}
}

// Me returns the authenticated user as stored.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := principal(w, r)
	if !ok {
		return
	}
	me, err := h.sessions.Me(r.Context(), user)
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUser(me))
}

func (h *UsersHandler) AssignedBugs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.subject(w, r)
	if !ok {
		return
	}
	page, err := h.bugs.AssignedTo(r.Context(), id, pageRequest(r))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toBug))
}

func (h *UsersHandler) CreatedBugs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.subject(w, r)
	if !ok {
		return
	}
	page, err := h.bugs.CreatedBy(r.Context(), id, pageRequest(r))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toBug))
}

func (h *UsersHandler) AssignedTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := h.subject(w, r)
	if !ok {
		return
	}
	page, err := h.tasks.AssignedTo(r.Context(), id, pageRequest(r))
	if err != nil {
		writeDomainErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPage(page, toTask))
}

// subject resolves {id}; "me" stands for the caller.
func (h *UsersHandler) subject(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	user, ok := principal(w, r)
	if !ok {
		return domain.UserID{}, false
	}
	if chiParam(r, "id") == "me" {
		return user.ID, true
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return domain.UserID{}, false
	}
	return domain.NewUserID(id), true
}
