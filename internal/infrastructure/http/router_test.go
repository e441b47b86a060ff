package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petim7277/Qonnect-sub000/internal/application/account"
	"github.com/petim7277/Qonnect-sub000/internal/application/bug"
	"github.com/petim7277/Qonnect-sub000/internal/application/organization"
	"github.com/petim7277/Qonnect-sub000/internal/application/otp"
	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
	"github.com/petim7277/Qonnect-sub000/internal/application/ports/portstest"
	"github.com/petim7277/Qonnect-sub000/internal/application/project"
	"github.com/petim7277/Qonnect-sub000/internal/application/task"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/handlers"
	"github.com/petim7277/Qonnect-sub000/internal/infrastructure/http/middleware"
)

// tokenVerifier accepts the "token:"+email tokens issued by portstest.Identity.
type tokenVerifier struct{ identity *portstest.Identity }

func (v tokenVerifier) VerifyToken(_ context.Context, token string) (*ports.AccessClaims, error) {
	email, ok := strings.CutPrefix(token, "token:")
	if !ok || slices.Contains(v.identity.Revoked, token) {
		return nil, domerrors.ErrInvalidToken
	}
	return &ports.AccessClaims{TokenID: "test", Email: email}, nil
}

type harness struct {
	t        *testing.T
	store    *portstest.Store
	identity *portstest.Identity
	mailer   *portstest.Mailer
	audit    *portstest.Audit
	lockout  *portstest.Lockout
	handler  http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := portstest.NewStore()
	tx := &portstest.Transactor{}
	h := &harness{
		t:        t,
		store:    s,
		identity: portstest.NewIdentity(),
		mailer:   &portstest.Mailer{},
		audit:    &portstest.Audit{},
		lockout:  &portstest.Lockout{Max: 2},
	}
	log := zerolog.Nop()
	hasher := portstest.Hasher{}
	otps := otp.NewService(s.Otps(), h.mailer, otp.DefaultConfig())
	auditor := handlers.NewAuditor(log, h.audit)

	sessions := account.NewSessions(h.identity)
	listBugs := bug.NewListBugs(tx, s.Bugs(), s.Tasks(), s.Projects())
	readTasks := task.NewReadTasks(tx, s.Projects(), s.Tasks())

	h.handler = NewRouter(RouterConfig{
		AuthHandler: handlers.NewAuthHandler(handlers.AuthUseCases{
			RegisterAdmin:  organization.NewRegisterAdmin(tx, s.Users(), s.Organizations(), h.identity, hasher, otps),
			SignUp:         account.NewSignUp(tx, s.Users(), h.identity, hasher, otps),
			Verification:   account.NewVerification(tx, s.Users(), h.identity, otps),
			Login:          account.NewLogin(h.identity, s.Users(), h.lockout),
			Passwords:      account.NewPasswords(tx, s.Users(), h.identity, hasher, otps),
			Sessions:       sessions,
			CompleteInvite: organization.NewCompleteInvite(tx, s.Users(), h.identity, hasher, otps),
		}, auditor, log),
		UsersHandler: handlers.NewUsersHandler(sessions, listBugs, readTasks, log),
		OrganizationsHandler: handlers.NewOrganizationsHandler(
			organization.NewInviteMember(tx, s.Users(), s.Organizations(), h.mailer, "https://qonnect.test/invite"),
			organization.NewMembers(tx, s.Users(), s.Organizations(), h.identity),
			auditor, log),
		ProjectsHandler: handlers.NewProjectsHandler(
			project.NewCreateProject(tx, s.Projects()),
			project.NewProjects(tx, s.Projects()),
			auditor, log),
		TasksHandler: handlers.NewTasksHandler(
			task.NewCreateTask(tx, s.Users(), s.Projects(), s.Tasks()),
			readTasks,
			task.NewManageTask(tx, s.Users(), s.Projects(), s.Tasks()),
			auditor, log),
		BugsHandler: handlers.NewBugsHandler(handlers.BugUseCases{
			Report:         bug.NewReportBug(tx, s.Bugs(), s.Tasks(), s.Projects()),
			Get:            bug.NewGetBug(tx, s.Bugs(), s.Tasks(), s.Projects()),
			UpdateDetails:  bug.NewUpdateBugDetails(tx, s.Bugs(), s.Tasks(), s.Projects()),
			UpdateStatus:   bug.NewUpdateBugStatus(tx, s.Bugs(), s.Tasks(), s.Projects()),
			UpdateSeverity: bug.NewUpdateBugSeverity(tx, s.Bugs(), s.Tasks(), s.Projects()),
			List:           listBugs,
			Assign:         bug.NewAssignBug(tx, s.Bugs(), s.Users(), s.Projects()),
			Delete:         bug.NewDeleteBug(tx, s.Bugs(), s.Projects()),
		}, auditor, log),
		RequireJWT: middleware.NewAuthenticator(tokenVerifier{h.identity}, s.Users(), log).Handler,
		Log:        log,
	})
	return h
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type idBody struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	AssignedTo *string `json:"assigned_to"`
}

type listBody struct {
	Items []idBody `json:"items"`
	Total int      `json:"total"`
}

type errBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// latestCode returns the most recent OTP mailed to email.
func (h *harness) latestCode(email string) string {
	h.t.Helper()
	otps := h.store.OtpsFor(email)
	require.NotEmpty(h.t, otps)
	return otps[len(otps)-1].Code
}

func (h *harness) verifyAndLogin(email, password string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/auth/verify", "", map[string]string{"email": email, "code": h.latestCode(email)})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	rec = h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeAs[struct {
		AccessToken string `json:"access_token"`
	}](h.t, rec).AccessToken
}

var inviteToken = regexp.MustCompile(`token=([0-9a-f]{64})`)

// join invites email with role and walks the invitation through to a session.
func (h *harness) join(adminToken, email, role string) (string, string) {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/organization/invitations", adminToken, map[string]string{"email": email, "role": role})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	m := inviteToken.FindStringSubmatch(h.mailer.Last().Body)
	require.Len(h.t, m, 2)

	rec = h.do(http.MethodPost, "/auth/invitations/accept", "", map[string]string{
		"token": m[1], "first_name": "New", "last_name": "Member", "password": "Password1!",
	})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	id := decodeAs[idBody](h.t, rec).ID
	return id, h.verifyAndLogin(email, "Password1!")
}

func (h *harness) registerAdmin() string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/auth/register-organization", "", map[string]string{
		"organization_name": "Acme",
		"first_name":        "Ada",
		"last_name":         "Admin",
		"email":             "admin@acme.com",
		"password":          "Password1!",
	})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	return h.verifyAndLogin("admin@acme.com", "Password1!")
}

func TestHealthAndVersionHeader(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, APIVersion, rec.Header().Get("X-API-Version"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeAs[errBody](t, rec).Code)

	rec = h.do(http.MethodGet, "/projects", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", decodeAs[errBody](t, rec).Code)

	rec = h.do(http.MethodGet, "/users/me", "token:ghost@acme.com", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginBeforeVerification(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"first_name": "Dee", "last_name": "Veloper", "email": "dee@acme.com", "password": "Password1!", "role": "developer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "dee@acme.com", "password": "Password1!"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, handlers.ErrCodeAccountDisabled, decodeAs[errBody](t, rec).Code)

	rec = h.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"first_name": "Dee", "last_name": "Again", "email": "DEE@acme.com", "password": "Password1!", "role": "developer",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRequestValidation(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/auth/signup", "", map[string]string{
		"first_name": "Dee", "last_name": "Veloper", "email": "dee@acme.com", "password": "Password1!", "role": "MANAGER",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, handlers.ErrCodeInvalidRequest, decodeAs[errBody](t, rec).Code)

	rec = h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "dee@acme.com", "password": "x", "extra": "y"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/auth/verify", "", map[string]string{"email": "dee@acme.com", "code": "12ab56"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeAs[errBody](t, rec).Error, "code")

	admin := h.registerAdmin()
	rec = h.do(http.MethodGet, "/projects/not-a-uuid", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLockedAccountIsTooManyRequests(t *testing.T) {
	h := newHarness(t)
	h.registerAdmin()

	for range 2 {
		rec := h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@acme.com", "password": "wrong-password"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, handlers.ErrCodeInvalidCredentials, decodeAs[errBody](t, rec).Code)
	}
	rec := h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@acme.com", "password": "Password1!"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, handlers.ErrCodeAccountLocked, decodeAs[errBody](t, rec).Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	h := newHarness(t)
	admin := h.registerAdmin()

	rec := h.do(http.MethodGet, "/users/me", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/auth/logout", admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodGet, "/users/me", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotPasswordHidesUnknownEmail(t *testing.T) {
	h := newHarness(t)
	h.registerAdmin()

	rec := h.do(http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "nobody@acme.com"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	rec = h.do(http.MethodPost, "/auth/otp/resend", "", map[string]string{"email": "nobody@acme.com", "type": "RESET_PASSWORD"})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = h.do(http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "admin@acme.com"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	rec = h.do(http.MethodPost, "/auth/reset-password", "", map[string]string{
		"email": "admin@acme.com", "code": h.latestCode("admin@acme.com"), "new_password": "NewPassword2!",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@acme.com", "password": "NewPassword2!"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTrackerFlow(t *testing.T) {
	h := newHarness(t)
	admin := h.registerAdmin()
	_, qa := h.join(admin, "qa@acme.com", "qa_engineer")
	devID, dev := h.join(admin, "dev@acme.com", "DEVELOPER")

	rec := h.do(http.MethodGet, "/organization/members", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decodeAs[listBody](t, rec).Total)

	rec = h.do(http.MethodPost, "/projects", qa, map[string]string{"name": "Tracker"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPost, "/projects", admin, map[string]string{"name": "Tracker", "description": "bugs"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	projectID := decodeAs[idBody](t, rec).ID

	rec = h.do(http.MethodPost, "/projects/"+projectID+"/tasks", admin, map[string]string{"title": "Fix login", "description": "details"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	createdTask := decodeAs[idBody](t, rec)
	assert.Equal(t, "PENDING", createdTask.Status)
	taskID := createdTask.ID

	rec = h.do(http.MethodPost, "/projects/"+projectID+"/bugs", dev, map[string]string{"title": "Crash", "description": "boom", "task_id": taskID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPost, "/projects/"+projectID+"/bugs", qa, map[string]string{
		"title": "Crash", "description": "boom", "severity": "major", "task_id": taskID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reported := decodeAs[idBody](t, rec)
	assert.Equal(t, "OPEN", reported.Status)
	bugID := reported.ID

	rec = h.do(http.MethodPost, "/projects/"+projectID+"/bugs", qa, map[string]string{"title": "Crash", "description": "again"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodGet, "/tasks/"+taskID+"/bugs/"+bugID, dev, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bugID, decodeAs[idBody](t, rec).ID)

	rec = h.do(http.MethodPut, "/bugs/"+bugID+"/assignee", qa, map[string]string{"developer_id": devID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assigned := decodeAs[idBody](t, rec)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, devID, *assigned.AssignedTo)

	rec = h.do(http.MethodPut, "/bugs/"+bugID+"/assignee", qa, map[string]string{"developer_id": devID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodGet, "/users/me/bugs/assigned", dev, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeAs[listBody](t, rec).Total)

	rec = h.do(http.MethodPatch, "/tasks/"+taskID+"/bugs/"+bugID+"/status", dev, map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "IN_PROGRESS", decodeAs[idBody](t, rec).Status)

	rec = h.do(http.MethodPatch, "/tasks/"+taskID+"/bugs/"+bugID+"/severity", qa, map[string]string{"severity": "EXTREME"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/projects/"+projectID+"/bugs", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeAs[listBody](t, rec).Total)

	rec = h.do(http.MethodDelete, "/bugs/"+bugID, qa, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = h.do(http.MethodDelete, "/bugs/"+bugID, admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(http.MethodGet, "/tasks/"+taskID+"/bugs/"+bugID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Contains(t, h.audit.Names(), "bug.reported")
	assert.Contains(t, h.audit.Names(), "bug.assigned")
}

func TestCrossOrganizationAccessDenied(t *testing.T) {
	h := newHarness(t)
	admin := h.registerAdmin()
	rec := h.do(http.MethodPost, "/projects", admin, map[string]string{"name": "Tracker"})
	require.Equal(t, http.StatusCreated, rec.Code)
	projectID := decodeAs[idBody](t, rec).ID

	rec = h.do(http.MethodPost, "/auth/register-organization", "", map[string]string{
		"organization_name": "Globex", "first_name": "Gia", "last_name": "Admin",
		"email": "admin@globex.com", "password": "Password1!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	other := h.verifyAndLogin("admin@globex.com", "Password1!")

	rec = h.do(http.MethodGet, "/projects/"+projectID, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, handlers.ErrCodeForbidden, decodeAs[errBody](t, rec).Code)
}
