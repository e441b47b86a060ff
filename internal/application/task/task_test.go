package task

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports/portstest"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

type fixture struct {
	store   *portstest.Store
	org     *domain.Organization
	admin   *domain.User
	qa      *domain.User
	dev     *domain.User
	project *domain.Project

	create *CreateTask
	read   *ReadTasks
	manage *ManageTask
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := portstest.NewStore()
	tx := &portstest.Transactor{}
	f := &fixture{store: s}
	f.org = s.SeedOrganization(t, "Acme")
	f.admin = s.SeedUser(t, f.org, "admin@acme.com", domain.RoleAdmin)
	f.qa = s.SeedUser(t, f.org, "qa@acme.com", domain.RoleQAEngineer)
	f.dev = s.SeedUser(t, f.org, "dev@acme.com", domain.RoleDeveloper)
	f.project = s.SeedProject(t, f.org, f.admin, "Tracker")
	f.create = NewCreateTask(tx, s.Users(), s.Projects(), s.Tasks())
	f.read = NewReadTasks(tx, s.Projects(), s.Tasks())
	f.manage = NewManageTask(tx, s.Users(), s.Projects(), s.Tasks())
	return f
}

func (f *fixture) createTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	res, err := f.create.Execute(context.Background(), CreateTaskInput{
		Actor: f.admin, ProjectID: f.project.ID, Title: title, Description: "details",
	})
	require.NoError(t, err)
	return res.Task
}

func TestCreateTaskStartsPending(t *testing.T) {
	f := newFixture(t)
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.create.Execute(context.Background(), CreateTaskInput{
		Actor: f.admin, ProjectID: f.project.ID, Title: "Fix login", Description: "details", DueDate: &due,
	})
	require.NoError(t, err)

	task := res.Task
	assert.False(t, task.ID.IsZero())
	assert.Equal(t, domain.TaskPending, task.Status)
	assert.Equal(t, f.project.ID, task.ProjectID)
	assert.Nil(t, task.AssignedTo)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, due, *task.DueDate)
}

func TestCreateTaskRoleComesFromStorage(t *testing.T) {
	f := newFixture(t)
	forged := *f.dev
	forged.Role = domain.RoleAdmin

	_, err := f.create.Execute(context.Background(), CreateTaskInput{
		Actor: &forged, ProjectID: f.project.ID, Title: "Fix login", Description: "details",
	})
	require.ErrorIs(t, err, domerrors.ErrAccessDenied)

	exists, err := f.store.Tasks().ExistsByTitleAndProject(context.Background(), "Fix login", f.project.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateTaskUnknownCaller(t *testing.T) {
	f := newFixture(t)
	ghost := &domain.User{ID: domain.NewUserID(uuid.New()), Email: "ghost@acme.com", Role: domain.RoleAdmin}
	_, err := f.create.Execute(context.Background(), CreateTaskInput{
		Actor: ghost, ProjectID: f.project.ID, Title: "Fix login", Description: "details",
	})
	require.ErrorIs(t, err, domerrors.ErrUserNotFound)
}

func TestCreateTaskRules(t *testing.T) {
	f := newFixture(t)
	f.createTask(t, "Fix login")

	_, err := f.create.Execute(context.Background(), CreateTaskInput{
		Actor: f.admin, ProjectID: f.project.ID, Title: "Fix login", Description: "again",
	})
	require.ErrorIs(t, err, domerrors.ErrTaskExists)

	_, err = f.create.Execute(context.Background(), CreateTaskInput{
		Actor: f.admin, ProjectID: f.project.ID, Title: "Fix signup",
	})
	require.ErrorIs(t, err, domerrors.ErrInvalidInput)

	_, err = f.create.Execute(context.Background(), CreateTaskInput{
		Actor: f.admin, ProjectID: domain.NewProjectID(uuid.New()), Title: "Fix signup", Description: "d",
	})
	require.ErrorIs(t, err, domerrors.ErrProjectNotFound)

	globex := f.store.SeedOrganization(t, "Globex")
	foreignAdmin := f.store.SeedUser(t, globex, "admin@globex.com", domain.RoleAdmin)
	_, err = f.create.Execute(context.Background(), CreateTaskInput{
		Actor: foreignAdmin, ProjectID: f.project.ID, Title: "Fix signup", Description: "d",
	})
	require.ErrorIs(t, err, domerrors.ErrNotOrganizationMember)

	other := f.store.SeedProject(t, f.org, f.admin, "Billing")
	_, err = f.create.Execute(context.Background(), CreateTaskInput{
		Actor: f.admin, ProjectID: other.ID, Title: "Fix login", Description: "same title, other project",
	})
	require.NoError(t, err)
}

func TestCreateTaskTrimsTitle(t *testing.T) {
	f := newFixture(t)
	first := f.createTask(t, "  Fix login ")
	assert.Equal(t, "Fix login", first.Title)

	_, err := f.create.Execute(context.Background(), CreateTaskInput{
		Actor: f.admin, ProjectID: f.project.ID, Title: "Fix login ", Description: "again",
	})
	require.ErrorIs(t, err, domerrors.ErrConflict)
}

func TestReadTasks(t *testing.T) {
	f := newFixture(t)
	first := f.createTask(t, "Fix login")
	time.Sleep(time.Millisecond)
	second := f.createTask(t, "Fix signup")

	got, err := f.read.Get(context.Background(), f.dev, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix login", got.Title)

	page, err := f.read.InProject(context.Background(), f.qa, f.project.ID, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID)

	outsider := f.store.SeedUser(t, f.store.SeedOrganization(t, "Globex"), "dev@globex.com", domain.RoleDeveloper)
	_, err = f.read.Get(context.Background(), outsider, first.ID)
	require.ErrorIs(t, err, domerrors.ErrAccessDenied)
	_, err = f.read.InProject(context.Background(), outsider, f.project.ID, domain.PageRequest{})
	require.ErrorIs(t, err, domerrors.ErrAccessDenied)
	_, err = f.read.Get(context.Background(), outsider, domain.NewTaskID(uuid.New()))
	require.ErrorIs(t, err, domerrors.ErrTaskNotFound)
}

func TestAssignTask(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Fix login")

	assigned, err := f.manage.Assign(context.Background(), f.admin, task.ID, f.dev.ID)
	require.NoError(t, err)
	assert.Equal(t, f.dev.ID, *assigned.AssignedTo)

	_, err = f.manage.Assign(context.Background(), f.admin, task.ID, f.dev.ID)
	require.ErrorIs(t, err, domerrors.ErrAlreadyAssigned)

	_, err = f.manage.Assign(context.Background(), f.admin, task.ID, f.qa.ID)
	require.ErrorIs(t, err, domerrors.ErrInvalidInput)

	_, err = f.manage.Assign(context.Background(), f.qa, task.ID, f.dev.ID)
	require.ErrorIs(t, err, domerrors.ErrRoleNotPermitted)

	page, err := f.read.AssignedTo(context.Background(), f.dev.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestUpdateTaskStatus(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Fix login")

	_, err := f.manage.UpdateStatus(context.Background(), f.dev, task.ID, domain.TaskInProgress)
	require.ErrorIs(t, err, domerrors.ErrRoleNotPermitted)

	_, err = f.manage.Assign(context.Background(), f.admin, task.ID, f.dev.ID)
	require.NoError(t, err)

	moved, err := f.manage.UpdateStatus(context.Background(), f.dev, task.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, moved.Status)

	moved, err = f.manage.UpdateStatus(context.Background(), f.admin, task.ID, domain.TaskDone)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, moved.Status)

	_, err = f.manage.UpdateStatus(context.Background(), f.admin, task.ID, "ARCHIVED")
	require.ErrorIs(t, err, domerrors.ErrInvalidInput)
}

func TestDeleteTask(t *testing.T) {
	f := newFixture(t)
	task := f.createTask(t, "Fix login")

	require.ErrorIs(t, f.manage.Delete(context.Background(), f.dev, task.ID), domerrors.ErrRoleNotPermitted)
	require.NoError(t, f.manage.Delete(context.Background(), f.admin, task.ID))
	require.ErrorIs(t, f.manage.Delete(context.Background(), f.admin, task.ID), domerrors.ErrTaskNotFound)
}
