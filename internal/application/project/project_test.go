package project

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports/portstest"
	"github.com/petim7277/Qonnect-sub000/internal/domain"
	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

func TestCreateProject(t *testing.T) {
	s := portstest.NewStore()
	tx := &portstest.Transactor{}
	acme := s.SeedOrganization(t, "Acme")
	admin := s.SeedUser(t, acme, "admin@acme.com", domain.RoleAdmin)
	qa := s.SeedUser(t, acme, "qa@acme.com", domain.RoleQAEngineer)
	uc := NewCreateProject(tx, s.Projects())

	res, err := uc.Execute(context.Background(), CreateProjectInput{Actor: admin, Name: " Tracker ", Description: "bugs"})
	require.NoError(t, err)
	assert.Equal(t, "Tracker", res.Project.Name)
	assert.Equal(t, acme.ID, res.Project.OrganizationID)
	assert.Equal(t, admin.ID, res.Project.CreatedBy)

	_, err = uc.Execute(context.Background(), CreateProjectInput{Actor: admin, Name: "Tracker"})
	require.ErrorIs(t, err, domerrors.ErrProjectExists)

	_, err = uc.Execute(context.Background(), CreateProjectInput{Actor: qa, Name: "Other"})
	require.ErrorIs(t, err, domerrors.ErrRoleNotPermitted)

	_, err = uc.Execute(context.Background(), CreateProjectInput{Actor: admin, Name: "  "})
	require.ErrorIs(t, err, domerrors.ErrInvalidInput)

	loner := s.SeedUser(t, nil, "loner@example.com", domain.RoleAdmin)
	_, err = uc.Execute(context.Background(), CreateProjectInput{Actor: loner, Name: "Other"})
	require.ErrorIs(t, err, domerrors.ErrNoOrganization)

	globex := s.SeedOrganization(t, "Globex")
	globexAdmin := s.SeedUser(t, globex, "admin@globex.com", domain.RoleAdmin)
	_, err = uc.Execute(context.Background(), CreateProjectInput{Actor: globexAdmin, Name: "Tracker"})
	require.NoError(t, err, "names are only unique within one organization")
}

func TestProjectsReadAndDelete(t *testing.T) {
	s := portstest.NewStore()
	tx := &portstest.Transactor{}
	acme := s.SeedOrganization(t, "Acme")
	admin := s.SeedUser(t, acme, "admin@acme.com", domain.RoleAdmin)
	dev := s.SeedUser(t, acme, "dev@acme.com", domain.RoleDeveloper)
	outsider := s.SeedUser(t, s.SeedOrganization(t, "Globex"), "dev@globex.com", domain.RoleDeveloper)
	p := s.SeedProject(t, acme, admin, "Tracker")
	s.SeedProject(t, acme, admin, "Billing")
	uc := NewProjects(tx, s.Projects())

	got, err := uc.Get(context.Background(), dev, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tracker", got.Name)

	_, err = uc.Get(context.Background(), outsider, p.ID)
	require.ErrorIs(t, err, domerrors.ErrAccessDenied)
	_, err = uc.Get(context.Background(), dev, domain.NewProjectID(uuid.New()))
	require.ErrorIs(t, err, domerrors.ErrProjectNotFound)

	page, err := uc.List(context.Background(), dev, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = uc.List(context.Background(), outsider, domain.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	require.ErrorIs(t, uc.Delete(context.Background(), dev, p.ID), domerrors.ErrRoleNotPermitted)
	require.NoError(t, uc.Delete(context.Background(), admin, p.ID))
	_, err = uc.Get(context.Background(), admin, p.ID)
	require.ErrorIs(t, err, domerrors.ErrProjectNotFound)
	assert.Equal(t, 2, tx.Writes)
}
