package portstest

import (
	"context"
	"testing"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

// SeedOrganization stores an organization.
func (s *Store) SeedOrganization(t *testing.T, name string) *domain.Organization {
	t.Helper()
	org := &domain.Organization{Name: name, CreatedAt: time.Now()}
	if err := s.Organizations().Save(context.Background(), org); err != nil {
		t.Fatalf("seed organization %s: %v", name, err)
	}
	return org
}

// SeedUser stores an enabled member of org. A nil org leaves the user unattached.
func (s *Store) SeedUser(t *testing.T, org *domain.Organization, email string, role domain.Role) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		Email:     email,
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if org != nil {
		u.OrganizationID = org.ID
	}
	if err := s.Users().Save(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// SeedProject stores a project of org created by creator.
func (s *Store) SeedProject(t *testing.T, org *domain.Organization, creator *domain.User, name string) *domain.Project {
	t.Helper()
	now := time.Now()
	p := &domain.Project{
		Name:           name,
		Description:    name + " project",
		CreatedBy:      creator.ID,
		OrganizationID: org.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Projects().Save(context.Background(), p); err != nil {
		t.Fatalf("seed project %s: %v", name, err)
	}
	return p
}

// SeedTask stores a PENDING task in project.
func (s *Store) SeedTask(t *testing.T, project *domain.Project, title string) *domain.Task {
	t.Helper()
	task := &domain.Task{Title: title, Description: title + " description"}
	task.Open(project.ID, time.Now())
	if err := s.Tasks().Save(context.Background(), task); err != nil {
		t.Fatalf("seed task %s: %v", title, err)
	}
	return task
}

// SeedBug stores an OPEN bug reported by reporter.
func (s *Store) SeedBug(t *testing.T, project *domain.Project, task *domain.Task, reporter *domain.User, title string, createdAt time.Time) *domain.Bug {
	t.Helper()
	b := &domain.Bug{
		Title:       title,
		Description: title + " description",
		Severity:    domain.SeverityMinor,
		Priority:    domain.PriorityMedium,
		ProjectID:   project.ID,
	}
	if task != nil {
		id := task.ID
		b.TaskID = &id
	}
	b.MarkReported(reporter.ID, createdAt)
	if err := s.Bugs().Save(context.Background(), b); err != nil {
		t.Fatalf("seed bug %s: %v", title, err)
	}
	return b
}
