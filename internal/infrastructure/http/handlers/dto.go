package handlers

import (
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

type userResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           string    `json:"role"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Enabled        bool      `json:"enabled"`
	InvitePending  bool      `json:"invite_pending,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toUser(u *domain.User) userResponse {
	out := userResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role.String(),
		Enabled:       u.Enabled,
		InvitePending: u.InvitationPending(),
		CreatedAt:     u.CreatedAt,
	}
	if u.HasOrganization() {
		out.OrganizationID = u.OrganizationID.String()
	}
	return out
}

type organizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toOrganization(o *domain.Organization) organizationResponse {
	return organizationResponse{ID: o.ID.String(), Name: o.Name, CreatedAt: o.CreatedAt}
}

type projectResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CreatedBy      string    `json:"created_by"`
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toProject(p *domain.Project) projectResponse {
	return projectResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		CreatedBy:      p.CreatedBy.String(),
		OrganizationID: p.OrganizationID.String(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assigned_to"`
	ProjectID   string     `json:"project_id"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTask(t *domain.Task) taskResponse {
	out := taskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		ProjectID:   t.ProjectID.String(),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssignedTo != nil {
		s := t.AssignedTo.String()
		out.AssignedTo = &s
	}
	return out
}

type bugResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Severity    string    `json:"severity"`
	Priority    string    `json:"priority"`
	ProjectID   string    `json:"project_id"`
	TaskID      *string   `json:"task_id"`
	CreatedBy   string    `json:"created_by"`
	AssignedTo  *string   `json:"assigned_to"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toBug(b *domain.Bug) bugResponse {
	out := bugResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		Status:      string(b.Status),
		Severity:    string(b.Severity),
		Priority:    string(b.Priority),
		ProjectID:   b.ProjectID.String(),
		CreatedBy:   b.CreatedBy.String(),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.TaskID != nil {
		s := b.TaskID.String()
		out.TaskID = &s
	}
	if b.AssignedTo != nil {
		s := b.AssignedTo.String()
		out.AssignedTo = &s
	}
	return out
}

type pageResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func toPage[D, T any](p domain.Page[D], conv func(D) T) pageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, conv(it))
	}
	return pageResponse[T]{Items: items, Page: p.Page, Size: p.Size, Total: p.Total, TotalPages: p.TotalPages()}
}
