package domain

import "time"

// Project belongs to exactly one organization for its whole life.
type Project struct {
	ID             ProjectID
	Name           string
	Description    string
	CreatedBy      UserID
	OrganizationID OrganizationID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
