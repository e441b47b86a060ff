package domain

import "time"

// Organization owns members and projects. Names are globally unique.
type Organization struct {
	ID        OrganizationID
	Name      string
	CreatedAt time.Time
}
