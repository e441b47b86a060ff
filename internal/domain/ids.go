package domain

import "github.com/google/uuid"

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// IsZero reports whether the id is unset.
func (u UserID) IsZero() bool { return u.UUID == uuid.Nil }

// OrganizationID is a value object for organization identity.
type OrganizationID struct{ uuid.UUID }

// NewOrganizationID creates a new OrganizationID from uuid.
func NewOrganizationID(id uuid.UUID) OrganizationID { return OrganizationID{UUID: id} }

// IsZero reports whether the id is unset.
func (o OrganizationID) IsZero() bool { return o.UUID == uuid.Nil }

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// IsZero reports whether the id is unset.
func (p ProjectID) IsZero() bool { return p.UUID == uuid.Nil }

// TaskID is a value object for task identity.
type TaskID struct{ uuid.UUID }

// NewTaskID creates a new TaskID from uuid.
func NewTaskID(id uuid.UUID) TaskID { return TaskID{UUID: id} }

// IsZero reports whether the id is unset.
func (t TaskID) IsZero() bool { return t.UUID == uuid.Nil }

// BugID is a value object for bug identity.
type BugID struct{ uuid.UUID }

// NewBugID creates a new BugID from uuid.
func NewBugID(id uuid.UUID) BugID { return BugID{UUID: id} }

// IsZero reports whether the id is unset.
func (b BugID) IsZero() bool { return b.UUID == uuid.Nil }

// OtpID is a value object for one-time password identity.
type OtpID struct{ uuid.UUID }

// NewOtpID creates a new OtpID from uuid.
func NewOtpID(id uuid.UUID) OtpID { return OtpID{UUID: id} }
