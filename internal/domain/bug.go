package domain

import (
	"strings"
	"time"

	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// BugStatus is the closed set of bug states.
type BugStatus string

const (
	BugOpen       BugStatus = "OPEN"
	BugInProgress BugStatus = "IN_PROGRESS"
	BugResolved   BugStatus = "RESOLVED"
	BugClosed     BugStatus = "CLOSED"
)

// ParseBugStatus converts a request value into a BugStatus.
func ParseBugStatus(s string) (BugStatus, error) {
	switch st := BugStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case BugOpen, BugInProgress, BugResolved, BugClosed:
		return st, nil
	default:
		return "", domerrors.InvalidInputf("unknown bug status %q", s)
	}
}

// Severity ranks the impact of a bug.
type Severity string

const (
	SeverityMinor    Severity = "MINOR"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
)

// ParseSeverity converts a request value into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch sv := Severity(strings.ToUpper(strings.TrimSpace(s))); sv {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return sv, nil
	default:
		return "", domerrors.InvalidInputf("unknown severity %q", s)
	}
}

// Priority ranks how soon a bug should be handled.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority converts a request value into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", domerrors.InvalidInputf("unknown priority %q", s)
	}
}

// Bug is a defect reported against a project and optionally a task in that project.
type Bug struct {
	ID          BugID
	Title       string
	Description string
	Status      BugStatus
	Severity    Severity
	Priority    Priority
	ProjectID   ProjectID
	TaskID      *TaskID
	CreatedBy   UserID
	AssignedTo  *UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MarkReported records the reporter and forces the initial OPEN state.
func (b *Bug) MarkReported(reporter UserID, now time.Time) {
	b.CreatedBy = reporter
	b.Status = BugOpen
	b.AssignedTo = nil
	b.CreatedAt = now
	b.UpdatedAt = now
}

// AssignTo hands the bug to a developer. Re-assigning to the current assignee is rejected.
func (b *Bug) AssignTo(developer UserID, now time.Time) error {
	if b.AssignedTo != nil && *b.AssignedTo == developer {
		return domerrors.ErrAlreadyAssigned
	}
	b.AssignedTo = &developer
	b.UpdatedAt = now
	return nil
}

// ApplyDetails overwrites title and description with the non-empty incoming values.
func (b *Bug) ApplyDetails(title, description string, now time.Time) {
	if strings.TrimSpace(title) != "" {
		b.Title = title
	}
	if strings.TrimSpace(description) != "" {
		b.Description = description
	}
	b.UpdatedAt = now
}

// SetStatus overwrites the status.
func (b *Bug) SetStatus(status BugStatus, now time.Time) {
	b.Status = status
	b.UpdatedAt = now
}

// SetSeverity overwrites the severity.
func (b *Bug) SetSeverity(severity Severity, now time.Time) {
	b.Severity = severity
	b.UpdatedAt = now
}
