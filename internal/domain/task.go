package domain

import (
	"strings"
	"time"

	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

// TaskStatus is the closed set of task states.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

// ParseTaskStatus converts a request value into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case TaskPending, TaskInProgress, TaskDone:
		return st, nil
	default:
		return "", domerrors.InvalidInputf("unknown task status %q", s)
	}
}

// Task is a unit of work inside a project. Titles are unique per project.
type Task struct {
	ID          TaskID
	Title       string
	Description string
	Status      TaskStatus
	AssignedTo  *UserID
	ProjectID   ProjectID
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Open puts a freshly created task into its initial PENDING state.
func (t *Task) Open(projectID ProjectID, now time.Time) {
	t.ProjectID = projectID
	t.Status = TaskPending
	t.AssignedTo = nil
	t.CreatedAt = now
	t.UpdatedAt = now
}

// AssignTo hands the task to a developer. Re-assigning to the current assignee is rejected.
func (t *Task) AssignTo(developer UserID, now time.Time) error {
	if t.AssignedTo != nil && *t.AssignedTo == developer {
		return domerrors.ErrAlreadyAssigned
	}
	t.AssignedTo = &developer
	t.UpdatedAt = now
	return nil
}

// SetStatus moves the task to the given status.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	t.UpdatedAt = now
}
