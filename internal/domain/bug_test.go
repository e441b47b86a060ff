package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/petim7277/Qonnect-sub000/internal/domain/errors"
)

func TestBugMarkReportedForcesOpen(t *testing.T) {
	now := time.Now()
	dev := NewUserID(uuid.New())
	b := &Bug{Status: BugClosed, AssignedTo: &dev}
	reporter := NewUserID(uuid.New())

	b.MarkReported(reporter, now)

	assert.Equal(t, BugOpen, b.Status)
	assert.Equal(t, reporter, b.CreatedBy)
	assert.Nil(t, b.AssignedTo)
	assert.Equal(t, now, b.CreatedAt)
	assert.Equal(t, now, b.UpdatedAt)
}

func TestBugAssignToRejectsCurrentAssignee(t *testing.T) {
	now := time.Now()
	dev := NewUserID(uuid.New())
	b := &Bug{}

	require.NoError(t, b.AssignTo(dev, now))
	later := now.Add(time.Minute)
	err := b.AssignTo(dev, later)
	assert.ErrorIs(t, err, domerrors.ErrConflict)
	assert.Equal(t, now, b.UpdatedAt)

	other := NewUserID(uuid.New())
	require.NoError(t, b.AssignTo(other, later))
	assert.Equal(t, other, *b.AssignedTo)
}

func TestBugApplyDetailsKeepsEmptyFields(t *testing.T) {
	b := &Bug{Title: "Login fails", Description: "500 on submit"}
	b.ApplyDetails("", "500 on submit with SSO", time.Now())
	assert.Equal(t, "Login fails", b.Title)
	assert.Equal(t, "500 on submit with SSO", b.Description)

	b.ApplyDetails("Login fails on SSO", "  ", time.Now())
	assert.Equal(t, "Login fails on SSO", b.Title)
	assert.Equal(t, "500 on submit with SSO", b.Description)
}

func TestParseBugEnums(t *testing.T) {
	s, err := ParseBugStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, BugInProgress, s)

	sv, err := ParseSeverity(" major ")
	require.NoError(t, err)
	assert.Equal(t, SeverityMajor, sv)

	p, err := ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	for _, fn := range []func(string) error{
		func(s string) error { _, err := ParseBugStatus(s); return err },
		func(s string) error { _, err := ParseSeverity(s); return err },
		func(s string) error { _, err := ParsePriority(s); return err },
	} {
		assert.ErrorIs(t, fn("whatever"), domerrors.ErrInvalidInput)
	}
}
