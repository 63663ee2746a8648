package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectRoleCanEdit(t *testing.T) {
	assert.True(t, ProjectRoleAdmin.CanEdit())
	assert.True(t, ProjectRoleEditor.CanEdit())
	assert.False(t, ProjectRoleMember.CanEdit())
	assert.False(t, ProjectRoleGuest.CanEdit())
}

func TestRoleValidation(t *testing.T) {
	assert.True(t, TeamRoleAdmin.IsValid())
	assert.True(t, TeamRoleMember.IsValid())
	assert.False(t, TeamRole("owner").IsValid())

	assert.True(t, ProjectRoleGuest.IsValid())
	assert.False(t, ProjectRole("viewer").IsValid())
}

func TestTaskEnums(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone} {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, TaskStatus("archived").IsValid())

	for _, p := range []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent} {
		assert.True(t, p.IsValid(), "priority %s", p)
	}
	assert.False(t, TaskPriority("critical").IsValid())
}
