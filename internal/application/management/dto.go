package management

import (
	"time"

	"github.com/google/uuid"

	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/task"
)

// InactiveStaff is one deactivated staff account in the report
type InactiveStaff struct {
	ID        uuid.UUID
	Name      string
	Email     string
	UpdatedAt time.Time
	OpenTasks int64
}

// InactiveClient is one retired client in the report
type InactiveClient struct {
	ID        uuid.UUID
	Name      string
	Code      string
	UpdatedAt time.Time
}

// InactiveReport lists everything a practice has switched off
type InactiveReport struct {
	Staff   []InactiveStaff
	Clients []InactiveClient
}

// OrphanedTask is a task whose assignee is deactivated or deleted
type OrphanedTask struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	Title            string
	Status           task.Status
	AssignedToID     *uuid.UUID
	LegacyAssignedTo string
	DueDate          *time.Time
}

// RemoveStaffResult reports the outcome of a permanent staff removal
type RemoveStaffResult struct {
	StaffID         uuid.UUID
	Name            string
	ReassignedTasks int64
}

func toInactiveStaff(user *identity.User, openTasks int64) InactiveStaff {
	return InactiveStaff{
		ID:        user.ID,
		Name:      user.FullName(),
		Email:     user.Email,
		UpdatedAt: user.UpdatedAt,
		OpenTasks: openTasks,
	}
}

func toInactiveClient(client *directory.Client) InactiveClient {
	return InactiveClient{
		ID:        client.ID,
		Name:      client.Name,
		Code:      client.Code,
		UpdatedAt: client.UpdatedAt,
	}
}

func toOrphanedTask(t *task.Task) OrphanedTask {
	return OrphanedTask{
		ID:               t.ID,
		ClientID:         t.ClientID,
		Title:            t.Title,
		Status:           t.Status,
		AssignedToID:     t.AssignedToID,
		LegacyAssignedTo: t.LegacyAssignedName,
		DueDate:          t.DueDate,
	}
}
