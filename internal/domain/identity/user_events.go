package identity

import (
	"github.com/praktis/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserDeactivated = "UserDeactivated"
	EventTypeUserActivated   = "UserActivated"
	EventTypeStaffRemoved    = "StaffRemoved"
)

// UserCreatedEvent is published when an account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, user.ID, user.AdminID, user.AdminID),
		Email:           user.Email,
		Name:            user.FullName(),
		Role:            user.Role,
	}
}

// UserDeactivatedEvent is published when an account is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, user.ID, user.AdminID, user.AdminID),
		Email:           user.Email,
		Name:            user.FullName(),
	}
}

// UserActivatedEvent is published when an account is re-enabled
type UserActivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserActivatedEvent creates a new UserActivatedEvent
func NewUserActivatedEvent(user *User) *UserActivatedEvent {
	return &UserActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserActivated, AggregateTypeUser, user.ID, user.AdminID, user.AdminID),
		Email:           user.Email,
		Name:            user.FullName(),
	}
}

// StaffRemovedEvent is published when a staff account is permanently deleted.
// ReassignedTasks is the number of tasks that received legacy attribution.
type StaffRemovedEvent struct {
	shared.BaseDomainEvent
	Name            string `json:"name"`
	ReassignedTasks int64  `json:"reassigned_tasks"`
}

// NewStaffRemovedEvent creates a new StaffRemovedEvent
func NewStaffRemovedEvent(user *User, actor Actor, reassigned int64) *StaffRemovedEvent {
	return &StaffRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStaffRemoved, AggregateTypeUser, user.ID, user.AdminID, actor.ID),
		Name:            user.FullName(),
		ReassignedTasks: reassigned,
	}
}
