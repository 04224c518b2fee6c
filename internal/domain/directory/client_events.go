package directory

import (
	"github.com/google/uuid"
	"github.com/praktis/backend/internal/domain/shared"
)

// Aggregate type constant for Client
const AggregateTypeClient = "Client"

// Client domain event types
const (
	EventTypeClientCreated     = "ClientCreated"
	EventTypeClientRetired     = "ClientRetired"
	EventTypeClientReactivated = "ClientReactivated"
	EventTypeClientDeleted     = "ClientDeleted"
)

// ClientCreatedEvent is published when a client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name string     `json:"name"`
	Type ClientType `json:"type"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(client *Client, actorID uuid.UUID) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, client.ID, client.OwnerID, actorID),
		Name:            client.Name,
		Type:            client.Type,
	}
}

// ClientRetiredEvent is published when a client is soft-retired
type ClientRetiredEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientRetiredEvent creates a new ClientRetiredEvent
func NewClientRetiredEvent(client *Client, actorID uuid.UUID) *ClientRetiredEvent {
	return &ClientRetiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientRetired, AggregateTypeClient, client.ID, client.OwnerID, actorID),
		Name:            client.Name,
	}
}

// ClientReactivatedEvent is published when a retired client is restored
type ClientReactivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientReactivatedEvent creates a new ClientReactivatedEvent
func NewClientReactivatedEvent(client *Client, actorID uuid.UUID) *ClientReactivatedEvent {
	return &ClientReactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientReactivated, AggregateTypeClient, client.ID, client.OwnerID, actorID),
		Name:            client.Name,
	}
}

// ClientDeletedEvent is published when a client is hard-deleted.
// DeletedTasks is the number of archived tasks removed in the cascade.
type ClientDeletedEvent struct {
	shared.BaseDomainEvent
	Name         string `json:"name"`
	DeletedTasks int64  `json:"deleted_tasks"`
}

// NewClientDeletedEvent creates a new ClientDeletedEvent
func NewClientDeletedEvent(client *Client, actorID uuid.UUID, deletedTasks int64) *ClientDeletedEvent {
	return &ClientDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientDeleted, AggregateTypeClient, client.ID, client.OwnerID, actorID),
		Name:            client.Name,
		DeletedTasks:    deletedTasks,
	}
}
