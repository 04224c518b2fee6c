package task

import (
	"github.com/google/uuid"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Task
const AggregateTypeTask = "Task"

// Task domain event types
const (
	EventTypeTaskCreated       = "TaskCreated"
	EventTypeTaskAssigned      = "TaskAssigned"
	EventTypeTaskStatusChanged = "TaskStatusChanged"
	EventTypeTaskArchived      = "TaskArchived"
	EventTypeTaskRestored      = "TaskRestored"
	EventTypeTaskDeleted       = "TaskDeleted"
	EventTypeAdvanceRecorded   = "AdvanceRecorded"
	EventTypeBillIssued        = "BillIssued"
	EventTypeBillEdited        = "BillEdited"
	EventTypePaymentRecorded   = "PaymentRecorded"
)

// TaskCreatedEvent is published when a task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Title    string    `json:"title"`
	ClientID uuid.UUID `json:"client_id"`
}

// NewTaskCreatedEvent creates a new TaskCreatedEvent
func NewTaskCreatedEvent(t *Task, actorID uuid.UUID) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
		ClientID:        t.ClientID,
	}
}

// TaskAssignedEvent is published when a task is assigned
type TaskAssignedEvent struct {
	shared.BaseDomainEvent
	Title        string    `json:"title"`
	AssigneeID   uuid.UUID `json:"assignee_id"`
	AssigneeName string    `json:"assignee_name"`
}

// NewTaskAssignedEvent creates a new TaskAssignedEvent
func NewTaskAssignedEvent(t *Task, assigneeID uuid.UUID, assigneeName string, actorID uuid.UUID) *TaskAssignedEvent {
	return &TaskAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskAssigned, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
		AssigneeID:      assigneeID,
		AssigneeName:    assigneeName,
	}
}

// TaskStatusChangedEvent is published on every status transition
type TaskStatusChangedEvent struct {
	shared.BaseDomainEvent
	Title     string `json:"title"`
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewTaskStatusChangedEvent creates a new TaskStatusChangedEvent
func NewTaskStatusChangedEvent(t *Task, oldStatus, newStatus Status, actorID uuid.UUID) *TaskStatusChangedEvent {
	return &TaskStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskStatusChanged, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// TaskArchivedEvent is published when a task is archived, manually or by
// the sweep
type TaskArchivedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	Auto  bool   `json:"auto"`
}

// NewTaskArchivedEvent creates a new TaskArchivedEvent
func NewTaskArchivedEvent(t *Task, actorID uuid.UUID, auto bool) *TaskArchivedEvent {
	return &TaskArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskArchived, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
		Auto:            auto,
	}
}

// TaskRestoredEvent is published when an archived task is restored
type TaskRestoredEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewTaskRestoredEvent creates a new TaskRestoredEvent
func NewTaskRestoredEvent(t *Task, actorID uuid.UUID) *TaskRestoredEvent {
	return &TaskRestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskRestored, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
	}
}

// TaskDeletedEvent is published after a permanent delete
type TaskDeletedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewTaskDeletedEvent creates a new TaskDeletedEvent
func NewTaskDeletedEvent(t *Task, actorID uuid.UUID) *TaskDeletedEvent {
	return &TaskDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskDeleted, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
	}
}

// AdvanceRecordedEvent is published when an advance payment is recorded
type AdvanceRecordedEvent struct {
	shared.BaseDomainEvent
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	ReceiptNumber string          `json:"receipt_number"`
}

// NewAdvanceRecordedEvent creates a new AdvanceRecordedEvent
func NewAdvanceRecordedEvent(t *Task, amount decimal.Decimal, receiptNumber string, actorID uuid.UUID) *AdvanceRecordedEvent {
	return &AdvanceRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvanceRecorded, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
		Amount:          amount,
		ReceiptNumber:   receiptNumber,
	}
}

// BillIssuedEvent is published when a bill is issued
type BillIssuedEvent struct {
	shared.BaseDomainEvent
	Title         string          `json:"title"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewBillIssuedEvent creates a new BillIssuedEvent
func NewBillIssuedEvent(t *Task, actorID uuid.UUID) *BillIssuedEvent {
	return &BillIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillIssued, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
		InvoiceNumber:   t.Billing.InvoiceNumber,
		Amount:          t.Billing.Amount,
	}
}

// BillEditedEvent is published when an issued bill's figures change
type BillEditedEvent struct {
	shared.BaseDomainEvent
	Title         string `json:"title"`
	InvoiceNumber string `json:"invoice_number"`
}

// NewBillEditedEvent creates a new BillEditedEvent
func NewBillEditedEvent(t *Task, actorID uuid.UUID) *BillEditedEvent {
	return &BillEditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBillEdited, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
		InvoiceNumber:   t.Billing.InvoiceNumber,
	}
}

// PaymentRecordedEvent is published when a payment is marked against a bill
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Title         string          `json:"title"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	NewStatus     PaymentStatus   `json:"new_status"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(t *Task, amount decimal.Decimal, actorID uuid.UUID) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeTask, t.ID, t.OwnerID, actorID),
		Title:           t.Title,
		InvoiceNumber:   t.Billing.InvoiceNumber,
		Amount:          amount,
		NewStatus:       t.Billing.Status,
	}
}
