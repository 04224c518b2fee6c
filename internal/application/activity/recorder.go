package activity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/activity"
	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
)

// Recorder subscribes to the event bus and turns notable domain events
// into activity records. Recording is best effort: a failed insert is
// logged and swallowed so it can never roll back the mutation that
// produced the event.
type Recorder struct {
	repo   activity.ActivityRepository
	logger *zap.Logger
}

// NewRecorder creates a new activity recorder
func NewRecorder(repo activity.ActivityRepository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// EventTypes returns the event types the recorder listens for
func (r *Recorder) EventTypes() []string {
	return []string{
		task.EventTypeTaskCreated,
		task.EventTypeTaskAssigned,
		task.EventTypeTaskStatusChanged,
		task.EventTypeTaskArchived,
		task.EventTypeTaskRestored,
		task.EventTypeTaskDeleted,
		task.EventTypeAdvanceRecorded,
		task.EventTypeBillIssued,
		task.EventTypeBillEdited,
		task.EventTypePaymentRecorded,
		identity.EventTypeUserCreated,
		identity.EventTypeUserDeactivated,
		identity.EventTypeUserActivated,
		identity.EventTypeStaffRemoved,
		directory.EventTypeClientCreated,
		directory.EventTypeClientRetired,
		directory.EventTypeClientReactivated,
		directory.EventTypeClientDeleted,
	}
}

// Handle maps one domain event to an activity record
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	record, err := r.toActivity(event)
	if err != nil {
		r.logger.Warn("Failed to build activity record",
			zap.String("event_type", event.EventType()), zap.Error(err))
		return nil
	}
	if record == nil {
		return nil
	}

	if err := r.repo.Create(ctx, record); err != nil {
		r.logger.Warn("Failed to store activity record",
			zap.String("event_type", event.EventType()), zap.Error(err))
	}
	return nil
}

func (r *Recorder) toActivity(event shared.DomainEvent) (*activity.Activity, error) {
	activityType, priority := classify(event)
	description := describe(event)
	if description == "" {
		return nil, nil
	}

	record, err := activity.New(event.OwnerID(), event.ActorID(), activityType, event.EventType(), description, priority)
	if err != nil {
		return nil, err
	}
	return record.WithRelated(event.AggregateType(), event.AggregateID()), nil
}

func classify(event shared.DomainEvent) (string, activity.Priority) {
	switch event.EventType() {
	case task.EventTypeBillIssued, task.EventTypeBillEdited:
		return activity.TypeBilling, activity.PriorityImportant
	case task.EventTypeAdvanceRecorded, task.EventTypePaymentRecorded:
		return activity.TypePayment, activity.PriorityImportant
	case task.EventTypeTaskDeleted:
		return activity.TypeTask, activity.PriorityImportant
	case task.EventTypeTaskCreated, task.EventTypeTaskAssigned,
		task.EventTypeTaskStatusChanged, task.EventTypeTaskArchived,
		task.EventTypeTaskRestored:
		return activity.TypeTask, activity.PriorityInfo
	case identity.EventTypeStaffRemoved:
		return activity.TypeUser, activity.PriorityCritical
	case identity.EventTypeUserCreated, identity.EventTypeUserDeactivated,
		identity.EventTypeUserActivated:
		return activity.TypeUser, activity.PriorityInfo
	case directory.EventTypeClientDeleted:
		return activity.TypeClient, activity.PriorityCritical
	default:
		return activity.TypeClient, activity.PriorityInfo
	}
}

func describe(event shared.DomainEvent) string {
	switch e := event.(type) {
	case *task.TaskCreatedEvent:
		return fmt.Sprintf("Task %q created", e.Title)
	case *task.TaskAssignedEvent:
		return fmt.Sprintf("Task %q assigned to %s", e.Title, e.AssigneeName)
	case *task.TaskStatusChangedEvent:
		return fmt.Sprintf("Task %q moved from %s to %s", e.Title, e.OldStatus, e.NewStatus)
	case *task.TaskArchivedEvent:
		if e.Auto {
			return fmt.Sprintf("Task %q auto-archived", e.Title)
		}
		return fmt.Sprintf("Task %q archived", e.Title)
	case *task.TaskRestoredEvent:
		return fmt.Sprintf("Task %q restored from archive", e.Title)
	case *task.TaskDeletedEvent:
		return fmt.Sprintf("Task %q permanently deleted", e.Title)
	case *task.AdvanceRecordedEvent:
		return fmt.Sprintf("Advance of %s received for %q (receipt %s)", e.Amount, e.Title, e.ReceiptNumber)
	case *task.BillIssuedEvent:
		return fmt.Sprintf("Invoice %s issued for %q", e.InvoiceNumber, e.Title)
	case *task.BillEditedEvent:
		return fmt.Sprintf("Invoice %s updated for %q", e.InvoiceNumber, e.Title)
	case *task.PaymentRecordedEvent:
		return fmt.Sprintf("Payment of %s received against invoice %s", e.Amount, e.InvoiceNumber)
	case *identity.UserCreatedEvent:
		return fmt.Sprintf("Account created for %s", e.Name)
	case *identity.UserDeactivatedEvent:
		return fmt.Sprintf("Account for %s deactivated", e.Name)
	case *identity.UserActivatedEvent:
		return fmt.Sprintf("Account for %s reactivated", e.Name)
	case *identity.StaffRemovedEvent:
		return fmt.Sprintf("Staff member %s removed, %d tasks kept their name", e.Name, e.ReassignedTasks)
	case *directory.ClientCreatedEvent:
		return fmt.Sprintf("Client %q added", e.Name)
	case *directory.ClientRetiredEvent:
		return fmt.Sprintf("Client %q retired", e.Name)
	case *directory.ClientReactivatedEvent:
		return fmt.Sprintf("Client %q reactivated", e.Name)
	case *directory.ClientDeletedEvent:
		return fmt.Sprintf("Client %q permanently deleted along with %d archived tasks", e.Name, e.DeletedTasks)
	default:
		return ""
	}
}
