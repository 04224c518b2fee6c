package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
	"github.com/praktis/backend/internal/infrastructure/notification"
)

// Notifier listens for the events worth telling people about and hands
// them to a notification sender. Delivery failures are logged and
// swallowed so notifications never block the operation that raised the
// event.
type Notifier struct {
	userRepo identity.UserRepository
	sender   notification.Sender
	logger   *zap.Logger
}

// NewNotifier creates a notifier backed by the given sender
func NewNotifier(userRepo identity.UserRepository, sender notification.Sender, logger *zap.Logger) *Notifier {
	return &Notifier{
		userRepo: userRepo,
		sender:   sender,
		logger:   logger,
	}
}

// EventTypes returns the event types the notifier reacts to
func (n *Notifier) EventTypes() []string {
	return []string{
		task.EventTypeTaskAssigned,
		task.EventTypeBillIssued,
		task.EventTypePaymentRecorded,
		identity.EventTypeStaffRemoved,
	}
}

// Handle composes and sends the notification for one event
func (n *Notifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	recipientID := event.OwnerID()
	var subject, body string

	switch e := event.(type) {
	case *task.TaskAssignedEvent:
		recipientID = e.AssigneeID
		subject = "Task assigned to you"
		body = fmt.Sprintf("You have been assigned the task %q.", e.Title)
	case *task.BillIssuedEvent:
		subject = fmt.Sprintf("Bill %s issued", e.InvoiceNumber)
		body = fmt.Sprintf("Bill %s for %s was issued on task %q.", e.InvoiceNumber, e.Amount.StringFixed(2), e.Title)
	case *task.PaymentRecordedEvent:
		subject = "Payment received"
		body = fmt.Sprintf("A payment of %s was recorded on task %q. The bill is now %s.", e.Amount.StringFixed(2), e.Title, e.NewStatus)
	case *identity.StaffRemovedEvent:
		subject = "Staff account removed"
		body = fmt.Sprintf("The account of %s was removed. %d open tasks were moved to legacy attribution.", e.Name, e.ReassignedTasks)
	default:
		return nil
	}

	recipient, err := n.userRepo.FindByID(ctx, recipientID)
	if err != nil {
		n.logger.Warn("Failed to resolve notification recipient",
			zap.String("event_type", event.EventType()),
			zap.String("recipient_id", recipientID.String()),
			zap.Error(err))
		return nil
	}

	msg := notification.Message{
		To:      recipient.Email,
		Subject: subject,
		Body:    body,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Warn("Failed to send notification",
			zap.String("event_type", event.EventType()),
			zap.String("to", recipient.Email),
			zap.Error(err))
	}
	return nil
}
