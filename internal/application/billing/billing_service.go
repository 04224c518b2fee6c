package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/billing"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
)

// BillingService handles the billing workflow on tasks: advances, bill
// issuance, payments and the billing dashboard. All operations are
// admin-only.
type BillingService struct {
	taskRepo     task.TaskRepository
	settingsRepo billing.SettingsRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewBillingService creates a new billing workflow service
func NewBillingService(
	taskRepo task.TaskRepository,
	settingsRepo billing.SettingsRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		taskRepo:     taskRepo,
		settingsRepo: settingsRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// RecordAdvance records an advance payment on a task that has none yet
func (s *BillingService) RecordAdvance(ctx context.Context, actor identity.Actor, taskID uuid.UUID, input RecordAdvanceInput) (*BillResponse, error) {
	t, err := s.findOwnedTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	seq, err := s.taskRepo.CountAdvancesOnDay(ctx, actor.AdminID, now)
	if err != nil {
		s.logger.Error("Failed to count advance receipts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to allocate receipt number")
	}
	receipt := task.AdvanceReceiptNumber(now, seq+1)

	if err := t.RecordAdvance(input.Amount, input.PaymentMode, input.TransactionID, input.Notes, receipt, actor.ID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to record advance", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record advance")
	}
	s.publishDomainEvents(ctx, t)

	s.logger.Info("Advance recorded",
		zap.String("task_id", t.ID.String()),
		zap.String("receipt_number", receipt),
		zap.String("amount", input.Amount.String()))

	resp := toBillResponse(t, now)
	return &resp, nil
}

// IssueBill issues the bill for a task, claiming the next invoice number
// from the practice counter. If the counter cannot be claimed, a
// timestamp-based fallback number is used so issuance never blocks.
func (s *BillingService) IssueBill(ctx context.Context, actor identity.Actor, taskID uuid.UUID, input IssueBillInput) (*BillResponse, error) {
	t, err := s.findOwnedTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	invoiceNumber := t.Billing.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = s.claimInvoiceNumber(ctx, actor.AdminID)
	}

	if err := t.IssueBill(input.Amount, input.TaxAmount, input.Discount, input.DueDate, invoiceNumber, actor.ID); err != nil {
		return nil, err
	}
	if input.LetterheadID != nil {
		t.SetLetterhead(input.LetterheadID)
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to issue bill", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to issue bill")
	}
	s.publishDomainEvents(ctx, t)

	s.logger.Info("Bill issued",
		zap.String("task_id", t.ID.String()),
		zap.String("invoice_number", t.Billing.InvoiceNumber))

	resp := toBillResponse(t, time.Now())
	return &resp, nil
}

// EditBill adjusts an issued bill that is not yet fully paid
func (s *BillingService) EditBill(ctx context.Context, actor identity.Actor, taskID uuid.UUID, input EditBillInput) (*BillResponse, error) {
	t, err := s.findOwnedTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := t.EditBill(input.Amount, input.TaxAmount, input.Discount, input.DueDate, actor.ID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to edit bill", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to edit bill")
	}
	s.publishDomainEvents(ctx, t)

	resp := toBillResponse(t, time.Now())
	return &resp, nil
}

// RecordPayment records a payment against an issued bill
func (s *BillingService) RecordPayment(ctx context.Context, actor identity.Actor, taskID uuid.UUID, input RecordPaymentInput) (*BillResponse, error) {
	t, err := s.findOwnedTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := t.RecordPayment(input.Amount, input.PaymentMode, input.TransactionID, input.QRCode, input.Notes, actor.ID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to record payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record payment")
	}
	s.publishDomainEvents(ctx, t)

	s.logger.Info("Payment recorded",
		zap.String("task_id", t.ID.String()),
		zap.String("status", string(t.Billing.Status)))

	resp := toBillResponse(t, time.Now())
	return &resp, nil
}

// GetBilling returns the billing view of one task
func (s *BillingService) GetBilling(ctx context.Context, actor identity.Actor, taskID uuid.UUID) (*BillResponse, error) {
	t, err := s.findOwnedTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	resp := toBillResponse(t, time.Now())
	return &resp, nil
}

// ListBilled returns a page of issued bills plus summary statistics over
// the whole filtered set
func (s *BillingService) ListBilled(ctx context.Context, actor identity.Actor, input ListBilledInput) (*BilledListResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	filter := task.NewBillingFilter()
	filter.Keyword = input.Keyword
	filter.Status = input.Status
	filter.ClientID = input.ClientID
	filter.From = input.From
	filter.To = input.To
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	tasks, total, err := s.taskRepo.FindBilled(ctx, actor.AdminID, filter)
	if err != nil {
		s.logger.Error("Failed to list bills", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list bills")
	}

	summary, err := s.taskRepo.SummarizeBilling(ctx, actor.AdminID, filter)
	if err != nil {
		s.logger.Error("Failed to summarize bills", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to summarize bills")
	}

	now := time.Now()
	bills := make([]BillResponse, 0, len(tasks))
	for _, t := range tasks {
		bills = append(bills, toBillResponse(t, now))
	}

	return &BilledListResult{
		Bills:      bills,
		Summary:    summary,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}

// claimInvoiceNumber claims the next counter value and formats it with
// the practice prefix. Counter failures fall back to a timestamp-based
// number; issuance never fails on the counter.
func (s *BillingService) claimInvoiceNumber(ctx context.Context, adminID uuid.UUID) string {
	n, err := s.settingsRepo.NextInvoiceNumber(ctx, adminID)
	if err != nil {
		s.logger.Warn("Invoice counter unavailable, using fallback number", zap.Error(err))
		return billing.FallbackInvoiceNumber(time.Now())
	}

	settings, err := s.settingsRepo.FindByAdminID(ctx, adminID)
	if err != nil {
		s.logger.Warn("Payment settings unavailable, using fallback number", zap.Error(err))
		return billing.FallbackInvoiceNumber(time.Now())
	}

	return settings.FormatInvoiceNumber(n)
}

func (s *BillingService) findOwnedTask(ctx context.Context, actor identity.Actor, taskID uuid.UUID) (*task.Task, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	t, err := s.taskRepo.FindByIDForOwner(ctx, actor.AdminID, taskID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return t, nil
}

func (s *BillingService) publishDomainEvents(ctx context.Context, t *task.Task) {
	if s.publisher == nil {
		return
	}
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	t.ClearDomainEvents()
}
