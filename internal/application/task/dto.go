package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praktis/backend/internal/domain/task"
)

// CreateTaskInput contains the input for creating a task
type CreateTaskInput struct {
	ClientID       uuid.UUID
	Title          string
	ServiceType    string
	AssessmentYear string
	Period         string
	Priority       task.Priority
	DueDate        *time.Time
	AssigneeID     *uuid.UUID
	Advance        *AdvanceInput
}

// AdvanceInput contains an advance payment collected at task creation
type AdvanceInput struct {
	Amount        decimal.Decimal
	PaymentMode   task.PaymentMode
	TransactionID string
	Notes         string
}

// UpdateTaskInput contains the editable task fields
type UpdateTaskInput struct {
	Title          string
	ServiceType    string
	AssessmentYear string
	Period         string
	Priority       task.Priority
	DueDate        *time.Time
}

// UpdateStatusInput contains the input for a status change
type UpdateStatusInput struct {
	Status task.Status
	Note   string
}

// ListTasksInput contains filter options for listing tasks
type ListTasksInput struct {
	Keyword    string
	Status     *task.Status
	Priority   *task.Priority
	AssigneeID *uuid.UUID
	ClientID   *uuid.UUID
	Archived   *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// TaskResponse is the outward representation of a task
type TaskResponse struct {
	ID                 uuid.UUID
	ClientID           uuid.UUID
	Title              string
	ServiceType        string
	AssessmentYear     string
	Period             string
	Priority           task.Priority
	Status             task.Status
	DueDate            *time.Time
	AssignedToID       *uuid.UUID
	LegacyAssignedName string
	Archived           bool
	ArchivedAt         *time.Time
	AutoArchived       bool
	CompletedAt        *time.Time
	Billing            BillingInfo
	Notes              task.Notes
	StatusHistory      task.History
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BillingInfo is the outward representation of a task's billing ledger
type BillingInfo struct {
	Status         task.PaymentStatus
	DisplayStatus  task.PaymentStatus
	InvoiceNumber  string
	Amount         decimal.Decimal
	TaxAmount      decimal.Decimal
	Discount       decimal.Decimal
	EffectiveTotal decimal.Decimal
	PaidAmount     decimal.Decimal
	Received       decimal.Decimal
	Remaining      decimal.Decimal
	DueDate        *time.Time
	IssuedAt       *time.Time
	Advance        task.AdvanceDetails
	PaymentHistory task.PaymentEntries
}

// TaskListResult contains a page of tasks
type TaskListResult struct {
	Tasks      []TaskResponse
	TotalCount int64
	Page       int
	PageSize   int
}

// SweepResult reports the outcome of an archive sweep
type SweepResult struct {
	Archived int64
	Cutoff   time.Time
}

// SummaryResult contains per-status task counts for a practice or a
// staff member's workload
type SummaryResult struct {
	ByStatus map[task.Status]int64
	Total    int64
}

func toTaskResponse(t *task.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:                 t.ID,
		ClientID:           t.ClientID,
		Title:              t.Title,
		ServiceType:        t.ServiceType,
		AssessmentYear:     t.AssessmentYear,
		Period:             t.Period,
		Priority:           t.Priority,
		Status:             t.Status,
		DueDate:            t.DueDate,
		AssignedToID:       t.AssignedToID,
		LegacyAssignedName: t.LegacyAssignedName,
		Archived:           t.Archived,
		ArchivedAt:         t.ArchivedAt,
		AutoArchived:       t.AutoArchived,
		CompletedAt:        t.CompletedAt,
		Billing:            toBillingInfo(t.Billing, now),
		Notes:              t.Notes,
		StatusHistory:      t.StatusHistory,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func toBillingInfo(b task.Billing, now time.Time) BillingInfo {
	return BillingInfo{
		Status:         b.Status,
		DisplayStatus:  b.DisplayStatus(now),
		InvoiceNumber:  b.InvoiceNumber,
		Amount:         b.Amount,
		TaxAmount:      b.TaxAmount,
		Discount:       b.Discount,
		EffectiveTotal: b.EffectiveTotal(),
		PaidAmount:     b.PaidAmount,
		Received:       b.Received(),
		Remaining:      b.Remaining(),
		DueDate:        b.DueDate,
		IssuedAt:       b.IssuedAt,
		Advance:        b.Advance,
		PaymentHistory: b.PaymentHistory,
	}
}

func toTaskResponses(tasks []*task.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t, now))
	}
	return out
}
