package task

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the work state of a task
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Priority represents the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// Default due date for issued bills
const defaultBillDueDays = 15

// HistoryStatusAssigned marks assignment entries in the status history.
// It sits alongside the work statuses, not in the Status enum.
const HistoryStatusAssigned = "ASSIGNED"

// Note is one free-form note attached to a task
type Note struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notes is a slice of Note that implements GORM Scanner/Valuer for JSONB storage
type Notes []Note

// Value implements driver.Valuer interface for GORM to store as JSONB
func (n Notes) Value() (driver.Value, error) {
	if n == nil {
		return "[]", nil
	}
	return json.Marshal(n)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (n *Notes) Scan(value interface{}) error {
	if value == nil {
		*n = Notes{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Notes: unsupported type")
	}

	if len(bytes) == 0 {
		*n = Notes{}
		return nil
	}

	return json.Unmarshal(bytes, n)
}

// HistoryEntry is one immutable record in the status history.
// Status is a plain string so assignment markers can live next to the
// work statuses.
type HistoryEntry struct {
	ID          uuid.UUID `json:"id"`
	Status      string    `json:"status"`
	Note        string    `json:"note"`
	ChangedByID uuid.UUID `json:"changed_by_id"`
	ChangedAt   time.Time `json:"changed_at"`
}

// History is a slice of HistoryEntry that implements GORM Scanner/Valuer for JSONB storage
type History []HistoryEntry

// Value implements driver.Valuer interface for GORM to store as JSONB
func (h History) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	return json.Marshal(h)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (h *History) Scan(value interface{}) error {
	if value == nil {
		*h = History{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan History: unsupported type")
	}

	if len(bytes) == 0 {
		*h = History{}
		return nil
	}

	return json.Unmarshal(bytes, h)
}

// Task represents one unit of work performed for a client
type Task struct {
	shared.OwnedAggregateRoot
	ClientID           uuid.UUID
	Title              string
	ServiceType        string
	AssessmentYear     string
	Period             string
	Priority           Priority
	Status             Status
	DueDate            *time.Time
	AssignedToID       *uuid.UUID
	LegacyAssignedName string
	Archived           bool
	ArchivedAt         *time.Time
	ArchivedByID       *uuid.UUID
	AutoArchived       bool
	CompletedAt        *time.Time
	Billing            Billing
	Notes              Notes
	StatusHistory      History
}

// NewTask creates a new task for a client
func NewTask(ownerID, clientID uuid.UUID, title string, createdBy uuid.UUID) (*Task, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER_ID", "Owner ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT_ID", "Client ID cannot be empty")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}

	t := &Task{
		OwnedAggregateRoot: shared.NewOwnedAggregateRootWithCreator(ownerID, createdBy),
		ClientID:           clientID,
		Title:              title,
		Priority:           PriorityNormal,
		Status:             StatusNotStarted,
		Billing:            NewBilling(),
		Notes:              make(Notes, 0),
		StatusHistory:      make(History, 0),
	}

	t.appendHistory(string(StatusNotStarted), "", createdBy)
	t.AddDomainEvent(NewTaskCreatedEvent(t, createdBy))

	return t, nil
}

// SetDetails updates the descriptive fields that remain editable
func (t *Task) SetDetails(serviceType, assessmentYear, period string, priority Priority, dueDate *time.Time) error {
	if t.Archived {
		return shared.ErrArchived
	}
	if priority != "" && !validPriority(priority) {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown priority")
	}

	t.ServiceType = strings.TrimSpace(serviceType)
	t.AssessmentYear = strings.TrimSpace(assessmentYear)
	t.Period = strings.TrimSpace(period)
	if priority != "" {
		t.Priority = priority
	}
	t.DueDate = dueDate
	t.touch()
	return nil
}

// Rename changes the task title
func (t *Task) Rename(title string) error {
	if t.Archived {
		return shared.ErrArchived
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}

	t.Title = title
	t.touch()
	return nil
}

// Assign sets the assignee and appends an ASSIGNED history entry.
// Completed tasks cannot be re-assigned; archived tasks must be restored
// first.
func (t *Task) Assign(assigneeID uuid.UUID, assigneeName string, actorID uuid.UUID) error {
	if t.Archived {
		return shared.ErrArchived
	}
	if t.Status == StatusCompleted {
		return shared.NewDomainError("TASK_COMPLETED", "Cannot re-assign a completed task")
	}
	if assigneeID == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee ID cannot be empty")
	}

	t.AssignedToID = &assigneeID
	t.LegacyAssignedName = ""
	t.appendHistory(HistoryStatusAssigned, "Assigned to "+assigneeName, actorID)
	t.touch()

	t.AddDomainEvent(NewTaskAssignedEvent(t, assigneeID, assigneeName, actorID))

	return nil
}

// UpdateStatus transitions the work status. The first transition into
// COMPLETED stamps CompletedAt; later transitions never reset it.
func (t *Task) UpdateStatus(newStatus Status, note string, actorID uuid.UUID) error {
	if t.Archived {
		return shared.ErrArchived
	}
	if !validStatus(newStatus) {
		return shared.NewDomainError("INVALID_STATUS", "Unknown status")
	}
	if newStatus == t.Status {
		return shared.NewDomainError("SAME_STATUS", "Task is already in this status")
	}

	oldStatus := t.Status
	t.Status = newStatus
	if newStatus == StatusCompleted && t.CompletedAt == nil {
		now := time.Now()
		t.CompletedAt = &now
	}

	if note == "" {
		note = fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus)
	}
	t.appendHistory(string(newStatus), note, actorID)
	t.touch()

	t.AddDomainEvent(NewTaskStatusChangedEvent(t, oldStatus, newStatus, actorID))

	return nil
}

// AddNote appends a free-form note
func (t *Task) AddNote(text, authorName string, authorID uuid.UUID) error {
	if t.Archived {
		return shared.ErrArchived
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return shared.NewDomainError("INVALID_NOTE", "Note text cannot be empty")
	}

	t.Notes = append(t.Notes, Note{
		ID:         uuid.New(),
		Text:       text,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  time.Now(),
	})
	t.touch()
	return nil
}

// Archive moves the task out of active listings
func (t *Task) Archive(actorID uuid.UUID) error {
	if t.Archived {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Task is already archived")
	}

	now := time.Now()
	t.Archived = true
	t.ArchivedAt = &now
	t.ArchivedByID = &actorID
	t.AutoArchived = false
	t.touch()

	t.AddDomainEvent(NewTaskArchivedEvent(t, actorID, false))

	return nil
}

// Restore brings an archived task back
func (t *Task) Restore(actorID uuid.UUID) error {
	if !t.Archived {
		return shared.ErrNotArchived
	}

	t.Archived = false
	t.ArchivedAt = nil
	t.ArchivedByID = nil
	t.AutoArchived = false
	t.touch()

	t.AddDomainEvent(NewTaskRestoredEvent(t, actorID))

	return nil
}

// CanPermanentlyDelete reports whether hard deletion is allowed.
// Completed tasks and tasks carrying financial history are protected.
func (t *Task) CanPermanentlyDelete() error {
	if t.Status == StatusCompleted {
		return shared.NewDomainError("TASK_COMPLETED", "Completed tasks cannot be deleted")
	}
	if t.Billing.HasFinancialHistory() {
		return shared.NewDomainError("HAS_FINANCIAL_HISTORY", "Tasks with billing history cannot be deleted")
	}
	return nil
}

// ClearAssignee removes the assignee reference, snapshotting the given
// name for permanent attribution. Used when a staff account is deleted.
func (t *Task) ClearAssignee(legacyName string) {
	t.AssignedToID = nil
	t.LegacyAssignedName = legacyName
	t.touch()
}

// AssigneeLabel returns the current assignee name or the legacy snapshot
func (t *Task) AssigneeLabel(liveName string) string {
	if t.AssignedToID != nil {
		return liveName
	}
	return t.LegacyAssignedName
}

// RecordAdvance records a payment collected before any bill exists
func (t *Task) RecordAdvance(amount decimal.Decimal, mode PaymentMode, transactionID, notes, receiptNumber string, receivedBy uuid.UUID) error {
	if t.Billing.Advance.IsPaid {
		return shared.NewDomainError("ADVANCE_ALREADY_PAID", "An advance has already been recorded")
	}
	if !amount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Advance amount must be positive")
	}
	if mode == "" {
		mode = PaymentModeNotSpecified
	}
	if !validPaymentMode(mode) {
		return shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode")
	}

	now := time.Now()
	t.Billing.Advance = AdvanceDetails{
		IsPaid:        true,
		Amount:        amount,
		ReceiptNumber: receiptNumber,
		PaymentMode:   mode,
		TransactionID: transactionID,
		PaidAt:        &now,
		Notes:         notes,
		ReceivedByID:  &receivedBy,
	}
	if t.Billing.IsIssued() {
		t.rederiveStatus()
	}
	t.touch()

	t.AddDomainEvent(NewAdvanceRecordedEvent(t, amount, receiptNumber, receivedBy))

	return nil
}

// IssueBill issues (or re-issues) the bill. A paid advance survives
// re-issue untouched. The due date defaults to 15 days from issuance.
func (t *Task) IssueBill(amount, taxAmount, discount decimal.Decimal, dueDate *time.Time, invoiceNumber string, issuedBy uuid.UUID) error {
	if !amount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Bill amount must be positive")
	}
	if taxAmount.IsNegative() || discount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Tax and discount cannot be negative")
	}
	if invoiceNumber == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if t.Billing.Status == PaymentStatusPaid {
		return shared.NewDomainError("BILL_PAID", "A fully paid bill cannot be re-issued")
	}

	now := time.Now()
	if dueDate == nil {
		d := now.AddDate(0, 0, defaultBillDueDays)
		dueDate = &d
	}

	// Invoice numbers are assigned once; re-issue keeps the original.
	if t.Billing.InvoiceNumber == "" {
		t.Billing.InvoiceNumber = invoiceNumber
	}
	t.Billing.Amount = amount
	t.Billing.TaxAmount = taxAmount
	t.Billing.Discount = discount
	t.Billing.DueDate = dueDate
	t.Billing.PaymentMode = PaymentModeNotSpecified
	t.Billing.IssuedByID = &issuedBy
	t.Billing.IssuedAt = &now
	t.rederiveStatus()
	t.touch()

	t.AddDomainEvent(NewBillIssuedEvent(t, issuedBy))

	return nil
}

// EditBill adjusts the billable figures of an issued, not yet fully
// paid bill.
func (t *Task) EditBill(amount, taxAmount, discount decimal.Decimal, dueDate *time.Time, actorID uuid.UUID) error {
	if !t.Billing.IsIssued() {
		return shared.ErrBillNotIssued
	}
	if t.Billing.Status == PaymentStatusPaid {
		return shared.NewDomainError("BILL_PAID", "A fully paid bill cannot be edited")
	}
	if !amount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Bill amount must be positive")
	}
	if taxAmount.IsNegative() || discount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Tax and discount cannot be negative")
	}

	t.Billing.Amount = amount
	t.Billing.TaxAmount = taxAmount
	t.Billing.Discount = discount
	if dueDate != nil {
		t.Billing.DueDate = dueDate
	}
	t.rederiveStatus()
	t.touch()

	t.AddDomainEvent(NewBillEditedEvent(t, actorID))

	return nil
}

// RecordPayment appends one payment to the history and re-derives the
// status. A nil amount pays the full outstanding balance.
func (t *Task) RecordPayment(amount *decimal.Decimal, mode PaymentMode, transactionID, qrCode, notes string, recordedBy uuid.UUID) error {
	if !t.Billing.IsIssued() {
		return shared.ErrBillNotIssued
	}
	if t.Billing.Status == PaymentStatusPaid {
		return shared.NewDomainError("BILL_PAID", "Bill is already fully paid")
	}
	if mode == "" {
		mode = PaymentModeNotSpecified
	}
	if !validPaymentMode(mode) {
		return shared.NewDomainError("INVALID_PAYMENT_MODE", "Unknown payment mode")
	}

	paid := t.Billing.Remaining()
	if amount != nil {
		paid = *amount
	}
	if !paid.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	now := time.Now()
	t.Billing.PaymentHistory = append(t.Billing.PaymentHistory, PaymentEntry{
		ID:            uuid.New(),
		Amount:        paid,
		PaymentMode:   mode,
		TransactionID: transactionID,
		Notes:         notes,
		RecordedByID:  recordedBy,
		PaidAt:        now,
	})
	t.Billing.PaidAmount = t.Billing.PaidAmount.Add(paid)
	t.Billing.PaymentMode = mode
	t.Billing.SelectedQRCode = qrCode
	t.Billing.TransactionID = transactionID
	t.Billing.PaymentNotes = notes
	t.rederiveStatus()
	t.touch()

	t.AddDomainEvent(NewPaymentRecordedEvent(t, paid, recordedBy))

	return nil
}

// SetLetterhead selects the letterhead used when rendering the invoice
func (t *Task) SetLetterhead(letterheadID *uuid.UUID) {
	t.Billing.LetterheadID = letterheadID
	t.touch()
}

func (t *Task) rederiveStatus() {
	t.Billing.Status = DerivePaymentStatus(
		t.Billing.Amount,
		t.Billing.TaxAmount,
		t.Billing.Discount,
		t.Billing.Advance.PaidPortion(),
		t.Billing.PaidAmount,
	)
}

func (t *Task) appendHistory(status, note string, changedBy uuid.UUID) {
	t.StatusHistory = append(t.StatusHistory, HistoryEntry{
		ID:          uuid.New(),
		Status:      status,
		Note:        note,
		ChangedByID: changedBy,
		ChangedAt:   time.Now(),
	})
}

func (t *Task) touch() {
	t.Touch()
	t.IncrementVersion()
}

func validStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}
