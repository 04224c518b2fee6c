package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praktis/backend/internal/domain/task"
)

// AdvanceModel holds the advance payment columns, embedded under the
// billing_advance_ prefix so SQL aggregation can reach the amounts.
type AdvanceModel struct {
	IsPaid        bool             `gorm:"not null;default:false"`
	Amount        decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	ReceiptNumber string           `gorm:"type:varchar(30)"`
	PaymentMode   task.PaymentMode `gorm:"type:varchar(20)"`
	TransactionID string           `gorm:"type:varchar(100)"`
	PaidAt        *time.Time
	Notes         string     `gorm:"type:text"`
	ReceivedByID  *uuid.UUID `gorm:"type:uuid"`
}

// BillingModel holds the billing columns, embedded under the billing_
// prefix on the tasks table.
type BillingModel struct {
	Advance        AdvanceModel       `gorm:"embedded;embeddedPrefix:advance_"`
	Amount         decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	Discount       decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DueDate        *time.Time         `gorm:"index"`
	PaymentMode    task.PaymentMode   `gorm:"type:varchar(20)"`
	SelectedQRCode string             `gorm:"type:varchar(200)"`
	Status         task.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	PaidAmount     decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TransactionID  string             `gorm:"type:varchar(100)"`
	PaymentNotes   string             `gorm:"type:text"`
	IssuedByID     *uuid.UUID         `gorm:"type:uuid"`
	IssuedAt       *time.Time         `gorm:"index"`
	InvoiceNumber  string             `gorm:"type:varchar(30);index"`
	LetterheadID   *uuid.UUID         `gorm:"type:uuid"`
	PaymentHistory task.PaymentEntries `gorm:"type:jsonb"`
}

// TaskModel is the persistence model for the Task domain entity.
type TaskModel struct {
	OwnedAggregateModel
	ClientID           uuid.UUID     `gorm:"type:uuid;not null;index"`
	Title              string        `gorm:"type:varchar(200);not null"`
	ServiceType        string        `gorm:"type:varchar(100);index"`
	AssessmentYear     string        `gorm:"type:varchar(20)"`
	Period             string        `gorm:"type:varchar(50)"`
	Priority           task.Priority `gorm:"type:varchar(10);not null"`
	Status             task.Status   `gorm:"type:varchar(20);not null;index"`
	DueDate            *time.Time    `gorm:"index"`
	AssignedToID       *uuid.UUID    `gorm:"type:uuid;index"`
	LegacyAssignedName string        `gorm:"type:varchar(200)"`
	Archived           bool          `gorm:"not null;default:false;index"`
	ArchivedAt         *time.Time
	ArchivedByID       *uuid.UUID `gorm:"type:uuid"`
	AutoArchived       bool       `gorm:"not null;default:false"`
	CompletedAt        *time.Time `gorm:"index"`
	Billing            BillingModel `gorm:"embedded;embeddedPrefix:billing_"`
	Notes              task.Notes   `gorm:"type:jsonb"`
	StatusHistory      task.History `gorm:"type:jsonb"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *task.Task {
	return &task.Task{
		OwnedAggregateRoot: m.ToDomainOwnedAggregateRoot(),
		ClientID:           m.ClientID,
		Title:              m.Title,
		ServiceType:        m.ServiceType,
		AssessmentYear:     m.AssessmentYear,
		Period:             m.Period,
		Priority:           m.Priority,
		Status:             m.Status,
		DueDate:            m.DueDate,
		AssignedToID:       m.AssignedToID,
		LegacyAssignedName: m.LegacyAssignedName,
		Archived:           m.Archived,
		ArchivedAt:         m.ArchivedAt,
		ArchivedByID:       m.ArchivedByID,
		AutoArchived:       m.AutoArchived,
		CompletedAt:        m.CompletedAt,
		Billing: task.Billing{
			Advance: task.AdvanceDetails{
				IsPaid:        m.Billing.Advance.IsPaid,
				Amount:        m.Billing.Advance.Amount,
				ReceiptNumber: m.Billing.Advance.ReceiptNumber,
				PaymentMode:   m.Billing.Advance.PaymentMode,
				TransactionID: m.Billing.Advance.TransactionID,
				PaidAt:        m.Billing.Advance.PaidAt,
				Notes:         m.Billing.Advance.Notes,
				ReceivedByID:  m.Billing.Advance.ReceivedByID,
			},
			Amount:         m.Billing.Amount,
			TaxAmount:      m.Billing.TaxAmount,
			Discount:       m.Billing.Discount,
			DueDate:        m.Billing.DueDate,
			PaymentMode:    m.Billing.PaymentMode,
			SelectedQRCode: m.Billing.SelectedQRCode,
			Status:         m.Billing.Status,
			PaidAmount:     m.Billing.PaidAmount,
			TransactionID:  m.Billing.TransactionID,
			PaymentNotes:   m.Billing.PaymentNotes,
			IssuedByID:     m.Billing.IssuedByID,
			IssuedAt:       m.Billing.IssuedAt,
			InvoiceNumber:  m.Billing.InvoiceNumber,
			LetterheadID:   m.Billing.LetterheadID,
			PaymentHistory: m.Billing.PaymentHistory,
		},
		Notes:         m.Notes,
		StatusHistory: m.StatusHistory,
	}
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *task.Task) {
	m.FromDomainOwnedAggregateRoot(t.OwnedAggregateRoot)
	m.ClientID = t.ClientID
	m.Title = t.Title
	m.ServiceType = t.ServiceType
	m.AssessmentYear = t.AssessmentYear
	m.Period = t.Period
	m.Priority = t.Priority
	m.Status = t.Status
	m.DueDate = t.DueDate
	m.AssignedToID = t.AssignedToID
	m.LegacyAssignedName = t.LegacyAssignedName
	m.Archived = t.Archived
	m.ArchivedAt = t.ArchivedAt
	m.ArchivedByID = t.ArchivedByID
	m.AutoArchived = t.AutoArchived
	m.CompletedAt = t.CompletedAt
	m.Billing = BillingModel{
		Advance: AdvanceModel{
			IsPaid:        t.Billing.Advance.IsPaid,
			Amount:        t.Billing.Advance.Amount,
			ReceiptNumber: t.Billing.Advance.ReceiptNumber,
			PaymentMode:   t.Billing.Advance.PaymentMode,
			TransactionID: t.Billing.Advance.TransactionID,
			PaidAt:        t.Billing.Advance.PaidAt,
			Notes:         t.Billing.Advance.Notes,
			ReceivedByID:  t.Billing.Advance.ReceivedByID,
		},
		Amount:         t.Billing.Amount,
		TaxAmount:      t.Billing.TaxAmount,
		Discount:       t.Billing.Discount,
		DueDate:        t.Billing.DueDate,
		PaymentMode:    t.Billing.PaymentMode,
		SelectedQRCode: t.Billing.SelectedQRCode,
		Status:         t.Billing.Status,
		PaidAmount:     t.Billing.PaidAmount,
		TransactionID:  t.Billing.TransactionID,
		PaymentNotes:   t.Billing.PaymentNotes,
		IssuedByID:     t.Billing.IssuedByID,
		IssuedAt:       t.Billing.IssuedAt,
		InvoiceNumber:  t.Billing.InvoiceNumber,
		LetterheadID:   t.Billing.LetterheadID,
		PaymentHistory: t.Billing.PaymentHistory,
	}
	m.Notes = t.Notes
	m.StatusHistory = t.StatusHistory
}

// TaskModelFromDomain creates a new persistence model from a domain Task.
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
