package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praktis/backend/internal/domain/billing"
	"github.com/praktis/backend/internal/domain/task"
)

// RecordAdvanceInput contains the input for recording an advance payment
type RecordAdvanceInput struct {
	Amount        decimal.Decimal
	PaymentMode   task.PaymentMode
	TransactionID string
	Notes         string
}

// IssueBillInput contains the input for issuing a bill
type IssueBillInput struct {
	Amount       decimal.Decimal
	TaxAmount    decimal.Decimal
	Discount     decimal.Decimal
	DueDate      *time.Time
	LetterheadID *uuid.UUID
}

// EditBillInput contains the input for editing an issued bill
type EditBillInput struct {
	Amount    decimal.Decimal
	TaxAmount decimal.Decimal
	Discount  decimal.Decimal
	DueDate   *time.Time
}

// RecordPaymentInput contains the input for recording a payment.
// A nil Amount settles the full outstanding balance.
type RecordPaymentInput struct {
	Amount        *decimal.Decimal
	PaymentMode   task.PaymentMode
	TransactionID string
	QRCode        string
	Notes         string
}

// ListBilledInput contains filter options for the billing dashboard
type ListBilledInput struct {
	Keyword  string
	Status   *task.PaymentStatus
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// BillResponse is the billing view of one task
type BillResponse struct {
	TaskID         uuid.UUID
	ClientID       uuid.UUID
	Title          string
	InvoiceNumber  string
	Status         task.PaymentStatus
	DisplayStatus  task.PaymentStatus
	Amount         decimal.Decimal
	TaxAmount      decimal.Decimal
	Discount       decimal.Decimal
	EffectiveTotal decimal.Decimal
	Received       decimal.Decimal
	Remaining      decimal.Decimal
	DueDate        *time.Time
	IssuedAt       *time.Time
	Advance        task.AdvanceDetails
	PaymentHistory task.PaymentEntries
	LetterheadID   *uuid.UUID
}

// BilledListResult contains a page of bills plus summary statistics
// computed over the whole filtered set
type BilledListResult struct {
	Bills      []BillResponse
	Summary    *task.BillingSummary
	TotalCount int64
	Page       int
	PageSize   int
}

// SettingsResponse is the outward representation of payment settings
type SettingsResponse struct {
	AdminID           uuid.UUID
	DefaultCurrency   string
	TaxEnabled        bool
	TaxPercentage     decimal.Decimal
	InvoicePrefix     string
	NextInvoiceNumber int64
	QRCodes           billing.QRCodes
	BankAccounts      billing.BankAccounts
	Letterheads       billing.Letterheads
}

// UpdateSettingsInput contains the editable settings fields
type UpdateSettingsInput struct {
	TaxEnabled    *bool
	TaxPercentage *decimal.Decimal
	InvoicePrefix string
}

// AddQRCodeInput contains the input for registering a payment QR code
type AddQRCodeInput struct {
	Name     string
	UPIID    string
	ImageKey string
}

// AddBankAccountInput contains the input for registering a bank account
type AddBankAccountInput struct {
	BankName      string
	AccountName   string
	AccountNumber string
	IFSC          string
	Branch        string
}

// AddLetterheadInput contains the input for registering a letterhead
type AddLetterheadInput struct {
	Name     string
	ImageKey string
}

// UploadURLResult carries a presigned upload target
type UploadURLResult struct {
	UploadURL string
	PublicURL string
	ExpiresAt time.Time
	Key       string
}

func toBillResponse(t *task.Task, now time.Time) BillResponse {
	b := t.Billing
	return BillResponse{
		TaskID:         t.ID,
		ClientID:       t.ClientID,
		Title:          t.Title,
		InvoiceNumber:  b.InvoiceNumber,
		Status:         b.Status,
		DisplayStatus:  b.DisplayStatus(now),
		Amount:         b.Amount,
		TaxAmount:      b.TaxAmount,
		Discount:       b.Discount,
		EffectiveTotal: b.EffectiveTotal(),
		Received:       b.Received(),
		Remaining:      b.Remaining(),
		DueDate:        b.DueDate,
		IssuedAt:       b.IssuedAt,
		Advance:        b.Advance,
		PaymentHistory: b.PaymentHistory,
		LetterheadID:   b.LetterheadID,
	}
}

func toSettingsResponse(s *billing.PaymentSettings) SettingsResponse {
	return SettingsResponse{
		AdminID:           s.AdminID,
		DefaultCurrency:   s.DefaultCurrency,
		TaxEnabled:        s.TaxEnabled,
		TaxPercentage:     s.TaxPercentage,
		InvoicePrefix:     s.InvoicePrefix,
		NextInvoiceNumber: s.NextInvoiceNumber,
		QRCodes:           s.QRCodes,
		BankAccounts:      s.BankAccounts,
		Letterheads:       s.Letterheads,
	}
}
