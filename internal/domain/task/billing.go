package task

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMode represents how a payment was collected
type PaymentMode string

const (
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeNotSpecified PaymentMode = "NOT_SPECIFIED"
)

// PaymentStatus represents the billing state of a task
type PaymentStatus string

const (
	PaymentStatusNotIssued     PaymentStatus = "NOT_ISSUED"
	PaymentStatusUnpaid        PaymentStatus = "UNPAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"

	// PaymentStatusOverdue is a display label computed at read time.
	// It is never persisted; DisplayStatus produces it for unpaid bills
	// past their due date.
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// DerivePaymentStatus computes the stored payment status from the billing
// figures. Every operation that touches billing amounts goes through this
// one function; handlers never assign the status directly.
func DerivePaymentStatus(amount, taxAmount, discount, advanceAmount, paidAmount decimal.Decimal) PaymentStatus {
	effectiveTotal := amount.Add(taxAmount).Sub(discount)
	received := paidAmount.Add(advanceAmount)

	if received.GreaterThanOrEqual(effectiveTotal) {
		return PaymentStatusPaid
	}
	if received.GreaterThan(decimal.Zero) {
		return PaymentStatusPartiallyPaid
	}
	return PaymentStatusUnpaid
}

// AdvanceDetails records a payment collected before the bill is issued.
// The zero value means no advance was taken.
type AdvanceDetails struct {
	IsPaid        bool            `json:"is_paid"`
	Amount        decimal.Decimal `json:"amount"`
	ReceiptNumber string          `json:"receipt_number"`
	PaymentMode   PaymentMode     `json:"payment_mode"`
	TransactionID string          `json:"transaction_id"`
	PaidAt        *time.Time      `json:"paid_at"`
	Notes         string          `json:"notes"`
	ReceivedByID  *uuid.UUID      `json:"received_by_id"`
}

// PaidPortion returns the advance amount when paid, zero otherwise
func (a AdvanceDetails) PaidPortion() decimal.Decimal {
	if !a.IsPaid {
		return decimal.Zero
	}
	return a.Amount
}

// PaymentEntry is one immutable record in the payment history
type PaymentEntry struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMode   PaymentMode     `json:"payment_mode"`
	TransactionID string          `json:"transaction_id"`
	Notes         string          `json:"notes"`
	RecordedByID  uuid.UUID       `json:"recorded_by_id"`
	PaidAt        time.Time       `json:"paid_at"`
}

// PaymentEntries is a slice of PaymentEntry that implements GORM Scanner/Valuer for JSONB storage
type PaymentEntries []PaymentEntry

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p PaymentEntries) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *PaymentEntries) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentEntries{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentEntries: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentEntries{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Billing is the billing ledger embedded in a task
type Billing struct {
	Advance        AdvanceDetails
	Amount         decimal.Decimal
	TaxAmount      decimal.Decimal
	Discount       decimal.Decimal
	DueDate        *time.Time
	PaymentMode    PaymentMode
	SelectedQRCode string
	Status         PaymentStatus
	PaidAmount     decimal.Decimal
	TransactionID  string
	PaymentNotes   string
	IssuedByID     *uuid.UUID
	IssuedAt       *time.Time
	InvoiceNumber  string
	LetterheadID   *uuid.UUID
	PaymentHistory PaymentEntries
}

// NewBilling returns the billing ledger of a freshly created task
func NewBilling() Billing {
	return Billing{
		Status:         PaymentStatusNotIssued,
		PaymentMode:    PaymentModeNotSpecified,
		PaymentHistory: make(PaymentEntries, 0),
	}
}

// IsIssued returns true once a bill has been issued
func (b Billing) IsIssued() bool {
	return b.IssuedAt != nil
}

// EffectiveTotal returns amount + tax - discount
func (b Billing) EffectiveTotal() decimal.Decimal {
	return b.Amount.Add(b.TaxAmount).Sub(b.Discount)
}

// Received returns cumulative payments plus any paid advance
func (b Billing) Received() decimal.Decimal {
	return b.PaidAmount.Add(b.Advance.PaidPortion())
}

// Remaining returns the outstanding balance, never negative
func (b Billing) Remaining() decimal.Decimal {
	remaining := b.EffectiveTotal().Sub(b.Received())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DisplayStatus returns the status shown to callers. Unpaid bills past
// their due date surface as OVERDUE without any stored transition.
func (b Billing) DisplayStatus(now time.Time) PaymentStatus {
	if b.Status == PaymentStatusUnpaid && b.DueDate != nil && b.DueDate.Before(now) {
		return PaymentStatusOverdue
	}
	return b.Status
}

// HasFinancialHistory reports whether the ledger carries anything that
// must survive for audit: an issued invoice, recorded payments, or a
// paid advance.
func (b Billing) HasFinancialHistory() bool {
	return b.InvoiceNumber != "" || len(b.PaymentHistory) > 0 || b.Advance.IsPaid
}

// AdvanceReceiptNumber formats an advance receipt number for the given
// day and per-day sequence, e.g. ADV-20260831-003.
func AdvanceReceiptNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("ADV-%s-%03d", day.Format("20060102"), seq)
}

func validPaymentMode(mode PaymentMode) bool {
	switch mode {
	case PaymentModeUPI, PaymentModeBankTransfer, PaymentModeCash,
		PaymentModeCheque, PaymentModeNotSpecified:
		return true
	}
	return false
}
