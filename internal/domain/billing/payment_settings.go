package billing

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Default invoice prefix and currency for fresh settings
const (
	DefaultInvoicePrefix = "INV"
	DefaultCurrency      = "INR"
)

// QRCode is a stored payment QR code. ImageURL points at the uploaded
// image; the upload itself is handled by the storage layer.
type QRCode struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UPIID     string    `json:"upi_id"`
	ImageURL  string    `json:"image_url"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// QRCodes is a slice of QRCode that implements GORM Scanner/Valuer for JSONB storage
type QRCodes []QRCode

// Value implements driver.Valuer interface for GORM to store as JSONB
func (q QRCodes) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	return json.Marshal(q)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (q *QRCodes) Scan(value interface{}) error {
	return scanJSON(value, q, func() { *q = QRCodes{} })
}

// BankAccount is a stored bank account shown on invoices
type BankAccount struct {
	ID            uuid.UUID `json:"id"`
	BankName      string    `json:"bank_name"`
	AccountName   string    `json:"account_name"`
	AccountNumber string    `json:"account_number"`
	IFSC          string    `json:"ifsc"`
	Branch        string    `json:"branch"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// BankAccounts is a slice of BankAccount that implements GORM Scanner/Valuer for JSONB storage
type BankAccounts []BankAccount

// Value implements driver.Valuer interface for GORM to store as JSONB
func (b BankAccounts) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (b *BankAccounts) Scan(value interface{}) error {
	return scanJSON(value, b, func() { *b = BankAccounts{} })
}

// Letterhead is a named firm-identity template used when rendering
// invoices. At most one letterhead is the default at any time.
type Letterhead struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	IsDefault bool      `json:"is_default"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Letterheads is a slice of Letterhead that implements GORM Scanner/Valuer for JSONB storage
type Letterheads []Letterhead

// Value implements driver.Valuer interface for GORM to store as JSONB
func (l Letterheads) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (l *Letterheads) Scan(value interface{}) error {
	return scanJSON(value, l, func() { *l = Letterheads{} })
}

func scanJSON(value interface{}, dest interface{}, reset func()) error {
	if value == nil {
		reset()
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan JSONB column: unsupported type")
	}

	if len(bytes) == 0 {
		reset()
		return nil
	}

	return json.Unmarshal(bytes, dest)
}

// PaymentSettings holds one practice's billing configuration. Exactly
// one record exists per admin.
type PaymentSettings struct {
	shared.BaseAggregateRoot
	AdminID           uuid.UUID
	DefaultCurrency   string
	TaxEnabled        bool
	TaxPercentage     decimal.Decimal
	InvoicePrefix     string
	NextInvoiceNumber int64
	QRCodes           QRCodes
	BankAccounts      BankAccounts
	Letterheads       Letterheads
}

// NewPaymentSettings creates default settings for an admin
func NewPaymentSettings(adminID uuid.UUID) (*PaymentSettings, error) {
	if adminID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADMIN_ID", "Admin ID cannot be empty")
	}

	return &PaymentSettings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AdminID:           adminID,
		DefaultCurrency:   DefaultCurrency,
		InvoicePrefix:     DefaultInvoicePrefix,
		NextInvoiceNumber: 1,
		QRCodes:           make(QRCodes, 0),
		BankAccounts:      make(BankAccounts, 0),
		Letterheads:       make(Letterheads, 0),
	}, nil
}

// SetTaxDefaults configures default tax application for new bills
func (s *PaymentSettings) SetTaxDefaults(enabled bool, percentage decimal.Decimal) error {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_PERCENTAGE", "Tax percentage must be between 0 and 100")
	}

	s.TaxEnabled = enabled
	s.TaxPercentage = percentage
	s.touch()
	return nil
}

// SetInvoicePrefix changes the prefix used for generated invoice numbers
func (s *PaymentSettings) SetInvoicePrefix(prefix string) error {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return shared.NewDomainError("INVALID_PREFIX", "Invoice prefix cannot be empty")
	}
	if len(prefix) > 10 {
		return shared.NewDomainError("INVALID_PREFIX", "Invoice prefix cannot exceed 10 characters")
	}

	s.InvoicePrefix = prefix
	s.touch()
	return nil
}

// FormatInvoiceNumber renders a counter value as an invoice number,
// e.g. INV-00042.
func (s *PaymentSettings) FormatInvoiceNumber(n int64) string {
	prefix := s.InvoicePrefix
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	return fmt.Sprintf("%s-%05d", prefix, n)
}

// AddQRCode stores an uploaded payment QR code
func (s *PaymentSettings) AddQRCode(name, upiID, imageURL string) (*QRCode, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "QR code name cannot be empty")
	}
	if imageURL == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "QR code image URL cannot be empty")
	}

	qr := QRCode{
		ID:        uuid.New(),
		Name:      name,
		UPIID:     strings.TrimSpace(upiID),
		ImageURL:  imageURL,
		Active:    true,
		CreatedAt: time.Now(),
	}
	s.QRCodes = append(s.QRCodes, qr)
	s.touch()
	return &qr, nil
}

// RemoveQRCode deletes a stored QR code
func (s *PaymentSettings) RemoveQRCode(id uuid.UUID) error {
	for i, qr := range s.QRCodes {
		if qr.ID == id {
			s.QRCodes = append(s.QRCodes[:i], s.QRCodes[i+1:]...)
			s.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddBankAccount stores a bank account
func (s *PaymentSettings) AddBankAccount(bankName, accountName, accountNumber, ifsc, branch string) (*BankAccount, error) {
	if strings.TrimSpace(bankName) == "" || strings.TrimSpace(accountNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Bank name and account number are required")
	}

	account := BankAccount{
		ID:            uuid.New(),
		BankName:      strings.TrimSpace(bankName),
		AccountName:   strings.TrimSpace(accountName),
		AccountNumber: strings.TrimSpace(accountNumber),
		IFSC:          strings.ToUpper(strings.TrimSpace(ifsc)),
		Branch:        strings.TrimSpace(branch),
		Active:        true,
		CreatedAt:     time.Now(),
	}
	s.BankAccounts = append(s.BankAccounts, account)
	s.touch()
	return &account, nil
}

// RemoveBankAccount deletes a stored bank account
func (s *PaymentSettings) RemoveBankAccount(id uuid.UUID) error {
	for i, account := range s.BankAccounts {
		if account.ID == id {
			s.BankAccounts = append(s.BankAccounts[:i], s.BankAccounts[i+1:]...)
			s.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// AddLetterhead stores a letterhead template. The first letterhead
// automatically becomes the default.
func (s *PaymentSettings) AddLetterhead(name, imageURL string) (*Letterhead, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Letterhead name cannot be empty")
	}

	letterhead := Letterhead{
		ID:        uuid.New(),
		Name:      name,
		ImageURL:  imageURL,
		IsDefault: len(s.Letterheads) == 0,
		Active:    true,
		CreatedAt: time.Now(),
	}
	s.Letterheads = append(s.Letterheads, letterhead)
	s.touch()
	return &letterhead, nil
}

// SetDefaultLetterhead marks one letterhead as default and unsets every
// other, keeping the single-default invariant.
func (s *PaymentSettings) SetDefaultLetterhead(id uuid.UUID) error {
	found := false
	for i := range s.Letterheads {
		if s.Letterheads[i].ID == id {
			found = true
		}
	}
	if !found {
		return shared.ErrNotFound
	}

	for i := range s.Letterheads {
		s.Letterheads[i].IsDefault = s.Letterheads[i].ID == id
	}
	s.touch()
	return nil
}

// RemoveLetterhead deletes a letterhead template
func (s *PaymentSettings) RemoveLetterhead(id uuid.UUID) error {
	for i, letterhead := range s.Letterheads {
		if letterhead.ID == id {
			wasDefault := letterhead.IsDefault
			s.Letterheads = append(s.Letterheads[:i], s.Letterheads[i+1:]...)
			if wasDefault && len(s.Letterheads) > 0 {
				s.Letterheads[0].IsDefault = true
			}
			s.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// DefaultLetterhead returns the current default, if any
func (s *PaymentSettings) DefaultLetterhead() *Letterhead {
	for i := range s.Letterheads {
		if s.Letterheads[i].IsDefault {
			return &s.Letterheads[i]
		}
	}
	return nil
}

func (s *PaymentSettings) touch() {
	s.Touch()
	s.IncrementVersion()
}

// FallbackInvoiceNumber generates a timestamp-based invoice number for
// when the settings counter is unavailable. The random suffix keeps two
// same-millisecond issuances apart.
func FallbackInvoiceNumber(now time.Time) string {
	suffix := make([]byte, 2)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Sprintf("INV-%d", now.UnixMilli())
	}
	return fmt.Sprintf("INV-%d-%s", now.UnixMilli(), hex.EncodeToString(suffix))
}
