package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praktis/backend/internal/domain/billing"
)

// PaymentSettingsModel is the persistence model for a practice's
// payment settings.
type PaymentSettingsModel struct {
	AggregateModel
	AdminID           uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex"`
	DefaultCurrency   string               `gorm:"type:varchar(10);not null;default:'INR'"`
	TaxEnabled        bool                 `gorm:"not null;default:false"`
	TaxPercentage     decimal.Decimal      `gorm:"type:decimal(5,2);not null;default:0"`
	InvoicePrefix     string               `gorm:"type:varchar(10);not null;default:'INV'"`
	NextInvoiceNumber int64                `gorm:"not null;default:1"`
	QRCodes           billing.QRCodes      `gorm:"type:jsonb"`
	BankAccounts      billing.BankAccounts `gorm:"type:jsonb"`
	Letterheads       billing.Letterheads  `gorm:"type:jsonb"`
}

func (PaymentSettingsModel) TableName() string {
	return "payment_settings"
}

// ToDomain converts the persistence model to domain PaymentSettings.
func (m *PaymentSettingsModel) ToDomain() *billing.PaymentSettings {
	return &billing.PaymentSettings{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AdminID:           m.AdminID,
		DefaultCurrency:   m.DefaultCurrency,
		TaxEnabled:        m.TaxEnabled,
		TaxPercentage:     m.TaxPercentage,
		InvoicePrefix:     m.InvoicePrefix,
		NextInvoiceNumber: m.NextInvoiceNumber,
		QRCodes:           m.QRCodes,
		BankAccounts:      m.BankAccounts,
		Letterheads:       m.Letterheads,
	}
}

// FromDomain populates the persistence model from domain PaymentSettings.
func (m *PaymentSettingsModel) FromDomain(s *billing.PaymentSettings) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.AdminID = s.AdminID
	m.DefaultCurrency = s.DefaultCurrency
	m.TaxEnabled = s.TaxEnabled
	m.TaxPercentage = s.TaxPercentage
	m.InvoicePrefix = s.InvoicePrefix
	m.NextInvoiceNumber = s.NextInvoiceNumber
	m.QRCodes = s.QRCodes
	m.BankAccounts = s.BankAccounts
	m.Letterheads = s.Letterheads
}

// PaymentSettingsModelFromDomain creates a new persistence model from
// domain PaymentSettings.
func PaymentSettingsModelFromDomain(s *billing.PaymentSettings) *PaymentSettingsModel {
	m := &PaymentSettingsModel{}
	m.FromDomain(s)
	return m
}
