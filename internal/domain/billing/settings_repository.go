package billing

import (
	"context"

	"github.com/google/uuid"
)

// SettingsRepository defines the interface for payment settings persistence
type SettingsRepository interface {
	// Create creates the settings record for an admin
	Create(ctx context.Context, settings *PaymentSettings) error

	// Update updates an existing settings record
	Update(ctx context.Context, settings *PaymentSettings) error

	// FindByAdminID finds the settings of a practice
	FindByAdminID(ctx context.Context, adminID uuid.UUID) (*PaymentSettings, error)

	// NextInvoiceNumber atomically claims and returns the next value of
	// the practice's invoice counter. Two concurrent issuances never
	// receive the same value.
	NextInvoiceNumber(ctx context.Context, adminID uuid.UUID) (int64, error)
}
