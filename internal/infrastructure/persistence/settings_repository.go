package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praktis/backend/internal/domain/billing"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/infrastructure/persistence/models"
)

// GormSettingsRepository implements billing.SettingsRepository using GORM.
type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

func (r *GormSettingsRepository) Create(ctx context.Context, settings *billing.PaymentSettings) error {
	return r.db.WithContext(ctx).Create(models.PaymentSettingsModelFromDomain(settings)).Error
}

func (r *GormSettingsRepository) Update(ctx context.Context, settings *billing.PaymentSettings) error {
	return r.db.WithContext(ctx).Save(models.PaymentSettingsModelFromDomain(settings)).Error
}

func (r *GormSettingsRepository) FindByAdminID(ctx context.Context, adminID uuid.UUID) (*billing.PaymentSettings, error) {
	var model models.PaymentSettingsModel
	if err := r.db.WithContext(ctx).
		First(&model, "admin_id = ?", adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// NextInvoiceNumber claims the next counter value with a single UPDATE,
// so concurrent issuances never receive the same number.
func (r *GormSettingsRepository) NextInvoiceNumber(ctx context.Context, adminID uuid.UUID) (int64, error) {
	var claimed int64
	result := r.db.WithContext(ctx).Raw(
		"UPDATE payment_settings SET next_invoice_number = next_invoice_number + 1, updated_at = ? WHERE admin_id = ? RETURNING next_invoice_number - 1",
		time.Now(), adminID,
	).Scan(&claimed)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrNotFound
	}
	return claimed, nil
}

var _ billing.SettingsRepository = (*GormSettingsRepository)(nil)
