package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/billing"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/infrastructure/storage"
)

// Presigned upload URLs stay valid this long
const uploadURLExpiration = 15 * time.Minute

// SettingsService manages a practice's payment settings: tax defaults,
// invoice prefix, QR codes, bank accounts and letterheads. Images are
// uploaded directly to object storage via presigned URLs.
type SettingsService struct {
	settingsRepo billing.SettingsRepository
	storage      storage.ObjectStorage
	logger       *zap.Logger
}

// NewSettingsService creates a new payment settings service
func NewSettingsService(
	settingsRepo billing.SettingsRepository,
	objectStorage storage.ObjectStorage,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		storage:      objectStorage,
		logger:       logger,
	}
}

// Get returns the practice's settings, creating the default record on
// first access.
func (s *SettingsService) Get(ctx context.Context, actor identity.Actor) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	resp := toSettingsResponse(settings)
	return &resp, nil
}

// Update changes tax defaults and the invoice prefix
func (s *SettingsService) Update(ctx context.Context, actor identity.Actor, input UpdateSettingsInput) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	if input.TaxEnabled != nil || input.TaxPercentage != nil {
		enabled := settings.TaxEnabled
		percentage := settings.TaxPercentage
		if input.TaxEnabled != nil {
			enabled = *input.TaxEnabled
		}
		if input.TaxPercentage != nil {
			percentage = *input.TaxPercentage
		}
		if err := settings.SetTaxDefaults(enabled, percentage); err != nil {
			return nil, err
		}
	}
	if input.InvoicePrefix != "" {
		if err := settings.SetInvoicePrefix(input.InvoicePrefix); err != nil {
			return nil, err
		}
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		s.logger.Error("Failed to update payment settings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update settings")
	}

	resp := toSettingsResponse(settings)
	return &resp, nil
}

// GenerateImageUploadURL returns a presigned PUT URL for a settings
// image (QR code or letterhead). The returned key is later passed to
// AddQRCode or AddLetterhead.
func (s *SettingsService) GenerateImageUploadURL(ctx context.Context, actor identity.Actor, kind, contentType string) (*UploadURLResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	if kind != "qr" && kind != "letterhead" {
		return nil, shared.NewDomainError("INVALID_KIND", "Image kind must be qr or letterhead")
	}

	key := fmt.Sprintf("settings/%s/%s/%s", actor.AdminID, kind, uuid.New())
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, uploadURLExpiration)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate upload URL")
	}

	return &UploadURLResult{
		UploadURL: uploadURL,
		PublicURL: s.storage.PublicURL(key),
		ExpiresAt: expiresAt,
		Key:       key,
	}, nil
}

// AddQRCode registers an uploaded payment QR code
func (s *SettingsService) AddQRCode(ctx context.Context, actor identity.Actor, input AddQRCodeInput) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	if _, err := settings.AddQRCode(input.Name, input.UPIID, s.storage.PublicURL(input.ImageKey)); err != nil {
		return nil, err
	}

	return s.save(ctx, settings)
}

// RemoveQRCode deletes a stored QR code and its image
func (s *SettingsService) RemoveQRCode(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	if err := settings.RemoveQRCode(id); err != nil {
		return nil, err
	}

	return s.save(ctx, settings)
}

// AddBankAccount registers a bank account shown on invoices
func (s *SettingsService) AddBankAccount(ctx context.Context, actor identity.Actor, input AddBankAccountInput) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	if _, err := settings.AddBankAccount(input.BankName, input.AccountName, input.AccountNumber, input.IFSC, input.Branch); err != nil {
		return nil, err
	}

	return s.save(ctx, settings)
}

// RemoveBankAccount deletes a stored bank account
func (s *SettingsService) RemoveBankAccount(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	if err := settings.RemoveBankAccount(id); err != nil {
		return nil, err
	}

	return s.save(ctx, settings)
}

// AddLetterhead registers an uploaded letterhead. The first letterhead
// becomes the default automatically.
func (s *SettingsService) AddLetterhead(ctx context.Context, actor identity.Actor, input AddLetterheadInput) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	if _, err := settings.AddLetterhead(input.Name, s.storage.PublicURL(input.ImageKey)); err != nil {
		return nil, err
	}

	return s.save(ctx, settings)
}

// SetDefaultLetterhead marks one letterhead as the default
func (s *SettingsService) SetDefaultLetterhead(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	if err := settings.SetDefaultLetterhead(id); err != nil {
		return nil, err
	}

	return s.save(ctx, settings)
}

// RemoveLetterhead deletes a stored letterhead
func (s *SettingsService) RemoveLetterhead(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SettingsResponse, error) {
	settings, err := s.getOrCreate(ctx, actor)
	if err != nil {
		return nil, err
	}

	if err := settings.RemoveLetterhead(id); err != nil {
		return nil, err
	}

	return s.save(ctx, settings)
}

func (s *SettingsService) getOrCreate(ctx context.Context, actor identity.Actor) (*billing.PaymentSettings, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	settings, err := s.settingsRepo.FindByAdminID(ctx, actor.AdminID)
	if err == nil {
		return settings, nil
	}
	if err != shared.ErrNotFound {
		s.logger.Error("Failed to load payment settings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load settings")
	}

	settings, err = billing.NewPaymentSettings(actor.AdminID)
	if err != nil {
		return nil, err
	}
	if err := s.settingsRepo.Create(ctx, settings); err != nil {
		s.logger.Error("Failed to create payment settings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create settings")
	}

	s.logger.Info("Payment settings created", zap.String("admin_id", actor.AdminID.String()))
	return settings, nil
}

func (s *SettingsService) save(ctx context.Context, settings *billing.PaymentSettings) (*SettingsResponse, error) {
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		s.logger.Error("Failed to save payment settings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save settings")
	}

	resp := toSettingsResponse(settings)
	return &resp, nil
}
