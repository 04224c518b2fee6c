package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/billing"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/infrastructure/storage"
)

func newSettingsFixture(t *testing.T) (*SettingsService, *MockSettingsRepository, identity.Actor) {
	t.Helper()
	repo := new(MockSettingsRepository)
	store := storage.NewStubStorage("https://cdn.praktis.test")
	adminID := uuid.New()
	return NewSettingsService(repo, store, zap.NewNop()), repo, adminActor(adminID)
}

func TestSettingsService_GetCreatesDefaults(t *testing.T) {
	ctx := context.Background()
	svc, repo, actor := newSettingsFixture(t)

	repo.On("FindByAdminID", ctx, actor.AdminID).Return(nil, shared.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*billing.PaymentSettings")).Return(nil)

	resp, err := svc.Get(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, actor.AdminID, resp.AdminID)
	assert.Equal(t, billing.DefaultInvoicePrefix, resp.InvoicePrefix)
	repo.AssertExpectations(t)
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo, actor := newSettingsFixture(t)
	settings := testSettings(t, actor.AdminID)

	repo.On("FindByAdminID", ctx, actor.AdminID).Return(settings, nil)
	repo.On("Update", ctx, settings).Return(nil)

	taxOn := true
	pct := decimal.NewFromInt(18)
	resp, err := svc.Update(ctx, actor, UpdateSettingsInput{
		TaxEnabled:    &taxOn,
		TaxPercentage: &pct,
		InvoicePrefix: "ca",
	})
	require.NoError(t, err)
	assert.True(t, resp.TaxEnabled)
	assert.True(t, resp.TaxPercentage.Equal(pct))
	assert.Equal(t, "CA", resp.InvoicePrefix)

	t.Run("staff cannot touch settings", func(t *testing.T) {
		staff := identity.Actor{ID: uuid.New(), AdminID: actor.AdminID, Role: identity.RoleStaff}
		_, err := svc.Update(ctx, staff, UpdateSettingsInput{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestSettingsService_GenerateImageUploadURL(t *testing.T) {
	ctx := context.Background()
	svc, _, actor := newSettingsFixture(t)

	result, err := svc.GenerateImageUploadURL(ctx, actor, "qr", "image/png")
	require.NoError(t, err)
	assert.Contains(t, result.Key, "settings/")
	assert.Contains(t, result.Key, "/qr/")
	assert.NotEmpty(t, result.UploadURL)
	assert.Contains(t, result.PublicURL, "https://cdn.praktis.test/")

	_, err = svc.GenerateImageUploadURL(ctx, actor, "banner", "image/png")
	require.Error(t, err)
}

func TestSettingsService_QRCodes(t *testing.T) {
	ctx := context.Background()
	svc, repo, actor := newSettingsFixture(t)
	settings := testSettings(t, actor.AdminID)

	repo.On("FindByAdminID", ctx, actor.AdminID).Return(settings, nil)
	repo.On("Update", ctx, settings).Return(nil)

	resp, err := svc.AddQRCode(ctx, actor, AddQRCodeInput{
		Name:     "Office UPI",
		UPIID:    "office@upi",
		ImageKey: "settings/x/qr/abc.png",
	})
	require.NoError(t, err)
	require.Len(t, resp.QRCodes, 1)
	assert.Equal(t, "Office UPI", resp.QRCodes[0].Name)
	assert.Equal(t, "https://cdn.praktis.test/settings/x/qr/abc.png", resp.QRCodes[0].ImageURL)

	resp, err = svc.RemoveQRCode(ctx, actor, resp.QRCodes[0].ID)
	require.NoError(t, err)
	assert.Empty(t, resp.QRCodes)
}

func TestSettingsService_Letterheads(t *testing.T) {
	ctx := context.Background()
	svc, repo, actor := newSettingsFixture(t)
	settings := testSettings(t, actor.AdminID)

	repo.On("FindByAdminID", ctx, actor.AdminID).Return(settings, nil)
	repo.On("Update", ctx, settings).Return(nil)

	first, err := svc.AddLetterhead(ctx, actor, AddLetterheadInput{Name: "Classic", ImageKey: "settings/x/letterhead/a.png"})
	require.NoError(t, err)
	require.Len(t, first.Letterheads, 1)
	assert.True(t, first.Letterheads[0].IsDefault)

	second, err := svc.AddLetterhead(ctx, actor, AddLetterheadInput{Name: "Modern", ImageKey: "settings/x/letterhead/b.png"})
	require.NoError(t, err)
	require.Len(t, second.Letterheads, 2)
	assert.False(t, second.Letterheads[1].IsDefault)

	promoted, err := svc.SetDefaultLetterhead(ctx, actor, second.Letterheads[1].ID)
	require.NoError(t, err)
	assert.False(t, promoted.Letterheads[0].IsDefault)
	assert.True(t, promoted.Letterheads[1].IsDefault)
}

func TestSettingsService_BankAccounts(t *testing.T) {
	ctx := context.Background()
	svc, repo, actor := newSettingsFixture(t)
	settings := testSettings(t, actor.AdminID)

	repo.On("FindByAdminID", ctx, actor.AdminID).Return(settings, nil)
	repo.On("Update", ctx, settings).Return(nil)

	resp, err := svc.AddBankAccount(ctx, actor, AddBankAccountInput{
		BankName:      "State Bank",
		AccountName:   "Rao and Associates",
		AccountNumber: "000123456789",
		IFSC:          "SBIN0001234",
		Branch:        "MG Road",
	})
	require.NoError(t, err)
	require.Len(t, resp.BankAccounts, 1)
	assert.Equal(t, "State Bank", resp.BankAccounts[0].BankName)
}
