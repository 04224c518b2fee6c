package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/billing"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
)

// MockTaskRepository is a mock implementation of task.TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter task.TaskFilter) ([]*task.Task, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]*task.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) FindForAssignee(ctx context.Context, assigneeID uuid.UUID, filter task.TaskFilter) ([]*task.Task, int64, error) {
	args := m.Called(ctx, assigneeID, filter)
	return args.Get(0).([]*task.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) FindInactiveStaffTasks(ctx context.Context, ownerID uuid.UUID, staffIDs []uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, ownerID, staffIDs)
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) ClientIDsForAssignee(ctx context.Context, assigneeID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, assigneeID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockTaskRepository) CountActiveForAssignee(ctx context.Context, assigneeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, assigneeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountNonArchivedForClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) DeleteArchivedForClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) ReassignToLegacy(ctx context.Context, staffID uuid.UUID, legacyName string) (int64, error) {
	args := m.Called(ctx, staffID, legacyName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) ArchiveCompletedBefore(ctx context.Context, cutoff, archivedAt time.Time) (int64, error) {
	args := m.Called(ctx, cutoff, archivedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountAdvancesOnDay(ctx context.Context, ownerID uuid.UUID, day time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) FindBilled(ctx context.Context, ownerID uuid.UUID, filter task.BillingFilter) ([]*task.Task, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]*task.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) SummarizeBilling(ctx context.Context, ownerID uuid.UUID, filter task.BillingFilter) (*task.BillingSummary, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.BillingSummary), args.Error(1)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[task.Status]int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(map[task.Status]int64), args.Error(1)
}

func (m *MockTaskRepository) CountCompletedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountDueBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) FindOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time, limit int) ([]*task.Task, error) {
	args := m.Called(ctx, ownerID, now, limit)
	return args.Get(0).([]*task.Task), args.Error(1)
}

// MockSettingsRepository is a mock implementation of billing.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Create(ctx context.Context, settings *billing.PaymentSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *billing.PaymentSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) FindByAdminID(ctx context.Context, adminID uuid.UUID) (*billing.PaymentSettings, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentSettings), args.Error(1)
}

func (m *MockSettingsRepository) NextInvoiceNumber(ctx context.Context, adminID uuid.UUID) (int64, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int64), args.Error(1)
}

func adminActor(adminID uuid.UUID) identity.Actor {
	return identity.Actor{ID: adminID, AdminID: adminID, Role: identity.RoleAdmin, Name: "Asha Rao"}
}

func newTestTask(t *testing.T, ownerID uuid.UUID) *task.Task {
	t.Helper()
	tk, err := task.NewTask(ownerID, uuid.New(), "GST Filing Q1", ownerID)
	require.NoError(t, err)
	tk.ClearDomainEvents()
	return tk
}

func testSettings(t *testing.T, adminID uuid.UUID) *billing.PaymentSettings {
	t.Helper()
	settings, err := billing.NewPaymentSettings(adminID)
	require.NoError(t, err)
	return settings
}

func TestBillingService_IssueBill(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	actor := adminActor(adminID)

	t.Run("claims next invoice number from the counter", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		settingsRepo := new(MockSettingsRepository)
		svc := NewBillingService(taskRepo, settingsRepo, nil, zap.NewNop())
		tk := newTestTask(t, adminID)

		taskRepo.On("FindByIDForOwner", ctx, adminID, tk.ID).Return(tk, nil)
		settingsRepo.On("NextInvoiceNumber", ctx, adminID).Return(int64(42), nil)
		settingsRepo.On("FindByAdminID", ctx, adminID).Return(testSettings(t, adminID), nil)
		taskRepo.On("Update", ctx, tk).Return(nil)

		resp, err := svc.IssueBill(ctx, actor, tk.ID, IssueBillInput{
			Amount:    decimal.NewFromInt(1500),
			TaxAmount: decimal.NewFromInt(270),
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-00042", resp.InvoiceNumber)
		assert.Equal(t, task.PaymentStatusUnpaid, resp.Status)
		// Default due date sits 15 days out
		require.NotNil(t, resp.DueDate)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 15), *resp.DueDate, time.Minute)
	})

	t.Run("counter failure falls back to timestamp number", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		settingsRepo := new(MockSettingsRepository)
		svc := NewBillingService(taskRepo, settingsRepo, nil, zap.NewNop())
		tk := newTestTask(t, adminID)

		taskRepo.On("FindByIDForOwner", ctx, adminID, tk.ID).Return(tk, nil)
		settingsRepo.On("NextInvoiceNumber", ctx, adminID).Return(int64(0), shared.ErrNotFound)
		taskRepo.On("Update", ctx, tk).Return(nil)

		resp, err := svc.IssueBill(ctx, actor, tk.ID, IssueBillInput{Amount: decimal.NewFromInt(1000)})
		require.NoError(t, err)
		assert.Contains(t, resp.InvoiceNumber, "INV-")
		assert.NotEqual(t, "INV-00001", resp.InvoiceNumber)
	})

	t.Run("re-issue keeps the original invoice number", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		settingsRepo := new(MockSettingsRepository)
		svc := NewBillingService(taskRepo, settingsRepo, nil, zap.NewNop())
		tk := newTestTask(t, adminID)
		require.NoError(t, tk.IssueBill(decimal.NewFromInt(1000), decimal.Zero, decimal.Zero, nil, "INV-00007", adminID))
		tk.ClearDomainEvents()

		taskRepo.On("FindByIDForOwner", ctx, adminID, tk.ID).Return(tk, nil)
		taskRepo.On("Update", ctx, tk).Return(nil)

		resp, err := svc.IssueBill(ctx, actor, tk.ID, IssueBillInput{Amount: decimal.NewFromInt(2000)})
		require.NoError(t, err)
		assert.Equal(t, "INV-00007", resp.InvoiceNumber)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(2000)))
		settingsRepo.AssertNotCalled(t, "NextInvoiceNumber", ctx, adminID)
	})
}

func TestBillingService_PaymentFlow(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	actor := adminActor(adminID)

	t.Run("partial then full payment", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		svc := NewBillingService(taskRepo, new(MockSettingsRepository), nil, zap.NewNop())
		tk := newTestTask(t, adminID)
		require.NoError(t, tk.IssueBill(decimal.NewFromInt(1000), decimal.Zero, decimal.Zero, nil, "INV-00001", adminID))
		tk.ClearDomainEvents()

		taskRepo.On("FindByIDForOwner", ctx, adminID, tk.ID).Return(tk, nil)
		taskRepo.On("Update", ctx, tk).Return(nil)

		partial := decimal.NewFromInt(400)
		resp, err := svc.RecordPayment(ctx, actor, tk.ID, RecordPaymentInput{
			Amount:      &partial,
			PaymentMode: task.PaymentModeUPI,
		})
		require.NoError(t, err)
		assert.Equal(t, task.PaymentStatusPartiallyPaid, resp.Status)
		assert.True(t, resp.Remaining.Equal(decimal.NewFromInt(600)))

		// Nil amount settles the outstanding balance
		resp, err = svc.RecordPayment(ctx, actor, tk.ID, RecordPaymentInput{PaymentMode: task.PaymentModeCash})
		require.NoError(t, err)
		assert.Equal(t, task.PaymentStatusPaid, resp.Status)
		assert.True(t, resp.Remaining.IsZero())

		// A paid bill takes no further payments
		_, err = svc.RecordPayment(ctx, actor, tk.ID, RecordPaymentInput{})
		require.Error(t, err)
	})

	t.Run("paid advance counts toward the total", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		svc := NewBillingService(taskRepo, new(MockSettingsRepository), nil, zap.NewNop())
		tk := newTestTask(t, adminID)
		require.NoError(t, tk.RecordAdvance(decimal.NewFromInt(300), task.PaymentModeCash, "", "", "ADV-20260831-001", adminID))
		require.NoError(t, tk.IssueBill(decimal.NewFromInt(1000), decimal.Zero, decimal.Zero, nil, "INV-00001", adminID))
		tk.ClearDomainEvents()

		taskRepo.On("FindByIDForOwner", ctx, adminID, tk.ID).Return(tk, nil)

		resp, err := svc.GetBilling(ctx, actor, tk.ID)
		require.NoError(t, err)
		assert.Equal(t, task.PaymentStatusPartiallyPaid, resp.Status)
		assert.True(t, resp.Remaining.Equal(decimal.NewFromInt(700)))
	})

	t.Run("payment before issue is rejected", func(t *testing.T) {
		taskRepo := new(MockTaskRepository)
		svc := NewBillingService(taskRepo, new(MockSettingsRepository), nil, zap.NewNop())
		tk := newTestTask(t, adminID)

		taskRepo.On("FindByIDForOwner", ctx, adminID, tk.ID).Return(tk, nil)

		_, err := svc.RecordPayment(ctx, actor, tk.ID, RecordPaymentInput{})
		assert.ErrorIs(t, err, shared.ErrBillNotIssued)
	})
}

func TestBillingService_RecordAdvance(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	actor := adminActor(adminID)
	taskRepo := new(MockTaskRepository)
	svc := NewBillingService(taskRepo, new(MockSettingsRepository), nil, zap.NewNop())
	tk := newTestTask(t, adminID)

	taskRepo.On("FindByIDForOwner", ctx, adminID, tk.ID).Return(tk, nil)
	taskRepo.On("CountAdvancesOnDay", ctx, adminID, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	taskRepo.On("Update", ctx, tk).Return(nil)

	resp, err := svc.RecordAdvance(ctx, actor, tk.ID, RecordAdvanceInput{
		Amount:      decimal.NewFromInt(500),
		PaymentMode: task.PaymentModeUPI,
	})
	require.NoError(t, err)
	assert.True(t, resp.Advance.IsPaid)
	assert.Contains(t, resp.Advance.ReceiptNumber, "ADV-")
	assert.Contains(t, resp.Advance.ReceiptNumber, "-001")

	// Second advance on the same task is rejected
	_, err = svc.RecordAdvance(ctx, actor, tk.ID, RecordAdvanceInput{Amount: decimal.NewFromInt(100)})
	require.Error(t, err)
}

func TestBillingService_ListBilled(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	actor := adminActor(adminID)
	taskRepo := new(MockTaskRepository)
	svc := NewBillingService(taskRepo, new(MockSettingsRepository), nil, zap.NewNop())

	tk := newTestTask(t, adminID)
	require.NoError(t, tk.IssueBill(decimal.NewFromInt(1500), decimal.NewFromInt(270), decimal.Zero, nil, "INV-00001", adminID))
	tk.ClearDomainEvents()

	summary := &task.BillingSummary{
		TotalBills:  1,
		TotalAmount: decimal.NewFromInt(1770),
		CountByStatus: map[task.PaymentStatus]int64{
			task.PaymentStatusUnpaid: 1,
		},
	}
	taskRepo.On("FindBilled", ctx, adminID, mock.AnythingOfType("task.BillingFilter")).
		Return([]*task.Task{tk}, int64(1), nil)
	taskRepo.On("SummarizeBilling", ctx, adminID, mock.AnythingOfType("task.BillingFilter")).
		Return(summary, nil)

	result, err := svc.ListBilled(ctx, actor, ListBilledInput{})
	require.NoError(t, err)
	require.Len(t, result.Bills, 1)
	assert.Equal(t, "INV-00001", result.Bills[0].InvoiceNumber)
	assert.Equal(t, int64(1), result.Summary.TotalBills)

	staff := identity.Actor{ID: uuid.New(), AdminID: adminID, Role: identity.RoleStaff}
	_, err = svc.ListBilled(ctx, staff, ListBilledInput{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
