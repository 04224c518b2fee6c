package task

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

	"github.com/praktis/backend/internal/domain/directory"
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

// MockClientRepository is a mock implementation of directory.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Update(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter directory.ClientFilter) ([]*directory.Client, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]*directory.Client), args.Get(1).(int64), args.Error(2)
}

func (m *MockClientRepository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*directory.Client, error) {
	args := m.Called(ctx, ownerID, ids)
	return args.Get(0).([]*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindInactiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]*directory.Client, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*directory.Client), args.Error(1)
}

func (m *MockClientRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindStaff(ctx context.Context, adminID uuid.UUID, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, adminID, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindInactiveStaff(ctx context.Context, adminID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountStaff(ctx context.Context, adminID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type fixture struct {
	taskRepo   *MockTaskRepository
	clientRepo *MockClientRepository
	userRepo   *MockUserRepository
	svc        *TaskService
	adminID    uuid.UUID
	admin      identity.Actor
	client     *directory.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	adminID := uuid.New()
	client, err := directory.NewClient(adminID, "Sharma Traders", directory.ClientTypeFirm, adminID)
	require.NoError(t, err)
	client.ClearDomainEvents()

	f := &fixture{
		taskRepo:   new(MockTaskRepository),
		clientRepo: new(MockClientRepository),
		userRepo:   new(MockUserRepository),
		adminID:    adminID,
		admin:      identity.Actor{ID: adminID, AdminID: adminID, Role: identity.RoleAdmin, Name: "Asha Rao"},
		client:     client,
	}
	f.svc = NewTaskService(f.taskRepo, f.clientRepo, f.userRepo, nil, 7, zap.NewNop())
	return f
}

func (f *fixture) newStaff(t *testing.T) *identity.User {
	t.Helper()
	staff, err := identity.NewStaff(f.adminID, "Ravi", "Kumar", "ravi@example.com", "Str0ngPass!")
	require.NoError(t, err)
	staff.ClearDomainEvents()
	return staff
}

func (f *fixture) newTask(t *testing.T) *task.Task {
	t.Helper()
	tk, err := task.NewTask(f.adminID, f.client.ID, "GST Filing Q1", f.adminID)
	require.NoError(t, err)
	tk.ClearDomainEvents()
	return tk
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates task with assignee and advance", func(t *testing.T) {
		f := newFixture(t)
		staff := f.newStaff(t)

		f.clientRepo.On("FindByIDForOwner", ctx, f.adminID, f.client.ID).Return(f.client, nil)
		f.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
		f.taskRepo.On("CountAdvancesOnDay", ctx, f.adminID, mock.AnythingOfType("time.Time")).Return(int64(2), nil)
		f.taskRepo.On("Create", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

		due := time.Now().AddDate(0, 1, 0)
		resp, err := f.svc.Create(ctx, f.admin, CreateTaskInput{
			ClientID:    f.client.ID,
			Title:       "GST Filing Q1",
			ServiceType: "GST",
			Priority:    task.PriorityHigh,
			DueDate:     &due,
			AssigneeID:  &staff.ID,
			Advance: &AdvanceInput{
				Amount:      decimal.NewFromInt(500),
				PaymentMode: task.PaymentModeUPI,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, task.StatusNotStarted, resp.Status)
		require.NotNil(t, resp.AssignedToID)
		assert.Equal(t, staff.ID, *resp.AssignedToID)
		assert.True(t, resp.Billing.Advance.IsPaid)
		// Third receipt of the day
		assert.Contains(t, resp.Billing.Advance.ReceiptNumber, "-003")
		f.taskRepo.AssertExpectations(t)
	})

	t.Run("unknown client is rejected", func(t *testing.T) {
		f := newFixture(t)
		missing := uuid.New()

		f.clientRepo.On("FindByIDForOwner", ctx, f.adminID, missing).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, f.admin, CreateTaskInput{ClientID: missing, Title: "Audit"})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "CLIENT_NOT_FOUND", domainErr.Code)
	})

	t.Run("inactive assignee is rejected", func(t *testing.T) {
		f := newFixture(t)
		staff := f.newStaff(t)
		require.NoError(t, staff.Deactivate())

		f.clientRepo.On("FindByIDForOwner", ctx, f.adminID, f.client.ID).Return(f.client, nil)
		f.userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)

		_, err := f.svc.Create(ctx, f.admin, CreateTaskInput{
			ClientID:   f.client.ID,
			Title:      "Audit",
			AssigneeID: &staff.ID,
		})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "ASSIGNEE_INACTIVE", domainErr.Code)
	})

	t.Run("staff cannot create tasks", func(t *testing.T) {
		f := newFixture(t)
		staffActor := identity.Actor{ID: uuid.New(), AdminID: f.adminID, Role: identity.RoleStaff}

		_, err := f.svc.Create(ctx, staffActor, CreateTaskInput{ClientID: f.client.ID, Title: "Audit"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestTaskService_StatusFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("status change appends history with auto note", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTask(t)

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, tk.ID).Return(tk, nil)
		f.taskRepo.On("Update", ctx, tk).Return(nil)

		resp, err := f.svc.UpdateStatus(ctx, f.admin, tk.ID, UpdateStatusInput{Status: task.StatusInProgress})
		require.NoError(t, err)
		assert.Equal(t, task.StatusInProgress, resp.Status)
		last := resp.StatusHistory[len(resp.StatusHistory)-1]
		assert.Contains(t, last.Note, "NOT_STARTED")
		assert.Contains(t, last.Note, "IN_PROGRESS")
	})

	t.Run("staff can update own assigned task only", func(t *testing.T) {
		f := newFixture(t)
		staff := f.newStaff(t)
		staffActor := identity.Actor{ID: staff.ID, AdminID: f.adminID, Role: identity.RoleStaff, Name: staff.FullName()}

		assigned := f.newTask(t)
		require.NoError(t, assigned.Assign(staff.ID, staff.FullName(), f.adminID))
		assigned.ClearDomainEvents()

		other := f.newTask(t)

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, assigned.ID).Return(assigned, nil)
		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, other.ID).Return(other, nil)
		f.taskRepo.On("Update", ctx, assigned).Return(nil)

		_, err := f.svc.UpdateStatus(ctx, staffActor, assigned.ID, UpdateStatusInput{Status: task.StatusInProgress})
		require.NoError(t, err)

		_, err = f.svc.UpdateStatus(ctx, staffActor, other.ID, UpdateStatusInput{Status: task.StatusInProgress})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTaskService_ArchiveAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("completed task cannot be deleted", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTask(t)
		require.NoError(t, tk.UpdateStatus(task.StatusCompleted, "", f.adminID))
		tk.ClearDomainEvents()

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, tk.ID).Return(tk, nil)

		err := f.svc.PermanentlyDelete(ctx, f.admin, tk.ID)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "TASK_COMPLETED", domainErr.Code)
	})

	t.Run("task with paid advance cannot be deleted", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTask(t)
		require.NoError(t, tk.RecordAdvance(decimal.NewFromInt(500), task.PaymentModeCash, "", "", "ADV-20260831-001", f.adminID))
		tk.ClearDomainEvents()

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, tk.ID).Return(tk, nil)

		err := f.svc.PermanentlyDelete(ctx, f.admin, tk.ID)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "HAS_FINANCIAL_HISTORY", domainErr.Code)
	})

	t.Run("plain task is deleted", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTask(t)

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, tk.ID).Return(tk, nil)
		f.taskRepo.On("Delete", ctx, tk.ID).Return(nil)

		require.NoError(t, f.svc.PermanentlyDelete(ctx, f.admin, tk.ID))
		f.taskRepo.AssertExpectations(t)
	})

	t.Run("archive and restore round trip", func(t *testing.T) {
		f := newFixture(t)
		tk := f.newTask(t)

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, tk.ID).Return(tk, nil)
		f.taskRepo.On("Update", ctx, tk).Return(nil)

		require.NoError(t, f.svc.Archive(ctx, f.admin, tk.ID))
		assert.True(t, tk.Archived)
		assert.False(t, tk.AutoArchived)

		require.NoError(t, f.svc.Restore(ctx, f.admin, tk.ID))
		assert.False(t, tk.Archived)
	})

	t.Run("staff archives their own completed task", func(t *testing.T) {
		f := newFixture(t)
		staff := f.newStaff(t)
		actor := identity.Actor{ID: staff.ID, AdminID: f.adminID, Role: identity.RoleStaff, Name: staff.FullName()}

		tk := f.newTask(t)
		require.NoError(t, tk.Assign(staff.ID, staff.FullName(), f.adminID))
		require.NoError(t, tk.UpdateStatus(task.StatusCompleted, "", staff.ID))
		tk.ClearDomainEvents()

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, tk.ID).Return(tk, nil)
		f.taskRepo.On("Update", ctx, tk).Return(nil)

		require.NoError(t, f.svc.Archive(ctx, actor, tk.ID))
		assert.True(t, tk.Archived)
	})

	t.Run("staff cannot archive an unfinished task", func(t *testing.T) {
		f := newFixture(t)
		staff := f.newStaff(t)
		actor := identity.Actor{ID: staff.ID, AdminID: f.adminID, Role: identity.RoleStaff, Name: staff.FullName()}

		tk := f.newTask(t)
		require.NoError(t, tk.Assign(staff.ID, staff.FullName(), f.adminID))
		tk.ClearDomainEvents()

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, tk.ID).Return(tk, nil)

		err := f.svc.Archive(ctx, actor, tk.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("staff cannot archive another assignee's task", func(t *testing.T) {
		f := newFixture(t)
		staff := f.newStaff(t)
		actor := identity.Actor{ID: staff.ID, AdminID: f.adminID, Role: identity.RoleStaff, Name: staff.FullName()}

		tk := f.newTask(t)
		require.NoError(t, tk.Assign(uuid.New(), "Meera Shah", f.adminID))
		require.NoError(t, tk.UpdateStatus(task.StatusCompleted, "", f.adminID))
		tk.ClearDomainEvents()

		f.taskRepo.On("FindByIDForOwner", ctx, f.adminID, tk.ID).Return(tk, nil)

		err := f.svc.Archive(ctx, actor, tk.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestTaskService_RunArchiveSweep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.taskRepo.On("ArchiveCompletedBefore", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(int64(3), nil)

	result, err := f.svc.RunArchiveSweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Archived)

	// Cutoff sits the configured number of days in the past
	expected := time.Now().AddDate(0, 0, -7)
	assert.WithinDuration(t, expected, result.Cutoff, time.Minute)
}

func TestTaskService_Summary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.taskRepo.On("CountByStatus", ctx, f.adminID).Return(map[task.Status]int64{
		task.StatusNotStarted: 4,
		task.StatusInProgress: 2,
		task.StatusCompleted:  9,
	}, nil)

	result, err := f.svc.Summary(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(15), result.Total)
	assert.Equal(t, int64(2), result.ByStatus[task.StatusInProgress])
}
