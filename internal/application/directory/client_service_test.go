package directory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
)

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

func adminActor(adminID uuid.UUID) identity.Actor {
	return identity.Actor{ID: adminID, AdminID: adminID, Role: identity.RoleAdmin, Name: "Asha Rao"}
}

func staffActor(adminID uuid.UUID) identity.Actor {
	return identity.Actor{ID: uuid.New(), AdminID: adminID, Role: identity.RoleStaff, Name: "Ravi Kumar"}
}

func testClient(t *testing.T, ownerID uuid.UUID) *directory.Client {
	t.Helper()
	client, err := directory.NewClient(ownerID, "Sharma Traders", directory.ClientTypeFirm, ownerID)
	require.NoError(t, err)
	client.ClearDomainEvents()
	return client
}

func newTestService(clientRepo *MockClientRepository, taskRepo *MockTaskRepository) *ClientService {
	return NewClientService(clientRepo, taskRepo, nil, zap.NewNop())
}

func TestClientService_Create(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("admin creates client with normalized identifiers", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		svc := newTestService(clientRepo, new(MockTaskRepository))

		clientRepo.On("Create", ctx, mock.AnythingOfType("*directory.Client")).Return(nil)

		resp, err := svc.Create(ctx, adminActor(adminID), CreateClientInput{
			Name:   "Sharma Traders",
			Type:   directory.ClientTypeFirm,
			Code:   "st01",
			PAN:    "abcde1234f",
			Mobile: "9876543210",
			Email:  "Accounts@SharmaTraders.in",
		})
		require.NoError(t, err)
		assert.Equal(t, "ST01", resp.Code)
		assert.Equal(t, "ABCDE1234F", resp.PAN)
		assert.Equal(t, "accounts@sharmatraders.in", resp.Email)
		assert.True(t, resp.Active)
		clientRepo.AssertExpectations(t)
	})

	t.Run("staff cannot create clients", func(t *testing.T) {
		svc := newTestService(new(MockClientRepository), new(MockTaskRepository))

		_, err := svc.Create(ctx, staffActor(adminID), CreateClientInput{
			Name: "Sharma Traders",
			Type: directory.ClientTypeFirm,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("invalid PAN is rejected", func(t *testing.T) {
		svc := newTestService(new(MockClientRepository), new(MockTaskRepository))

		_, err := svc.Create(ctx, adminActor(adminID), CreateClientInput{
			Name: "Sharma Traders",
			Type: directory.ClientTypeFirm,
			PAN:  "not-a-pan",
		})
		require.Error(t, err)
	})
}

func TestClientService_StaffVisibility(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	actor := staffActor(adminID)

	t.Run("staff list restricted to linked clients", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		taskRepo := new(MockTaskRepository)
		svc := newTestService(clientRepo, taskRepo)

		linked := testClient(t, adminID)
		ids := []uuid.UUID{linked.ID}
		taskRepo.On("ClientIDsForAssignee", ctx, actor.ID).Return(ids, nil)
		clientRepo.On("FindByIDs", ctx, adminID, ids).Return([]*directory.Client{linked}, nil)

		result, err := svc.List(ctx, actor, ListClientsInput{})
		require.NoError(t, err)
		require.Len(t, result.Clients, 1)
		assert.Equal(t, linked.ID, result.Clients[0].ID)
	})

	t.Run("staff cannot fetch unlinked client", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		taskRepo := new(MockTaskRepository)
		svc := newTestService(clientRepo, taskRepo)

		unlinked := testClient(t, adminID)
		clientRepo.On("FindByIDForOwner", ctx, adminID, unlinked.ID).Return(unlinked, nil)
		taskRepo.On("ClientIDsForAssignee", ctx, actor.ID).Return([]uuid.UUID{}, nil)

		_, err := svc.Get(ctx, actor, unlinked.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestClientService_RetireAndReactivate(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	clientRepo := new(MockClientRepository)
	svc := newTestService(clientRepo, new(MockTaskRepository))
	client := testClient(t, adminID)

	clientRepo.On("FindByIDForOwner", ctx, adminID, client.ID).Return(client, nil)
	clientRepo.On("Update", ctx, client).Return(nil)

	require.NoError(t, svc.Retire(ctx, adminActor(adminID), client.ID))
	assert.False(t, client.Active)

	// Retiring twice is an error
	require.Error(t, svc.Retire(ctx, adminActor(adminID), client.ID))

	require.NoError(t, svc.Reactivate(ctx, adminActor(adminID), client.ID))
	assert.True(t, client.Active)
}

func TestClientService_PermanentlyDelete(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("active client cannot be deleted", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		taskRepo := new(MockTaskRepository)
		svc := newTestService(clientRepo, taskRepo)
		client := testClient(t, adminID)

		clientRepo.On("FindByIDForOwner", ctx, adminID, client.ID).Return(client, nil)
		taskRepo.On("CountNonArchivedForClient", ctx, client.ID).Return(int64(0), nil)

		_, err := svc.PermanentlyDelete(ctx, adminActor(adminID), client.ID)
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "CLIENT_ACTIVE", domainErr.Code)
	})

	t.Run("retired client with active work cannot be deleted", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		taskRepo := new(MockTaskRepository)
		svc := newTestService(clientRepo, taskRepo)
		client := testClient(t, adminID)
		require.NoError(t, client.Retire(adminID))

		clientRepo.On("FindByIDForOwner", ctx, adminID, client.ID).Return(client, nil)
		taskRepo.On("CountNonArchivedForClient", ctx, client.ID).Return(int64(3), nil)

		_, err := svc.PermanentlyDelete(ctx, adminActor(adminID), client.ID)
		assert.ErrorIs(t, err, shared.ErrHasActiveWork)
	})

	t.Run("retired client with only archived tasks is deleted with cascade", func(t *testing.T) {
		clientRepo := new(MockClientRepository)
		taskRepo := new(MockTaskRepository)
		svc := newTestService(clientRepo, taskRepo)
		client := testClient(t, adminID)
		require.NoError(t, client.Retire(adminID))

		clientRepo.On("FindByIDForOwner", ctx, adminID, client.ID).Return(client, nil)
		taskRepo.On("CountNonArchivedForClient", ctx, client.ID).Return(int64(0), nil)
		taskRepo.On("DeleteArchivedForClient", ctx, client.ID).Return(int64(4), nil)
		clientRepo.On("Delete", ctx, client.ID).Return(nil)

		result, err := svc.PermanentlyDelete(ctx, adminActor(adminID), client.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.DeletedTasks)
		clientRepo.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
	})
}
