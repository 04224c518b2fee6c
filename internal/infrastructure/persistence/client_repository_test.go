package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/shared"
)

func createTestClient(t *testing.T, repo *GormClientRepository, ownerID uuid.UUID, name string) *directory.Client {
	t.Helper()
	client, err := directory.NewClient(ownerID, name, directory.ClientTypeIndividual, ownerID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), client))
	return client
}

func TestClientRepository_CreateAndFind(t *testing.T) {
	repo := NewGormClientRepository(setupTestDB(t))
	ctx := context.Background()
	ownerID := uuid.New()

	client := createTestClient(t, repo, ownerID, "Sharma Traders")

	found, err := repo.FindByIDForOwner(ctx, ownerID, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sharma Traders", found.Name)
	assert.True(t, found.Active)

	_, err = repo.FindByIDForOwner(ctx, uuid.New(), client.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClientRepository_FindAllForOwner(t *testing.T) {
	repo := NewGormClientRepository(setupTestDB(t))
	ctx := context.Background()
	ownerID := uuid.New()

	a := createTestClient(t, repo, ownerID, "Agarwal and Sons")
	a.SetPAN("ABCDE1234F")
	require.NoError(t, repo.Update(ctx, a))
	createTestClient(t, repo, ownerID, "Bhat Industries")
	createTestClient(t, repo, uuid.New(), "Other Practice Client")

	t.Run("scoped to owner", func(t *testing.T) {
		clients, total, err := repo.FindAllForOwner(ctx, ownerID, directory.NewClientFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, clients, 2)
		assert.Equal(t, "Agarwal and Sons", clients[0].Name)
	})

	t.Run("keyword matches PAN", func(t *testing.T) {
		clients, total, err := repo.FindAllForOwner(ctx, ownerID, directory.NewClientFilter().WithKeyword("abcde1234"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Agarwal and Sons", clients[0].Name)
	})

	t.Run("pagination", func(t *testing.T) {
		clients, total, err := repo.FindAllForOwner(ctx, ownerID, directory.NewClientFilter().WithPagination(2, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, clients, 1)
		assert.Equal(t, "Bhat Industries", clients[0].Name)
	})
}

func TestClientRepository_FindByIDs(t *testing.T) {
	repo := NewGormClientRepository(setupTestDB(t))
	ctx := context.Background()
	ownerID := uuid.New()

	a := createTestClient(t, repo, ownerID, "Agarwal and Sons")
	createTestClient(t, repo, ownerID, "Bhat Industries")

	clients, err := repo.FindByIDs(ctx, ownerID, []uuid.UUID{a.ID})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, a.ID, clients[0].ID)

	clients, err = repo.FindByIDs(ctx, ownerID, nil)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestClientRepository_InactiveAndCounts(t *testing.T) {
	repo := NewGormClientRepository(setupTestDB(t))
	ctx := context.Background()
	ownerID := uuid.New()

	createTestClient(t, repo, ownerID, "Agarwal and Sons")
	retired := createTestClient(t, repo, ownerID, "Bhat Industries")
	require.NoError(t, retired.Retire(ownerID))
	require.NoError(t, repo.Update(ctx, retired))

	inactive, err := repo.FindInactiveForOwner(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "Bhat Industries", inactive[0].Name)

	active, inactiveCount, err := repo.CountForOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)
	assert.Equal(t, int64(1), inactiveCount)
}

func TestClientRepository_Delete(t *testing.T) {
	repo := NewGormClientRepository(setupTestDB(t))
	ctx := context.Background()
	ownerID := uuid.New()
	client := createTestClient(t, repo, ownerID, "Agarwal and Sons")

	require.NoError(t, repo.Delete(ctx, client.ID))
	_, err := repo.FindByID(ctx, client.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClientRepository_UpdatePersistsContactFields(t *testing.T) {
	repo := NewGormClientRepository(setupTestDB(t))
	ctx := context.Background()
	ownerID := uuid.New()

	client := createTestClient(t, repo, ownerID, "Agarwal and Sons")
	require.NoError(t, client.SetContact("9876543210", "", "Billing@Example.com"))
	require.NoError(t, repo.Update(ctx, client))

	found, err := repo.FindByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "billing@example.com", found.Email)
	assert.Equal(t, "9876543210", found.Mobile)
}
