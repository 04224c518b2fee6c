package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/infrastructure/auth"
)

func adminActor(adminID uuid.UUID) identity.Actor {
	return identity.Actor{ID: adminID, AdminID: adminID, Role: identity.RoleAdmin, Name: "Asha Rao"}
}

func staffActor(adminID uuid.UUID) identity.Actor {
	return identity.Actor{ID: uuid.New(), AdminID: adminID, Role: identity.RoleStaff, Name: "Ravi Kumar"}
}

func testStaff(t *testing.T, adminID uuid.UUID) *identity.User {
	t.Helper()
	user, err := identity.NewStaff(adminID, "Ravi", "Kumar", "ravi@example.com", "Str0ngPass!")
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func newTestUserService(repo *MockUserRepository, blacklist auth.TokenBlacklist) *UserService {
	if blacklist == nil {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	return NewUserService(repo, blacklist, nil, zap.NewNop())
}

func TestUserService_CreateStaff(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("admin creates staff in own practice", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)

		repo.On("ExistsByEmail", ctx, "ravi@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		info, err := svc.CreateStaff(ctx, adminActor(adminID), CreateStaffInput{
			FirstName: "Ravi",
			LastName:  "Kumar",
			Email:     "ravi@example.com",
			Password:  "Str0ngPass!",
		})
		require.NoError(t, err)
		assert.Equal(t, identity.RoleStaff, info.Role)
		assert.Equal(t, adminID, info.AdminID)
		repo.AssertExpectations(t)
	})

	t.Run("staff cannot create accounts", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)

		_, err := svc.CreateStaff(ctx, staffActor(adminID), CreateStaffInput{
			FirstName: "Ravi",
			LastName:  "Kumar",
			Email:     "ravi@example.com",
			Password:  "Str0ngPass!",
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)

		repo.On("ExistsByEmail", ctx, "ravi@example.com").Return(true, nil)

		_, err := svc.CreateStaff(ctx, adminActor(adminID), CreateStaffInput{
			FirstName: "Ravi",
			LastName:  "Kumar",
			Email:     "ravi@example.com",
			Password:  "Str0ngPass!",
		})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})
}

func TestUserService_DeactivateStaff(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()

	t.Run("deactivation revokes live tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		blacklist := auth.NewInMemoryTokenBlacklist()
		svc := newTestUserService(repo, blacklist)
		staff := testStaff(t, adminID)

		repo.On("FindByID", ctx, staff.ID).Return(staff, nil)
		repo.On("Update", ctx, staff).Return(nil)

		err := svc.DeactivateStaff(ctx, adminActor(adminID), staff.ID)
		require.NoError(t, err)
		assert.False(t, staff.Active)
	})

	t.Run("staff of another practice is invisible", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		staff := testStaff(t, uuid.New())

		repo.On("FindByID", ctx, staff.ID).Return(staff, nil)

		err := svc.DeactivateStaff(ctx, adminActor(adminID), staff.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("already inactive staff returns a domain error", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestUserService(repo, nil)
		staff := testStaff(t, adminID)
		require.NoError(t, staff.Deactivate())

		repo.On("FindByID", ctx, staff.ID).Return(staff, nil)

		err := svc.DeactivateStaff(ctx, adminActor(adminID), staff.ID)
		require.Error(t, err)
	})
}

func TestUserService_ListStaff(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	repo := new(MockUserRepository)
	svc := newTestUserService(repo, nil)
	staff := testStaff(t, adminID)

	repo.On("FindStaff", ctx, adminID, mock.AnythingOfType("identity.UserFilter")).
		Return([]*identity.User{staff}, int64(1), nil)

	result, err := svc.ListStaff(ctx, adminActor(adminID), ListStaffInput{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Staff, 1)
	assert.Equal(t, "Ravi Kumar", result.Staff[0].FullName)

	_, err = svc.ListStaff(ctx, staffActor(adminID), ListStaffInput{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUserService_ResetStaffPassword(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	repo := new(MockUserRepository)
	svc := newTestUserService(repo, nil)
	staff := testStaff(t, adminID)

	repo.On("FindByID", ctx, staff.ID).Return(staff, nil)
	repo.On("Update", ctx, staff).Return(nil)

	err := svc.ResetStaffPassword(ctx, adminActor(adminID), staff.ID, "BrandNewPass1")
	require.NoError(t, err)
	assert.True(t, staff.VerifyPassword("BrandNewPass1"))

	err = svc.ResetStaffPassword(ctx, adminActor(adminID), staff.ID, "short")
	require.Error(t, err)
}
