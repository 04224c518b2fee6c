package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/infrastructure/auth"
	"github.com/praktis/backend/internal/infrastructure/config"
)

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

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret",
		RefreshSecret:          "test-refresh-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "praktis-test",
	})
}

func newTestAuthService(repo *MockUserRepository) *AuthService {
	return NewAuthService(repo, newTestJWTService(), auth.NewInMemoryTokenBlacklist(), nil, zap.NewNop())
}

func testAdmin(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewAdmin("Asha", "Rao", "asha@example.com", "Str0ngPass!")
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login returns tokens and user info", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := testAdmin(t)

		repo.On("FindByEmail", ctx, "asha@example.com").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		result, err := svc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "Str0ngPass!"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, user.ID, result.User.ID)
		assert.Equal(t, identity.RoleAdmin, result.User.Role)
		assert.NotNil(t, user.LastLoginAt)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password is rejected without detail", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := testAdmin(t)

		repo.On("FindByEmail", ctx, "asha@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "wrong"})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("unknown email maps to the same error as wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "whatever"})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := testAdmin(t)
		require.NoError(t, user.Deactivate())

		repo.On("FindByEmail", ctx, "asha@example.com").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "Str0ngPass!"})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and logs in", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

		result, err := svc.RegisterAdmin(ctx, RegisterAdminInput{
			FirstName: "Vikram",
			LastName:  "Mehta",
			Email:     "new@example.com",
			Password:  "Str0ngPass!",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, identity.RoleAdmin, result.User.Role)
		assert.Equal(t, result.User.ID, result.User.AdminID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)

		repo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

		_, err := svc.RegisterAdmin(ctx, RegisterAdminInput{
			FirstName: "Vikram",
			LastName:  "Mehta",
			Email:     "taken@example.com",
			Password:  "Str0ngPass!",
		})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token yields a new pair", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := testAdmin(t)

		pair, err := svc.jwtService.GenerateTokenPair(user)
		require.NoError(t, err)

		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		result, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := testAdmin(t)

		pair, err := svc.jwtService.GenerateTokenPair(user)
		require.NoError(t, err)

		_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.AccessToken})
		require.Error(t, err)
	})

	t.Run("deactivated user cannot refresh", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newTestAuthService(repo)
		user := testAdmin(t)

		pair, err := svc.jwtService.GenerateTokenPair(user)
		require.NoError(t, err)
		require.NoError(t, user.Deactivate())

		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		_, err = svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		require.Error(t, err)
		domainErr, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(repo, newTestJWTService(), blacklist, nil, zap.NewNop())

	err := svc.Logout(ctx, LogoutInput{
		UserID:   uuid.New(),
		TokenJTI: "some-jti",
		TokenTTL: time.Minute,
	})
	require.NoError(t, err)

	revoked, err := blacklist.IsRevoked(ctx, "some-jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := newTestAuthService(repo)
	user := testAdmin(t)

	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Update", ctx, user).Return(nil)

	err := svc.ChangePassword(ctx, ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "Str0ngPass!",
		NewPassword: "NewStr0ngPass!",
	})
	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("NewStr0ngPass!"))

	err = svc.ChangePassword(ctx, ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "Str0ngPass!",
		NewPassword: "AnotherPass1",
	})
	require.Error(t, err)
}
