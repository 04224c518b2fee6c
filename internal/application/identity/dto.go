package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/praktis/backend/internal/domain/identity"
)

// RegisterAdminInput contains the input for bootstrapping a practice owner
type RegisterAdminInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned to the client
type UserInfo struct {
	ID          uuid.UUID
	AdminID     uuid.UUID
	FirstName   string
	LastName    string
	FullName    string
	Email       string
	Phone       string
	Role        identity.Role
	Active      bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	// Remaining lifetime of the access token, used as the revocation TTL
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateStaffInput contains the input for creating a staff account
type CreateStaffInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// UpdateStaffInput contains the input for updating a staff profile
type UpdateStaffInput struct {
	FirstName string
	LastName  string
	Phone     string
}

// ListStaffInput contains filter options for listing staff
type ListStaffInput struct {
	Keyword  string
	Active   *bool
	Page     int
	PageSize int
}

// StaffListResult contains a page of staff accounts
type StaffListResult struct {
	Staff      []UserInfo
	TotalCount int64
	Page       int
	PageSize   int
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		AdminID:     u.AdminID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
