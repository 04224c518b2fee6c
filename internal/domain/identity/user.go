package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/praktis/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents the role of a user within a practice
type Role string

const (
	RoleAdmin Role = "ADMIN" // Practice owner
	RoleStaff Role = "STAFF" // Staff account created by an admin
)

// Password cost for bcrypt
const bcryptCost = 12

// User represents an account in the system.
// An admin owns the practice; staff accounts belong to the admin that
// created them. AdminID equals the user's own ID for admin accounts.
type User struct {
	shared.BaseAggregateRoot
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	AdminID      uuid.UUID
	Active       bool
	LastLoginAt  *time.Time
}

// NewAdmin creates a new practice owner account
func NewAdmin(firstName, lastName, email, password string) (*User, error) {
	user, err := newUser(firstName, lastName, email, password)
	if err != nil {
		return nil, err
	}

	user.Role = RoleAdmin
	user.AdminID = user.ID

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// NewStaff creates a new staff account owned by the given admin
func NewStaff(adminID uuid.UUID, firstName, lastName, email, password string) (*User, error) {
	if adminID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADMIN_ID", "Admin ID cannot be empty")
	}

	user, err := newUser(firstName, lastName, email, password)
	if err != nil {
		return nil, err
	}

	user.Role = RoleStaff
	user.AdminID = adminID

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

func newUser(firstName, lastName, email, password string) (*User, error) {
	if err := validateName(firstName); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		Active:            true,
	}, nil
}

// FullName returns "FirstName LastName", trimmed when the last name is empty.
// This is the exact string snapshotted into legacy task attribution.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin returns true for practice owner accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateProfile updates the user's name and phone
func (u *User) UpdateProfile(firstName, lastName, phone string) error {
	if err := validateName(firstName); err != nil {
		return err
	}
	if phone != "" && len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}

	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Phone = strings.TrimSpace(phone)
	u.Touch()
	u.IncrementVersion()

	return nil
}

// ChangePassword changes the user's password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}

	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.Touch()
	u.IncrementVersion()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Deactivate marks the account inactive so it can no longer authenticate
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Account is already inactive")
	}

	u.Active = false
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserDeactivatedEvent(u))

	return nil
}

// Activate re-enables a deactivated account
func (u *User) Activate() error {
	if u.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Account is already active")
	}

	u.Active = true
	u.Touch()
	u.IncrementVersion()

	u.AddDomainEvent(NewUserActivatedEvent(u))

	return nil
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	u.IncrementVersion()
}

// Validation functions

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
