package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/infrastructure/auth"
)

// UserService handles staff account management. All operations require an
// admin actor; staff accounts always belong to the acting admin's practice.
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new user management service
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateStaff creates a staff account owned by the acting admin
func (s *UserService) CreateStaff(ctx context.Context, actor identity.Actor, input CreateStaffInput) (*UserInfo, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email availability", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if taken {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewStaff(actor.AdminID, input.FirstName, input.LastName, input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.UpdateProfile(input.FirstName, input.LastName, input.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create staff account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create staff account")
	}
	s.publishDomainEvents(ctx, user)

	s.logger.Info("Staff account created",
		zap.String("staff_id", user.ID.String()),
		zap.String("admin_id", actor.AdminID.String()))

	info := toUserInfo(user)
	return &info, nil
}

// UpdateStaff updates a staff member's profile
func (s *UserService) UpdateStaff(ctx context.Context, actor identity.Actor, staffID uuid.UUID, input UpdateStaffInput) (*UserInfo, error) {
	user, err := s.findOwnedStaff(ctx, actor, staffID)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(input.FirstName, input.LastName, input.Phone); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update staff profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update staff profile")
	}

	info := toUserInfo(user)
	return &info, nil
}

// GetStaff returns one staff member of the acting admin's practice
func (s *UserService) GetStaff(ctx context.Context, actor identity.Actor, staffID uuid.UUID) (*UserInfo, error) {
	user, err := s.findOwnedStaff(ctx, actor, staffID)
	if err != nil {
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}

// ListStaff returns a page of the practice's staff accounts
func (s *UserService) ListStaff(ctx context.Context, actor identity.Actor, input ListStaffInput) (*StaffListResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	filter := identity.NewUserFilter().
		WithKeyword(input.Keyword).
		WithPagination(input.Page, input.PageSize)
	filter.Active = input.Active

	users, total, err := s.userRepo.FindStaff(ctx, actor.AdminID, filter)
	if err != nil {
		s.logger.Error("Failed to list staff", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list staff")
	}

	staff := make([]UserInfo, 0, len(users))
	for _, u := range users {
		staff = append(staff, toUserInfo(u))
	}

	return &StaffListResult{
		Staff:      staff,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}

// DeactivateStaff disables a staff account and revokes its live tokens
func (s *UserService) DeactivateStaff(ctx context.Context, actor identity.Actor, staffID uuid.UUID) error {
	user, err := s.findOwnedStaff(ctx, actor, staffID)
	if err != nil {
		return err
	}

	if err := user.Deactivate(); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to deactivate staff", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate staff")
	}
	s.publishDomainEvents(ctx, user)

	// Invalidate tokens issued before this point
	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), 30*24*time.Hour); err != nil {
		s.logger.Error("Failed to revoke staff tokens", zap.Error(err))
	}

	s.logger.Info("Staff account deactivated",
		zap.String("staff_id", user.ID.String()),
		zap.String("admin_id", actor.AdminID.String()))

	return nil
}

// ActivateStaff re-enables a deactivated staff account
func (s *UserService) ActivateStaff(ctx context.Context, actor identity.Actor, staffID uuid.UUID) error {
	user, err := s.findOwnedStaff(ctx, actor, staffID)
	if err != nil {
		return err
	}

	if err := user.Activate(); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to activate staff", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to activate staff")
	}
	s.publishDomainEvents(ctx, user)

	s.logger.Info("Staff account activated", zap.String("staff_id", user.ID.String()))
	return nil
}

// ResetStaffPassword sets a new password without the old one (admin reset)
func (s *UserService) ResetStaffPassword(ctx context.Context, actor identity.Actor, staffID uuid.UUID, newPassword string) error {
	user, err := s.findOwnedStaff(ctx, actor, staffID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to reset staff password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("Staff password reset", zap.String("staff_id", user.ID.String()))
	return nil
}

func (s *UserService) findOwnedStaff(ctx context.Context, actor identity.Actor, staffID uuid.UUID) (*identity.User, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if user.Role != identity.RoleStaff || !actor.Owns(user.AdminID) {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *UserService) publishDomainEvents(ctx context.Context, user *identity.User) {
	if s.publisher == nil {
		return
	}
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	user.ClearDomainEvents()
}
