package management

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
	"github.com/praktis/backend/internal/infrastructure/auth"
)

const removedStaffRevocationTTL = 30 * 24 * time.Hour

// ManagementService covers the practice cleanup surface: reporting on
// deactivated staff and retired clients, listing the tasks they leave
// behind and permanently removing staff accounts with legacy
// attribution on their tasks.
type ManagementService struct {
	userRepo   identity.UserRepository
	clientRepo directory.ClientRepository
	taskRepo   task.TaskRepository
	blacklist  auth.TokenBlacklist
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewManagementService creates a new management service
func NewManagementService(
	userRepo identity.UserRepository,
	clientRepo directory.ClientRepository,
	taskRepo task.TaskRepository,
	blacklist auth.TokenBlacklist,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ManagementService {
	return &ManagementService{
		userRepo:   userRepo,
		clientRepo: clientRepo,
		taskRepo:   taskRepo,
		blacklist:  blacklist,
		publisher:  publisher,
		logger:     logger,
	}
}

// InactiveEntities returns the deactivated staff and retired clients of
// a practice. Each staff entry carries the count of non-archived tasks
// still assigned to them.
func (s *ManagementService) InactiveEntities(ctx context.Context, actor identity.Actor) (*InactiveReport, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	staff, err := s.userRepo.FindInactiveStaff(ctx, actor.AdminID)
	if err != nil {
		s.logger.Error("Failed to list inactive staff", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list inactive staff")
	}

	clients, err := s.clientRepo.FindInactiveForOwner(ctx, actor.AdminID)
	if err != nil {
		s.logger.Error("Failed to list inactive clients", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list inactive clients")
	}

	report := &InactiveReport{
		Staff:   make([]InactiveStaff, 0, len(staff)),
		Clients: make([]InactiveClient, 0, len(clients)),
	}
	for _, user := range staff {
		open, err := s.taskRepo.CountActiveForAssignee(ctx, user.ID)
		if err != nil {
			s.logger.Warn("Failed to count open tasks for inactive staff",
				zap.String("staff_id", user.ID.String()), zap.Error(err))
			open = 0
		}
		report.Staff = append(report.Staff, toInactiveStaff(user, open))
	}
	for _, client := range clients {
		report.Clients = append(report.Clients, toInactiveClient(client))
	}

	return report, nil
}

// OrphanedTasks lists non-archived tasks whose assignee is a
// deactivated staff account, plus tasks already carrying legacy
// attribution from removed staff.
func (s *ManagementService) OrphanedTasks(ctx context.Context, actor identity.Actor) ([]OrphanedTask, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	staff, err := s.userRepo.FindInactiveStaff(ctx, actor.AdminID)
	if err != nil {
		s.logger.Error("Failed to list inactive staff", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orphaned tasks")
	}

	staffIDs := make([]uuid.UUID, 0, len(staff))
	for _, user := range staff {
		staffIDs = append(staffIDs, user.ID)
	}

	tasks, err := s.taskRepo.FindInactiveStaffTasks(ctx, actor.AdminID, staffIDs)
	if err != nil {
		s.logger.Error("Failed to list orphaned tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orphaned tasks")
	}

	result := make([]OrphanedTask, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, toOrphanedTask(t))
	}
	return result, nil
}

// RemoveStaff permanently deletes a staff account. The account must be
// deactivated first and must have no non-archived tasks assigned.
// Their remaining tasks keep the staff member's name as legacy
// attribution so work history stays readable after the account row is
// gone.
func (s *ManagementService) RemoveStaff(ctx context.Context, actor identity.Actor, staffID uuid.UUID) (*RemoveStaffResult, error) {
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
	if user.Active {
		return nil, shared.NewDomainError("STAFF_STILL_ACTIVE", "Deactivate the staff account before removing it")
	}

	open, err := s.taskRepo.CountActiveForAssignee(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to count active tasks for staff removal",
			zap.String("staff_id", user.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to remove staff member")
	}
	if open > 0 {
		return nil, shared.NewDomainError("HAS_ACTIVE_WORK",
			fmt.Sprintf("Staff member still has %d active tasks assigned", open))
	}

	reassigned, err := s.taskRepo.ReassignToLegacy(ctx, user.ID, user.FullName())
	if err != nil {
		s.logger.Error("Failed to reassign tasks to legacy attribution",
			zap.String("staff_id", user.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to remove staff member")
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		s.logger.Error("Failed to delete staff account",
			zap.String("staff_id", user.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to remove staff member")
	}

	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), removedStaffRevocationTTL); err != nil {
		s.logger.Warn("Failed to revoke tokens for removed staff",
			zap.String("staff_id", user.ID.String()), zap.Error(err))
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, identity.NewStaffRemovedEvent(user, actor, reassigned))
	}

	s.logger.Info("Staff member removed",
		zap.String("staff_id", user.ID.String()),
		zap.String("name", user.FullName()),
		zap.Int64("reassigned_tasks", reassigned))

	return &RemoveStaffResult{
		StaffID:         user.ID,
		Name:            user.FullName(),
		ReassignedTasks: reassigned,
	}, nil
}
