package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
)

const overdueListLimit = 20

// DashboardService aggregates the practice-wide numbers shown on the
// landing screen. Everything here is read-only.
type DashboardService struct {
	taskRepo   task.TaskRepository
	clientRepo directory.ClientRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	taskRepo task.TaskRepository,
	clientRepo directory.ClientRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		taskRepo:   taskRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Stats returns the operational overview for a practice: task counts by
// status, completed today, due this week, client and staff counts and
// billing totals.
func (s *DashboardService) Stats(ctx context.Context, actor identity.Actor) (*StatsResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfWeek := startOfDay.AddDate(0, 0, 7)

	byStatus, err := s.taskRepo.CountByStatus(ctx, actor.AdminID)
	if err != nil {
		return nil, s.internal("count tasks by status", err)
	}

	completedToday, err := s.taskRepo.CountCompletedSince(ctx, actor.AdminID, startOfDay)
	if err != nil {
		return nil, s.internal("count completed tasks", err)
	}

	dueThisWeek, err := s.taskRepo.CountDueBetween(ctx, actor.AdminID, startOfDay, endOfWeek)
	if err != nil {
		return nil, s.internal("count due tasks", err)
	}

	overdue, err := s.taskRepo.FindOverdue(ctx, actor.AdminID, now, overdueListLimit)
	if err != nil {
		return nil, s.internal("list overdue tasks", err)
	}

	activeClients, inactiveClients, err := s.clientRepo.CountForOwner(ctx, actor.AdminID)
	if err != nil {
		return nil, s.internal("count clients", err)
	}

	activeStaff, inactiveStaff, err := s.userRepo.CountStaff(ctx, actor.AdminID)
	if err != nil {
		return nil, s.internal("count staff", err)
	}

	billingSummary, err := s.taskRepo.SummarizeBilling(ctx, actor.AdminID, task.NewBillingFilter())
	if err != nil {
		return nil, s.internal("summarize billing", err)
	}

	statusCounts := StatusCounts{
		NotStarted: byStatus[task.StatusNotStarted],
		InProgress: byStatus[task.StatusInProgress],
		Completed:  byStatus[task.StatusCompleted],
	}
	statusCounts.Total = statusCounts.NotStarted + statusCounts.InProgress + statusCounts.Completed

	return &StatsResult{
		Tasks: TaskStats{
			ByStatus:       statusCounts,
			CompletedToday: completedToday,
			DueThisWeek:    dueThisWeek,
			OverdueCount:   int64(len(overdue)),
		},
		Overdue: toOverdueItems(overdue, now),
		Clients: SplitCount{Active: activeClients, Inactive: inactiveClients},
		Staff:   SplitCount{Active: activeStaff, Inactive: inactiveStaff},
		Billing: billingSummary,
	}, nil
}

func (s *DashboardService) internal(action string, err error) error {
	s.logger.Error("Dashboard query failed", zap.String("action", action), zap.Error(err))
	return shared.NewDomainError("INTERNAL_ERROR", "Failed to load dashboard stats")
}
