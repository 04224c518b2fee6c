package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
)

// Completed tasks older than this are picked up by the archive sweep
const defaultArchiveAfterDays = 7

// TaskService handles the task lifecycle from creation to archival.
// Admins manage all tasks of their practice; staff operate on the tasks
// assigned to them.
type TaskService struct {
	taskRepo         task.TaskRepository
	clientRepo       directory.ClientRepository
	userRepo         identity.UserRepository
	publisher        shared.EventPublisher
	archiveAfterDays int
	logger           *zap.Logger
}

// NewTaskService creates a new task lifecycle service
func NewTaskService(
	taskRepo task.TaskRepository,
	clientRepo directory.ClientRepository,
	userRepo identity.UserRepository,
	publisher shared.EventPublisher,
	archiveAfterDays int,
	logger *zap.Logger,
) *TaskService {
	if archiveAfterDays <= 0 {
		archiveAfterDays = defaultArchiveAfterDays
	}
	return &TaskService{
		taskRepo:         taskRepo,
		clientRepo:       clientRepo,
		userRepo:         userRepo,
		publisher:        publisher,
		archiveAfterDays: archiveAfterDays,
		logger:           logger,
	}
}

// Create creates a task for a client, optionally assigning it and
// recording an advance payment collected up front.
func (s *TaskService) Create(ctx context.Context, actor identity.Actor, input CreateTaskInput) (*TaskResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	if _, err := s.clientRepo.FindByIDForOwner(ctx, actor.AdminID, input.ClientID); err != nil {
		return nil, shared.NewDomainError("CLIENT_NOT_FOUND", "Client not found")
	}

	t, err := task.NewTask(actor.AdminID, input.ClientID, input.Title, actor.ID)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = task.PriorityNormal
	}
	if err := t.SetDetails(input.ServiceType, input.AssessmentYear, input.Period, priority, input.DueDate); err != nil {
		return nil, err
	}

	if input.AssigneeID != nil {
		assignee, err := s.findAssignableStaff(ctx, actor, *input.AssigneeID)
		if err != nil {
			return nil, err
		}
		if err := t.Assign(assignee.ID, assignee.FullName(), actor.ID); err != nil {
			return nil, err
		}
	}

	if input.Advance != nil {
		receipt, err := s.nextAdvanceReceipt(ctx, actor.AdminID)
		if err != nil {
			return nil, err
		}
		if err := t.RecordAdvance(input.Advance.Amount, input.Advance.PaymentMode, input.Advance.TransactionID, input.Advance.Notes, receipt, actor.ID); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		s.logger.Error("Failed to create task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create task")
	}
	s.publishDomainEvents(ctx, t)

	s.logger.Info("Task created",
		zap.String("task_id", t.ID.String()),
		zap.String("client_id", t.ClientID.String()),
		zap.String("title", t.Title))

	resp := toTaskResponse(t, time.Now())
	return &resp, nil
}

// Update edits the descriptive fields of a task
func (s *TaskService) Update(ctx context.Context, actor identity.Actor, taskID uuid.UUID, input UpdateTaskInput) (*TaskResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	t, err := s.taskRepo.FindByIDForOwner(ctx, actor.AdminID, taskID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if t.Archived {
		return nil, shared.ErrArchived
	}

	if input.Title != "" && input.Title != t.Title {
		if err := t.Rename(input.Title); err != nil {
			return nil, err
		}
	}
	priority := input.Priority
	if priority == "" {
		priority = t.Priority
	}
	if err := t.SetDetails(input.ServiceType, input.AssessmentYear, input.Period, priority, input.DueDate); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to update task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update task")
	}

	resp := toTaskResponse(t, time.Now())
	return &resp, nil
}

// Assign hands a task to a staff member
func (s *TaskService) Assign(ctx context.Context, actor identity.Actor, taskID, assigneeID uuid.UUID) (*TaskResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	t, err := s.taskRepo.FindByIDForOwner(ctx, actor.AdminID, taskID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	assignee, err := s.findAssignableStaff(ctx, actor, assigneeID)
	if err != nil {
		return nil, err
	}

	if err := t.Assign(assignee.ID, assignee.FullName(), actor.ID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to assign task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign task")
	}
	s.publishDomainEvents(ctx, t)

	s.logger.Info("Task assigned",
		zap.String("task_id", t.ID.String()),
		zap.String("assignee_id", assignee.ID.String()))

	resp := toTaskResponse(t, time.Now())
	return &resp, nil
}

// UpdateStatus moves a task through the work status flow. Staff may only
// update tasks assigned to them.
func (s *TaskService) UpdateStatus(ctx context.Context, actor identity.Actor, taskID uuid.UUID, input UpdateStatusInput) (*TaskResponse, error) {
	t, err := s.findVisible(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := t.UpdateStatus(input.Status, input.Note, actor.ID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to update task status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update task status")
	}
	s.publishDomainEvents(ctx, t)

	resp := toTaskResponse(t, time.Now())
	return &resp, nil
}

// AddNote attaches a free-form note to a task
func (s *TaskService) AddNote(ctx context.Context, actor identity.Actor, taskID uuid.UUID, text string) (*TaskResponse, error) {
	t, err := s.findVisible(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := t.AddNote(text, actor.Name, actor.ID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to add task note", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add note")
	}

	resp := toTaskResponse(t, time.Now())
	return &resp, nil
}

// Archive moves a task into the archive. Admins may archive any task
// of the practice; staff only their own task once it is completed.
func (s *TaskService) Archive(ctx context.Context, actor identity.Actor, taskID uuid.UUID) error {
	t, err := s.taskRepo.FindByIDForOwner(ctx, actor.AdminID, taskID)
	if err != nil {
		return shared.ErrNotFound
	}

	if !actor.IsAdmin() {
		assigned := t.AssignedToID != nil && *t.AssignedToID == actor.ID
		if !assigned || t.Status != task.StatusCompleted {
			return shared.ErrForbidden
		}
	}

	if err := t.Archive(actor.ID); err != nil {
		return err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to archive task", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to archive task")
	}
	s.publishDomainEvents(ctx, t)

	s.logger.Info("Task archived", zap.String("task_id", t.ID.String()))
	return nil
}

// Restore brings an archived task back into active work
func (s *TaskService) Restore(ctx context.Context, actor identity.Actor, taskID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	t, err := s.taskRepo.FindByIDForOwner(ctx, actor.AdminID, taskID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := t.Restore(actor.ID); err != nil {
		return err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		s.logger.Error("Failed to restore task", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to restore task")
	}
	s.publishDomainEvents(ctx, t)

	s.logger.Info("Task restored", zap.String("task_id", t.ID.String()))
	return nil
}

// PermanentlyDelete hard-deletes a task. Completed tasks and tasks with
// financial history are protected.
func (s *TaskService) PermanentlyDelete(ctx context.Context, actor identity.Actor, taskID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	t, err := s.taskRepo.FindByIDForOwner(ctx, actor.AdminID, taskID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := t.CanPermanentlyDelete(); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		s.logger.Error("Failed to delete task", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete task")
	}

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, task.NewTaskDeletedEvent(t, actor.ID))
	}

	s.logger.Info("Task permanently deleted", zap.String("task_id", taskID.String()))
	return nil
}

// Get returns one task. Staff only see tasks assigned to them.
func (s *TaskService) Get(ctx context.Context, actor identity.Actor, taskID uuid.UUID) (*TaskResponse, error) {
	t, err := s.findVisible(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	resp := toTaskResponse(t, time.Now())
	return &resp, nil
}

// List returns a page of the practice's tasks with filters
func (s *TaskService) List(ctx context.Context, actor identity.Actor, input ListTasksInput) (*TaskListResult, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	filter := task.NewTaskFilter().
		WithKeyword(input.Keyword).
		WithPagination(input.Page, input.PageSize)
	filter.Status = input.Status
	filter.Priority = input.Priority
	filter.AssigneeID = input.AssigneeID
	filter.ClientID = input.ClientID
	if input.Archived != nil {
		filter.Archived = input.Archived
	}
	if input.SortBy != "" {
		filter.SortBy = input.SortBy
		filter.SortOrder = input.SortOrder
	}

	tasks, total, err := s.taskRepo.FindAllForOwner(ctx, actor.AdminID, filter)
	if err != nil {
		s.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tasks")
	}

	return &TaskListResult{
		Tasks:      toTaskResponses(tasks, time.Now()),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}

// MyTasks returns the acting staff member's open tasks ordered by due date
func (s *TaskService) MyTasks(ctx context.Context, actor identity.Actor, input ListTasksInput) (*TaskListResult, error) {
	filter := task.NewTaskFilter().
		WithKeyword(input.Keyword).
		WithPagination(input.Page, input.PageSize)
	filter.Status = input.Status
	filter.Priority = input.Priority

	tasks, total, err := s.taskRepo.FindForAssignee(ctx, actor.ID, filter)
	if err != nil {
		s.logger.Error("Failed to list assigned tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tasks")
	}

	return &TaskListResult{
		Tasks:      toTaskResponses(tasks, time.Now()),
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}

// Summary returns per-status counts: the whole practice for admins, the
// actor's own workload for staff.
func (s *TaskService) Summary(ctx context.Context, actor identity.Actor) (*SummaryResult, error) {
	if actor.IsAdmin() {
		byStatus, err := s.taskRepo.CountByStatus(ctx, actor.AdminID)
		if err != nil {
			s.logger.Error("Failed to summarize tasks", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to summarize tasks")
		}
		return summaryFromCounts(byStatus), nil
	}

	filter := task.NewTaskFilter().WithPagination(1, 100)
	tasks, total, err := s.taskRepo.FindForAssignee(ctx, actor.ID, filter)
	if err != nil {
		s.logger.Error("Failed to summarize assigned tasks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to summarize tasks")
	}

	byStatus := make(map[task.Status]int64)
	for _, t := range tasks {
		byStatus[t.Status]++
	}
	result := summaryFromCounts(byStatus)
	result.Total = total
	return result, nil
}

// RunArchiveSweep archives completed tasks older than the configured
// window. Repeat runs are no-ops for already archived tasks.
func (s *TaskService) RunArchiveSweep(ctx context.Context) (*SweepResult, error) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, -s.archiveAfterDays)

	archived, err := s.taskRepo.ArchiveCompletedBefore(ctx, cutoff, now)
	if err != nil {
		s.logger.Error("Archive sweep failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Archive sweep failed")
	}

	if archived > 0 {
		s.logger.Info("Archive sweep completed",
			zap.Int64("archived", archived),
			zap.Time("cutoff", cutoff))
	}

	return &SweepResult{Archived: archived, Cutoff: cutoff}, nil
}

func (s *TaskService) findVisible(ctx context.Context, actor identity.Actor, taskID uuid.UUID) (*task.Task, error) {
	t, err := s.taskRepo.FindByIDForOwner(ctx, actor.AdminID, taskID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !actor.IsAdmin() {
		if t.AssignedToID == nil || *t.AssignedToID != actor.ID {
			return nil, shared.ErrNotFound
		}
	}
	return t, nil
}

func (s *TaskService) findAssignableStaff(ctx context.Context, actor identity.Actor, staffID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		return nil, shared.NewDomainError("ASSIGNEE_NOT_FOUND", "Assignee not found")
	}
	if !actor.Owns(user.AdminID) {
		return nil, shared.NewDomainError("ASSIGNEE_NOT_FOUND", "Assignee not found")
	}
	if !user.Active {
		return nil, shared.NewDomainError("ASSIGNEE_INACTIVE", "Assignee account is deactivated")
	}
	return user, nil
}

func (s *TaskService) nextAdvanceReceipt(ctx context.Context, ownerID uuid.UUID) (string, error) {
	now := time.Now()
	seq, err := s.taskRepo.CountAdvancesOnDay(ctx, ownerID, now)
	if err != nil {
		s.logger.Error("Failed to count advance receipts", zap.Error(err))
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to allocate receipt number")
	}
	return task.AdvanceReceiptNumber(now, seq+1), nil
}

func summaryFromCounts(byStatus map[task.Status]int64) *SummaryResult {
	var total int64
	for _, n := range byStatus {
		total += n
	}
	return &SummaryResult{ByStatus: byStatus, Total: total}
}

func (s *TaskService) publishDomainEvents(ctx context.Context, t *task.Task) {
	if s.publisher == nil {
		return
	}
	events := t.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.publisher.Publish(ctx, events...)
	t.ClearDomainEvents()
}
