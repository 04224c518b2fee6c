package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/domain/task"
	"github.com/praktis/backend/internal/infrastructure/persistence/models"
)

// GormTaskRepository implements task.TaskRepository using GORM.
type GormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Create(models.TaskModelFromDomain(t)).Error
}

func (r *GormTaskRepository) Update(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Save(models.TaskModelFromDomain(t)).Error
}

func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TaskModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormTaskRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*task.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormTaskRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter task.TaskFilter) ([]*task.Task, int64, error) {
	query := r.applyTaskFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	return r.pageTasks(query, orderClause(filter.SortBy, filter.SortOrder, "created_at DESC"), filter.Offset(), filter.Limit())
}

func (r *GormTaskRepository) FindForAssignee(ctx context.Context, assigneeID uuid.UUID, filter task.TaskFilter) ([]*task.Task, int64, error) {
	query := r.applyTaskFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).Where("assigned_to_id = ?", assigneeID),
		filter,
	)
	return r.pageTasks(query, "due_date ASC, created_at DESC", filter.Offset(), filter.Limit())
}

func (r *GormTaskRepository) FindInactiveStaffTasks(ctx context.Context, ownerID uuid.UUID, staffIDs []uuid.UUID) ([]*task.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.TaskModel{}).
		Where("owner_id = ?", ownerID)
	if len(staffIDs) > 0 {
		query = query.Where("assigned_to_id IN ? OR legacy_assigned_name <> ''", staffIDs)
	} else {
		query = query.Where("legacy_assigned_name <> ''")
	}

	var taskModels []models.TaskModel
	if err := query.Order("updated_at DESC").Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return toDomainTasks(taskModels), nil
}

func (r *GormTaskRepository) ClientIDsForAssignee(ctx context.Context, assigneeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Distinct("client_id").
		Where("assigned_to_id = ? AND archived = ?", assigneeID, false).
		Pluck("client_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormTaskRepository) CountActiveForAssignee(ctx context.Context, assigneeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("assigned_to_id = ? AND archived = ?", assigneeID, false).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) CountNonArchivedForClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("client_id = ? AND archived = ?", clientID, false).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) DeleteArchivedForClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("client_id = ? AND archived = ?", clientID, true).
		Delete(&models.TaskModel{})
	return result.RowsAffected, result.Error
}

func (r *GormTaskRepository) ReassignToLegacy(ctx context.Context, staffID uuid.UUID, legacyName string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("assigned_to_id = ?", staffID).
		Updates(map[string]interface{}{
			"assigned_to_id":       nil,
			"legacy_assigned_name": legacyName,
		})
	return result.RowsAffected, result.Error
}

func (r *GormTaskRepository) ArchiveCompletedBefore(ctx context.Context, cutoff, archivedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("archived = ? AND status = ? AND completed_at IS NOT NULL AND completed_at < ?",
			false, task.StatusCompleted, cutoff).
		Updates(map[string]interface{}{
			"archived":      true,
			"archived_at":   archivedAt,
			"auto_archived": true,
		})
	return result.RowsAffected, result.Error
}

func (r *GormTaskRepository) CountAdvancesOnDay(ctx context.Context, ownerID uuid.UUID, day time.Time) (int64, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("owner_id = ? AND billing_advance_is_paid = ? AND billing_advance_paid_at >= ? AND billing_advance_paid_at < ?",
			ownerID, true, dayStart, dayEnd).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) FindBilled(ctx context.Context, ownerID uuid.UUID, filter task.BillingFilter) ([]*task.Task, int64, error) {
	query := r.applyBillingFilter(ctx, ownerID, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var taskModels []models.TaskModel
	if err := query.
		Select("tasks.*").
		Order("tasks.billing_issued_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&taskModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainTasks(taskModels), total, nil
}

func (r *GormTaskRepository) SummarizeBilling(ctx context.Context, ownerID uuid.UUID, filter task.BillingFilter) (*task.BillingSummary, error) {
	base := r.applyBillingFilter(ctx, ownerID, filter)

	type totalsRow struct {
		TotalBills    int64
		TotalAmount   decimal.Decimal
		TotalReceived decimal.Decimal
	}
	var totals totalsRow
	if err := base.Session(&gorm.Session{}).
		Select(
			"COUNT(*) AS total_bills, " +
				"COALESCE(SUM(tasks.billing_amount + tasks.billing_tax_amount - tasks.billing_discount), 0) AS total_amount, " +
				"COALESCE(SUM(tasks.billing_paid_amount + CASE WHEN tasks.billing_advance_is_paid THEN tasks.billing_advance_amount ELSE 0 END), 0) AS total_received",
		).
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	type statusRow struct {
		Status task.PaymentStatus
		Count  int64
	}
	var statusRows []statusRow
	if err := base.Session(&gorm.Session{}).
		Select("tasks.billing_status AS status, COUNT(*) AS count").
		Group("tasks.billing_status").
		Find(&statusRows).Error; err != nil {
		return nil, err
	}

	countByStatus := make(map[task.PaymentStatus]int64, len(statusRows))
	for _, row := range statusRows {
		countByStatus[row.Status] = row.Count
	}

	var overdue int64
	if err := base.Session(&gorm.Session{}).
		Where("tasks.billing_status = ? AND tasks.billing_due_date IS NOT NULL AND tasks.billing_due_date < ?",
			task.PaymentStatusUnpaid, time.Now()).
		Count(&overdue).Error; err != nil {
		return nil, err
	}

	return &task.BillingSummary{
		TotalBills:    totals.TotalBills,
		TotalAmount:   totals.TotalAmount,
		TotalReceived: totals.TotalReceived,
		CountByStatus: countByStatus,
		OverdueCount:  overdue,
	}, nil
}

func (r *GormTaskRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[task.Status]int64, error) {
	type row struct {
		Status task.Status
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Select("status, COUNT(*) AS count").
		Where("owner_id = ? AND archived = ?", ownerID, false).
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[task.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *GormTaskRepository) CountCompletedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("owner_id = ? AND status = ? AND completed_at >= ?", ownerID, task.StatusCompleted, since).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) CountDueBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("owner_id = ? AND archived = ? AND due_date >= ? AND due_date <= ?", ownerID, false, from, to).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) FindOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time, limit int) ([]*task.Task, error) {
	if limit <= 0 {
		limit = 20
	}
	var taskModels []models.TaskModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND archived = ? AND status <> ? AND due_date IS NOT NULL AND due_date < ?",
			ownerID, false, task.StatusCompleted, now).
		Order("due_date ASC").
		Limit(limit).
		Find(&taskModels).Error; err != nil {
		return nil, err
	}
	return toDomainTasks(taskModels), nil
}

func (r *GormTaskRepository) applyTaskFilter(query *gorm.DB, filter task.TaskFilter) *gorm.DB {
	archived := false
	if filter.Archived != nil {
		archived = *filter.Archived
	}
	query = query.Where("archived = ?", archived)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssigneeID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(service_type) LIKE ?", pattern, pattern)
	}
	return query
}

// applyBillingFilter builds the billed-tasks query. The client table is
// joined so keyword search can match client names and codes.
func (r *GormTaskRepository) applyBillingFilter(ctx context.Context, ownerID uuid.UUID, filter task.BillingFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Joins("JOIN clients ON clients.id = tasks.client_id").
		Where("tasks.owner_id = ? AND tasks.billing_status <> ?", ownerID, task.PaymentStatusNotIssued)

	if filter.Status != nil {
		if *filter.Status == task.PaymentStatusOverdue {
			query = query.Where(
				"tasks.billing_status = ? AND tasks.billing_due_date IS NOT NULL AND tasks.billing_due_date < ?",
				task.PaymentStatusUnpaid, time.Now(),
			)
		} else {
			query = query.Where("tasks.billing_status = ?", *filter.Status)
		}
	}
	if filter.ClientID != nil {
		query = query.Where("tasks.client_id = ?", *filter.ClientID)
	}
	if filter.From != nil {
		query = query.Where("tasks.billing_issued_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("tasks.billing_issued_at <= ?", *filter.To)
	}
	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where(
			"LOWER(tasks.title) LIKE ? OR LOWER(tasks.billing_invoice_number) LIKE ? OR LOWER(clients.name) LIKE ? OR LOWER(clients.code) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	return query
}

func (r *GormTaskRepository) pageTasks(query *gorm.DB, order string, offset, limit int) ([]*task.Task, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var taskModels []models.TaskModel
	if err := query.
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&taskModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainTasks(taskModels), total, nil
}

func toDomainTasks(taskModels []models.TaskModel) []*task.Task {
	tasks := make([]*task.Task, len(taskModels))
	for i := range taskModels {
		tasks[i] = taskModels[i].ToDomain()
	}
	return tasks
}

var _ task.TaskRepository = (*GormTaskRepository)(nil)
