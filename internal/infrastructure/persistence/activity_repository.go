package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praktis/backend/internal/domain/activity"
	"github.com/praktis/backend/internal/infrastructure/persistence/models"
)

// GormActivityRepository implements activity.ActivityRepository using GORM.
type GormActivityRepository struct {
	db *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	return r.db.WithContext(ctx).Create(models.ActivityModelFromDomain(a)).Error
}

func (r *GormActivityRepository) FindRecentForOwner(ctx context.Context, ownerID uuid.UUID, filter activity.Filter) ([]*activity.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityModel{}).
		Where("owner_id = ?", ownerID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.MinPriority != nil {
		query = query.Where("priority IN ?", prioritiesAtOrAbove(*filter.MinPriority))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activityModels []models.ActivityModel
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&activityModels).Error; err != nil {
		return nil, 0, err
	}

	activities := make([]*activity.Activity, len(activityModels))
	for i := range activityModels {
		activities[i] = activityModels[i].ToDomain()
	}
	return activities, total, nil
}

func (r *GormActivityRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.ActivityModel{})
	return result.RowsAffected, result.Error
}

func prioritiesAtOrAbove(min activity.Priority) []activity.Priority {
	switch min {
	case activity.PriorityCritical:
		return []activity.Priority{activity.PriorityCritical}
	case activity.PriorityImportant:
		return []activity.Priority{activity.PriorityImportant, activity.PriorityCritical}
	default:
		return []activity.Priority{activity.PriorityInfo, activity.PriorityImportant, activity.PriorityCritical}
	}
}

var _ activity.ActivityRepository = (*GormActivityRepository)(nil)
