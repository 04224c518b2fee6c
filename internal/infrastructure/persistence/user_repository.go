package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praktis/backend/internal/domain/identity"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/infrastructure/persistence/models"
)

// GormUserRepository implements identity.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Create(models.UserModelFromDomain(user)).Error
}

func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
}

func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		First(&model, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormUserRepository) FindStaff(ctx context.Context, adminID uuid.UUID, filter identity.UserFilter) ([]*identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("admin_id = ? AND role = ?", adminID, identity.RoleStaff)

	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userModels []models.UserModel
	if err := query.
		Order(orderClause(filter.SortBy, filter.SortOrder, "created_at DESC")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*identity.User, len(userModels))
	for i := range userModels {
		users[i] = userModels[i].ToDomain()
	}
	return users, total, nil
}

func (r *GormUserRepository) FindInactiveStaff(ctx context.Context, adminID uuid.UUID) ([]*identity.User, error) {
	var userModels []models.UserModel
	if err := r.db.WithContext(ctx).
		Where("admin_id = ? AND role = ? AND active = ?", adminID, identity.RoleStaff, false).
		Order("updated_at DESC").
		Find(&userModels).Error; err != nil {
		return nil, err
	}
	users := make([]*identity.User, len(userModels))
	for i := range userModels {
		users[i] = userModels[i].ToDomain()
	}
	return users, nil
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) CountStaff(ctx context.Context, adminID uuid.UUID) (int64, int64, error) {
	type row struct {
		Active bool
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Select("active, COUNT(*) AS count").
		Where("admin_id = ? AND role = ?", adminID, identity.RoleStaff).
		Group("active").
		Find(&rows).Error; err != nil {
		return 0, 0, err
	}

	var active, inactive int64
	for _, r := range rows {
		if r.Active {
			active = r.Count
		} else {
			inactive = r.Count
		}
	}
	return active, inactive, nil
}

// orderClause builds a safe ORDER BY clause from whitelisted columns.
func orderClause(sortBy, sortOrder, fallback string) string {
	allowed := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
		"first_name": true,
		"email":      true,
		"title":      true,
		"due_date":   true,
		"status":     true,
		"priority":   true,
	}
	if !allowed[sortBy] {
		return fallback
	}
	dir := "ASC"
	if strings.ToLower(sortOrder) == "desc" {
		dir = "DESC"
	}
	return sortBy + " " + dir
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
