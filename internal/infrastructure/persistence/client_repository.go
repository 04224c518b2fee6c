package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praktis/backend/internal/domain/directory"
	"github.com/praktis/backend/internal/domain/shared"
	"github.com/praktis/backend/internal/infrastructure/persistence/models"
)

// GormClientRepository implements directory.ClientRepository using GORM.
type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) Create(ctx context.Context, client *directory.Client) error {
	return r.db.WithContext(ctx).Create(models.ClientModelFromDomain(client)).Error
}

func (r *GormClientRepository) Update(ctx context.Context, client *directory.Client) error {
	return r.db.WithContext(ctx).Save(models.ClientModelFromDomain(client)).Error
}

func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ClientModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormClientRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*directory.Client, error) {
	var model models.ClientModel
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

func (r *GormClientRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter directory.ClientFilter) ([]*directory.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("owner_id = ?", ownerID)

	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Keyword != "" {
		pattern := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(pan) LIKE ? OR LOWER(gstin) LIKE ? OR mobile LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clientModels []models.ClientModel
	if err := query.
		Order(orderClause(filter.SortBy, filter.SortOrder, "name ASC")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&clientModels).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]*directory.Client, len(clientModels))
	for i := range clientModels {
		clients[i] = clientModels[i].ToDomain()
	}
	return clients, total, nil
}

func (r *GormClientRepository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*directory.Client, error) {
	if len(ids) == 0 {
		return []*directory.Client{}, nil
	}
	var clientModels []models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Order("name ASC").
		Find(&clientModels).Error; err != nil {
		return nil, err
	}
	clients := make([]*directory.Client, len(clientModels))
	for i := range clientModels {
		clients[i] = clientModels[i].ToDomain()
	}
	return clients, nil
}

func (r *GormClientRepository) FindInactiveForOwner(ctx context.Context, ownerID uuid.UUID) ([]*directory.Client, error) {
	var clientModels []models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND active = ?", ownerID, false).
		Order("updated_at DESC").
		Find(&clientModels).Error; err != nil {
		return nil, err
	}
	clients := make([]*directory.Client, len(clientModels))
	for i := range clientModels {
		clients[i] = clientModels[i].ToDomain()
	}
	return clients, nil
}

func (r *GormClientRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID) (int64, int64, error) {
	type row struct {
		Active bool
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.ClientModel{}).
		Select("active, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
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

var _ directory.ClientRepository = (*GormClientRepository)(nil)
