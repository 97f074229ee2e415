package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// CustomVariableRepositoryImpl implements CustomVariableRepository interface
type CustomVariableRepositoryImpl struct {
	*BaseRepository[models.CustomVariable, models.CustomVariableFilter]
}

// NewCustomVariableRepository creates a new custom variable repository
func NewCustomVariableRepository(db *gorm.DB) CustomVariableRepository {
	return &CustomVariableRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CustomVariable, models.CustomVariableFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *CustomVariableRepositoryImpl) applyFilter(query *gorm.DB, filter models.CustomVariableFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PhotographerID != nil {
		query = query.Where("photographer_id = ?", *filter.PhotographerID)
	}
	if filter.Key != nil {
		query = query.Where("key = ?", *filter.Key)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	return query
}

// ByFilter retrieves custom variables based on filter criteria
func (r *CustomVariableRepositoryImpl) ByFilter(ctx context.Context, filter models.CustomVariableFilter, orderBy string, limit, offset int) ([]*models.CustomVariable, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CustomVariable{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "key ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.CustomVariable
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of custom variables matching filter
func (r *CustomVariableRepositoryImpl) Count(ctx context.Context, filter models.CustomVariableFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.CustomVariable{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any custom variable matches the filter
func (r *CustomVariableRepositoryImpl) Exists(ctx context.Context, filter models.CustomVariableFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListByPhotographer retrieves all variables owned by the photographer
func (r *CustomVariableRepositoryImpl) ListByPhotographer(ctx context.Context, photographerID uint) ([]*models.CustomVariable, error) {
	rows, err := r.ByFilter(ctx, models.CustomVariableFilter{PhotographerID: &photographerID}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom variables: %w", err)
	}
	return rows, nil
}

// ByKey retrieves one variable by its key within a photographer's namespace
func (r *CustomVariableRepositoryImpl) ByKey(ctx context.Context, photographerID uint, key string) (*models.CustomVariable, error) {
	rows, err := r.ByFilter(ctx, models.CustomVariableFilter{PhotographerID: &photographerID, Key: &key}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find custom variable by key: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
