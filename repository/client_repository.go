package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// ClientRepositoryImpl implements ClientRepository interface
type ClientRepositoryImpl struct {
	*BaseRepository[models.Client, models.ClientFilter]
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &ClientRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Client, models.ClientFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ClientRepositoryImpl) applyFilter(query *gorm.DB, filter models.ClientFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PhotographerID != nil {
		query = query.Where("photographer_id = ?", *filter.PhotographerID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.LastName != nil {
		query = query.Where("last_name ILIKE ?", "%"+*filter.LastName+"%")
	}
	return query
}

// ByFilter retrieves clients based on filter criteria
func (r *ClientRepositoryImpl) ByFilter(ctx context.Context, filter models.ClientFilter, orderBy string, limit, offset int) ([]*models.Client, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Client{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "last_name ASC, first_name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Client
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of clients matching filter
func (r *ClientRepositoryImpl) Count(ctx context.Context, filter models.ClientFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Client{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any client matches the filter
func (r *ClientRepositoryImpl) Exists(ctx context.Context, filter models.ClientFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListByPhotographer retrieves a photographer's clients with pagination
func (r *ClientRepositoryImpl) ListByPhotographer(ctx context.Context, photographerID uint, limit, offset int) ([]*models.Client, error) {
	rows, err := r.ByFilter(ctx, models.ClientFilter{PhotographerID: &photographerID}, "", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients by photographer: %w", err)
	}
	return rows, nil
}

// ByIDForPhotographer retrieves a client only if owned by the photographer
func (r *ClientRepositoryImpl) ByIDForPhotographer(ctx context.Context, id, photographerID uint) (*models.Client, error) {
	rows, err := r.ByFilter(ctx, models.ClientFilter{ID: &id, PhotographerID: &photographerID}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
