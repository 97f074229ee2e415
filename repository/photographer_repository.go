package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotographerRepositoryImpl implements PhotographerRepository interface
type PhotographerRepositoryImpl struct {
	*BaseRepository[models.Photographer, models.PhotographerFilter]
}

// NewPhotographerRepository creates a new photographer repository
func NewPhotographerRepository(db *gorm.DB) PhotographerRepository {
	return &PhotographerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Photographer, models.PhotographerFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *PhotographerRepositoryImpl) applyFilter(query *gorm.DB, filter models.PhotographerFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

// ByFilter retrieves photographers based on filter criteria
func (r *PhotographerRepositoryImpl) ByFilter(ctx context.Context, filter models.PhotographerFilter, orderBy string, limit, offset int) ([]*models.Photographer, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Photographer{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Photographer
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of photographers matching filter
func (r *PhotographerRepositoryImpl) Count(ctx context.Context, filter models.PhotographerFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Photographer{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any photographer matches the filter
func (r *PhotographerRepositoryImpl) Exists(ctx context.Context, filter models.PhotographerFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ByEmail retrieves a photographer by email address
func (r *PhotographerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Photographer, error) {
	rows, err := r.ByFilter(ctx, models.PhotographerFilter{Email: &email}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find photographer by email: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ByUUID retrieves a photographer by public UUID
func (r *PhotographerRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Photographer, error) {
	rows, err := r.ByFilter(ctx, models.PhotographerFilter{UUID: &id}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find photographer by uuid: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// UpdatePassword replaces the stored password hash
func (r *PhotographerRepositoryImpl) UpdatePassword(ctx context.Context, photographerID uint, passwordHash string) error {
	db := r.getDB(ctx)
	result := db.Model(&models.Photographer{}).
		Where("id = ?", photographerID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    utils.UTCNow(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("photographer %d not found", photographerID)
	}
	return nil
}
