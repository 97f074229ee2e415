package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// GalleryRepositoryImpl implements GalleryRepository interface
type GalleryRepositoryImpl struct {
	*BaseRepository[models.Gallery, models.GalleryFilter]
}

// NewGalleryRepository creates a new gallery repository
func NewGalleryRepository(db *gorm.DB) GalleryRepository {
	return &GalleryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Gallery, models.GalleryFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *GalleryRepositoryImpl) applyFilter(query *gorm.DB, filter models.GalleryFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PhotographerID != nil {
		query = query.Where("photographer_id = ?", *filter.PhotographerID)
	}
	if filter.ClientLinkID != nil {
		query = query.Where("client_link_id = ?", *filter.ClientLinkID)
	}
	if filter.IsVisibleToClient != nil {
		query = query.Where("is_visible_to_client = ?", *filter.IsVisibleToClient)
	}
	return query
}

// ByFilter retrieves galleries based on filter criteria
func (r *GalleryRepositoryImpl) ByFilter(ctx context.Context, filter models.GalleryFilter, orderBy string, limit, offset int) ([]*models.Gallery, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Gallery{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Gallery
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of galleries matching filter
func (r *GalleryRepositoryImpl) Count(ctx context.Context, filter models.GalleryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Gallery{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any gallery matches the filter
func (r *GalleryRepositoryImpl) Exists(ctx context.Context, filter models.GalleryFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ByClientLink retrieves the gallery attached to a link, if any
func (r *GalleryRepositoryImpl) ByClientLink(ctx context.Context, clientLinkID uint) (*models.Gallery, error) {
	rows, err := r.ByFilter(ctx, models.GalleryFilter{ClientLinkID: &clientLinkID}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find gallery by link: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListByPhotographer retrieves a photographer's galleries with pagination
func (r *GalleryRepositoryImpl) ListByPhotographer(ctx context.Context, photographerID uint, limit, offset int) ([]*models.Gallery, error) {
	rows, err := r.ByFilter(ctx, models.GalleryFilter{PhotographerID: &photographerID}, "", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list galleries: %w", err)
	}
	return rows, nil
}
