package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// EventTypeRepositoryImpl implements EventTypeRepository interface
type EventTypeRepositoryImpl struct {
	*BaseRepository[models.EventType, models.EventTypeFilter]
}

// NewEventTypeRepository creates a new event type repository
func NewEventTypeRepository(db *gorm.DB) EventTypeRepository {
	return &EventTypeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EventType, models.EventTypeFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *EventTypeRepositoryImpl) applyFilter(query *gorm.DB, filter models.EventTypeFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PhotographerID != nil {
		query = query.Where("photographer_id = ?", *filter.PhotographerID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.IsSystem != nil {
		query = query.Where("is_system = ?", *filter.IsSystem)
	}
	return query
}

// ByFilter retrieves event types based on filter criteria
func (r *EventTypeRepositoryImpl) ByFilter(ctx context.Context, filter models.EventTypeFilter, orderBy string, limit, offset int) ([]*models.EventType, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.EventType{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "sort_order ASC, id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.EventType
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of event types matching filter
func (r *EventTypeRepositoryImpl) Count(ctx context.Context, filter models.EventTypeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.EventType{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any event type matches the filter
func (r *EventTypeRepositoryImpl) Exists(ctx context.Context, filter models.EventTypeFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListForPhotographer retrieves system event types plus the photographer's own
func (r *EventTypeRepositoryImpl) ListForPhotographer(ctx context.Context, photographerID uint) ([]*models.EventType, error) {
	db := r.getDB(ctx)

	var rows []*models.EventType
	err := db.Where("is_system = ? OR photographer_id = ?", true, photographerID).
		Order("is_system DESC, sort_order ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list event types: %w", err)
	}
	return rows, nil
}

// SystemByName retrieves a system event type by its stable name
func (r *EventTypeRepositoryImpl) SystemByName(ctx context.Context, name string) (*models.EventType, error) {
	isSystem := true
	rows, err := r.ByFilter(ctx, models.EventTypeFilter{Name: &name, IsSystem: &isSystem}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find system event type: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
