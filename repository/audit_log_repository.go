package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// AuditLogRepositoryImpl implements AuditLogRepository interface
type AuditLogRepositoryImpl struct {
	*BaseRepository[models.AuditLog, models.AuditLogFilter]
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &AuditLogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AuditLog, models.AuditLogFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *AuditLogRepositoryImpl) applyFilter(query *gorm.DB, filter models.AuditLogFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PhotographerID != nil {
		query = query.Where("photographer_id = ?", *filter.PhotographerID)
	}
	if filter.ClientLinkID != nil {
		query = query.Where("client_link_id = ?", *filter.ClientLinkID)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.ActorType != nil {
		query = query.Where("actor_type = ?", *filter.ActorType)
	}
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves audit entries based on filter criteria
func (r *AuditLogRepositoryImpl) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.AuditLog{})

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

	var rows []*models.AuditLog
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of audit entries matching filter
func (r *AuditLogRepositoryImpl) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.AuditLog{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any audit entry matches the filter
func (r *AuditLogRepositoryImpl) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListByPhotographer retrieves a photographer's trail, newest first
func (r *AuditLogRepositoryImpl) ListByPhotographer(ctx context.Context, photographerID uint, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := r.ByFilter(ctx, models.AuditLogFilter{PhotographerID: &photographerID}, "", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs by photographer: %w", err)
	}
	return rows, nil
}

// ListByClientLink retrieves one link's trail, newest first
func (r *AuditLogRepositoryImpl) ListByClientLink(ctx context.Context, clientLinkID uint, limit, offset int) ([]*models.AuditLog, error) {
	rows, err := r.ByFilter(ctx, models.AuditLogFilter{ClientLinkID: &clientLinkID}, "", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs by link: %w", err)
	}
	return rows, nil
}

// DeleteOlderThan removes entries past the retention cutoff, keeping the
// listed actions regardless of age. Returns the number of rows removed.
func (r *AuditLogRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time, preservedActions []string) (int64, error) {
	db := r.getDB(ctx)

	query := db.Where("created_at < ?", cutoff)
	if len(preservedActions) > 0 {
		query = query.Where("action NOT IN ?", preservedActions)
	}

	result := query.Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
