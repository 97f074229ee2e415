package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientLinkRepositoryImpl implements ClientLinkRepository interface
type ClientLinkRepositoryImpl struct {
	*BaseRepository[models.ClientLink, models.ClientLinkFilter]
}

// NewClientLinkRepository creates a new client link repository
func NewClientLinkRepository(db *gorm.DB) ClientLinkRepository {
	return &ClientLinkRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ClientLink, models.ClientLinkFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ClientLinkRepositoryImpl) applyFilter(query *gorm.DB, filter models.ClientLinkFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PhotographerID != nil {
		query = query.Where("photographer_id = ?", *filter.PhotographerID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.EventTypeID != nil {
		query = query.Where("event_type_id = ?", *filter.EventTypeID)
	}
	if filter.Token != nil {
		query = query.Where("token = ?", *filter.Token)
	}
	if filter.IsRevoked != nil {
		query = query.Where("is_revoked = ?", *filter.IsRevoked)
	}
	if filter.OnlyActive != nil && *filter.OnlyActive {
		query = query.Where("is_revoked = ? AND (expires_at IS NULL OR expires_at > ?)", false, utils.UTCNow())
	}
	return query
}

// ByFilter retrieves client links based on filter criteria
func (r *ClientLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.ClientLinkFilter, orderBy string, limit, offset int) ([]*models.ClientLink, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ClientLink{})

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

	var rows []*models.ClientLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of client links matching filter
func (r *ClientLinkRepositoryImpl) Count(ctx context.Context, filter models.ClientLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ClientLink{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any client link matches the filter
func (r *ClientLinkRepositoryImpl) Exists(ctx context.Context, filter models.ClientLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ByToken retrieves a client link by its opaque token, with relations loaded
func (r *ClientLinkRepositoryImpl) ByToken(ctx context.Context, token string) (*models.ClientLink, error) {
	db := r.getDB(ctx)

	var link models.ClientLink
	err := db.Where("token = ?", token).
		Preload("Client").
		Preload("EventType").
		Preload("Photographer").
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find client link by token: %w", err)
	}
	return &link, nil
}

// ByUUID retrieves a client link by public UUID
func (r *ClientLinkRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.ClientLink, error) {
	db := r.getDB(ctx)

	var link models.ClientLink
	err := db.Where("uuid = ?", id).
		Preload("Client").
		Preload("EventType").
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find client link by uuid: %w", err)
	}
	return &link, nil
}

// ListByPhotographer retrieves a photographer's links with pagination
func (r *ClientLinkRepositoryImpl) ListByPhotographer(ctx context.Context, photographerID uint, limit, offset int) ([]*models.ClientLink, error) {
	db := r.getDB(ctx)

	var rows []*models.ClientLink
	query := db.Where("photographer_id = ?", photographerID).
		Order("created_at DESC").
		Preload("Client").
		Preload("EventType")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list client links: %w", err)
	}
	return rows, nil
}

// Revoke marks a link revoked. Revocation is permanent.
func (r *ClientLinkRepositoryImpl) Revoke(ctx context.Context, linkID uint, revokedAt time.Time) error {
	db := r.getDB(ctx)
	result := db.Model(&models.ClientLink{}).
		Where("id = ? AND is_revoked = ?", linkID, false).
		Updates(map[string]any{
			"is_revoked": true,
			"revoked_at": revokedAt,
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke client link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("client link %d not found or already revoked", linkID)
	}
	return nil
}

// TouchLastAccessed records a portal visit. Best effort, callers may ignore errors.
func (r *ClientLinkRepositoryImpl) TouchLastAccessed(ctx context.Context, linkID uint, accessedAt time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.ClientLink{}).
		Where("id = ?", linkID).
		Update("last_accessed_at", accessedAt).Error
}
