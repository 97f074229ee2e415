package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// ContractTemplateRepositoryImpl implements ContractTemplateRepository interface
type ContractTemplateRepositoryImpl struct {
	*BaseRepository[models.ContractTemplate, models.ContractTemplateFilter]
}

// NewContractTemplateRepository creates a new contract template repository
func NewContractTemplateRepository(db *gorm.DB) ContractTemplateRepository {
	return &ContractTemplateRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ContractTemplate, models.ContractTemplateFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ContractTemplateRepositoryImpl) applyFilter(query *gorm.DB, filter models.ContractTemplateFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.PhotographerID != nil {
		query = query.Where("photographer_id = ?", *filter.PhotographerID)
	}
	if filter.EventTypeID != nil {
		query = query.Where("event_type_id = ?", *filter.EventTypeID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.IsSystem != nil {
		query = query.Where("is_system = ?", *filter.IsSystem)
	}
	if filter.IsDefault != nil {
		query = query.Where("is_default = ?", *filter.IsDefault)
	}
	return query
}

// ByFilter retrieves templates based on filter criteria
func (r *ContractTemplateRepositoryImpl) ByFilter(ctx context.Context, filter models.ContractTemplateFilter, orderBy string, limit, offset int) ([]*models.ContractTemplate, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ContractTemplate{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.ContractTemplate
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of templates matching filter
func (r *ContractTemplateRepositoryImpl) Count(ctx context.Context, filter models.ContractTemplateFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.ContractTemplate{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any template matches the filter
func (r *ContractTemplateRepositoryImpl) Exists(ctx context.Context, filter models.ContractTemplateFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListForPhotographer retrieves system templates plus the photographer's own
func (r *ContractTemplateRepositoryImpl) ListForPhotographer(ctx context.Context, photographerID uint) ([]*models.ContractTemplate, error) {
	db := r.getDB(ctx)

	var rows []*models.ContractTemplate
	err := db.Where("is_system = ? OR photographer_id = ?", true, photographerID).
		Order("is_system DESC, name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contract templates: %w", err)
	}
	return rows, nil
}

// DefaultForEventType resolves the template used when a contract is generated
// without an explicit template choice. The photographer's own default for the
// event type wins over the system default; a template without an event type
// acts as a catch-all.
func (r *ContractTemplateRepositoryImpl) DefaultForEventType(ctx context.Context, photographerID, eventTypeID uint) (*models.ContractTemplate, error) {
	db := r.getDB(ctx)

	var tmpl models.ContractTemplate
	err := db.Where("(photographer_id = ? OR is_system = ?) AND (event_type_id = ? OR event_type_id IS NULL) AND is_default = ?",
		photographerID, true, eventTypeID, true).
		Order("is_system ASC, event_type_id ASC NULLS LAST").
		First(&tmpl).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve default template: %w", err)
	}
	return &tmpl, nil
}
