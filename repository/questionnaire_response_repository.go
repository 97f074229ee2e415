package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// QuestionnaireResponseRepositoryImpl implements QuestionnaireResponseRepository interface
type QuestionnaireResponseRepositoryImpl struct {
	*BaseRepository[models.QuestionnaireResponse, models.QuestionnaireResponseFilter]
}

// NewQuestionnaireResponseRepository creates a new questionnaire response repository
func NewQuestionnaireResponseRepository(db *gorm.DB) QuestionnaireResponseRepository {
	return &QuestionnaireResponseRepositoryImpl{
		BaseRepository: NewBaseRepository[models.QuestionnaireResponse, models.QuestionnaireResponseFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *QuestionnaireResponseRepositoryImpl) applyFilter(query *gorm.DB, filter models.QuestionnaireResponseFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ClientLinkID != nil {
		query = query.Where("client_link_id = ?", *filter.ClientLinkID)
	}
	if filter.EventTypeID != nil {
		query = query.Where("event_type_id = ?", *filter.EventTypeID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// ByFilter retrieves responses based on filter criteria
func (r *QuestionnaireResponseRepositoryImpl) ByFilter(ctx context.Context, filter models.QuestionnaireResponseFilter, orderBy string, limit, offset int) ([]*models.QuestionnaireResponse, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.QuestionnaireResponse{})

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

	var rows []*models.QuestionnaireResponse
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of responses matching filter
func (r *QuestionnaireResponseRepositoryImpl) Count(ctx context.Context, filter models.QuestionnaireResponseFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.QuestionnaireResponse{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any response matches the filter
func (r *QuestionnaireResponseRepositoryImpl) Exists(ctx context.Context, filter models.QuestionnaireResponseFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ByClientLink retrieves the single response row for a link, if any
func (r *QuestionnaireResponseRepositoryImpl) ByClientLink(ctx context.Context, clientLinkID uint) (*models.QuestionnaireResponse, error) {
	rows, err := r.ByFilter(ctx, models.QuestionnaireResponseFilter{ClientLinkID: &clientLinkID}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find questionnaire response by link: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
