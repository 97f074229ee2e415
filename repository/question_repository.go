package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// QuestionRepositoryImpl implements QuestionRepository interface
type QuestionRepositoryImpl struct {
	*BaseRepository[models.Question, models.QuestionFilter]
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &QuestionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Question, models.QuestionFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *QuestionRepositoryImpl) applyFilter(query *gorm.DB, filter models.QuestionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.EventTypeID != nil {
		query = query.Where("event_type_id = ?", *filter.EventTypeID)
	}
	if filter.Key != nil {
		query = query.Where("key = ?", *filter.Key)
	}
	if filter.FieldType != nil {
		query = query.Where("field_type = ?", *filter.FieldType)
	}
	return query
}

// ByFilter retrieves questions based on filter criteria
func (r *QuestionRepositoryImpl) ByFilter(ctx context.Context, filter models.QuestionFilter, orderBy string, limit, offset int) ([]*models.Question, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Question{})

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

	var rows []*models.Question
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of questions matching filter
func (r *QuestionRepositoryImpl) Count(ctx context.Context, filter models.QuestionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Question{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any question matches the filter
func (r *QuestionRepositoryImpl) Exists(ctx context.Context, filter models.QuestionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListByEventType retrieves the full questionnaire for an event type, ordered
func (r *QuestionRepositoryImpl) ListByEventType(ctx context.Context, eventTypeID uint) ([]*models.Question, error) {
	rows, err := r.ByFilter(ctx, models.QuestionFilter{EventTypeID: &eventTypeID}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions by event type: %w", err)
	}
	return rows, nil
}
