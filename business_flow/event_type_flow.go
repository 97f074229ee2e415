package businessflow

import (
	"context"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// EventTypeFlow handles event types and their questionnaire definitions
type EventTypeFlow interface {
	ListEventTypes(ctx context.Context, photographerID uint) ([]dto.EventTypeDTO, error)
	CreateEventType(ctx context.Context, photographerID uint, request *dto.CreateEventTypeRequest) (*dto.EventTypeDTO, error)
	ListQuestions(ctx context.Context, photographerID, eventTypeID uint) ([]dto.QuestionDTO, error)
	UpsertQuestion(ctx context.Context, photographerID, eventTypeID uint, request *dto.UpsertQuestionRequest) (*dto.QuestionDTO, error)
}

// EventTypeFlowImpl implements the event type business flow
type EventTypeFlowImpl struct {
	eventTypeRepo repository.EventTypeRepository
	questionRepo  repository.QuestionRepository
	db            *gorm.DB
}

// NewEventTypeFlow creates a new event type flow instance
func NewEventTypeFlow(
	eventTypeRepo repository.EventTypeRepository,
	questionRepo repository.QuestionRepository,
	db *gorm.DB,
) EventTypeFlow {
	return &EventTypeFlowImpl{
		eventTypeRepo: eventTypeRepo,
		questionRepo:  questionRepo,
		db:            db,
	}
}

// ListEventTypes returns system types plus the photographer's own
func (ef *EventTypeFlowImpl) ListEventTypes(ctx context.Context, photographerID uint) ([]dto.EventTypeDTO, error) {
	types, err := ef.eventTypeRepo.ListForPhotographer(ctx, photographerID)
	if err != nil {
		return nil, NewBusinessError("EVENT_TYPE_LIST_FAILED", "Event type listing failed", err)
	}

	out := make([]dto.EventTypeDTO, 0, len(types))
	for _, t := range types {
		out = append(out, toEventTypeDTO(t))
	}
	return out, nil
}

// CreateEventType adds a custom event type for the photographer
func (ef *EventTypeFlowImpl) CreateEventType(ctx context.Context, photographerID uint, request *dto.CreateEventTypeRequest) (*dto.EventTypeDTO, error) {
	eventType := &models.EventType{
		PhotographerID: &photographerID,
		Name:           request.Name,
		Label:          request.Label,
		Icon:           request.Icon,
		IsSystem:       utils.ToPtr(false),
		SortOrder:      request.SortOrder,
	}

	if err := ef.eventTypeRepo.Save(ctx, eventType); err != nil {
		return nil, NewBusinessError("EVENT_TYPE_CREATION_FAILED", "Event type creation failed", err)
	}

	out := toEventTypeDTO(eventType)
	return &out, nil
}

// ListQuestions returns an event type's questionnaire in display order
func (ef *EventTypeFlowImpl) ListQuestions(ctx context.Context, photographerID, eventTypeID uint) ([]dto.QuestionDTO, error) {
	if _, err := ef.readableEventType(ctx, photographerID, eventTypeID); err != nil {
		return nil, NewBusinessError("QUESTION_LIST_FAILED", "Question listing failed", err)
	}

	questions, err := ef.questionRepo.ListByEventType(ctx, eventTypeID)
	if err != nil {
		return nil, NewBusinessError("QUESTION_LIST_FAILED", "Question listing failed", err)
	}

	out := make([]dto.QuestionDTO, 0, len(questions))
	for _, q := range questions {
		out = append(out, toQuestionDTO(q))
	}
	return out, nil
}

// UpsertQuestion creates or updates a question, matched by key. Questionnaires
// of system event types are fixed; only owned types are editable.
func (ef *EventTypeFlowImpl) UpsertQuestion(ctx context.Context, photographerID, eventTypeID uint, request *dto.UpsertQuestionRequest) (*dto.QuestionDTO, error) {
	var question *models.Question

	err := repository.WithTransaction(ctx, ef.db, func(ctx context.Context) error {
		eventType, err := ef.readableEventType(ctx, photographerID, eventTypeID)
		if err != nil {
			return err
		}
		if utils.IsTrue(eventType.IsSystem) || !eventType.IsOwnedBy(photographerID) {
			return ErrEventTypeReadOnly
		}

		questions, err := ef.questionRepo.ListByEventType(ctx, eventTypeID)
		if err != nil {
			return err
		}
		for _, q := range questions {
			if q.Key == request.Key {
				question = q
				break
			}
		}

		if question == nil {
			question = &models.Question{
				EventTypeID:    eventTypeID,
				Key:            request.Key,
				Label:          request.Label,
				FieldType:      request.FieldType,
				Options:        request.Options,
				IsRequired:     request.IsRequired,
				SortOrder:      request.SortOrder,
				DependsOnKey:   request.DependsOnKey,
				DependsOnValue: request.DependsOnValue,
			}
			return ef.questionRepo.Save(ctx, question)
		}

		question.Label = request.Label
		question.FieldType = request.FieldType
		question.Options = request.Options
		question.IsRequired = request.IsRequired
		question.SortOrder = request.SortOrder
		question.DependsOnKey = request.DependsOnKey
		question.DependsOnValue = request.DependsOnValue
		question.UpdatedAt = utils.UTCNow()
		return ef.questionRepo.Update(ctx, question)
	})
	if err != nil {
		return nil, NewBusinessError("QUESTION_UPSERT_FAILED", "Question upsert failed", err)
	}

	out := toQuestionDTO(question)
	return &out, nil
}

// readableEventType loads an event type visible to the photographer, meaning
// a system type or one they own.
func (ef *EventTypeFlowImpl) readableEventType(ctx context.Context, photographerID, eventTypeID uint) (*models.EventType, error) {
	eventType, err := ef.eventTypeRepo.ByID(ctx, eventTypeID)
	if err != nil {
		return nil, err
	}
	if eventType == nil {
		return nil, ErrEventTypeNotFound
	}
	if !utils.IsTrue(eventType.IsSystem) && !eventType.IsOwnedBy(photographerID) {
		return nil, ErrEventTypeNotFound
	}
	return eventType, nil
}

func toEventTypeDTO(t *models.EventType) dto.EventTypeDTO {
	return dto.EventTypeDTO{
		ID:        t.ID,
		Name:      t.Name,
		Label:     t.Label,
		Icon:      t.Icon,
		IsSystem:  t.IsSystem,
		SortOrder: t.SortOrder,
	}
}

func toQuestionDTO(q *models.Question) dto.QuestionDTO {
	return dto.QuestionDTO{
		ID:             q.ID,
		Key:            q.Key,
		Label:          q.Label,
		FieldType:      q.FieldType,
		Options:        q.Options,
		IsRequired:     q.IsRequired,
		SortOrder:      q.SortOrder,
		DependsOnKey:   q.DependsOnKey,
		DependsOnValue: q.DependsOnValue,
	}
}
