package businessflow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/app/services"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionnaireFlow handles client answers from draft to validation
type QuestionnaireFlow interface {
	GetQuestionnaire(ctx context.Context, link *models.ClientLink) (*dto.QuestionnaireDTO, error)
	SaveDraft(ctx context.Context, link *models.ClientLink, request *dto.SaveQuestionnaireDraftRequest, metadata *ClientMetadata) (*dto.QuestionnaireDTO, error)
	Validate(ctx context.Context, link *models.ClientLink, metadata *ClientMetadata) (*dto.QuestionnaireDTO, error)
}

// QuestionnaireFlowImpl implements the questionnaire business flow
type QuestionnaireFlowImpl struct {
	questionRepo      repository.QuestionRepository
	questionnaireRepo repository.QuestionnaireResponseRepository
	eventTypeRepo     repository.EventTypeRepository
	auditRepo         repository.AuditLogRepository
	notificationSvc   services.NotificationService
	db                *gorm.DB
}

// NewQuestionnaireFlow creates a new questionnaire flow instance
func NewQuestionnaireFlow(
	questionRepo repository.QuestionRepository,
	questionnaireRepo repository.QuestionnaireResponseRepository,
	eventTypeRepo repository.EventTypeRepository,
	auditRepo repository.AuditLogRepository,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) QuestionnaireFlow {
	return &QuestionnaireFlowImpl{
		questionRepo:      questionRepo,
		questionnaireRepo: questionnaireRepo,
		eventTypeRepo:     eventTypeRepo,
		auditRepo:         auditRepo,
		notificationSvc:   notificationSvc,
		db:                db,
	}
}

// GetQuestionnaire returns the question definitions plus current answers
func (qf *QuestionnaireFlowImpl) GetQuestionnaire(ctx context.Context, link *models.ClientLink) (*dto.QuestionnaireDTO, error) {
	questions, err := qf.questionRepo.ListByEventType(ctx, link.EventTypeID)
	if err != nil {
		return nil, NewBusinessError("QUESTIONNAIRE_FETCH_FAILED", "Questionnaire fetch failed", err)
	}

	response, err := qf.questionnaireRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("QUESTIONNAIRE_FETCH_FAILED", "Questionnaire fetch failed", err)
	}

	return qf.toQuestionnaireDTO(ctx, link, questions, response)
}

// SaveDraft overwrites the draft answers for a link. Unknown keys and
// type-invalid values are rejected; required questions may stay blank until
// validation.
func (qf *QuestionnaireFlowImpl) SaveDraft(ctx context.Context, link *models.ClientLink, request *dto.SaveQuestionnaireDraftRequest, metadata *ClientMetadata) (*dto.QuestionnaireDTO, error) {
	questions, err := qf.questionRepo.ListByEventType(ctx, link.EventTypeID)
	if err != nil {
		return nil, NewBusinessError("QUESTIONNAIRE_SAVE_FAILED", "Questionnaire save failed", err)
	}

	if err := checkAnswerShapes(questions, request.Responses); err != nil {
		return nil, NewBusinessError("QUESTIONNAIRE_SAVE_FAILED", "Questionnaire save failed", err)
	}

	var response *models.QuestionnaireResponse

	err = repository.WithTransaction(ctx, qf.db, func(ctx context.Context) error {
		var err error
		response, err = qf.questionnaireRepo.ByClientLink(ctx, link.ID)
		if err != nil {
			return err
		}

		if response != nil && response.IsLocked() {
			return ErrQuestionnaireLocked
		}

		stored := make(datatypes.JSONMap, len(request.Responses))
		for k, v := range request.Responses {
			stored[k] = v
		}

		if response == nil {
			response = &models.QuestionnaireResponse{
				ClientLinkID: link.ID,
				EventTypeID:  link.EventTypeID,
				Responses:    stored,
				Status:       models.QuestionnaireStatusDraft,
			}
			if err := qf.questionnaireRepo.Save(ctx, response); err != nil {
				return err
			}
		} else {
			response.Responses = stored
			response.UpdatedAt = utils.UTCNow()
			if err := qf.questionnaireRepo.Update(ctx, response); err != nil {
				return err
			}
		}

		entityType := "questionnaire_response"
		return logAudit(ctx, qf.auditRepo, AuditEvent{
			PhotographerID: &link.PhotographerID,
			ClientLinkID:   &link.ID,
			Action:         models.AuditActionQuestionnaireSaved,
			ActorType:      models.ActorTypeClient,
			EntityType:     &entityType,
			EntityID:       &response.ID,
			Description:    fmt.Sprintf("Questionnaire draft saved (%d answers)", len(request.Responses)),
			Success:        true,
		}, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("QUESTIONNAIRE_SAVE_FAILED", "Questionnaire save failed", err)
	}

	return qf.toQuestionnaireDTO(ctx, link, questions, response)
}

// Validate locks the questionnaire. Every required visible question must be
// answered; validation is one way.
func (qf *QuestionnaireFlowImpl) Validate(ctx context.Context, link *models.ClientLink, metadata *ClientMetadata) (*dto.QuestionnaireDTO, error) {
	questions, err := qf.questionRepo.ListByEventType(ctx, link.EventTypeID)
	if err != nil {
		return nil, NewBusinessError("QUESTIONNAIRE_VALIDATION_FAILED", "Questionnaire validation failed", err)
	}

	var response *models.QuestionnaireResponse

	err = repository.WithTransaction(ctx, qf.db, func(ctx context.Context) error {
		var err error
		response, err = qf.questionnaireRepo.ByClientLink(ctx, link.ID)
		if err != nil {
			return err
		}
		if response == nil {
			return ErrQuestionnaireNotFound
		}
		if response.IsLocked() {
			return ErrQuestionnaireLocked
		}

		answers := response.StringResponses()
		if err := checkRequiredAnswers(questions, answers); err != nil {
			return err
		}

		if !models.CanQuestionnaireTransition(response.Status, models.QuestionnaireStatusValidated) {
			return ErrQuestionnaireLocked
		}

		response.Status = models.QuestionnaireStatusValidated
		response.ValidatedAt = utils.UTCNowPtr()
		response.UpdatedAt = utils.UTCNow()
		if err := qf.questionnaireRepo.Update(ctx, response); err != nil {
			return err
		}

		entityType := "questionnaire_response"
		return logAudit(ctx, qf.auditRepo, AuditEvent{
			PhotographerID: &link.PhotographerID,
			ClientLinkID:   &link.ID,
			Action:         models.AuditActionQuestionnaireDone,
			ActorType:      models.ActorTypeClient,
			EntityType:     &entityType,
			EntityID:       &response.ID,
			Description:    "Questionnaire validated and locked",
			Success:        true,
		}, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("QUESTIONNAIRE_VALIDATION_FAILED", "Questionnaire validation failed", err)
	}

	qf.notifyValidated(link)

	return qf.toQuestionnaireDTO(ctx, link, questions, response)
}

// notifyValidated tells the photographer their client finished answering.
// Best effort; the lock already happened and never depends on delivery.
func (qf *QuestionnaireFlowImpl) notifyValidated(link *models.ClientLink) {
	if link.Photographer == nil {
		return
	}
	clientName := "Votre client"
	if link.Client != nil {
		clientName = link.Client.FullName()
	}
	body := fmt.Sprintf("%s vient de valider son questionnaire. Vous pouvez maintenant generer le contrat.", clientName)
	if err := qf.notificationSvc.SendEmail(link.Photographer.Email, "Questionnaire valide", body); err != nil {
		log.Printf("Questionnaire validation email failed for link %d: %v", link.ID, err)
	}
}

// checkAnswerShapes rejects answers that reference unknown keys or do not
// match their question's field type. Empty strings are always accepted in
// drafts; required-ness is only enforced at validation.
func checkAnswerShapes(questions []*models.Question, answers map[string]string) error {
	byKey := make(map[string]*models.Question, len(questions))
	for _, q := range questions {
		byKey[q.Key] = q
	}

	for key, value := range answers {
		q, ok := byKey[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownQuestionKey, key)
		}
		if value == "" {
			continue
		}

		switch q.FieldType {
		case models.FieldTypeNumber:
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("%w: %s is not a number", ErrInvalidAnswer, key)
			}
		case models.FieldTypeDate:
			if _, err := time.Parse("2006-01-02", value); err != nil {
				return fmt.Errorf("%w: %s is not a date", ErrInvalidAnswer, key)
			}
		case models.FieldTypeTime:
			if _, err := time.Parse("15:04", value); err != nil {
				return fmt.Errorf("%w: %s is not a time", ErrInvalidAnswer, key)
			}
		case models.FieldTypeSelect:
			if !q.HasOption(value) {
				return fmt.Errorf("%w: %s is not an allowed choice for %s", ErrInvalidAnswer, value, key)
			}
		case models.FieldTypeCheckbox:
			if value != "true" && value != "false" {
				return fmt.Errorf("%w: %s must be true or false", ErrInvalidAnswer, key)
			}
		}
	}
	return nil
}

// checkRequiredAnswers enforces that every required question visible under
// the current answers has a non-empty value.
func checkRequiredAnswers(questions []*models.Question, answers map[string]string) error {
	for _, q := range questions {
		if !utils.IsTrue(q.IsRequired) {
			continue
		}
		if !q.IsVisibleFor(answers) {
			continue
		}
		if answers[q.Key] == "" {
			return fmt.Errorf("%w: %s", ErrMissingRequiredAnswers, q.Key)
		}
	}
	return nil
}

func (qf *QuestionnaireFlowImpl) toQuestionnaireDTO(ctx context.Context, link *models.ClientLink, questions []*models.Question, response *models.QuestionnaireResponse) (*dto.QuestionnaireDTO, error) {
	eventType := link.EventType
	if eventType == nil {
		var err error
		eventType, err = qf.eventTypeRepo.ByID(ctx, link.EventTypeID)
		if err != nil {
			return nil, err
		}
	}

	out := &dto.QuestionnaireDTO{
		Questions: make([]dto.QuestionDTO, 0, len(questions)),
		Responses: make(map[string]string),
		Status:    models.QuestionnaireStatusDraft,
	}
	if eventType != nil {
		out.EventTypeLabel = eventType.Label
	}

	for _, q := range questions {
		out.Questions = append(out.Questions, toQuestionDTO(q))
	}

	if response != nil {
		out.Responses = response.StringResponses()
		out.Status = response.Status
		out.ValidatedAt = formatTimePtr(response.ValidatedAt)
	}
	return out, nil
}
