package dto

// SaveQuestionnaireDraftRequest represents a client saving answers. Drafts
// can be saved any number of times before validation.
type SaveQuestionnaireDraftRequest struct {
	Responses map[string]string `json:"responses" validate:"required"`
}

// QuestionnaireDTO represents the questionnaire as shown to the client:
// definitions plus whatever has been answered so far.
type QuestionnaireDTO struct {
	EventTypeLabel string            `json:"event_type_label" example:"Mariage"`
	Questions      []QuestionDTO     `json:"questions"`
	Responses      map[string]string `json:"responses"`
	Status         string            `json:"status" example:"draft"`
	ValidatedAt    *string           `json:"validated_at,omitempty" example:"2026-02-01T18:00:00Z"`
}

// Common error codes for questionnaire operations
const (
	ErrorQuestionnaireLocked    = "QUESTIONNAIRE_LOCKED"
	ErrorQuestionnaireNotFound  = "QUESTIONNAIRE_NOT_FOUND"
	ErrorMissingRequiredAnswers = "MISSING_REQUIRED_ANSWERS"
	ErrorInvalidAnswer          = "INVALID_ANSWER"
	ErrorUnknownQuestionKey     = "UNKNOWN_QUESTION_KEY"
)
