package dto

// CreateEventTypeRequest represents the request to add a custom event type
type CreateEventTypeRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=100,lowercase" example:"boudoir"`
	Label     string  `json:"label" validate:"required,min=1,max=150" example:"Seance boudoir"`
	Icon      *string `json:"icon,omitempty" validate:"omitempty,max=50" example:"camera"`
	SortOrder int     `json:"sort_order" validate:"omitempty,min=0" example:"10"`
}

// EventTypeDTO represents an event type in responses
type EventTypeDTO struct {
	ID        uint    `json:"id" example:"1"`
	Name      string  `json:"name" example:"wedding"`
	Label     string  `json:"label" example:"Mariage"`
	Icon      *string `json:"icon,omitempty" example:"rings"`
	IsSystem  *bool   `json:"is_system" example:"true"`
	SortOrder int     `json:"sort_order" example:"0"`
}

// UpsertQuestionRequest represents one question definition in a questionnaire
type UpsertQuestionRequest struct {
	Key            string   `json:"key" validate:"required,min=1,max=100" example:"ceremony_location"`
	Label          string   `json:"label" validate:"required,min=1" example:"Ou se deroule la ceremonie ?"`
	FieldType      string   `json:"field_type" validate:"required,oneof=text textarea date time number select checkbox" example:"text"`
	Options        []string `json:"options,omitempty" validate:"omitempty,dive,min=1"`
	IsRequired     *bool    `json:"is_required,omitempty" example:"true"`
	SortOrder      int      `json:"sort_order" validate:"omitempty,min=0" example:"1"`
	DependsOnKey   *string  `json:"depends_on_key,omitempty" validate:"omitempty,max=100"`
	DependsOnValue *string  `json:"depends_on_value,omitempty" validate:"omitempty,max=255"`
}

// QuestionDTO represents a questionnaire entry in responses
type QuestionDTO struct {
	ID             uint     `json:"id" example:"11"`
	Key            string   `json:"key" example:"ceremony_location"`
	Label          string   `json:"label" example:"Ou se deroule la ceremonie ?"`
	FieldType      string   `json:"field_type" example:"text"`
	Options        []string `json:"options,omitempty"`
	IsRequired     *bool    `json:"is_required" example:"true"`
	SortOrder      int      `json:"sort_order" example:"1"`
	DependsOnKey   *string  `json:"depends_on_key,omitempty"`
	DependsOnValue *string  `json:"depends_on_value,omitempty"`
}

// Common error codes for event type operations
const (
	ErrorEventTypeNotFound = "EVENT_TYPE_NOT_FOUND"
	ErrorEventTypeReadOnly = "EVENT_TYPE_READ_ONLY"
	ErrorQuestionNotFound  = "QUESTION_NOT_FOUND"
	ErrorDuplicateKey      = "DUPLICATE_KEY"
)
