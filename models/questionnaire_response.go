package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Questionnaire response statuses
const (
	QuestionnaireStatusDraft     = "draft"
	QuestionnaireStatusValidated = "validated"
)

// questionnaireTransitions is the allowed status transition table. Validation
// is one way; a validated questionnaire is locked.
var questionnaireTransitions = map[string][]string{
	QuestionnaireStatusDraft:     {QuestionnaireStatusValidated},
	QuestionnaireStatusValidated: {},
}

// QuestionnaireResponse holds a client's answers for one link. There is at
// most one response row per link; drafts are overwritten in place.
type QuestionnaireResponse struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientLinkID uint              `gorm:"not null;uniqueIndex:idx_questionnaire_responses_link" json:"client_link_id"`
	EventTypeID  uint              `gorm:"not null" json:"event_type_id"`
	Responses    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"responses"`
	Status       string            `gorm:"size:20;not null;default:'draft';index:idx_questionnaire_responses_status" json:"status"`
	ValidatedAt  *time.Time        `json:"validated_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	ClientLink *ClientLink `gorm:"foreignKey:ClientLinkID;references:ID;constraint:OnDelete:CASCADE" json:"client_link,omitempty"`
	EventType  *EventType  `gorm:"foreignKey:EventTypeID;references:ID" json:"event_type,omitempty"`
}

func (QuestionnaireResponse) TableName() string { return "questionnaire_responses" }

func (r *QuestionnaireResponse) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = QuestionnaireStatusDraft
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsLocked reports whether the response can no longer be edited by the client.
func (r *QuestionnaireResponse) IsLocked() bool {
	return r.Status == QuestionnaireStatusValidated
}

// CanQuestionnaireTransition reports whether the status change is allowed.
func CanQuestionnaireTransition(from, to string) bool {
	for _, allowed := range questionnaireTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// StringResponses converts the stored JSON map to string values. Non-string
// values are dropped; the portal only ever submits strings.
func (r *QuestionnaireResponse) StringResponses() map[string]string {
	out := make(map[string]string, len(r.Responses))
	for k, v := range r.Responses {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// QuestionnaireResponseFilter represents filter criteria for response queries
type QuestionnaireResponseFilter struct {
	ID           *uint   `json:"id,omitempty"`
	ClientLinkID *uint   `json:"client_link_id,omitempty"`
	EventTypeID  *uint   `json:"event_type_id,omitempty"`
	Status       *string `json:"status,omitempty"`
}
