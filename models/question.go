package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Question field types. The portal renders inputs from these; the validation
// rules in the questionnaire flow key off them as well.
const (
	FieldTypeText     = "text"
	FieldTypeTextarea = "textarea"
	FieldTypeDate     = "date"
	FieldTypeTime     = "time"
	FieldTypeNumber   = "number"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
)

// Question is one entry of an event type's questionnaire. Questions are keyed
// so responses survive label edits, and may be conditionally shown depending
// on another question's answer.
type Question struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	EventTypeID uint           `gorm:"not null;index:idx_questions_event_type_id;uniqueIndex:idx_questions_event_type_key,priority:1" json:"event_type_id"`
	Key         string         `gorm:"size:100;not null;uniqueIndex:idx_questions_event_type_key,priority:2" json:"key"`
	Label       string         `gorm:"type:text;not null" json:"label"`
	FieldType   string         `gorm:"size:20;not null" json:"field_type"`
	Options     pq.StringArray `gorm:"type:text[]" json:"options,omitempty"` // select choices
	IsRequired  *bool          `gorm:"default:false" json:"is_required"`
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`

	// Conditional visibility: shown only when the answer to DependsOnKey
	// equals DependsOnValue. Both nil means always visible.
	DependsOnKey   *string `gorm:"size:100" json:"depends_on_key,omitempty"`
	DependsOnValue *string `gorm:"size:255" json:"depends_on_value,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	EventType *EventType `gorm:"foreignKey:EventTypeID;references:ID;constraint:OnDelete:CASCADE" json:"event_type,omitempty"`
}

func (Question) TableName() string { return "questions" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = utils.UTCNow()
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsVisibleFor reports whether the question applies given the current set of
// answers. Hidden questions are never required.
func (q *Question) IsVisibleFor(responses map[string]string) bool {
	if q.DependsOnKey == nil {
		return true
	}
	answer, ok := responses[*q.DependsOnKey]
	if !ok {
		return false
	}
	if q.DependsOnValue == nil {
		return answer != ""
	}
	return answer == *q.DependsOnValue
}

// HasOption reports whether v is one of the select choices.
func (q *Question) HasOption(v string) bool {
	for _, o := range q.Options {
		if o == v {
			return true
		}
	}
	return false
}

// QuestionFilter represents filter criteria for question queries
type QuestionFilter struct {
	ID          *uint   `json:"id,omitempty"`
	EventTypeID *uint   `json:"event_type_id,omitempty"`
	Key         *string `json:"key,omitempty"`
	FieldType   *string `json:"field_type,omitempty"`
}
