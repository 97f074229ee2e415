package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// System event type names seeded at startup. Photographers can add their own
// on top of these; system rows have a nil PhotographerID and cannot be edited.
const (
	EventTypeWedding   = "wedding"
	EventTypeBirth     = "birth"
	EventTypeBaptism   = "baptism"
	EventTypePortrait  = "portrait"
	EventTypeCorporate = "corporate"
	EventTypeFamily    = "family"
)

// EventType categorizes a shoot and selects which questionnaire and default
// contract template apply to a client link.
type EventType struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotographerID *uint   `gorm:"index:idx_event_types_photographer_id" json:"photographer_id,omitempty"`
	Name           string  `gorm:"size:100;not null" json:"name"`
	Label          string  `gorm:"size:150;not null" json:"label"`
	Icon           *string `gorm:"size:50" json:"icon,omitempty"`
	IsSystem       *bool   `gorm:"default:false;index:idx_event_types_is_system" json:"is_system"`
	SortOrder      int     `gorm:"not null;default:0" json:"sort_order"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Photographer *Photographer `gorm:"foreignKey:PhotographerID;references:ID;constraint:OnDelete:CASCADE" json:"photographer,omitempty"`
	Questions    []Question    `gorm:"foreignKey:EventTypeID" json:"questions,omitempty"`
}

func (EventType) TableName() string { return "event_types" }

func (e *EventType) BeforeCreate(tx *gorm.DB) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsOwnedBy reports whether the event type belongs to the given photographer.
// System types belong to no one and are readable by everyone.
func (e *EventType) IsOwnedBy(photographerID uint) bool {
	return e.PhotographerID != nil && *e.PhotographerID == photographerID
}

// EventTypeFilter represents filter criteria for event type queries
type EventTypeFilter struct {
	ID             *uint   `json:"id,omitempty"`
	PhotographerID *uint   `json:"photographer_id,omitempty"`
	Name           *string `json:"name,omitempty"`
	IsSystem       *bool   `json:"is_system,omitempty"`
}
