package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// ContractTemplate is the text a contract is generated from. Templates carry
// {{variable}} placeholders resolved at generation time. System templates
// (nil PhotographerID) are read-only; editing one forks a tenant-owned copy.
type ContractTemplate struct {
	ID             uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotographerID *uint  `gorm:"index:idx_contract_templates_photographer_id" json:"photographer_id,omitempty"`
	EventTypeID    *uint  `gorm:"index:idx_contract_templates_event_type_id" json:"event_type_id,omitempty"` // nil applies to any event type
	Name           string `gorm:"size:150;not null" json:"name"`
	Content        string `gorm:"type:text;not null" json:"content"`
	IsSystem       *bool  `gorm:"default:false;index:idx_contract_templates_is_system" json:"is_system"`
	IsDefault      *bool  `gorm:"default:false" json:"is_default"`
	ForkedFromID   *uint  `json:"forked_from_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Photographer *Photographer `gorm:"foreignKey:PhotographerID;references:ID;constraint:OnDelete:CASCADE" json:"photographer,omitempty"`
	EventType    *EventType    `gorm:"foreignKey:EventTypeID;references:ID" json:"event_type,omitempty"`
}

func (ContractTemplate) TableName() string { return "contract_templates" }

func (t *ContractTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsEditableBy reports whether the photographer may modify the template in
// place. System templates are forked instead.
func (t *ContractTemplate) IsEditableBy(photographerID uint) bool {
	return t.PhotographerID != nil && *t.PhotographerID == photographerID && !utils.IsTrue(t.IsSystem)
}

// ContractTemplateFilter represents filter criteria for template queries
type ContractTemplateFilter struct {
	ID             *uint   `json:"id,omitempty"`
	PhotographerID *uint   `json:"photographer_id,omitempty"`
	EventTypeID    *uint   `json:"event_type_id,omitempty"`
	Name           *string `json:"name,omitempty"`
	IsSystem       *bool   `json:"is_system,omitempty"`
	IsDefault      *bool   `json:"is_default,omitempty"`
}
