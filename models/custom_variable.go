package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// Custom variable categories, used only for grouping in the dashboard editor.
const (
	VariableCategoryGeneral  = "general"
	VariableCategoryPricing  = "pricing"
	VariableCategoryBusiness = "business"
)

// CustomVariable is a photographer-defined {{key}} usable in contract
// templates, resolved alongside the built-in client and event variables.
type CustomVariable struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotographerID uint    `gorm:"not null;uniqueIndex:idx_custom_variables_owner_key,priority:1" json:"photographer_id"`
	Key            string  `gorm:"size:100;not null;uniqueIndex:idx_custom_variables_owner_key,priority:2" json:"key"`
	Label          string  `gorm:"size:150;not null" json:"label"`
	Value          string  `gorm:"type:text;not null" json:"value"`
	Category       *string `gorm:"size:50" json:"category,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Photographer *Photographer `gorm:"foreignKey:PhotographerID;references:ID;constraint:OnDelete:CASCADE" json:"photographer,omitempty"`
}

func (CustomVariable) TableName() string { return "custom_variables" }

func (v *CustomVariable) BeforeCreate(tx *gorm.DB) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = utils.UTCNow()
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// CustomVariableFilter represents filter criteria for custom variable queries
type CustomVariableFilter struct {
	ID             *uint   `json:"id,omitempty"`
	PhotographerID *uint   `json:"photographer_id,omitempty"`
	Key            *string `json:"key,omitempty"`
	Category       *string `json:"category,omitempty"`
}
