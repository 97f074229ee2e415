// Package models contains domain entities and business models for the studio management system
package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photographer is the tenant account. Every tenant-owned row in the system
// carries a photographer ID; client-portal rows are reachable only through a
// client link owned by a photographer.
type Photographer struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_photographers_email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	BusinessName *string   `gorm:"size:255" json:"business_name,omitempty"`
	Phone        *string   `gorm:"size:30" json:"phone,omitempty"`
	Address      *string   `gorm:"type:text" json:"address,omitempty"`
	SiretNumber  *string   `gorm:"size:20" json:"siret_number,omitempty"`
	IsActive     *bool     `gorm:"default:true;index:idx_photographers_is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Photographer) TableName() string { return "photographers" }

// BeforeCreate ensures the public UUID and timestamps are set
func (p *Photographer) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// DisplayName returns the business name when set, otherwise the legal name.
func (p *Photographer) DisplayName() string {
	if p.BusinessName != nil && *p.BusinessName != "" {
		return *p.BusinessName
	}
	return p.FirstName + " " + p.LastName
}

// PhotographerFilter represents filter criteria for photographer queries
type PhotographerFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Email    *string    `json:"email,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
