package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// Client is a customer record owned by a photographer. Clients never log in;
// they reach the portal through an opaque client-link token.
type Client struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotographerID uint    `gorm:"not null;index:idx_clients_photographer_id" json:"photographer_id"`
	FirstName      string  `gorm:"size:100;not null" json:"first_name"`
	LastName       string  `gorm:"size:100;not null" json:"last_name"`
	Email          *string `gorm:"size:255" json:"email,omitempty"`
	Phone          *string `gorm:"size:30" json:"phone,omitempty"`
	Address        *string `gorm:"type:text" json:"address,omitempty"`
	Notes          *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Photographer *Photographer `gorm:"foreignKey:PhotographerID;references:ID;constraint:OnDelete:CASCADE" json:"photographer,omitempty"`
}

func (Client) TableName() string { return "clients" }

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// FullName returns the client's display name.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ClientFilter represents filter criteria for client queries
type ClientFilter struct {
	ID             *uint   `json:"id,omitempty"`
	PhotographerID *uint   `json:"photographer_id,omitempty"`
	Email          *string `json:"email,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
}
