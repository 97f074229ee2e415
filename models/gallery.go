package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Gallery holds the delivered photos for a client link. It stays invisible to
// the client until the photographer flips IsVisibleToClient, which is only
// allowed once the contract is signed.
type Gallery struct {
	ID                uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotographerID    uint           `gorm:"not null;index:idx_galleries_photographer_id" json:"photographer_id"`
	ClientLinkID      uint           `gorm:"not null;uniqueIndex:idx_galleries_client_link" json:"client_link_id"`
	Title             string         `gorm:"size:200;not null" json:"title"`
	Photos            pq.StringArray `gorm:"type:text[]" json:"photos"` // Storage paths, ordered
	CoverPhoto        *string        `gorm:"size:500" json:"cover_photo,omitempty"`
	IsVisibleToClient *bool          `gorm:"default:false" json:"is_visible_to_client"`
	VisibleSince      *time.Time     `json:"visible_since,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Photographer *Photographer `gorm:"foreignKey:PhotographerID;references:ID;constraint:OnDelete:CASCADE" json:"photographer,omitempty"`
	ClientLink   *ClientLink   `gorm:"foreignKey:ClientLinkID;references:ID;constraint:OnDelete:CASCADE" json:"client_link,omitempty"`
}

func (Gallery) TableName() string { return "galleries" }

func (g *Gallery) BeforeCreate(tx *gorm.DB) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = utils.UTCNow()
	}
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// PhotoCount returns the number of photos in the gallery.
func (g *Gallery) PhotoCount() int { return len(g.Photos) }

// GalleryFilter represents filter criteria for gallery queries
type GalleryFilter struct {
	ID                *uint `json:"id,omitempty"`
	PhotographerID    *uint `json:"photographer_id,omitempty"`
	ClientLinkID      *uint `json:"client_link_id,omitempty"`
	IsVisibleToClient *bool `json:"is_visible_to_client,omitempty"`
}
