package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientLink is the token-addressed entry point to the client portal. The
// token is an opaque random value; possession of it grants access to exactly
// one client's workflow for one event.
type ClientLink struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID           uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	PhotographerID uint       `gorm:"not null;index:idx_client_links_photographer_id" json:"photographer_id"`
	ClientID       uint       `gorm:"not null;index:idx_client_links_client_id" json:"client_id"`
	EventTypeID    uint       `gorm:"not null" json:"event_type_id"`
	Token          string     `gorm:"size:64;not null;uniqueIndex:idx_client_links_token" json:"-"` // Opaque bearer credential, never listed back
	EventDate      *time.Time `json:"event_date,omitempty"`
	ExpiresAt      *time.Time `gorm:"index:idx_client_links_expires_at" json:"expires_at,omitempty"` // nil means the link never expires
	IsRevoked      *bool      `gorm:"default:false" json:"is_revoked"`
	RevokedAt      *time.Time `json:"revoked_at,omitempty"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Photographer *Photographer `gorm:"foreignKey:PhotographerID;references:ID;constraint:OnDelete:CASCADE" json:"photographer,omitempty"`
	Client       *Client       `gorm:"foreignKey:ClientID;references:ID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	EventType    *EventType    `gorm:"foreignKey:EventTypeID;references:ID" json:"event_type,omitempty"`
}

func (ClientLink) TableName() string { return "client_links" }

func (l *ClientLink) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsExpired reports whether the link has passed its expiry. Links without an
// expiry never expire.
func (l *ClientLink) IsExpired() bool {
	return utils.IsExpiredPtr(l.ExpiresAt)
}

// IsActive reports whether the link can still be resolved by a client.
func (l *ClientLink) IsActive() bool {
	return !utils.IsTrue(l.IsRevoked) && !l.IsExpired()
}

// ClientLinkFilter represents filter criteria for client link queries
type ClientLinkFilter struct {
	ID             *uint   `json:"id,omitempty"`
	PhotographerID *uint   `json:"photographer_id,omitempty"`
	ClientID       *uint   `json:"client_id,omitempty"`
	EventTypeID    *uint   `json:"event_type_id,omitempty"`
	Token          *string `json:"token,omitempty"`
	IsRevoked      *bool   `json:"is_revoked,omitempty"`
	OnlyActive     *bool   `json:"only_active,omitempty"`
}
