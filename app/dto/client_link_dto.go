package dto

import "time"

// CreateClientLinkRequest represents the request to create a portal link.
// A null ExpiresInDays produces a link that never expires.
type CreateClientLinkRequest struct {
	ClientID      uint       `json:"client_id" validate:"required" example:"42"`
	EventTypeID   uint       `json:"event_type_id" validate:"required" example:"1"`
	EventDate     *time.Time `json:"event_date,omitempty" example:"2026-06-20T00:00:00Z"`
	ExpiresInDays *int       `json:"expires_in_days,omitempty" validate:"omitempty,min=1,max=730" example:"90"`
}

// ClientLinkDTO represents a portal link in list and detail responses. The
// token itself is only returned at creation time inside CreatedClientLinkDTO.
type ClientLinkDTO struct {
	ID             uint       `json:"id" example:"7"`
	UUID           string     `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Client         ClientDTO  `json:"client"`
	EventTypeID    uint       `json:"event_type_id" example:"1"`
	EventTypeLabel string     `json:"event_type_label" example:"Mariage"`
	EventDate      *time.Time `json:"event_date,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	IsRevoked      *bool      `json:"is_revoked" example:"false"`
	IsExpired      bool       `json:"is_expired" example:"false"`
	WorkflowState  string     `json:"workflow_state" example:"questionnaire_pending"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      string     `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

// CreatedClientLinkDTO is returned once, when the link is created
type CreatedClientLinkDTO struct {
	Link      ClientLinkDTO `json:"link"`
	Token     string        `json:"token" example:"dGhpcyBpcyBub3QgYSByZWFsIHRva2Vu"`
	PortalURL string        `json:"portal_url" example:"https://app.focale.fr/client/dGhpcyBpcyBub3QgYSByZWFsIHRva2Vu"`
}

// Common error codes for client link operations
const (
	ErrorLinkNotFound       = "LINK_NOT_FOUND"
	ErrorLinkRevoked        = "LINK_REVOKED"
	ErrorLinkExpired        = "LINK_EXPIRED"
	ErrorLinkAlreadyRevoked = "LINK_ALREADY_REVOKED"
)
