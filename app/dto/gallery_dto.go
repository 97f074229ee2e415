package dto

// UpsertGalleryRequest represents the request to create or replace the
// gallery attached to a client link
type UpsertGalleryRequest struct {
	ClientLinkID uint     `json:"client_link_id" validate:"required" example:"7"`
	Title        string   `json:"title" validate:"required,min=1,max=200" example:"Mariage Claire & Hugo"`
	Photos       []string `json:"photos" validate:"omitempty,dive,min=1,max=500"`
	CoverPhoto   *string  `json:"cover_photo,omitempty" validate:"omitempty,max=500"`
}

// SetGalleryVisibilityRequest toggles whether the client can see the gallery
type SetGalleryVisibilityRequest struct {
	Visible bool `json:"visible" example:"true"`
}

// GalleryDTO represents a gallery in responses
type GalleryDTO struct {
	ID                uint     `json:"id" example:"4"`
	ClientLinkID      uint     `json:"client_link_id" example:"7"`
	Title             string   `json:"title" example:"Mariage Claire & Hugo"`
	Photos            []string `json:"photos"`
	CoverPhoto        *string  `json:"cover_photo,omitempty"`
	PhotoCount        int      `json:"photo_count" example:"148"`
	IsVisibleToClient *bool    `json:"is_visible_to_client" example:"false"`
	VisibleSince      *string  `json:"visible_since,omitempty"`
	CreatedAt         string   `json:"created_at" example:"2026-03-01T16:00:00Z"`
}

// Common error codes for gallery operations
const (
	ErrorGalleryNotFound      = "GALLERY_NOT_FOUND"
	ErrorGalleryNotVisible    = "GALLERY_NOT_VISIBLE"
	ErrorContractNotSignedYet = "CONTRACT_NOT_SIGNED_YET"
)
