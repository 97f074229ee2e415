// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds all request-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToPhotographerInfo converts a photographer model for auth responses
func ToPhotographerInfo(p models.Photographer) dto.PhotographerInfo {
	info := dto.PhotographerInfo{
		ID:        p.ID,
		UUID:      p.UUID.String(),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.BusinessName != nil {
		info.BusinessName = *p.BusinessName
	}
	return info
}

// ToClientDTO converts a client model for responses
func ToClientDTO(c models.Client) dto.ClientDTO {
	return dto.ClientDTO{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// formatTimePtr formats an optional timestamp as RFC3339
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
