package dto

// CreateClientRequest represents the request to register a client record
type CreateClientRequest struct {
	FirstName string  `json:"first_name" validate:"required,min=1,max=100" example:"Claire"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100" example:"Dubois"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"claire.dubois@example.com"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30" example:"+33698765432"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=1000" example:"12 rue des Lilas, 69003 Lyon"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateClientRequest represents the request to update a client record
type UpdateClientRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=1000"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ClientDTO represents a client record in responses
type ClientDTO struct {
	ID        uint    `json:"id" example:"42"`
	FirstName string  `json:"first_name" example:"Claire"`
	LastName  string  `json:"last_name" example:"Dubois"`
	Email     *string `json:"email,omitempty" example:"claire.dubois@example.com"`
	Phone     *string `json:"phone,omitempty" example:"+33698765432"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

// Common error codes for client operations
const (
	ErrorClientNotFound = "CLIENT_NOT_FOUND"
)
