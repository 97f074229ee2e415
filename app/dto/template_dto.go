package dto

// CreateTemplateRequest represents the request to create a contract template
type CreateTemplateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=150" example:"Contrat mariage standard"`
	Content     string `json:"content" validate:"required,min=1" example:"Entre {{photographer_name}} et {{client_name}}..."`
	EventTypeID *uint  `json:"event_type_id,omitempty" example:"1"`
	IsDefault   *bool  `json:"is_default,omitempty" example:"false"`
}

// UpdateTemplateRequest represents the request to edit an owned template
type UpdateTemplateRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Content     *string `json:"content,omitempty" validate:"omitempty,min=1"`
	EventTypeID *uint   `json:"event_type_id,omitempty"`
	IsDefault   *bool   `json:"is_default,omitempty"`
}

// TemplateDTO represents a contract template in responses
type TemplateDTO struct {
	ID           uint   `json:"id" example:"3"`
	Name         string `json:"name" example:"Contrat mariage standard"`
	Content      string `json:"content"`
	EventTypeID  *uint  `json:"event_type_id,omitempty" example:"1"`
	IsSystem     *bool  `json:"is_system" example:"false"`
	IsDefault    *bool  `json:"is_default" example:"true"`
	ForkedFromID *uint  `json:"forked_from_id,omitempty"`
	UpdatedAt    string `json:"updated_at" example:"2026-01-15T10:30:00Z"`
}

// PreviewTemplateRequest renders a template against a link's variables
// without creating a contract
type PreviewTemplateRequest struct {
	ClientLinkID uint `json:"client_link_id" validate:"required" example:"7"`
}

// PreviewTemplateResponse carries the substituted text and any placeholders
// that could not be resolved
type PreviewTemplateResponse struct {
	Content    string   `json:"content"`
	Unresolved []string `json:"unresolved,omitempty" example:"wedding_venue"`
}

// UpsertCustomVariableRequest represents the request to define a variable
type UpsertCustomVariableRequest struct {
	Key      string  `json:"key" validate:"required,min=1,max=100" example:"travel_fee"`
	Label    string  `json:"label" validate:"required,min=1,max=150" example:"Frais de deplacement"`
	Value    string  `json:"value" validate:"required" example:"0,50 EUR / km"`
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=general pricing business" example:"pricing"`
}

// CustomVariableDTO represents a photographer-defined variable in responses
type CustomVariableDTO struct {
	ID       uint    `json:"id" example:"5"`
	Key      string  `json:"key" example:"travel_fee"`
	Label    string  `json:"label" example:"Frais de deplacement"`
	Value    string  `json:"value" example:"0,50 EUR / km"`
	Category *string `json:"category,omitempty" example:"pricing"`
}

// Common error codes for template operations
const (
	ErrorTemplateNotFound  = "TEMPLATE_NOT_FOUND"
	ErrorTemplateReadOnly  = "TEMPLATE_READ_ONLY"
	ErrorVariableNotFound  = "VARIABLE_NOT_FOUND"
	ErrorDuplicateVariable = "DUPLICATE_VARIABLE"
)
