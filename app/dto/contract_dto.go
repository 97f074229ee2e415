package dto

// GenerateContractRequest represents the request to generate a contract for a
// link. With no template ID the default template for the event type is used.
type GenerateContractRequest struct {
	TemplateID *uint `json:"template_id,omitempty" example:"3"`
}

// SignContractRequest represents a signature submission
type SignContractRequest struct {
	SignerName string `json:"signer_name" validate:"required,min=2,max=200" example:"Claire Dubois"`
	ImageData  string `json:"image_data" validate:"required,startswith=data:image/" example:"data:image/png;base64,iVBOR..."`
	Consent    bool   `json:"consent" validate:"required,eq=true" example:"true"`
}

// SignatureDTO represents one party's signature in responses. Image data is
// omitted from listings; it is only embedded in the rendered PDF.
type SignatureDTO struct {
	SignerType string  `json:"signer_type" example:"client"`
	SignerName string  `json:"signer_name" example:"Claire Dubois"`
	SignedAt   string  `json:"signed_at" example:"2026-02-10T14:00:00Z"`
	IPAddress  *string `json:"ip_address,omitempty" example:"203.0.113.7"`
}

// ContractDTO represents a contract in responses
type ContractDTO struct {
	ID            uint           `json:"id" example:"9"`
	UUID          string         `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status        string         `json:"status" example:"pending_signature"`
	Content       string         `json:"content"`
	Unresolved    []string       `json:"unresolved,omitempty" example:"wedding_venue"`
	ValidatedAt   *string        `json:"validated_at,omitempty"`
	SignedAt      *string        `json:"signed_at,omitempty"`
	DraftPDFPath  *string        `json:"draft_pdf_path,omitempty"`
	SignedPDFPath *string        `json:"signed_pdf_path,omitempty"`
	Signatures    []SignatureDTO `json:"signatures,omitempty"`
	CreatedAt     string         `json:"created_at" example:"2026-02-01T09:00:00Z"`
}

// Common error codes for contract operations
const (
	ErrorContractNotFound       = "CONTRACT_NOT_FOUND"
	ErrorContractAlreadyExists  = "CONTRACT_ALREADY_EXISTS"
	ErrorContractNotRegenerable = "CONTRACT_NOT_REGENERABLE"
	ErrorContractNotSignable    = "CONTRACT_NOT_SIGNABLE"
	ErrorContractNotValidatable = "CONTRACT_NOT_VALIDATABLE"
	ErrorAlreadySigned          = "ALREADY_SIGNED"
	ErrorQuestionnaireRequired  = "QUESTIONNAIRE_REQUIRED"
)
