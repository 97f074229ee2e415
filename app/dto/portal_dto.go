package dto

// PortalBootstrapDTO is the first payload the client portal loads. It tells
// the frontend who the client is, which step of the workflow is current, and
// which sections are reachable.
type PortalBootstrapDTO struct {
	ClientFirstName     string  `json:"client_first_name" example:"Claire"`
	ClientLastName      string  `json:"client_last_name" example:"Dubois"`
	PhotographerName    string  `json:"photographer_name" example:"Studio Lumiere"`
	EventTypeLabel      string  `json:"event_type_label" example:"Mariage"`
	EventDate           *string `json:"event_date,omitempty" example:"2026-06-20T00:00:00Z"`
	WorkflowState       string  `json:"workflow_state" example:"contract_draft"`
	QuestionnaireStatus string  `json:"questionnaire_status" example:"validated"`
	ContractStatus      *string `json:"contract_status,omitempty" example:"pending_signature"`
	GalleryVisible      bool    `json:"gallery_visible" example:"false"`
	LinkExpiresAt       *string `json:"link_expires_at,omitempty"`
}

// PortalDataExportDTO is the full snapshot of a client's data reachable from
// their link, returned as one JSON document for portability requests.
type PortalDataExportDTO struct {
	ExportedAt    string            `json:"exported_at" example:"2026-04-01T12:00:00Z"`
	Client        ClientDTO         `json:"client"`
	EventType     string            `json:"event_type" example:"Mariage"`
	Questionnaire *QuestionnaireDTO `json:"questionnaire,omitempty"`
	Contract      *ContractDTO      `json:"contract,omitempty"`
	Gallery       *GalleryDTO       `json:"gallery,omitempty"`
	AuditLogs     []AuditLogDTO     `json:"audit_logs"`
}
