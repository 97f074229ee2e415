package dto

// AuditLogQuery represents filters for listing the audit trail
type AuditLogQuery struct {
	PaginationQuery
	Action       *string `query:"action" validate:"omitempty,max=50" example:"contract_signed"`
	ClientLinkID *uint   `query:"client_link_id" validate:"omitempty" example:"7"`
}

// AuditLogDTO represents one audit entry in responses
type AuditLogDTO struct {
	ID           uint           `json:"id" example:"1001"`
	Action       string         `json:"action" example:"contract_signed"`
	ActorType    string         `json:"actor_type" example:"client"`
	ClientLinkID *uint          `json:"client_link_id,omitempty" example:"7"`
	EntityType   *string        `json:"entity_type,omitempty" example:"contract"`
	EntityID     *uint          `json:"entity_id,omitempty" example:"9"`
	Description  *string        `json:"description,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	IPAddress    *string        `json:"ip_address,omitempty" example:"203.0.113.7"`
	Success      *bool          `json:"success,omitempty" example:"true"`
	CreatedAt    string         `json:"created_at" example:"2026-02-10T14:00:00Z"`
}

// AuditLogListDTO wraps a page of audit entries
type AuditLogListDTO struct {
	Items    []AuditLogDTO `json:"items"`
	Total    int64         `json:"total" example:"240"`
	Page     int           `json:"page" example:"1"`
	PageSize int           `json:"page_size" example:"20"`
}
