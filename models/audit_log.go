package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit actions. Signature-related entries double as legal proof and are
// exempt from retention cleanup.
const (
	AuditActionSignup              = "signup_completed"
	AuditActionLoginSuccess        = "login_success"
	AuditActionLoginFailed         = "login_failed"
	AuditActionLinkCreated         = "link_created"
	AuditActionLinkRevoked         = "link_revoked"
	AuditActionLinkAccessed        = "link_accessed"
	AuditActionQuestionnaireSaved  = "questionnaire_saved"
	AuditActionQuestionnaireDone   = "questionnaire_validated"
	AuditActionContractGenerated   = "contract_generated"
	AuditActionContractValidated   = "contract_validated"
	AuditActionContractSigned      = "contract_signed"
	AuditActionGalleryShown        = "gallery_visibility_enabled"
	AuditActionGalleryHidden       = "gallery_visibility_disabled"
	AuditActionDataExported        = "data_exported"
	AuditActionRetentionCleanup    = "retention_cleanup"
	AuditActionTemplateForked      = "template_forked"
)

// legalProofActions are never removed by the retention job.
var legalProofActions = map[string]bool{
	AuditActionContractValidated: true,
	AuditActionContractSigned:    true,
}

// AuditLog is the append-only trail of workflow events. Rows are written in
// the same transaction as the state change they describe and are never
// updated afterwards.
type AuditLog struct {
	ID             uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	PhotographerID *uint             `gorm:"index:idx_audit_logs_photographer_id" json:"photographer_id,omitempty"`
	ClientLinkID   *uint             `gorm:"index:idx_audit_logs_client_link_id" json:"client_link_id,omitempty"`
	Action         string            `gorm:"size:50;not null;index:idx_audit_logs_action" json:"action"`
	ActorType      string            `gorm:"size:20;not null" json:"actor_type"` // photographer, client or system
	EntityType     *string           `gorm:"size:50" json:"entity_type,omitempty"`
	EntityID       *uint             `json:"entity_id,omitempty"`
	Description    *string           `gorm:"type:text" json:"description,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	IPAddress      *string           `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent      *string           `gorm:"size:500" json:"user_agent,omitempty"`
	RequestID      *string           `gorm:"size:64" json:"request_id,omitempty"`
	Success        *bool             `json:"success,omitempty"`
	ErrorMessage   *string           `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_audit_logs_created_at" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// Actor types for audit entries
const (
	ActorTypePhotographer = "photographer"
	ActorTypeClient       = "client"
	ActorTypeSystem       = "system"
)

// IsLegalProof reports whether the entry must outlive retention cleanup.
func (a *AuditLog) IsLegalProof() bool {
	return legalProofActions[a.Action]
}

// IsLegalProofAction reports whether the action is retention exempt.
func IsLegalProofAction(action string) bool {
	return legalProofActions[action]
}

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID             *uint      `json:"id,omitempty"`
	PhotographerID *uint      `json:"photographer_id,omitempty"`
	ClientLinkID   *uint      `json:"client_link_id,omitempty"`
	Action         *string    `json:"action,omitempty"`
	ActorType      *string    `json:"actor_type,omitempty"`
	Success        *bool      `json:"success,omitempty"`
	CreatedAfter   *time.Time `json:"created_after,omitempty"`
	CreatedBefore  *time.Time `json:"created_before,omitempty"`
}
