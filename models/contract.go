package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract statuses
const (
	ContractStatusDraft            = "draft"
	ContractStatusPendingSignature = "pending_signature"
	ContractStatusSigned           = "signed"
)

// contractTransitions is the allowed status transition table. A draft can be
// regenerated any number of times; once validated the content is frozen, and
// once signed nothing moves again.
var contractTransitions = map[string][]string{
	ContractStatusDraft:            {ContractStatusPendingSignature},
	ContractStatusPendingSignature: {ContractStatusSigned},
	ContractStatusSigned:           {},
}

// Contract is a generated document for one client link. Content is the fully
// substituted text snapshot; later template or variable edits never touch it.
type Contract struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`
	ClientLinkID uint      `gorm:"not null;uniqueIndex:idx_contracts_client_link" json:"client_link_id"`
	TemplateID   *uint     `json:"template_id,omitempty"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Status       string    `gorm:"size:30;not null;default:'draft';index:idx_contracts_status" json:"status"`

	ValidatedAt   *time.Time `json:"validated_at,omitempty"`
	SignedAt      *time.Time `json:"signed_at,omitempty"`
	DraftPDFPath  *string    `gorm:"size:500" json:"draft_pdf_path,omitempty"`
	SignedPDFPath *string    `gorm:"size:500" json:"signed_pdf_path,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	ClientLink *ClientLink       `gorm:"foreignKey:ClientLinkID;references:ID;constraint:OnDelete:CASCADE" json:"client_link,omitempty"`
	Template   *ContractTemplate `gorm:"foreignKey:TemplateID;references:ID" json:"template,omitempty"`
	Signatures []Signature       `gorm:"foreignKey:ContractID" json:"signatures,omitempty"`
}

func (Contract) TableName() string { return "contracts" }

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ContractStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// CanContractTransition reports whether the status change is allowed.
func CanContractTransition(from, to string) bool {
	for _, allowed := range contractTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsRegenerable reports whether the contract may be regenerated from its
// template. Only drafts are; validation freezes the content.
func (c *Contract) IsRegenerable() bool {
	return c.Status == ContractStatusDraft
}

// IsSignable reports whether a client signature can be accepted.
func (c *Contract) IsSignable() bool {
	return c.Status == ContractStatusPendingSignature
}

// ContractFilter represents filter criteria for contract queries
type ContractFilter struct {
	ID           *uint      `json:"id,omitempty"`
	UUID         *uuid.UUID `json:"uuid,omitempty"`
	ClientLinkID *uint      `json:"client_link_id,omitempty"`
	TemplateID   *uint      `json:"template_id,omitempty"`
	Status       *string    `json:"status,omitempty"`
}
