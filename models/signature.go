package models

import (
	"time"

	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// Signer types
const (
	SignerTypeClient       = "client"
	SignerTypePhotographer = "photographer"
)

// Signature is the e-signature record attached to a contract. The image is a
// data URL captured from the signing pad; IP and user agent are stored as
// supporting proof.
type Signature struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractID uint      `gorm:"not null;uniqueIndex:idx_signatures_contract_signer,priority:1" json:"contract_id"`
	SignerType string    `gorm:"size:20;not null;uniqueIndex:idx_signatures_contract_signer,priority:2" json:"signer_type"`
	SignerName string    `gorm:"size:200;not null" json:"signer_name"`
	ImageData  string    `gorm:"type:text;not null" json:"image_data"`
	SignedAt   time.Time `gorm:"not null" json:"signed_at"`
	IPAddress  *string   `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent  *string   `gorm:"size:500" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// Relations
	Contract *Contract `gorm:"foreignKey:ContractID;references:ID;constraint:OnDelete:CASCADE" json:"contract,omitempty"`
}

func (Signature) TableName() string { return "signatures" }

func (s *Signature) BeforeCreate(tx *gorm.DB) error {
	if s.SignedAt.IsZero() {
		s.SignedAt = utils.UTCNow()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// SignatureFilter represents filter criteria for signature queries
type SignatureFilter struct {
	ID         *uint   `json:"id,omitempty"`
	ContractID *uint   `json:"contract_id,omitempty"`
	SignerType *string `json:"signer_type,omitempty"`
}
