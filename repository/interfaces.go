// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/focale-app/focale/models"
	"github.com/google/uuid"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// PhotographerRepository defines operations for photographer accounts
type PhotographerRepository interface {
	Repository[models.Photographer, models.PhotographerFilter]
	ByEmail(ctx context.Context, email string) (*models.Photographer, error)
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Photographer, error)
	UpdatePassword(ctx context.Context, photographerID uint, passwordHash string) error
}

// ClientRepository defines operations for client records
type ClientRepository interface {
	Repository[models.Client, models.ClientFilter]
	ListByPhotographer(ctx context.Context, photographerID uint, limit, offset int) ([]*models.Client, error)
	ByIDForPhotographer(ctx context.Context, id, photographerID uint) (*models.Client, error)
}

// EventTypeRepository defines operations for event types
type EventTypeRepository interface {
	Repository[models.EventType, models.EventTypeFilter]
	ListForPhotographer(ctx context.Context, photographerID uint) ([]*models.EventType, error)
	SystemByName(ctx context.Context, name string) (*models.EventType, error)
}

// QuestionRepository defines operations for questionnaire definitions
type QuestionRepository interface {
	Repository[models.Question, models.QuestionFilter]
	ListByEventType(ctx context.Context, eventTypeID uint) ([]*models.Question, error)
}

// ClientLinkRepository defines operations for client portal links
type ClientLinkRepository interface {
	Repository[models.ClientLink, models.ClientLinkFilter]
	ByToken(ctx context.Context, token string) (*models.ClientLink, error)
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.ClientLink, error)
	ListByPhotographer(ctx context.Context, photographerID uint, limit, offset int) ([]*models.ClientLink, error)
	Revoke(ctx context.Context, linkID uint, revokedAt time.Time) error
	TouchLastAccessed(ctx context.Context, linkID uint, accessedAt time.Time) error
}

// QuestionnaireResponseRepository defines operations for client answers
type QuestionnaireResponseRepository interface {
	Repository[models.QuestionnaireResponse, models.QuestionnaireResponseFilter]
	ByClientLink(ctx context.Context, clientLinkID uint) (*models.QuestionnaireResponse, error)
}

// ContractTemplateRepository defines operations for contract templates
type ContractTemplateRepository interface {
	Repository[models.ContractTemplate, models.ContractTemplateFilter]
	ListForPhotographer(ctx context.Context, photographerID uint) ([]*models.ContractTemplate, error)
	DefaultForEventType(ctx context.Context, photographerID, eventTypeID uint) (*models.ContractTemplate, error)
}

// CustomVariableRepository defines operations for photographer-defined variables
type CustomVariableRepository interface {
	Repository[models.CustomVariable, models.CustomVariableFilter]
	ListByPhotographer(ctx context.Context, photographerID uint) ([]*models.CustomVariable, error)
	ByKey(ctx context.Context, photographerID uint, key string) (*models.CustomVariable, error)
}

// ContractRepository defines operations for generated contracts
type ContractRepository interface {
	Repository[models.Contract, models.ContractFilter]
	ByClientLink(ctx context.Context, clientLinkID uint) (*models.Contract, error)
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Contract, error)
	SetDraftPDFPath(ctx context.Context, contractID uint, path string) error
	SetSignedPDFPath(ctx context.Context, contractID uint, path string) error
}

// SignatureRepository defines operations for e-signature records
type SignatureRepository interface {
	Repository[models.Signature, models.SignatureFilter]
	ListByContract(ctx context.Context, contractID uint) ([]*models.Signature, error)
	ByContractAndSigner(ctx context.Context, contractID uint, signerType string) (*models.Signature, error)
}

// GalleryRepository defines operations for photo galleries
type GalleryRepository interface {
	Repository[models.Gallery, models.GalleryFilter]
	ByClientLink(ctx context.Context, clientLinkID uint) (*models.Gallery, error)
	ListByPhotographer(ctx context.Context, photographerID uint, limit, offset int) ([]*models.Gallery, error)
}

// AuditLogRepository defines operations for the audit trail
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByPhotographer(ctx context.Context, photographerID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByClientLink(ctx context.Context, clientLinkID uint, limit, offset int) ([]*models.AuditLog, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time, preservedActions []string) (int64, error)
}
