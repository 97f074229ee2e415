package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractRepositoryImpl implements ContractRepository interface
type ContractRepositoryImpl struct {
	*BaseRepository[models.Contract, models.ContractFilter]
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &ContractRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Contract, models.ContractFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *ContractRepositoryImpl) applyFilter(query *gorm.DB, filter models.ContractFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.ClientLinkID != nil {
		query = query.Where("client_link_id = ?", *filter.ClientLinkID)
	}
	if filter.TemplateID != nil {
		query = query.Where("template_id = ?", *filter.TemplateID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// ByFilter retrieves contracts based on filter criteria
func (r *ContractRepositoryImpl) ByFilter(ctx context.Context, filter models.ContractFilter, orderBy string, limit, offset int) ([]*models.Contract, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Contract{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Contract
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of contracts matching filter
func (r *ContractRepositoryImpl) Count(ctx context.Context, filter models.ContractFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Contract{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any contract matches the filter
func (r *ContractRepositoryImpl) Exists(ctx context.Context, filter models.ContractFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ByClientLink retrieves the contract for a link with signatures loaded
func (r *ContractRepositoryImpl) ByClientLink(ctx context.Context, clientLinkID uint) (*models.Contract, error) {
	db := r.getDB(ctx)

	var contract models.Contract
	err := db.Where("client_link_id = ?", clientLinkID).
		Preload("Signatures").
		First(&contract).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contract by link: %w", err)
	}
	return &contract, nil
}

// SetDraftPDFPath stores the rendered draft document path. Only the path
// column is touched; renders run detached and must never write back a stale
// status snapshot.
func (r *ContractRepositoryImpl) SetDraftPDFPath(ctx context.Context, contractID uint, path string) error {
	db := r.getDB(ctx)
	return db.Model(&models.Contract{}).
		Where("id = ?", contractID).
		Update("draft_pdf_path", path).Error
}

// SetSignedPDFPath stores the rendered signed document path
func (r *ContractRepositoryImpl) SetSignedPDFPath(ctx context.Context, contractID uint, path string) error {
	db := r.getDB(ctx)
	return db.Model(&models.Contract{}).
		Where("id = ?", contractID).
		Update("signed_pdf_path", path).Error
}

// ByUUID retrieves a contract by public UUID with signatures loaded
func (r *ContractRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	db := r.getDB(ctx)

	var contract models.Contract
	err := db.Where("uuid = ?", id).
		Preload("Signatures").
		First(&contract).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contract by uuid: %w", err)
	}
	return &contract, nil
}
