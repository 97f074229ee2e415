package repository

import (
	"context"
	"fmt"

	"github.com/focale-app/focale/models"
	"gorm.io/gorm"
)

// SignatureRepositoryImpl implements SignatureRepository interface
type SignatureRepositoryImpl struct {
	*BaseRepository[models.Signature, models.SignatureFilter]
}

// NewSignatureRepository creates a new signature repository
func NewSignatureRepository(db *gorm.DB) SignatureRepository {
	return &SignatureRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Signature, models.SignatureFilter](db),
	}
}

// applyFilter applies filter criteria to a GORM query
func (r *SignatureRepositoryImpl) applyFilter(query *gorm.DB, filter models.SignatureFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.SignerType != nil {
		query = query.Where("signer_type = ?", *filter.SignerType)
	}
	return query
}

// ByFilter retrieves signatures based on filter criteria
func (r *SignatureRepositoryImpl) ByFilter(ctx context.Context, filter models.SignatureFilter, orderBy string, limit, offset int) ([]*models.Signature, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Signature{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "signed_at ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Signature
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns number of signatures matching filter
func (r *SignatureRepositoryImpl) Count(ctx context.Context, filter models.SignatureFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Signature{})
	query = r.applyFilter(query, filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any signature matches the filter
func (r *SignatureRepositoryImpl) Exists(ctx context.Context, filter models.SignatureFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListByContract retrieves all signatures on a contract in signing order
func (r *SignatureRepositoryImpl) ListByContract(ctx context.Context, contractID uint) ([]*models.Signature, error) {
	rows, err := r.ByFilter(ctx, models.SignatureFilter{ContractID: &contractID}, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list signatures by contract: %w", err)
	}
	return rows, nil
}

// ByContractAndSigner retrieves one party's signature on a contract, if present
func (r *SignatureRepositoryImpl) ByContractAndSigner(ctx context.Context, contractID uint, signerType string) (*models.Signature, error) {
	rows, err := r.ByFilter(ctx, models.SignatureFilter{ContractID: &contractID, SignerType: &signerType}, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find signature: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
