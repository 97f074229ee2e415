package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// GalleryFlow handles photo galleries and their visibility gate
type GalleryFlow interface {
	UpsertGallery(ctx context.Context, photographerID uint, request *dto.UpsertGalleryRequest) (*dto.GalleryDTO, error)
	SetVisibility(ctx context.Context, photographerID, linkID uint, request *dto.SetGalleryVisibilityRequest, metadata *ClientMetadata) (*dto.GalleryDTO, error)
	GetGallery(ctx context.Context, photographerID, linkID uint) (*dto.GalleryDTO, error)
	ListGalleries(ctx context.Context, photographerID uint) ([]dto.GalleryDTO, error)
	GetGalleryForLink(ctx context.Context, link *models.ClientLink) (*dto.GalleryDTO, error)
}

// GalleryFlowImpl implements the gallery business flow
type GalleryFlowImpl struct {
	galleryRepo  repository.GalleryRepository
	contractRepo repository.ContractRepository
	linkRepo     repository.ClientLinkRepository
	auditRepo    repository.AuditLogRepository
	db           *gorm.DB
}

// NewGalleryFlow creates a new gallery flow instance
func NewGalleryFlow(
	galleryRepo repository.GalleryRepository,
	contractRepo repository.ContractRepository,
	linkRepo repository.ClientLinkRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) GalleryFlow {
	return &GalleryFlowImpl{
		galleryRepo:  galleryRepo,
		contractRepo: contractRepo,
		linkRepo:     linkRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// UpsertGallery creates the gallery for a link or replaces its content.
// Visibility is untouched here; showing the gallery is a separate, gated step.
func (gf *GalleryFlowImpl) UpsertGallery(ctx context.Context, photographerID uint, request *dto.UpsertGalleryRequest) (*dto.GalleryDTO, error) {
	var gallery *models.Gallery

	err := repository.WithTransaction(ctx, gf.db, func(ctx context.Context) error {
		link, err := gf.linkRepo.ByID(ctx, request.ClientLinkID)
		if err != nil {
			return err
		}
		if link == nil || link.PhotographerID != photographerID {
			return ErrLinkNotFound
		}

		gallery, err = gf.galleryRepo.ByClientLink(ctx, link.ID)
		if err != nil {
			return err
		}

		if gallery == nil {
			gallery = &models.Gallery{
				PhotographerID:    photographerID,
				ClientLinkID:      link.ID,
				Title:             request.Title,
				Photos:            request.Photos,
				CoverPhoto:        request.CoverPhoto,
				IsVisibleToClient: utils.ToPtr(false),
			}
			return gf.galleryRepo.Save(ctx, gallery)
		}

		gallery.Title = request.Title
		gallery.Photos = request.Photos
		gallery.CoverPhoto = request.CoverPhoto
		gallery.UpdatedAt = utils.UTCNow()
		return gf.galleryRepo.Update(ctx, gallery)
	})
	if err != nil {
		return nil, NewBusinessError("GALLERY_UPSERT_FAILED", "Gallery upsert failed", err)
	}

	out := toGalleryDTO(gallery)
	return &out, nil
}

// SetVisibility shows or hides the gallery for the client. Showing requires a
// signed contract; hiding is always allowed.
func (gf *GalleryFlowImpl) SetVisibility(ctx context.Context, photographerID, linkID uint, request *dto.SetGalleryVisibilityRequest, metadata *ClientMetadata) (*dto.GalleryDTO, error) {
	var gallery *models.Gallery

	err := repository.WithTransaction(ctx, gf.db, func(ctx context.Context) error {
		link, err := gf.linkRepo.ByID(ctx, linkID)
		if err != nil {
			return err
		}
		if link == nil || link.PhotographerID != photographerID {
			return ErrLinkNotFound
		}

		gallery, err = gf.galleryRepo.ByClientLink(ctx, link.ID)
		if err != nil {
			return err
		}
		if gallery == nil {
			return ErrGalleryNotFound
		}

		if request.Visible {
			contract, err := gf.contractRepo.ByClientLink(ctx, link.ID)
			if err != nil {
				return err
			}
			if contract == nil || contract.Status != models.ContractStatusSigned {
				return ErrContractNotSignedYet
			}
		}

		if utils.IsTrue(gallery.IsVisibleToClient) == request.Visible {
			return nil
		}

		gallery.IsVisibleToClient = utils.ToPtr(request.Visible)
		if request.Visible && gallery.VisibleSince == nil {
			gallery.VisibleSince = utils.UTCNowPtr()
		}
		gallery.UpdatedAt = utils.UTCNow()
		if err := gf.galleryRepo.Update(ctx, gallery); err != nil {
			return err
		}

		action := models.AuditActionGalleryShown
		if !request.Visible {
			action = models.AuditActionGalleryHidden
		}
		entityType := "gallery"
		return logAudit(ctx, gf.auditRepo, AuditEvent{
			PhotographerID: &photographerID,
			ClientLinkID:   &link.ID,
			Action:         action,
			ActorType:      models.ActorTypePhotographer,
			EntityType:     &entityType,
			EntityID:       &gallery.ID,
			Description:    fmt.Sprintf("Gallery %d visibility set to %t", gallery.ID, request.Visible),
			Success:        true,
		}, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("GALLERY_VISIBILITY_FAILED", "Gallery visibility change failed", err)
	}

	out := toGalleryDTO(gallery)
	return &out, nil
}

// GetGallery returns the gallery for a link, photographer side
func (gf *GalleryFlowImpl) GetGallery(ctx context.Context, photographerID, linkID uint) (*dto.GalleryDTO, error) {
	link, err := gf.linkRepo.ByID(ctx, linkID)
	if err != nil {
		return nil, NewBusinessError("GALLERY_FETCH_FAILED", "Gallery fetch failed", err)
	}
	if link == nil || link.PhotographerID != photographerID {
		return nil, NewBusinessError("GALLERY_FETCH_FAILED", "Gallery fetch failed", ErrLinkNotFound)
	}

	gallery, err := gf.galleryRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("GALLERY_FETCH_FAILED", "Gallery fetch failed", err)
	}
	if gallery == nil {
		return nil, NewBusinessError("GALLERY_FETCH_FAILED", "Gallery fetch failed", ErrGalleryNotFound)
	}

	out := toGalleryDTO(gallery)
	return &out, nil
}

// ListGalleries returns every gallery owned by the photographer
func (gf *GalleryFlowImpl) ListGalleries(ctx context.Context, photographerID uint) ([]dto.GalleryDTO, error) {
	galleries, err := gf.galleryRepo.ListByPhotographer(ctx, photographerID, 0, 0)
	if err != nil {
		return nil, NewBusinessError("GALLERY_LIST_FAILED", "Gallery listing failed", err)
	}

	out := make([]dto.GalleryDTO, 0, len(galleries))
	for _, g := range galleries {
		out = append(out, toGalleryDTO(g))
	}
	return out, nil
}

// GetGalleryForLink returns the gallery for the client portal. Hidden
// galleries are indistinguishable from absent ones.
func (gf *GalleryFlowImpl) GetGalleryForLink(ctx context.Context, link *models.ClientLink) (*dto.GalleryDTO, error) {
	gallery, err := gf.galleryRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("GALLERY_FETCH_FAILED", "Gallery fetch failed", err)
	}
	if gallery == nil || !utils.IsTrue(gallery.IsVisibleToClient) {
		return nil, NewBusinessError("GALLERY_FETCH_FAILED", "Gallery fetch failed", ErrGalleryNotVisible)
	}

	out := toGalleryDTO(gallery)
	return &out, nil
}

func toGalleryDTO(g *models.Gallery) dto.GalleryDTO {
	return dto.GalleryDTO{
		ID:                g.ID,
		ClientLinkID:      g.ClientLinkID,
		Title:             g.Title,
		Photos:            g.Photos,
		CoverPhoto:        g.CoverPhoto,
		PhotoCount:        g.PhotoCount(),
		IsVisibleToClient: g.IsVisibleToClient,
		VisibleSince:      formatTimePtr(g.VisibleSince),
		CreatedAt:         g.CreatedAt.Format(time.RFC3339),
	}
}
