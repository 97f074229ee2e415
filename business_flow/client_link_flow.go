package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/app/services"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// ClientLinkFlow handles the lifecycle of client portal links
type ClientLinkFlow interface {
	CreateLink(ctx context.Context, photographerID uint, request *dto.CreateClientLinkRequest, metadata *ClientMetadata) (*dto.CreatedClientLinkDTO, error)
	ListLinks(ctx context.Context, photographerID uint, page, pageSize int) ([]dto.ClientLinkDTO, error)
	GetLink(ctx context.Context, photographerID, linkID uint) (*dto.ClientLinkDTO, error)
	RevokeLink(ctx context.Context, photographerID, linkID uint, metadata *ClientMetadata) error
	ResolveToken(ctx context.Context, token string) (*models.ClientLink, error)
}

// ClientLinkFlowImpl implements the client link business flow
type ClientLinkFlowImpl struct {
	linkRepo          repository.ClientLinkRepository
	clientRepo        repository.ClientRepository
	eventTypeRepo     repository.EventTypeRepository
	questionnaireRepo repository.QuestionnaireResponseRepository
	contractRepo      repository.ContractRepository
	galleryRepo       repository.GalleryRepository
	auditRepo         repository.AuditLogRepository
	linkTokenSvc      services.LinkTokenService
	linkCache         services.LinkCacheService
	notificationSvc   services.NotificationService
	portalBaseURL     string
	db                *gorm.DB
}

// NewClientLinkFlow creates a new client link flow instance
func NewClientLinkFlow(
	linkRepo repository.ClientLinkRepository,
	clientRepo repository.ClientRepository,
	eventTypeRepo repository.EventTypeRepository,
	questionnaireRepo repository.QuestionnaireResponseRepository,
	contractRepo repository.ContractRepository,
	galleryRepo repository.GalleryRepository,
	auditRepo repository.AuditLogRepository,
	linkTokenSvc services.LinkTokenService,
	linkCache services.LinkCacheService,
	notificationSvc services.NotificationService,
	portalBaseURL string,
	db *gorm.DB,
) ClientLinkFlow {
	return &ClientLinkFlowImpl{
		linkRepo:          linkRepo,
		clientRepo:        clientRepo,
		eventTypeRepo:     eventTypeRepo,
		questionnaireRepo: questionnaireRepo,
		contractRepo:      contractRepo,
		galleryRepo:       galleryRepo,
		auditRepo:         auditRepo,
		linkTokenSvc:      linkTokenSvc,
		linkCache:         linkCache,
		notificationSvc:   notificationSvc,
		portalBaseURL:     portalBaseURL,
		db:                db,
	}
}

// CreateLink creates a portal link for a client and event. The token is
// returned exactly once, in this response.
func (cf *ClientLinkFlowImpl) CreateLink(ctx context.Context, photographerID uint, request *dto.CreateClientLinkRequest, metadata *ClientMetadata) (*dto.CreatedClientLinkDTO, error) {
	var link *models.ClientLink
	var client *models.Client
	var eventType *models.EventType
	var token string

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		client, err = cf.clientRepo.ByIDForPhotographer(ctx, request.ClientID, photographerID)
		if err != nil {
			return err
		}
		if client == nil {
			return ErrClientNotFound
		}

		eventType, err = cf.eventTypeRepo.ByID(ctx, request.EventTypeID)
		if err != nil {
			return err
		}
		if eventType == nil {
			return ErrEventTypeNotFound
		}
		if !utils.IsTrue(eventType.IsSystem) && !eventType.IsOwnedBy(photographerID) {
			return ErrEventTypeNotFound
		}

		token, err = cf.linkTokenSvc.GenerateToken()
		if err != nil {
			return err
		}

		var expiresAt *time.Time
		if request.ExpiresInDays != nil {
			expiresAt = utils.UTCNowAddPtr(time.Duration(*request.ExpiresInDays) * 24 * time.Hour)
		}

		link = &models.ClientLink{
			PhotographerID: photographerID,
			ClientID:       client.ID,
			EventTypeID:    eventType.ID,
			Token:          token,
			EventDate:      request.EventDate,
			ExpiresAt:      expiresAt,
			IsRevoked:      utils.ToPtr(false),
		}
		if err := cf.linkRepo.Save(ctx, link); err != nil {
			return err
		}

		entityType := "client_link"
		return logAudit(ctx, cf.auditRepo, AuditEvent{
			PhotographerID: &photographerID,
			ClientLinkID:   &link.ID,
			Action:         models.AuditActionLinkCreated,
			ActorType:      models.ActorTypePhotographer,
			EntityType:     &entityType,
			EntityID:       &link.ID,
			Description:    fmt.Sprintf("Portal link created for client %d (%s)", client.ID, eventType.Name),
			Success:        true,
		}, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("LINK_CREATION_FAILED", "Link creation failed", err)
	}

	// Notify the client if we have an address. Best effort.
	if client.Email != nil {
		portalURL := cf.portalURL(token)
		go func() {
			subject := "Votre espace client est pret"
			body := fmt.Sprintf("Bonjour %s,<br>votre espace personnel est disponible : <a href=\"%s\">%s</a>", client.FirstName, portalURL, portalURL)
			_ = cf.notificationSvc.SendEmail(*client.Email, subject, body)
		}()
	}

	linkDTO := cf.toLinkDTO(link, client, eventType, StateQuestionnairePending)
	return &dto.CreatedClientLinkDTO{
		Link:      linkDTO,
		Token:     token,
		PortalURL: cf.portalURL(token),
	}, nil
}

// ListLinks returns the photographer's links with their derived workflow states
func (cf *ClientLinkFlowImpl) ListLinks(ctx context.Context, photographerID uint, page, pageSize int) ([]dto.ClientLinkDTO, error) {
	if page < 1 {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Link listing failed", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > utils.MaxPageSize {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Link listing failed", ErrInvalidPageSize)
	}

	links, err := cf.linkRepo.ListByPhotographer(ctx, photographerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LINK_LIST_FAILED", "Link listing failed", err)
	}

	out := make([]dto.ClientLinkDTO, 0, len(links))
	for _, link := range links {
		state, err := cf.deriveLinkState(ctx, link)
		if err != nil {
			return nil, NewBusinessError("LINK_LIST_FAILED", "Link listing failed", err)
		}
		out = append(out, cf.toLinkDTO(link, link.Client, link.EventType, state))
	}
	return out, nil
}

// GetLink returns one link with its derived workflow state
func (cf *ClientLinkFlowImpl) GetLink(ctx context.Context, photographerID, linkID uint) (*dto.ClientLinkDTO, error) {
	link, err := cf.ownedLink(ctx, photographerID, linkID)
	if err != nil {
		return nil, NewBusinessError("LINK_FETCH_FAILED", "Link fetch failed", err)
	}

	state, err := cf.deriveLinkState(ctx, link)
	if err != nil {
		return nil, NewBusinessError("LINK_FETCH_FAILED", "Link fetch failed", err)
	}

	linkDTO := cf.toLinkDTO(link, link.Client, link.EventType, state)
	return &linkDTO, nil
}

// RevokeLink permanently disables a link. The cached token resolution is
// dropped so the portal stops responding immediately.
func (cf *ClientLinkFlowImpl) RevokeLink(ctx context.Context, photographerID, linkID uint, metadata *ClientMetadata) error {
	var link *models.ClientLink

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		link, err = cf.ownedLink(ctx, photographerID, linkID)
		if err != nil {
			return err
		}
		if utils.IsTrue(link.IsRevoked) {
			return ErrLinkAlreadyRevoked
		}

		if err := cf.linkRepo.Revoke(ctx, link.ID, utils.UTCNow()); err != nil {
			return err
		}

		entityType := "client_link"
		return logAudit(ctx, cf.auditRepo, AuditEvent{
			PhotographerID: &photographerID,
			ClientLinkID:   &link.ID,
			Action:         models.AuditActionLinkRevoked,
			ActorType:      models.ActorTypePhotographer,
			EntityType:     &entityType,
			EntityID:       &link.ID,
			Description:    fmt.Sprintf("Portal link %d revoked", link.ID),
			Success:        true,
		}, metadata)
	})
	if err != nil {
		return NewBusinessError("LINK_REVOCATION_FAILED", "Link revocation failed", err)
	}

	cf.linkCache.Invalidate(ctx, link.Token)
	return nil
}

// ResolveToken resolves a portal token to its link, enforcing revocation and
// expiry. The cache short-circuits the common case; the store is always the
// authority on link state.
func (cf *ClientLinkFlowImpl) ResolveToken(ctx context.Context, token string) (*models.ClientLink, error) {
	if linkID, ok := cf.linkCache.GetLinkID(ctx, token); ok {
		link, err := cf.linkRepo.ByID(ctx, linkID)
		if err == nil && link != nil && link.Token == token {
			return cf.checkLinkUsable(ctx, link)
		}
	}

	link, err := cf.linkRepo.ByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}

	usable, err := cf.checkLinkUsable(ctx, link)
	if err != nil {
		return nil, err
	}

	cf.linkCache.SetLinkID(ctx, token, link.ID)
	_ = cf.linkRepo.TouchLastAccessed(ctx, link.ID, utils.UTCNow())
	return usable, nil
}

// checkLinkUsable rejects revoked and expired links
func (cf *ClientLinkFlowImpl) checkLinkUsable(ctx context.Context, link *models.ClientLink) (*models.ClientLink, error) {
	if utils.IsTrue(link.IsRevoked) {
		cf.linkCache.Invalidate(ctx, link.Token)
		return nil, ErrLinkRevoked
	}
	if link.IsExpired() {
		cf.linkCache.Invalidate(ctx, link.Token)
		return nil, ErrLinkExpired
	}
	return link, nil
}

// ownedLink loads a link and verifies tenancy
func (cf *ClientLinkFlowImpl) ownedLink(ctx context.Context, photographerID, linkID uint) (*models.ClientLink, error) {
	link, err := cf.linkRepo.ByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link == nil || link.PhotographerID != photographerID {
		return nil, ErrLinkNotFound
	}
	return link, nil
}

// deriveLinkState gathers the entities the workflow deriver needs
func (cf *ClientLinkFlowImpl) deriveLinkState(ctx context.Context, link *models.ClientLink) (WorkflowState, error) {
	questionnaire, err := cf.questionnaireRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return "", err
	}

	contract, err := cf.contractRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return "", err
	}

	galleryVisible := false
	gallery, err := cf.galleryRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return "", err
	}
	if gallery != nil {
		galleryVisible = utils.IsTrue(gallery.IsVisibleToClient)
	}

	return DeriveState(WorkflowInput{
		LinkRevoked:    utils.IsTrue(link.IsRevoked),
		LinkExpired:    link.IsExpired(),
		Questionnaire:  questionnaire,
		Contract:       contract,
		GalleryVisible: galleryVisible,
	}), nil
}

func (cf *ClientLinkFlowImpl) portalURL(token string) string {
	return fmt.Sprintf("%s/client/%s", cf.portalBaseURL, token)
}

func (cf *ClientLinkFlowImpl) toLinkDTO(link *models.ClientLink, client *models.Client, eventType *models.EventType, state WorkflowState) dto.ClientLinkDTO {
	out := dto.ClientLinkDTO{
		ID:             link.ID,
		UUID:           link.UUID.String(),
		EventTypeID:    link.EventTypeID,
		EventDate:      link.EventDate,
		ExpiresAt:      link.ExpiresAt,
		IsRevoked:      link.IsRevoked,
		IsExpired:      link.IsExpired(),
		WorkflowState:  string(state),
		LastAccessedAt: link.LastAccessedAt,
		CreatedAt:      link.CreatedAt.Format(time.RFC3339),
	}
	if client != nil {
		out.Client = ToClientDTO(*client)
	}
	if eventType != nil {
		out.EventTypeLabel = eventType.Label
	}
	return out
}
