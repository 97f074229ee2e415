package businessflow

import (
	"context"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// PortalFlow serves the client-facing views of a link's workflow
type PortalFlow interface {
	Bootstrap(ctx context.Context, link *models.ClientLink) (*dto.PortalBootstrapDTO, error)
	ExportData(ctx context.Context, link *models.ClientLink, metadata *ClientMetadata) (*dto.PortalDataExportDTO, error)
}

// PortalFlowImpl implements the client portal business flow
type PortalFlowImpl struct {
	questionnaireRepo repository.QuestionnaireResponseRepository
	contractRepo      repository.ContractRepository
	galleryRepo       repository.GalleryRepository
	auditRepo         repository.AuditLogRepository
	questionnaireFlow QuestionnaireFlow
	contractFlow      ContractFlow
	galleryFlow       GalleryFlow
	db                *gorm.DB
}

// NewPortalFlow creates a new portal flow instance
func NewPortalFlow(
	questionnaireRepo repository.QuestionnaireResponseRepository,
	contractRepo repository.ContractRepository,
	galleryRepo repository.GalleryRepository,
	auditRepo repository.AuditLogRepository,
	questionnaireFlow QuestionnaireFlow,
	contractFlow ContractFlow,
	galleryFlow GalleryFlow,
	db *gorm.DB,
) PortalFlow {
	return &PortalFlowImpl{
		questionnaireRepo: questionnaireRepo,
		contractRepo:      contractRepo,
		galleryRepo:       galleryRepo,
		auditRepo:         auditRepo,
		questionnaireFlow: questionnaireFlow,
		contractFlow:      contractFlow,
		galleryFlow:       galleryFlow,
		db:                db,
	}
}

// Bootstrap returns the portal landing payload: who the client is and where
// the workflow stands.
func (pf *PortalFlowImpl) Bootstrap(ctx context.Context, link *models.ClientLink) (*dto.PortalBootstrapDTO, error) {
	questionnaire, err := pf.questionnaireRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("PORTAL_BOOTSTRAP_FAILED", "Portal bootstrap failed", err)
	}

	contract, err := pf.contractRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("PORTAL_BOOTSTRAP_FAILED", "Portal bootstrap failed", err)
	}

	gallery, err := pf.galleryRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("PORTAL_BOOTSTRAP_FAILED", "Portal bootstrap failed", err)
	}
	galleryVisible := gallery != nil && utils.IsTrue(gallery.IsVisibleToClient)

	state := DeriveState(WorkflowInput{
		LinkRevoked:    utils.IsTrue(link.IsRevoked),
		LinkExpired:    link.IsExpired(),
		Questionnaire:  questionnaire,
		Contract:       contract,
		GalleryVisible: galleryVisible,
	})

	out := &dto.PortalBootstrapDTO{
		WorkflowState:       string(state),
		QuestionnaireStatus: models.QuestionnaireStatusDraft,
		GalleryVisible:      galleryVisible,
		EventDate:           formatTimePtr(link.EventDate),
		LinkExpiresAt:       formatTimePtr(link.ExpiresAt),
	}

	if link.Client != nil {
		out.ClientFirstName = link.Client.FirstName
		out.ClientLastName = link.Client.LastName
	}
	if link.Photographer != nil {
		out.PhotographerName = link.Photographer.DisplayName()
	}
	if link.EventType != nil {
		out.EventTypeLabel = link.EventType.Label
	}
	if questionnaire != nil {
		out.QuestionnaireStatus = questionnaire.Status
	}
	if contract != nil && contract.Status != models.ContractStatusDraft {
		out.ContractStatus = &contract.Status
	}
	return out, nil
}

// ExportData assembles everything reachable from the link into one document.
// Each section is whatever the portal itself would show; hidden galleries and
// unvalidated contracts are absent, not redacted.
func (pf *PortalFlowImpl) ExportData(ctx context.Context, link *models.ClientLink, metadata *ClientMetadata) (*dto.PortalDataExportDTO, error) {
	out := &dto.PortalDataExportDTO{
		ExportedAt: utils.UTCNow().Format(time.RFC3339),
	}

	if link.Client != nil {
		out.Client = ToClientDTO(*link.Client)
	}
	if link.EventType != nil {
		out.EventType = link.EventType.Label
	}

	questionnaire, err := pf.questionnaireFlow.GetQuestionnaire(ctx, link)
	if err != nil {
		return nil, NewBusinessError("PORTAL_EXPORT_FAILED", "Portal data export failed", err)
	}
	out.Questionnaire = questionnaire

	contract, err := pf.contractFlow.GetContractForLink(ctx, link)
	if err != nil && !IsContractNotFound(err) {
		return nil, NewBusinessError("PORTAL_EXPORT_FAILED", "Portal data export failed", err)
	}
	out.Contract = contract

	gallery, err := pf.galleryFlow.GetGalleryForLink(ctx, link)
	if err != nil && !IsGalleryNotVisible(err) && !IsGalleryNotFound(err) {
		return nil, NewBusinessError("PORTAL_EXPORT_FAILED", "Portal data export failed", err)
	}
	out.Gallery = gallery

	// The full trail for the link is part of the export. Rows are read
	// before the export itself is audited, so each export surfaces the
	// previous one's entry.
	trail, err := pf.auditRepo.ByFilter(ctx, models.AuditLogFilter{ClientLinkID: &link.ID}, "created_at ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PORTAL_EXPORT_FAILED", "Portal data export failed", err)
	}
	out.AuditLogs = make([]dto.AuditLogDTO, 0, len(trail))
	for _, row := range trail {
		out.AuditLogs = append(out.AuditLogs, toAuditLogDTO(row))
	}

	// Every export appends exactly one data_exported entry; a trail that
	// misses exports is incomplete, so this write is not best effort.
	entityType := "client_link"
	err = logAudit(ctx, pf.auditRepo, AuditEvent{
		PhotographerID: &link.PhotographerID,
		ClientLinkID:   &link.ID,
		Action:         models.AuditActionDataExported,
		ActorType:      models.ActorTypeClient,
		EntityType:     &entityType,
		EntityID:       &link.ID,
		Description:    "Client exported their portal data",
		Success:        true,
	}, metadata)
	if err != nil {
		return nil, NewBusinessError("PORTAL_EXPORT_FAILED", "Portal data export failed", err)
	}

	return out, nil
}
