package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/app/services"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"gorm.io/gorm"
)

// ContractFlow handles the contract lifecycle from generation to signature
type ContractFlow interface {
	GenerateContract(ctx context.Context, photographerID, linkID uint, request *dto.GenerateContractRequest, metadata *ClientMetadata) (*dto.ContractDTO, error)
	ValidateContract(ctx context.Context, photographerID, linkID uint, metadata *ClientMetadata) (*dto.ContractDTO, error)
	GetContract(ctx context.Context, photographerID, linkID uint) (*dto.ContractDTO, error)
	GetContractForLink(ctx context.Context, link *models.ClientLink) (*dto.ContractDTO, error)
	SignContract(ctx context.Context, link *models.ClientLink, request *dto.SignContractRequest, metadata *ClientMetadata) (*dto.ContractDTO, error)
}

// ContractFlowImpl implements the contract business flow
type ContractFlowImpl struct {
	contractRepo      repository.ContractRepository
	signatureRepo     repository.SignatureRepository
	templateRepo      repository.ContractTemplateRepository
	variableRepo      repository.CustomVariableRepository
	linkRepo          repository.ClientLinkRepository
	photographerRepo  repository.PhotographerRepository
	questionnaireRepo repository.QuestionnaireResponseRepository
	auditRepo         repository.AuditLogRepository
	pdfRenderer       services.PDFRenderer
	notificationSvc   services.NotificationService
	portalBaseURL     string
	db                *gorm.DB
}

// NewContractFlow creates a new contract flow instance
func NewContractFlow(
	contractRepo repository.ContractRepository,
	signatureRepo repository.SignatureRepository,
	templateRepo repository.ContractTemplateRepository,
	variableRepo repository.CustomVariableRepository,
	linkRepo repository.ClientLinkRepository,
	photographerRepo repository.PhotographerRepository,
	questionnaireRepo repository.QuestionnaireResponseRepository,
	auditRepo repository.AuditLogRepository,
	pdfRenderer services.PDFRenderer,
	notificationSvc services.NotificationService,
	portalBaseURL string,
	db *gorm.DB,
) ContractFlow {
	return &ContractFlowImpl{
		contractRepo:      contractRepo,
		signatureRepo:     signatureRepo,
		templateRepo:      templateRepo,
		variableRepo:      variableRepo,
		linkRepo:          linkRepo,
		photographerRepo:  photographerRepo,
		questionnaireRepo: questionnaireRepo,
		auditRepo:         auditRepo,
		pdfRenderer:       pdfRenderer,
		notificationSvc:   notificationSvc,
		portalBaseURL:     portalBaseURL,
		db:                db,
	}
}

// GenerateContract builds or rebuilds the draft contract for a link. The
// questionnaire must be validated first so answers can feed substitution.
// An existing draft is regenerated in place; a validated or signed contract
// is frozen and never regenerated.
func (cf *ContractFlowImpl) GenerateContract(ctx context.Context, photographerID, linkID uint, request *dto.GenerateContractRequest, metadata *ClientMetadata) (*dto.ContractDTO, error) {
	var contract *models.Contract

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		link, err := cf.ownedLink(ctx, photographerID, linkID)
		if err != nil {
			return err
		}

		questionnaire, err := cf.questionnaireRepo.ByClientLink(ctx, link.ID)
		if err != nil {
			return err
		}
		if questionnaire == nil || !questionnaire.IsLocked() {
			return ErrQuestionnaireNotComplete
		}

		template, err := cf.pickTemplate(ctx, photographerID, link.EventTypeID, request.TemplateID)
		if err != nil {
			return err
		}

		vars, err := cf.loadVariableContext(ctx, photographerID, link, questionnaire)
		if err != nil {
			return err
		}
		content, _ := Substitute(template.Content, vars)

		contract, err = cf.contractRepo.ByClientLink(ctx, link.ID)
		if err != nil {
			return err
		}

		if contract == nil {
			contract = &models.Contract{
				ClientLinkID: link.ID,
				TemplateID:   &template.ID,
				Content:      content,
				Status:       models.ContractStatusDraft,
			}
			if err := cf.contractRepo.Save(ctx, contract); err != nil {
				return err
			}
		} else {
			if !contract.IsRegenerable() {
				return ErrContractNotRegenerable
			}
			contract.TemplateID = &template.ID
			contract.Content = content
			contract.UpdatedAt = utils.UTCNow()
			if err := cf.contractRepo.Update(ctx, contract); err != nil {
				return err
			}
		}

		entityType := "contract"
		return logAudit(ctx, cf.auditRepo, AuditEvent{
			PhotographerID: &photographerID,
			ClientLinkID:   &link.ID,
			Action:         models.AuditActionContractGenerated,
			ActorType:      models.ActorTypePhotographer,
			EntityType:     &entityType,
			EntityID:       &contract.ID,
			Description:    fmt.Sprintf("Contract generated from template %d", template.ID),
			Metadata:       map[string]any{"template_id": template.ID},
			Success:        true,
		}, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("CONTRACT_GENERATION_FAILED", "Contract generation failed", err)
	}

	return cf.toContractDTO(ctx, contract)
}

// ValidateContract moves a draft to pending signature. From here the content
// is frozen and the client can read and sign it.
func (cf *ContractFlowImpl) ValidateContract(ctx context.Context, photographerID, linkID uint, metadata *ClientMetadata) (*dto.ContractDTO, error) {
	var contract *models.Contract
	var link *models.ClientLink

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		link, err = cf.ownedLink(ctx, photographerID, linkID)
		if err != nil {
			return err
		}

		contract, err = cf.contractRepo.ByClientLink(ctx, link.ID)
		if err != nil {
			return err
		}
		if contract == nil {
			return ErrContractNotFound
		}
		if !models.CanContractTransition(contract.Status, models.ContractStatusPendingSignature) {
			return ErrContractNotValidatable
		}

		contract.Status = models.ContractStatusPendingSignature
		contract.ValidatedAt = utils.UTCNowPtr()
		contract.UpdatedAt = utils.UTCNow()
		if err := cf.contractRepo.Update(ctx, contract); err != nil {
			return err
		}

		entityType := "contract"
		return logAudit(ctx, cf.auditRepo, AuditEvent{
			PhotographerID: &photographerID,
			ClientLinkID:   &link.ID,
			Action:         models.AuditActionContractValidated,
			ActorType:      models.ActorTypePhotographer,
			EntityType:     &entityType,
			EntityID:       &contract.ID,
			Description:    fmt.Sprintf("Contract %s validated and sent for signature", contract.UUID),
			Success:        true,
		}, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("CONTRACT_VALIDATION_FAILED", "Contract validation failed", err)
	}

	// Draft PDF and client notification are best effort
	go cf.renderDraftPDF(contract.ID, contract.UUID.String(), contract.Content)
	go cf.notifyContractReady(link)

	return cf.toContractDTO(ctx, contract)
}

// GetContract returns the contract for a link, photographer side. Drafts are
// visible here.
func (cf *ContractFlowImpl) GetContract(ctx context.Context, photographerID, linkID uint) (*dto.ContractDTO, error) {
	link, err := cf.ownedLink(ctx, photographerID, linkID)
	if err != nil {
		return nil, NewBusinessError("CONTRACT_FETCH_FAILED", "Contract fetch failed", err)
	}

	contract, err := cf.contractRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("CONTRACT_FETCH_FAILED", "Contract fetch failed", err)
	}
	if contract == nil {
		return nil, NewBusinessError("CONTRACT_FETCH_FAILED", "Contract fetch failed", ErrContractNotFound)
	}

	return cf.toContractDTO(ctx, contract)
}

// GetContractForLink returns the contract for the client portal. Drafts stay
// hidden until the photographer validates.
func (cf *ContractFlowImpl) GetContractForLink(ctx context.Context, link *models.ClientLink) (*dto.ContractDTO, error) {
	contract, err := cf.contractRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("CONTRACT_FETCH_FAILED", "Contract fetch failed", err)
	}
	if contract == nil || contract.Status == models.ContractStatusDraft {
		return nil, NewBusinessError("CONTRACT_FETCH_FAILED", "Contract fetch failed", ErrContractNotFound)
	}

	return cf.toContractDTO(ctx, contract)
}

// SignContract records the client's signature and completes the contract.
// One signature per signer type; signing again is rejected.
func (cf *ContractFlowImpl) SignContract(ctx context.Context, link *models.ClientLink, request *dto.SignContractRequest, metadata *ClientMetadata) (*dto.ContractDTO, error) {
	var contract *models.Contract

	err := repository.WithTransaction(ctx, cf.db, func(ctx context.Context) error {
		var err error
		contract, err = cf.contractRepo.ByClientLink(ctx, link.ID)
		if err != nil {
			return err
		}
		if contract == nil {
			return ErrContractNotFound
		}
		if !contract.IsSignable() {
			return ErrContractNotSignable
		}

		existing, err := cf.signatureRepo.ByContractAndSigner(ctx, contract.ID, models.SignerTypeClient)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadySigned
		}

		signature := &models.Signature{
			ContractID: contract.ID,
			SignerType: models.SignerTypeClient,
			SignerName: request.SignerName,
			ImageData:  request.ImageData,
			SignedAt:   utils.UTCNow(),
		}
		if metadata != nil {
			signature.IPAddress = &metadata.IPAddress
			signature.UserAgent = &metadata.UserAgent
		}
		if err := cf.signatureRepo.Save(ctx, signature); err != nil {
			return err
		}

		if !models.CanContractTransition(contract.Status, models.ContractStatusSigned) {
			return ErrContractNotSignable
		}
		contract.Status = models.ContractStatusSigned
		contract.SignedAt = utils.UTCNowPtr()
		contract.UpdatedAt = utils.UTCNow()
		if err := cf.contractRepo.Update(ctx, contract); err != nil {
			return err
		}

		entityType := "contract"
		return logAudit(ctx, cf.auditRepo, AuditEvent{
			PhotographerID: &link.PhotographerID,
			ClientLinkID:   &link.ID,
			Action:         models.AuditActionContractSigned,
			ActorType:      models.ActorTypeClient,
			EntityType:     &entityType,
			EntityID:       &contract.ID,
			Description:    fmt.Sprintf("Contract %s signed by %s", contract.UUID, request.SignerName),
			Metadata: map[string]any{
				"signer_name": request.SignerName,
				"signer_type": models.SignerTypeClient,
			},
			Success: true,
		}, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("CONTRACT_SIGNATURE_FAILED", "Contract signature failed", err)
	}

	// Final PDF and confirmation emails are best effort
	go cf.renderSignedPDF(contract.ID, contract.UUID.String(), contract.Content)
	go cf.notifyContractSigned(link)

	return cf.toContractDTO(ctx, contract)
}

// ownedLink loads a link and checks tenancy
func (cf *ContractFlowImpl) ownedLink(ctx context.Context, photographerID, linkID uint) (*models.ClientLink, error) {
	link, err := cf.linkRepo.ByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link == nil || link.PhotographerID != photographerID {
		return nil, ErrLinkNotFound
	}

	full, err := cf.linkRepo.ByToken(ctx, link.Token)
	if err != nil {
		return nil, err
	}
	if full != nil {
		return full, nil
	}
	return link, nil
}

// pickTemplate resolves the template to generate from. With no explicit ID
// the default for the event type is used.
func (cf *ContractFlowImpl) pickTemplate(ctx context.Context, photographerID uint, eventTypeID uint, templateID *uint) (*models.ContractTemplate, error) {
	if templateID != nil {
		template, err := cf.templateRepo.ByID(ctx, *templateID)
		if err != nil {
			return nil, err
		}
		if template == nil || (!utils.IsTrue(template.IsSystem) && !template.IsEditableBy(photographerID)) {
			return nil, ErrTemplateNotFound
		}
		return template, nil
	}

	template, err := cf.templateRepo.DefaultForEventType(ctx, photographerID, eventTypeID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

// loadVariableContext assembles the substitution inputs for a link
func (cf *ContractFlowImpl) loadVariableContext(ctx context.Context, photographerID uint, link *models.ClientLink, questionnaire *models.QuestionnaireResponse) (*VariableContext, error) {
	photographer, err := cf.photographerRepo.ByID(ctx, photographerID)
	if err != nil {
		return nil, err
	}

	customVars, err := cf.variableRepo.ListByPhotographer(ctx, photographerID)
	if err != nil {
		return nil, err
	}

	responses := map[string]string{}
	if questionnaire != nil {
		responses = questionnaire.StringResponses()
	}

	return NewVariableContext(photographer, link.Client, link, link.EventType, customVars, responses), nil
}

// renderDraftPDF renders the unsigned document and stores its path. Runs
// detached from the request; failures only log. Only the path column is
// written back, so a signature landing mid-render is never clobbered by
// this goroutine's stale snapshot.
func (cf *ContractFlowImpl) renderDraftPDF(contractID uint, contractUUID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	path, err := cf.pdfRenderer.RenderContract(ctx, contractUUID, "Contrat de prestation", content, nil)
	if err != nil {
		log.Printf("Draft PDF render failed for contract %s: %v", contractUUID, err)
		return
	}
	if err := cf.contractRepo.SetDraftPDFPath(ctx, contractID, path); err != nil {
		log.Printf("Draft PDF path update failed for contract %s: %v", contractUUID, err)
	}
}

// renderSignedPDF renders the final document with signature blocks
func (cf *ContractFlowImpl) renderSignedPDF(contractID uint, contractUUID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	signatures, err := cf.signatureRepo.ListByContract(ctx, contractID)
	if err != nil {
		log.Printf("Signature lookup failed for contract %s: %v", contractUUID, err)
		return
	}

	blocks := make([]services.SignatureBlock, 0, len(signatures))
	for _, s := range signatures {
		blocks = append(blocks, services.SignatureBlock{
			SignerName: s.SignerName,
			SignerType: s.SignerType,
			SignedAt:   s.SignedAt.Format("02/01/2006 15:04"),
			ImageData:  s.ImageData,
		})
	}

	// Distinct document name so the draft render is never overwritten
	path, err := cf.pdfRenderer.RenderContract(ctx, contractUUID+"-signe", "Contrat de prestation", content, blocks)
	if err != nil {
		log.Printf("Signed PDF render failed for contract %s: %v", contractUUID, err)
		return
	}
	if err := cf.contractRepo.SetSignedPDFPath(ctx, contractID, path); err != nil {
		log.Printf("Signed PDF path update failed for contract %s: %v", contractUUID, err)
	}
}

func (cf *ContractFlowImpl) notifyContractReady(link *models.ClientLink) {
	if link.Client == nil || link.Client.Email == nil {
		return
	}
	body := fmt.Sprintf("Bonjour %s, votre contrat est pret a etre signe : %s/client/%s", link.Client.FirstName, cf.portalBaseURL, link.Token)
	_ = cf.notificationSvc.SendEmail(*link.Client.Email, "Votre contrat est pret", body)
}

func (cf *ContractFlowImpl) notifyContractSigned(link *models.ClientLink) {
	if link.Client != nil && link.Client.Email != nil {
		_ = cf.notificationSvc.SendEmail(*link.Client.Email, "Contrat signe", fmt.Sprintf("Bonjour %s, votre contrat signe est disponible dans votre espace client.", link.Client.FirstName))
	}
	if link.Photographer != nil {
		_ = cf.notificationSvc.SendEmail(link.Photographer.Email, "Contrat signe", fmt.Sprintf("Le contrat du lien %s vient d'etre signe.", link.UUID))
	}
}

func (cf *ContractFlowImpl) toContractDTO(ctx context.Context, contract *models.Contract) (*dto.ContractDTO, error) {
	signatures, err := cf.signatureRepo.ListByContract(ctx, contract.ID)
	if err != nil {
		return nil, NewBusinessError("CONTRACT_FETCH_FAILED", "Contract fetch failed", err)
	}

	out := &dto.ContractDTO{
		ID:            contract.ID,
		UUID:          contract.UUID.String(),
		Status:        contract.Status,
		Content:       contract.Content,
		Unresolved:    ExtractPlaceholders(contract.Content),
		ValidatedAt:   formatTimePtr(contract.ValidatedAt),
		SignedAt:      formatTimePtr(contract.SignedAt),
		DraftPDFPath:  contract.DraftPDFPath,
		SignedPDFPath: contract.SignedPDFPath,
		CreatedAt:     contract.CreatedAt.Format(time.RFC3339),
	}

	for _, s := range signatures {
		out.Signatures = append(out.Signatures, dto.SignatureDTO{
			SignerType: s.SignerType,
			SignerName: s.SignerName,
			SignedAt:   s.SignedAt.Format(time.RFC3339),
			IPAddress:  s.IPAddress,
		})
	}
	return out, nil
}
