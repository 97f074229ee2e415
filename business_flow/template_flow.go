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

// TemplateFlow handles contract templates and the custom variables they use
type TemplateFlow interface {
	ListTemplates(ctx context.Context, photographerID uint) ([]dto.TemplateDTO, error)
	CreateTemplate(ctx context.Context, photographerID uint, request *dto.CreateTemplateRequest) (*dto.TemplateDTO, error)
	EditOwnedTemplate(ctx context.Context, photographerID, templateID uint, request *dto.UpdateTemplateRequest) (*dto.TemplateDTO, error)
	ForkTemplate(ctx context.Context, photographerID, templateID uint, metadata *ClientMetadata) (*dto.TemplateDTO, error)
	PreviewTemplate(ctx context.Context, photographerID, templateID uint, request *dto.PreviewTemplateRequest) (*dto.PreviewTemplateResponse, error)

	ListVariables(ctx context.Context, photographerID uint) ([]dto.CustomVariableDTO, error)
	CreateVariable(ctx context.Context, photographerID uint, request *dto.UpsertCustomVariableRequest) (*dto.CustomVariableDTO, error)
	UpdateVariable(ctx context.Context, photographerID, variableID uint, request *dto.UpsertCustomVariableRequest) (*dto.CustomVariableDTO, error)
}

// TemplateFlowImpl implements the template business flow
type TemplateFlowImpl struct {
	templateRepo      repository.ContractTemplateRepository
	variableRepo      repository.CustomVariableRepository
	linkRepo          repository.ClientLinkRepository
	photographerRepo  repository.PhotographerRepository
	questionnaireRepo repository.QuestionnaireResponseRepository
	auditRepo         repository.AuditLogRepository
	db                *gorm.DB
}

// NewTemplateFlow creates a new template flow instance
func NewTemplateFlow(
	templateRepo repository.ContractTemplateRepository,
	variableRepo repository.CustomVariableRepository,
	linkRepo repository.ClientLinkRepository,
	photographerRepo repository.PhotographerRepository,
	questionnaireRepo repository.QuestionnaireResponseRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) TemplateFlow {
	return &TemplateFlowImpl{
		templateRepo:      templateRepo,
		variableRepo:      variableRepo,
		linkRepo:          linkRepo,
		photographerRepo:  photographerRepo,
		questionnaireRepo: questionnaireRepo,
		auditRepo:         auditRepo,
		db:                db,
	}
}

// ListTemplates returns system templates plus the photographer's own
func (tf *TemplateFlowImpl) ListTemplates(ctx context.Context, photographerID uint) ([]dto.TemplateDTO, error) {
	templates, err := tf.templateRepo.ListForPhotographer(ctx, photographerID)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_LIST_FAILED", "Template listing failed", err)
	}

	out := make([]dto.TemplateDTO, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateDTO(t))
	}
	return out, nil
}

// CreateTemplate creates a tenant-owned template
func (tf *TemplateFlowImpl) CreateTemplate(ctx context.Context, photographerID uint, request *dto.CreateTemplateRequest) (*dto.TemplateDTO, error) {
	template := &models.ContractTemplate{
		PhotographerID: &photographerID,
		EventTypeID:    request.EventTypeID,
		Name:           request.Name,
		Content:        request.Content,
		IsSystem:       utils.ToPtr(false),
		IsDefault:      request.IsDefault,
	}

	if err := tf.templateRepo.Save(ctx, template); err != nil {
		return nil, NewBusinessError("TEMPLATE_CREATION_FAILED", "Template creation failed", err)
	}

	out := toTemplateDTO(template)
	return &out, nil
}

// EditOwnedTemplate edits a template the photographer owns. System templates
// are never edited in place; callers fork them first.
func (tf *TemplateFlowImpl) EditOwnedTemplate(ctx context.Context, photographerID, templateID uint, request *dto.UpdateTemplateRequest) (*dto.TemplateDTO, error) {
	template, err := tf.templateRepo.ByID(ctx, templateID)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_UPDATE_FAILED", "Template update failed", err)
	}
	if template == nil {
		return nil, NewBusinessError("TEMPLATE_UPDATE_FAILED", "Template update failed", ErrTemplateNotFound)
	}
	if utils.IsTrue(template.IsSystem) {
		return nil, NewBusinessError("TEMPLATE_UPDATE_FAILED", "Template update failed", ErrTemplateReadOnly)
	}
	if !template.IsEditableBy(photographerID) {
		return nil, NewBusinessError("TEMPLATE_UPDATE_FAILED", "Template update failed", ErrTemplateNotFound)
	}

	if request.Name != nil {
		template.Name = *request.Name
	}
	if request.Content != nil {
		template.Content = *request.Content
	}
	if request.EventTypeID != nil {
		template.EventTypeID = request.EventTypeID
	}
	if request.IsDefault != nil {
		template.IsDefault = request.IsDefault
	}
	template.UpdatedAt = utils.UTCNow()

	if err := tf.templateRepo.Update(ctx, template); err != nil {
		return nil, NewBusinessError("TEMPLATE_UPDATE_FAILED", "Template update failed", err)
	}

	out := toTemplateDTO(template)
	return &out, nil
}

// ForkTemplate copies a system template into the photographer's namespace so
// it can be edited. The copy records its origin.
func (tf *TemplateFlowImpl) ForkTemplate(ctx context.Context, photographerID, templateID uint, metadata *ClientMetadata) (*dto.TemplateDTO, error) {
	var fork *models.ContractTemplate

	err := repository.WithTransaction(ctx, tf.db, func(ctx context.Context) error {
		source, err := tf.templateRepo.ByID(ctx, templateID)
		if err != nil {
			return err
		}
		if source == nil {
			return ErrTemplateNotFound
		}
		if !utils.IsTrue(source.IsSystem) && !source.IsEditableBy(photographerID) {
			return ErrTemplateNotFound
		}

		fork = &models.ContractTemplate{
			PhotographerID: &photographerID,
			EventTypeID:    source.EventTypeID,
			Name:           fmt.Sprintf("%s (copie)", source.Name),
			Content:        source.Content,
			IsSystem:       utils.ToPtr(false),
			IsDefault:      utils.ToPtr(false),
			ForkedFromID:   &source.ID,
		}
		if err := tf.templateRepo.Save(ctx, fork); err != nil {
			return err
		}

		entityType := "contract_template"
		return logAudit(ctx, tf.auditRepo, AuditEvent{
			PhotographerID: &photographerID,
			Action:         models.AuditActionTemplateForked,
			ActorType:      models.ActorTypePhotographer,
			EntityType:     &entityType,
			EntityID:       &fork.ID,
			Description:    fmt.Sprintf("Template %d forked from %d", fork.ID, source.ID),
			Success:        true,
		}, metadata)
	})
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_FORK_FAILED", "Template fork failed", err)
	}

	out := toTemplateDTO(fork)
	return &out, nil
}

// PreviewTemplate renders a template against a link's variable context
// without creating or touching any contract.
func (tf *TemplateFlowImpl) PreviewTemplate(ctx context.Context, photographerID, templateID uint, request *dto.PreviewTemplateRequest) (*dto.PreviewTemplateResponse, error) {
	template, err := tf.templateRepo.ByID(ctx, templateID)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_PREVIEW_FAILED", "Template preview failed", err)
	}
	if template == nil || (!utils.IsTrue(template.IsSystem) && !template.IsEditableBy(photographerID)) {
		return nil, NewBusinessError("TEMPLATE_PREVIEW_FAILED", "Template preview failed", ErrTemplateNotFound)
	}

	vars, err := tf.buildVariableContext(ctx, photographerID, request.ClientLinkID)
	if err != nil {
		return nil, NewBusinessError("TEMPLATE_PREVIEW_FAILED", "Template preview failed", err)
	}

	content, unresolved := Substitute(template.Content, vars)
	return &dto.PreviewTemplateResponse{
		Content:    content,
		Unresolved: unresolved,
	}, nil
}

// buildVariableContext loads everything substitution needs for one link
func (tf *TemplateFlowImpl) buildVariableContext(ctx context.Context, photographerID, linkID uint) (*VariableContext, error) {
	link, err := tf.linkRepo.ByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link == nil || link.PhotographerID != photographerID {
		return nil, ErrLinkNotFound
	}

	full, err := tf.linkRepo.ByToken(ctx, link.Token)
	if err != nil {
		return nil, err
	}
	if full != nil {
		link = full
	}

	photographer, err := tf.photographerRepo.ByID(ctx, photographerID)
	if err != nil {
		return nil, err
	}

	customVars, err := tf.variableRepo.ListByPhotographer(ctx, photographerID)
	if err != nil {
		return nil, err
	}

	responses := map[string]string{}
	questionnaire, err := tf.questionnaireRepo.ByClientLink(ctx, link.ID)
	if err != nil {
		return nil, err
	}
	if questionnaire != nil {
		responses = questionnaire.StringResponses()
	}

	return NewVariableContext(photographer, link.Client, link, link.EventType, customVars, responses), nil
}

// ListVariables returns the photographer's custom variables
func (tf *TemplateFlowImpl) ListVariables(ctx context.Context, photographerID uint) ([]dto.CustomVariableDTO, error) {
	vars, err := tf.variableRepo.ListByPhotographer(ctx, photographerID)
	if err != nil {
		return nil, NewBusinessError("VARIABLE_LIST_FAILED", "Variable listing failed", err)
	}

	out := make([]dto.CustomVariableDTO, 0, len(vars))
	for _, v := range vars {
		out = append(out, toVariableDTO(v))
	}
	return out, nil
}

// CreateVariable defines a new custom variable
func (tf *TemplateFlowImpl) CreateVariable(ctx context.Context, photographerID uint, request *dto.UpsertCustomVariableRequest) (*dto.CustomVariableDTO, error) {
	existing, err := tf.variableRepo.ByKey(ctx, photographerID, request.Key)
	if err != nil {
		return nil, NewBusinessError("VARIABLE_CREATION_FAILED", "Variable creation failed", err)
	}
	if existing != nil {
		return nil, NewBusinessError("VARIABLE_CREATION_FAILED", "Variable creation failed", ErrDuplicateVariable)
	}

	variable := &models.CustomVariable{
		PhotographerID: photographerID,
		Key:            request.Key,
		Label:          request.Label,
		Value:          request.Value,
		Category:       request.Category,
	}
	if err := tf.variableRepo.Save(ctx, variable); err != nil {
		return nil, NewBusinessError("VARIABLE_CREATION_FAILED", "Variable creation failed", err)
	}

	out := toVariableDTO(variable)
	return &out, nil
}

// UpdateVariable edits an existing custom variable. Contracts already
// generated keep their substituted text; only future generations see the new
// value.
func (tf *TemplateFlowImpl) UpdateVariable(ctx context.Context, photographerID, variableID uint, request *dto.UpsertCustomVariableRequest) (*dto.CustomVariableDTO, error) {
	variable, err := tf.variableRepo.ByID(ctx, variableID)
	if err != nil {
		return nil, NewBusinessError("VARIABLE_UPDATE_FAILED", "Variable update failed", err)
	}
	if variable == nil || variable.PhotographerID != photographerID {
		return nil, NewBusinessError("VARIABLE_UPDATE_FAILED", "Variable update failed", ErrVariableNotFound)
	}

	if request.Key != variable.Key {
		existing, err := tf.variableRepo.ByKey(ctx, photographerID, request.Key)
		if err != nil {
			return nil, NewBusinessError("VARIABLE_UPDATE_FAILED", "Variable update failed", err)
		}
		if existing != nil {
			return nil, NewBusinessError("VARIABLE_UPDATE_FAILED", "Variable update failed", ErrDuplicateVariable)
		}
	}

	variable.Key = request.Key
	variable.Label = request.Label
	variable.Value = request.Value
	variable.Category = request.Category
	variable.UpdatedAt = utils.UTCNow()

	if err := tf.variableRepo.Update(ctx, variable); err != nil {
		return nil, NewBusinessError("VARIABLE_UPDATE_FAILED", "Variable update failed", err)
	}

	out := toVariableDTO(variable)
	return &out, nil
}

func toTemplateDTO(t *models.ContractTemplate) dto.TemplateDTO {
	return dto.TemplateDTO{
		ID:           t.ID,
		Name:         t.Name,
		Content:      t.Content,
		EventTypeID:  t.EventTypeID,
		IsSystem:     t.IsSystem,
		IsDefault:    t.IsDefault,
		ForkedFromID: t.ForkedFromID,
		UpdatedAt:    t.UpdatedAt.Format(time.RFC3339),
	}
}

func toVariableDTO(v *models.CustomVariable) dto.CustomVariableDTO {
	return dto.CustomVariableDTO{
		ID:       v.ID,
		Key:      v.Key,
		Label:    v.Label,
		Value:    v.Value,
		Category: v.Category,
	}
}
