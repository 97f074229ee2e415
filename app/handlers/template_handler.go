package handlers

import (
	"log"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// TemplateHandlerInterface defines the contract for template handlers
type TemplateHandlerInterface interface {
	ListTemplates(c fiber.Ctx) error
	CreateTemplate(c fiber.Ctx) error
	UpdateTemplate(c fiber.Ctx) error
	ForkTemplate(c fiber.Ctx) error
	PreviewTemplate(c fiber.Ctx) error
	ListVariables(c fiber.Ctx) error
	CreateVariable(c fiber.Ctx) error
	UpdateVariable(c fiber.Ctx) error
}

// TemplateHandler handles contract template and custom variable requests
type TemplateHandler struct {
	templateFlow businessflow.TemplateFlow
	validator    *validator.Validate
}

func (h *TemplateHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TemplateHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateFlow businessflow.TemplateFlow) *TemplateHandler {
	return &TemplateHandler{
		templateFlow: templateFlow,
		validator:    validator.New(),
	}
}

// ListTemplates handles template listings
// @Summary List Templates
// @Description List system templates plus the photographer's own
// @Tags Templates
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.TemplateDTO} "Templates"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.templateFlow.ListTemplates(createRequestContext(c, "/api/v1/templates"), photographerID)
	if err != nil {
		log.Println("Template listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Template listing failed", "TEMPLATE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Templates retrieved", result)
}

// CreateTemplate handles template creation
// @Summary Create Template
// @Description Create a contract template owned by the photographer
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body dto.CreateTemplateRequest true "Template data"
// @Success 201 {object} dto.APIResponse{data=dto.TemplateDTO} "Template created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/templates [post]
func (h *TemplateHandler) CreateTemplate(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.templateFlow.CreateTemplate(createRequestContext(c, "/api/v1/templates"), photographerID, &req)
	if err != nil {
		if businessflow.IsEventTypeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Event type not found", dto.ErrorEventTypeNotFound, nil)
		}

		log.Println("Template creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Template creation failed", "TEMPLATE_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Template created", result)
}

// UpdateTemplate handles edits of owned templates
// @Summary Update Template
// @Description Edit a template the photographer owns. System templates must be forked first.
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param request body dto.UpdateTemplateRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.TemplateDTO} "Template updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Template is read only"
// @Failure 404 {object} dto.APIResponse "Template not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	templateID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid template ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdateTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.templateFlow.EditOwnedTemplate(createRequestContext(c, "/api/v1/templates/:id"), photographerID, templateID, &req)
	if err != nil {
		if businessflow.IsTemplateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Template not found", dto.ErrorTemplateNotFound, nil)
		}
		if businessflow.IsTemplateReadOnly(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "System templates cannot be edited, fork first", dto.ErrorTemplateReadOnly, nil)
		}

		log.Println("Template update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Template update failed", "TEMPLATE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Template updated", result)
}

// ForkTemplate handles forking a system template into an editable copy
// @Summary Fork Template
// @Description Copy a system template into an editable one owned by the photographer
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Success 201 {object} dto.APIResponse{data=dto.TemplateDTO} "Template forked"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Template not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/templates/{id}/fork [post]
func (h *TemplateHandler) ForkTemplate(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	templateID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid template ID", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.templateFlow.ForkTemplate(createRequestContext(c, "/api/v1/templates/:id/fork"), photographerID, templateID, metadata)
	if err != nil {
		if businessflow.IsTemplateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Template not found", dto.ErrorTemplateNotFound, nil)
		}

		log.Println("Template fork failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Template fork failed", "TEMPLATE_FORK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Template forked", result)
}

// PreviewTemplate handles substitution previews against a link
// @Summary Preview Template
// @Description Render a template against a link's variables without creating a contract
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path int true "Template ID"
// @Param request body dto.PreviewTemplateRequest true "Link to preview against"
// @Success 200 {object} dto.APIResponse{data=dto.PreviewTemplateResponse} "Rendered preview"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Template or link not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/templates/{id}/preview [post]
func (h *TemplateHandler) PreviewTemplate(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	templateID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid template ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.PreviewTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.templateFlow.PreviewTemplate(createRequestContext(c, "/api/v1/templates/:id/preview"), photographerID, templateID, &req)
	if err != nil {
		if businessflow.IsTemplateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Template not found", dto.ErrorTemplateNotFound, nil)
		}
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}

		log.Println("Template preview failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Template preview failed", "TEMPLATE_PREVIEW_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Preview rendered", result)
}

// ListVariables handles custom variable listings
// @Summary List Variables
// @Description List the photographer's custom variables
// @Tags Templates
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CustomVariableDTO} "Variables"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/variables [get]
func (h *TemplateHandler) ListVariables(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.templateFlow.ListVariables(createRequestContext(c, "/api/v1/variables"), photographerID)
	if err != nil {
		log.Println("Variable listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Variable listing failed", "VARIABLE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Variables retrieved", result)
}

// CreateVariable handles custom variable creation
// @Summary Create Variable
// @Description Define a custom substitution variable
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body dto.UpsertCustomVariableRequest true "Variable definition"
// @Success 201 {object} dto.APIResponse{data=dto.CustomVariableDTO} "Variable created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 409 {object} dto.APIResponse "Duplicate variable key"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/variables [post]
func (h *TemplateHandler) CreateVariable(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.UpsertCustomVariableRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.templateFlow.CreateVariable(createRequestContext(c, "/api/v1/variables"), photographerID, &req)
	if err != nil {
		if businessflow.IsDuplicateVariable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Variable key already exists", dto.ErrorDuplicateVariable, nil)
		}

		log.Println("Variable creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Variable creation failed", "VARIABLE_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Variable created", result)
}

// UpdateVariable handles custom variable edits
// @Summary Update Variable
// @Description Edit a custom substitution variable
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path int true "Variable ID"
// @Param request body dto.UpsertCustomVariableRequest true "Variable definition"
// @Success 200 {object} dto.APIResponse{data=dto.CustomVariableDTO} "Variable updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Variable not found"
// @Failure 409 {object} dto.APIResponse "Duplicate variable key"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/variables/{id} [put]
func (h *TemplateHandler) UpdateVariable(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	variableID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid variable ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpsertCustomVariableRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.templateFlow.UpdateVariable(createRequestContext(c, "/api/v1/variables/:id"), photographerID, variableID, &req)
	if err != nil {
		if businessflow.IsVariableNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Variable not found", dto.ErrorVariableNotFound, nil)
		}
		if businessflow.IsDuplicateVariable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Variable key already exists", dto.ErrorDuplicateVariable, nil)
		}

		log.Println("Variable update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Variable update failed", "VARIABLE_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Variable updated", result)
}
