package handlers

import (
	"fmt"
	"log"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ContractHandlerInterface defines the contract lifecycle handlers on the
// photographer side
type ContractHandlerInterface interface {
	GenerateContract(c fiber.Ctx) error
	GetContract(c fiber.Ctx) error
	ValidateContract(c fiber.Ctx) error
	DownloadContractPDF(c fiber.Ctx) error
}

// ContractHandler handles contract lifecycle HTTP requests
type ContractHandler struct {
	contractFlow businessflow.ContractFlow
	validator    *validator.Validate
}

func (h *ContractHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ContractHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractFlow businessflow.ContractFlow) *ContractHandler {
	return &ContractHandler{
		contractFlow: contractFlow,
		validator:    validator.New(),
	}
}

// GenerateContract handles contract generation for a link. Draft contracts
// are regenerated in place.
// @Summary Generate Contract
// @Description Generate a draft contract from a template and the link's variables
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body dto.GenerateContractRequest true "Template selection"
// @Success 201 {object} dto.APIResponse{data=dto.ContractDTO} "Contract generated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link or template not found"
// @Failure 409 {object} dto.APIResponse "Contract past draft or questionnaire incomplete"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links/{id}/contract/generate [post]
func (h *ContractHandler) GenerateContract(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.GenerateContractRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.contractFlow.GenerateContract(createRequestContext(c, "/api/v1/links/:id/contract/generate"), photographerID, linkID, &req, metadata)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}
		if businessflow.IsTemplateNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Template not found", dto.ErrorTemplateNotFound, nil)
		}
		if businessflow.IsQuestionnaireNotComplete(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Questionnaire must be validated first", dto.ErrorQuestionnaireRequired, nil)
		}
		if businessflow.IsContractNotRegenerable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Contract is past draft and cannot be regenerated", dto.ErrorContractNotRegenerable, nil)
		}

		log.Println("Contract generation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Contract generation failed", "CONTRACT_GENERATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Contract generated", result)
}

// GetContract handles contract reads on the photographer side
// @Summary Get Contract
// @Description Get the contract attached to a link
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContractDTO} "Contract"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link or contract not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links/{id}/contract [get]
func (h *ContractHandler) GetContract(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.contractFlow.GetContract(createRequestContext(c, "/api/v1/links/:id/contract"), photographerID, linkID)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}
		if businessflow.IsContractNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No contract for this link", dto.ErrorContractNotFound, nil)
		}

		log.Println("Contract fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Contract fetch failed", "CONTRACT_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contract retrieved", result)
}

// ValidateContract handles the draft to pending_signature transition
// @Summary Validate Contract
// @Description Freeze the draft and open it for client signature
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContractDTO} "Contract validated"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link or contract not found"
// @Failure 409 {object} dto.APIResponse "Contract is not in draft"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links/{id}/contract/validate [post]
func (h *ContractHandler) ValidateContract(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link ID", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.contractFlow.ValidateContract(createRequestContext(c, "/api/v1/links/:id/contract/validate"), photographerID, linkID, metadata)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}
		if businessflow.IsContractNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No contract for this link", dto.ErrorContractNotFound, nil)
		}
		if businessflow.IsContractNotValidatable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Contract is not in draft", dto.ErrorContractNotValidatable, nil)
		}

		log.Println("Contract validation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Contract validation failed", "CONTRACT_VALIDATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contract validated", result)
}

// DownloadContractPDF streams the stored contract document. The signed
// version is served unless the query asks for the draft.
// @Summary Download Contract PDF
// @Description Download the rendered contract document
// @Tags Contracts
// @Produce application/pdf
// @Param id path int true "Link ID"
// @Param version query string false "Document version" Enums(draft, signed) default(signed)
// @Success 200 {file} binary "PDF document"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link, contract or document not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links/{id}/contract/pdf [get]
func (h *ContractHandler) DownloadContractPDF(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link ID", "INVALID_REQUEST", err.Error())
	}

	version := c.Query("version", "signed")
	if version != "draft" && version != "signed" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Version must be draft or signed", "INVALID_REQUEST", nil)
	}

	result, err := h.contractFlow.GetContract(createRequestContext(c, "/api/v1/links/:id/contract/pdf"), photographerID, linkID)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}
		if businessflow.IsContractNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No contract for this link", dto.ErrorContractNotFound, nil)
		}

		log.Println("Contract fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Contract fetch failed", "CONTRACT_FETCH_FAILED", nil)
	}

	path := result.SignedPDFPath
	if version == "draft" {
		path = result.DraftPDFPath
	}
	if path == nil {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Document not rendered yet", dto.ErrorContractNotFound, nil)
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="contrat-%s-%s.pdf"`, result.UUID, version))
	return c.SendFile(*path)
}
