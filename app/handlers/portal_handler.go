package handlers

import (
	"log"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/focale-app/focale/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// PortalHandlerInterface defines the client portal handlers. All of them run
// behind the link middleware, which resolves the token and stores the link.
type PortalHandlerInterface interface {
	Bootstrap(c fiber.Ctx) error
	GetQuestionnaire(c fiber.Ctx) error
	SaveQuestionnaireDraft(c fiber.Ctx) error
	ValidateQuestionnaire(c fiber.Ctx) error
	GetContract(c fiber.Ctx) error
	SignContract(c fiber.Ctx) error
	GetGallery(c fiber.Ctx) error
	ExportData(c fiber.Ctx) error
}

// PortalHandler handles all client-facing portal requests
type PortalHandler struct {
	portalFlow        businessflow.PortalFlow
	questionnaireFlow businessflow.QuestionnaireFlow
	contractFlow      businessflow.ContractFlow
	galleryFlow       businessflow.GalleryFlow
	validator         *validator.Validate
}

func (h *PortalHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PortalHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewPortalHandler creates a new client portal handler
func NewPortalHandler(
	portalFlow businessflow.PortalFlow,
	questionnaireFlow businessflow.QuestionnaireFlow,
	contractFlow businessflow.ContractFlow,
	galleryFlow businessflow.GalleryFlow,
) *PortalHandler {
	return &PortalHandler{
		portalFlow:        portalFlow,
		questionnaireFlow: questionnaireFlow,
		contractFlow:      contractFlow,
		galleryFlow:       galleryFlow,
		validator:         validator.New(),
	}
}

// resolvedLink reads the link the middleware stored for this request
func resolvedLink(c fiber.Ctx) (*models.ClientLink, bool) {
	link, ok := c.Locals("client_link").(*models.ClientLink)
	return link, ok
}

// Bootstrap handles the portal's initial load
// @Summary Portal Bootstrap
// @Description Load the client portal's initial state for a link token
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} dto.APIResponse{data=dto.PortalBootstrapDTO} "Portal state"
// @Failure 404 {object} dto.APIResponse "Unknown token"
// @Failure 410 {object} dto.APIResponse "Link revoked or expired"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/client-portal/{token} [get]
func (h *PortalHandler) Bootstrap(c fiber.Ctx) error {
	link, ok := resolvedLink(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	result, err := h.portalFlow.Bootstrap(createRequestContext(c, "/api/v1/client-portal/:token"), link)
	if err != nil {
		log.Println("Portal bootstrap failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Portal bootstrap failed", "PORTAL_BOOTSTRAP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Portal state retrieved", result)
}

// GetQuestionnaire handles questionnaire reads on the portal
// @Summary Portal Questionnaire
// @Description Get the questionnaire's questions and current answers
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionnaireDTO} "Questionnaire"
// @Failure 404 {object} dto.APIResponse "Unknown token"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/client-portal/{token}/questionnaire [get]
func (h *PortalHandler) GetQuestionnaire(c fiber.Ctx) error {
	link, ok := resolvedLink(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	result, err := h.questionnaireFlow.GetQuestionnaire(createRequestContext(c, "/api/v1/client-portal/:token/questionnaire"), link)
	if err != nil {
		log.Println("Questionnaire fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Questionnaire fetch failed", "QUESTIONNAIRE_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Questionnaire retrieved", result)
}

// SaveQuestionnaireDraft handles draft answer saves
// @Summary Save Questionnaire Draft
// @Description Save the client's answers. Drafts can be saved any number of times before validation.
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Param request body dto.SaveQuestionnaireDraftRequest true "Answers"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionnaireDTO} "Draft saved"
// @Failure 400 {object} dto.APIResponse "Invalid answers"
// @Failure 404 {object} dto.APIResponse "Unknown token"
// @Failure 409 {object} dto.APIResponse "Questionnaire is locked"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/client-portal/{token}/questionnaire [put]
func (h *PortalHandler) SaveQuestionnaireDraft(c fiber.Ctx) error {
	link, ok := resolvedLink(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	var req dto.SaveQuestionnaireDraftRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.questionnaireFlow.SaveDraft(createRequestContext(c, "/api/v1/client-portal/:token/questionnaire"), link, &req, metadata)
	if err != nil {
		if businessflow.IsQuestionnaireLocked(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Questionnaire is validated and locked", dto.ErrorQuestionnaireLocked, nil)
		}
		if businessflow.IsUnknownQuestionKey(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown question key", dto.ErrorUnknownQuestionKey, nil)
		}
		if businessflow.IsInvalidAnswer(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid answer value", dto.ErrorInvalidAnswer, nil)
		}

		log.Println("Questionnaire save failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Questionnaire save failed", "QUESTIONNAIRE_SAVE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Draft saved", result)
}

// ValidateQuestionnaire handles the one-way validation step
// @Summary Validate Questionnaire
// @Description Lock the questionnaire. Every required question must be answered.
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionnaireDTO} "Questionnaire validated"
// @Failure 404 {object} dto.APIResponse "Unknown token or no questionnaire"
// @Failure 409 {object} dto.APIResponse "Already validated or answers missing"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/client-portal/{token}/questionnaire/validate [post]
func (h *PortalHandler) ValidateQuestionnaire(c fiber.Ctx) error {
	link, ok := resolvedLink(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.questionnaireFlow.Validate(createRequestContext(c, "/api/v1/client-portal/:token/questionnaire/validate"), link, metadata)
	if err != nil {
		if businessflow.IsQuestionnaireNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No answers to validate", dto.ErrorQuestionnaireNotFound, nil)
		}
		if businessflow.IsQuestionnaireLocked(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Questionnaire is already validated", dto.ErrorQuestionnaireLocked, nil)
		}
		if businessflow.IsMissingRequiredAnswers(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Required questions are unanswered", dto.ErrorMissingRequiredAnswers, nil)
		}

		log.Println("Questionnaire validation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Questionnaire validation failed", "QUESTIONNAIRE_VALIDATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Questionnaire validated", result)
}

// GetContract handles contract reads on the portal. Drafts stay invisible to
// the client.
// @Summary Portal Contract
// @Description Get the contract once it is open for signature
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} dto.APIResponse{data=dto.ContractDTO} "Contract"
// @Failure 404 {object} dto.APIResponse "Unknown token or no visible contract"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/client-portal/{token}/contract [get]
func (h *PortalHandler) GetContract(c fiber.Ctx) error {
	link, ok := resolvedLink(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	result, err := h.contractFlow.GetContractForLink(createRequestContext(c, "/api/v1/client-portal/:token/contract"), link)
	if err != nil {
		if businessflow.IsContractNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No contract available", dto.ErrorContractNotFound, nil)
		}

		log.Println("Portal contract fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Contract fetch failed", "CONTRACT_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contract retrieved", result)
}

// SignContract handles the client's e-signature
// @Summary Sign Contract
// @Description Sign the contract. One signature per party; signing is final.
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Param request body dto.SignContractRequest true "Signature"
// @Success 200 {object} dto.APIResponse{data=dto.ContractDTO} "Contract signed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Unknown token or no contract"
// @Failure 409 {object} dto.APIResponse "Not signable or already signed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/client-portal/{token}/contract/sign [post]
func (h *PortalHandler) SignContract(c fiber.Ctx) error {
	link, ok := resolvedLink(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	var req dto.SignContractRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.contractFlow.SignContract(createRequestContext(c, "/api/v1/client-portal/:token/contract/sign"), link, &req, metadata)
	if err != nil {
		if businessflow.IsContractNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No contract available", dto.ErrorContractNotFound, nil)
		}
		if businessflow.IsContractNotSignable(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Contract is not open for signature", dto.ErrorContractNotSignable, nil)
		}
		if businessflow.IsAlreadySigned(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Contract is already signed", dto.ErrorAlreadySigned, nil)
		}

		log.Println("Contract signature failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Contract signature failed", "CONTRACT_SIGNATURE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Contract signed", result)
}

// GetGallery handles gallery reads on the portal. Hidden galleries are
// indistinguishable from absent ones.
// @Summary Portal Gallery
// @Description Get the gallery once the photographer has made it visible
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} dto.APIResponse{data=dto.GalleryDTO} "Gallery"
// @Failure 404 {object} dto.APIResponse "Unknown token or no visible gallery"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/client-portal/{token}/gallery [get]
func (h *PortalHandler) GetGallery(c fiber.Ctx) error {
	link, ok := resolvedLink(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	result, err := h.galleryFlow.GetGalleryForLink(createRequestContext(c, "/api/v1/client-portal/:token/gallery"), link)
	if err != nil {
		if businessflow.IsGalleryNotVisible(err) || businessflow.IsGalleryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No gallery available", dto.ErrorGalleryNotFound, nil)
		}

		log.Println("Portal gallery fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Gallery fetch failed", "GALLERY_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Gallery retrieved", result)
}

// ExportData handles the client's data portability request
// @Summary Export Client Data
// @Description Download every piece of data reachable from this link as one JSON document
// @Tags Portal
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} dto.APIResponse{data=dto.PortalDataExportDTO} "Data export"
// @Failure 404 {object} dto.APIResponse "Unknown token"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/client-portal/{token}/export [get]
func (h *PortalHandler) ExportData(c fiber.Ctx) error {
	link, ok := resolvedLink(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.portalFlow.ExportData(createRequestContextWithTimeout(c, "/api/v1/client-portal/:token/export", exportTimeout), link, metadata)
	if err != nil {
		log.Println("Data export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Data export failed", "DATA_EXPORT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Data export generated", result)
}
