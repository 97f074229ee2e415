package handlers

import (
	"log"
	"strconv"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ClientLinkHandlerInterface defines the contract for portal link handlers
type ClientLinkHandlerInterface interface {
	CreateLink(c fiber.Ctx) error
	ListLinks(c fiber.Ctx) error
	GetLink(c fiber.Ctx) error
	RevokeLink(c fiber.Ctx) error
}

// ClientLinkHandler handles portal link HTTP requests
type ClientLinkHandler struct {
	linkFlow  businessflow.ClientLinkFlow
	validator *validator.Validate
}

func (h *ClientLinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ClientLinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewClientLinkHandler creates a new portal link handler
func NewClientLinkHandler(linkFlow businessflow.ClientLinkFlow) *ClientLinkHandler {
	return &ClientLinkHandler{
		linkFlow:  linkFlow,
		validator: validator.New(),
	}
}

// CreateLink handles portal link creation. The token is returned exactly
// once, in this response.
// @Summary Create Portal Link
// @Description Create a portal link for a client and event type
// @Tags ClientLinks
// @Accept json
// @Produce json
// @Param request body dto.CreateClientLinkRequest true "Link data"
// @Success 201 {object} dto.APIResponse{data=dto.CreatedClientLinkDTO} "Link created with its token"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Client or event type not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links [post]
func (h *ClientLinkHandler) CreateLink(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateClientLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.linkFlow.CreateLink(createRequestContext(c, "/api/v1/links"), photographerID, &req, metadata)
	if err != nil {
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", dto.ErrorClientNotFound, nil)
		}
		if businessflow.IsEventTypeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Event type not found", dto.ErrorEventTypeNotFound, nil)
		}

		log.Println("Link creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link creation failed", "LINK_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Link created", result)
}

// ListLinks handles paginated link listings with derived workflow states
// @Summary List Portal Links
// @Description List the photographer's portal links with their workflow states
// @Tags ClientLinks
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]dto.ClientLinkDTO} "Links"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links [get]
func (h *ClientLinkHandler) ListLinks(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid page parameter", "INVALID_REQUEST", nil)
	}
	pageSize, err := strconv.Atoi(c.Query("page_size", "20"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid page_size parameter", "INVALID_REQUEST", nil)
	}

	result, err := h.linkFlow.ListLinks(createRequestContext(c, "/api/v1/links"), photographerID, page, pageSize)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination", "INVALID_REQUEST", nil)
		}

		log.Println("Link listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link listing failed", "LINK_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Links retrieved", result)
}

// GetLink handles single link reads
// @Summary Get Portal Link
// @Description Get one portal link with its derived workflow state
// @Tags ClientLinks
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClientLinkDTO} "Link"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links/{id} [get]
func (h *ClientLinkHandler) GetLink(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.linkFlow.GetLink(createRequestContext(c, "/api/v1/links/:id"), photographerID, linkID)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}

		log.Println("Link fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link fetch failed", "LINK_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link retrieved", result)
}

// RevokeLink handles permanent link revocation
// @Summary Revoke Portal Link
// @Description Permanently disable a portal link
// @Tags ClientLinks
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} dto.APIResponse "Link revoked"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link not found"
// @Failure 409 {object} dto.APIResponse "Link already revoked"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links/{id}/revoke [post]
func (h *ClientLinkHandler) RevokeLink(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link ID", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	if err := h.linkFlow.RevokeLink(createRequestContext(c, "/api/v1/links/:id/revoke"), photographerID, linkID, metadata); err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}
		if businessflow.IsLinkAlreadyRevoked(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Link already revoked", dto.ErrorLinkAlreadyRevoked, nil)
		}

		log.Println("Link revocation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link revocation failed", "LINK_REVOCATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link revoked", nil)
}
