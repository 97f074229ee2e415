package handlers

import (
	"log"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ClientHandlerInterface defines the contract for client record handlers
type ClientHandlerInterface interface {
	CreateClient(c fiber.Ctx) error
	UpdateClient(c fiber.Ctx) error
	GetClient(c fiber.Ctx) error
	ListClients(c fiber.Ctx) error
}

// ClientHandler handles client record HTTP requests
type ClientHandler struct {
	clientFlow businessflow.ClientFlow
	validator  *validator.Validate
}

func (h *ClientHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ClientHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewClientHandler creates a new client record handler
func NewClientHandler(clientFlow businessflow.ClientFlow) *ClientHandler {
	return &ClientHandler{
		clientFlow: clientFlow,
		validator:  validator.New(),
	}
}

// CreateClient handles client record creation
// @Summary Create Client
// @Description Register a client record for the authenticated photographer
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body dto.CreateClientRequest true "Client data"
// @Success 201 {object} dto.APIResponse{data=dto.ClientDTO} "Client created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/clients [post]
func (h *ClientHandler) CreateClient(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateClientRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.clientFlow.CreateClient(createRequestContext(c, "/api/v1/clients"), photographerID, &req)
	if err != nil {
		log.Println("Client creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Client creation failed", "CLIENT_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Client created", result)
}

// UpdateClient handles client record edits
// @Summary Update Client
// @Description Edit a client record the photographer owns
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param request body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ClientDTO} "Client updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/clients/{id} [put]
func (h *ClientHandler) UpdateClient(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	clientID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid client ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpdateClientRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.clientFlow.UpdateClient(createRequestContext(c, "/api/v1/clients/:id"), photographerID, clientID, &req)
	if err != nil {
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", dto.ErrorClientNotFound, nil)
		}

		log.Println("Client update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Client update failed", "CLIENT_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Client updated", result)
}

// GetClient handles single client record reads
// @Summary Get Client
// @Description Get one client record
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClientDTO} "Client record"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Client not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/clients/{id} [get]
func (h *ClientHandler) GetClient(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	clientID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid client ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.clientFlow.GetClient(createRequestContext(c, "/api/v1/clients/:id"), photographerID, clientID)
	if err != nil {
		if businessflow.IsClientNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Client not found", dto.ErrorClientNotFound, nil)
		}

		log.Println("Client fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Client fetch failed", "CLIENT_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Client retrieved", result)
}

// ListClients handles paginated client listings
// @Summary List Clients
// @Description List the photographer's client records
// @Tags Clients
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]dto.ClientDTO} "Client records"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/clients [get]
func (h *ClientHandler) ListClients(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var query dto.PaginationQuery
	if err := c.Bind().Query(&query); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.clientFlow.ListClients(createRequestContext(c, "/api/v1/clients"), photographerID, &query)
	if err != nil {
		log.Println("Client listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Client listing failed", "CLIENT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Clients retrieved", result)
}
