package handlers

import (
	"log"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// EventTypeHandlerInterface defines the contract for event type handlers
type EventTypeHandlerInterface interface {
	ListEventTypes(c fiber.Ctx) error
	CreateEventType(c fiber.Ctx) error
	ListQuestions(c fiber.Ctx) error
	UpsertQuestion(c fiber.Ctx) error
}

// EventTypeHandler handles event type and questionnaire definition requests
type EventTypeHandler struct {
	eventTypeFlow businessflow.EventTypeFlow
	validator     *validator.Validate
}

func (h *EventTypeHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *EventTypeHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewEventTypeHandler creates a new event type handler
func NewEventTypeHandler(eventTypeFlow businessflow.EventTypeFlow) *EventTypeHandler {
	return &EventTypeHandler{
		eventTypeFlow: eventTypeFlow,
		validator:     validator.New(),
	}
}

// ListEventTypes handles event type listings
// @Summary List Event Types
// @Description List system event types plus the photographer's custom ones
// @Tags EventTypes
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventTypeDTO} "Event types"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/event-types [get]
func (h *EventTypeHandler) ListEventTypes(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.eventTypeFlow.ListEventTypes(createRequestContext(c, "/api/v1/event-types"), photographerID)
	if err != nil {
		log.Println("Event type listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Event type listing failed", "EVENT_TYPE_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Event types retrieved", result)
}

// CreateEventType handles custom event type creation
// @Summary Create Event Type
// @Description Add a custom event type for the photographer
// @Tags EventTypes
// @Accept json
// @Produce json
// @Param request body dto.CreateEventTypeRequest true "Event type data"
// @Success 201 {object} dto.APIResponse{data=dto.EventTypeDTO} "Event type created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/event-types [post]
func (h *EventTypeHandler) CreateEventType(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreateEventTypeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.eventTypeFlow.CreateEventType(createRequestContext(c, "/api/v1/event-types"), photographerID, &req)
	if err != nil {
		log.Println("Event type creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Event type creation failed", "EVENT_TYPE_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Event type created", result)
}

// ListQuestions handles questionnaire definition reads
// @Summary List Questions
// @Description List an event type's questionnaire in display order
// @Tags EventTypes
// @Accept json
// @Produce json
// @Param id path int true "Event type ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionDTO} "Questions"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Event type not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/event-types/{id}/questions [get]
func (h *EventTypeHandler) ListQuestions(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	eventTypeID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid event type ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.eventTypeFlow.ListQuestions(createRequestContext(c, "/api/v1/event-types/:id/questions"), photographerID, eventTypeID)
	if err != nil {
		if businessflow.IsEventTypeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Event type not found", dto.ErrorEventTypeNotFound, nil)
		}

		log.Println("Question listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Question listing failed", "QUESTION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Questions retrieved", result)
}

// UpsertQuestion handles question creation and edits, matched by key
// @Summary Upsert Question
// @Description Create or update a question on an owned event type
// @Tags EventTypes
// @Accept json
// @Produce json
// @Param id path int true "Event type ID"
// @Param request body dto.UpsertQuestionRequest true "Question definition"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionDTO} "Question saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Event type is read only"
// @Failure 404 {object} dto.APIResponse "Event type not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/event-types/{id}/questions [put]
func (h *EventTypeHandler) UpsertQuestion(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	eventTypeID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid event type ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.UpsertQuestionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.eventTypeFlow.UpsertQuestion(createRequestContext(c, "/api/v1/event-types/:id/questions"), photographerID, eventTypeID, &req)
	if err != nil {
		if businessflow.IsEventTypeNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Event type not found", dto.ErrorEventTypeNotFound, nil)
		}
		if businessflow.IsEventTypeReadOnly(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "System event types cannot be modified", dto.ErrorEventTypeReadOnly, nil)
		}

		log.Println("Question upsert failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Question upsert failed", "QUESTION_UPSERT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Question saved", result)
}
