package handlers

import (
	"fmt"
	"log"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuditHandlerInterface defines the contract for audit trail handlers
type AuditHandlerInterface interface {
	ListLogs(c fiber.Ctx) error
	ExportLogs(c fiber.Ctx) error
}

// AuditHandler handles audit trail HTTP requests
type AuditHandler struct {
	auditFlow businessflow.AuditFlow
	validator *validator.Validate
}

func (h *AuditHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuditHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditFlow businessflow.AuditFlow) *AuditHandler {
	return &AuditHandler{
		auditFlow: auditFlow,
		validator: validator.New(),
	}
}

// ListLogs handles paginated audit trail reads
// @Summary List Audit Logs
// @Description List the photographer's audit trail, newest first
// @Tags Audit
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param action query string false "Filter by action"
// @Param client_link_id query int false "Filter by link"
// @Success 200 {object} dto.APIResponse{data=dto.AuditLogListDTO} "Audit entries"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/audit-logs [get]
func (h *AuditHandler) ListLogs(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var query dto.AuditLogQuery
	if err := c.Bind().Query(&query); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&query); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.auditFlow.ListLogs(createRequestContext(c, "/api/v1/audit-logs"), photographerID, &query)
	if err != nil {
		log.Println("Audit log listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Audit log listing failed", "AUDIT_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Audit logs retrieved", result)
}

// ExportLogs handles XLSX exports of the audit trail
// @Summary Export Audit Logs
// @Description Download the audit trail as an XLSX file
// @Tags Audit
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param action query string false "Filter by action"
// @Param client_link_id query int false "Filter by link"
// @Success 200 {file} binary "XLSX document"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/audit-logs/export [get]
func (h *AuditHandler) ExportLogs(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var query dto.AuditLogQuery
	if err := c.Bind().Query(&query); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	content, filename, err := h.auditFlow.ExportLogsXLSX(createRequestContextWithTimeout(c, "/api/v1/audit-logs/export", exportTimeout), photographerID, &query)
	if err != nil {
		log.Println("Audit log export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Audit log export failed", "AUDIT_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(content)
}
