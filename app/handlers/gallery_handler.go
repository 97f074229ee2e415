package handlers

import (
	"log"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// GalleryHandlerInterface defines the contract for gallery handlers
type GalleryHandlerInterface interface {
	UpsertGallery(c fiber.Ctx) error
	SetVisibility(c fiber.Ctx) error
	GetGallery(c fiber.Ctx) error
	ListGalleries(c fiber.Ctx) error
}

// GalleryHandler handles gallery HTTP requests on the photographer side
type GalleryHandler struct {
	galleryFlow businessflow.GalleryFlow
	validator   *validator.Validate
}

func (h *GalleryHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *GalleryHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryFlow businessflow.GalleryFlow) *GalleryHandler {
	return &GalleryHandler{
		galleryFlow: galleryFlow,
		validator:   validator.New(),
	}
}

// UpsertGallery handles gallery creation and replacement for a link
// @Summary Upsert Gallery
// @Description Create or replace the gallery attached to a client link
// @Tags Galleries
// @Accept json
// @Produce json
// @Param request body dto.UpsertGalleryRequest true "Gallery data"
// @Success 200 {object} dto.APIResponse{data=dto.GalleryDTO} "Gallery saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/galleries [put]
func (h *GalleryHandler) UpsertGallery(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.UpsertGalleryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	result, err := h.galleryFlow.UpsertGallery(createRequestContext(c, "/api/v1/galleries"), photographerID, &req)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}

		log.Println("Gallery upsert failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Gallery upsert failed", "GALLERY_UPSERT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Gallery saved", result)
}

// SetVisibility handles the gallery visibility toggle. Showing a gallery
// requires a signed contract.
// @Summary Set Gallery Visibility
// @Description Show or hide the gallery for the client
// @Tags Galleries
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Param request body dto.SetGalleryVisibilityRequest true "Visibility"
// @Success 200 {object} dto.APIResponse{data=dto.GalleryDTO} "Visibility updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link or gallery not found"
// @Failure 409 {object} dto.APIResponse "Contract is not signed yet"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links/{id}/gallery/visibility [post]
func (h *GalleryHandler) SetVisibility(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link ID", "INVALID_REQUEST", err.Error())
	}

	var req dto.SetGalleryVisibilityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.galleryFlow.SetVisibility(createRequestContext(c, "/api/v1/links/:id/gallery/visibility"), photographerID, linkID, &req, metadata)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}
		if businessflow.IsGalleryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No gallery for this link", dto.ErrorGalleryNotFound, nil)
		}
		if businessflow.IsContractNotSignedYet(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Contract must be signed before showing the gallery", dto.ErrorContractNotSignedYet, nil)
		}

		log.Println("Gallery visibility change failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Gallery visibility change failed", "GALLERY_VISIBILITY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Gallery visibility updated", result)
}

// GetGallery handles gallery reads on the photographer side
// @Summary Get Gallery
// @Description Get the gallery attached to a link
// @Tags Galleries
// @Accept json
// @Produce json
// @Param id path int true "Link ID"
// @Success 200 {object} dto.APIResponse{data=dto.GalleryDTO} "Gallery"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Link or gallery not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/links/{id}/gallery [get]
func (h *GalleryHandler) GetGallery(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	linkID, err := parseUintParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid link ID", "INVALID_REQUEST", err.Error())
	}

	result, err := h.galleryFlow.GetGallery(createRequestContext(c, "/api/v1/links/:id/gallery"), photographerID, linkID)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Link not found", dto.ErrorLinkNotFound, nil)
		}
		if businessflow.IsGalleryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "No gallery for this link", dto.ErrorGalleryNotFound, nil)
		}

		log.Println("Gallery fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Gallery fetch failed", "GALLERY_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Gallery retrieved", result)
}

// ListGalleries handles gallery listings
// @Summary List Galleries
// @Description List the photographer's galleries
// @Tags Galleries
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.GalleryDTO} "Galleries"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Security BearerAuth
// @Router /api/v1/galleries [get]
func (h *GalleryHandler) ListGalleries(c fiber.Ctx) error {
	photographerID, ok := c.Locals("photographer_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	result, err := h.galleryFlow.ListGalleries(createRequestContext(c, "/api/v1/galleries"), photographerID)
	if err != nil {
		log.Println("Gallery listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Gallery listing failed", "GALLERY_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Galleries retrieved", result)
}
