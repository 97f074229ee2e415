package handlers

import (
	"log"
	"time"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for authentication handlers
type AuthHandlerInterface interface {
	Signup(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
	Health(c fiber.Ctx) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authFlow  businessflow.AuthFlow
	validator *validator.Validate
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authFlow businessflow.AuthFlow) *AuthHandler {
	return &AuthHandler{
		authFlow:  authFlow,
		validator: validator.New(),
	}
}

// Signup handles photographer registration
// @Summary Photographer Registration
// @Description Register a new photographer account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Photographer registration data"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.authFlow.Signup(createRequestContext(c, "/api/v1/auth/signup"), &req, metadata)
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Email already exists", dto.ErrorEmailAlreadyExists, nil)
		}

		log.Println("Signup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Signup failed", "SIGNUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Account created successfully", result)
}

// Login handles photographer authentication
// @Summary Photographer Login
// @Description Authenticate a photographer with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful with tokens"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Authentication failed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.authFlow.Login(createRequestContext(c, "/api/v1/auth/login"), &req, metadata)
	if err != nil {
		if businessflow.IsPhotographerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", dto.ErrorPhotographerNotFound, nil)
		}
		if businessflow.IsIncorrectPassword(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", dto.ErrorIncorrectPassword, nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", dto.ErrorAccountInactive, nil)
		}

		log.Println("Login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// RefreshToken handles session renewal
// @Summary Refresh Session
// @Description Exchange a refresh token for a new token pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.AuthSessionDTO} "Session refreshed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid or expired refresh token"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.authFlow.RefreshToken(createRequestContext(c, "/api/v1/auth/refresh"), &req, metadata)
	if err != nil {
		if businessflow.IsPhotographerNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid refresh token", dto.ErrorTokenInvalid, nil)
		}
		if businessflow.IsAccountInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Account is inactive", dto.ErrorAccountInactive, nil)
		}

		log.Println("Token refresh failed", err)
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Token refresh failed", dto.ErrorTokenInvalid, nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Session refreshed", result)
}

// Health handles health check requests
// @Summary Health Check
// @Description Check the health status of the API
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse "Service is healthy"
// @Router /api/v1/health [get]
func (h *AuthHandler) Health(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Service is healthy", fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "focale-api",
	})
}
