// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"
)

// SignupRequest represents the request payload for photographer registration
type SignupRequest struct {
	Email           string  `json:"email" validate:"required,email,max=255" example:"jeanne@studio-lumiere.fr"`
	Password        string  `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password" example:"SecurePass123!"`
	FirstName       string  `json:"first_name" validate:"required,min=1,max=100" example:"Jeanne"`
	LastName        string  `json:"last_name" validate:"required,min=1,max=100" example:"Martin"`
	BusinessName    *string `json:"business_name,omitempty" validate:"omitempty,max=255" example:"Studio Lumiere"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=30" example:"+33612345678"`
	SiretNumber     *string `json:"siret_number,omitempty" validate:"omitempty,len=14" example:"12345678901234"`
}

// LoginRequest represents the request payload for photographer login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"jeanne@studio-lumiere.fr"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// RefreshTokenRequest represents the request to exchange a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// PhotographerInfo represents account information returned in auth responses
type PhotographerInfo struct {
	ID           uint    `json:"id" example:"123"`
	UUID         string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email        string  `json:"email" example:"jeanne@studio-lumiere.fr"`
	FirstName    string  `json:"first_name" example:"Jeanne"`
	LastName     string  `json:"last_name" example:"Martin"`
	BusinessName string  `json:"business_name,omitempty" example:"Studio Lumiere"`
	Phone        *string `json:"phone,omitempty" example:"+33612345678"`
	IsActive     *bool   `json:"is_active" example:"true"`
	CreatedAt    string  `json:"created_at" example:"2026-01-15T10:30:00Z"`
}

// AuthSessionDTO represents issued tokens
type AuthSessionDTO struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresIn    int       `json:"expires_in" example:"86400"`
	ExpiresAt    time.Time `json:"expires_at" example:"2026-01-16T10:30:00Z"`
}

// AuthResponse represents the successful signup/login response payload
type AuthResponse struct {
	Photographer PhotographerInfo `json:"photographer"`
	Session      AuthSessionDTO   `json:"session"`
}

// Common error codes for auth operations
const (
	ErrorPhotographerNotFound = "PHOTOGRAPHER_NOT_FOUND"
	ErrorIncorrectPassword    = "INCORRECT_PASSWORD"
	ErrorAccountInactive      = "ACCOUNT_INACTIVE"
	ErrorEmailAlreadyExists   = "EMAIL_ALREADY_EXISTS"
	ErrorTokenInvalid         = "TOKEN_INVALID"
	ErrorTokenExpired         = "TOKEN_EXPIRED"
)
