package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/app/services"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthFlow handles photographer registration and authentication
type AuthFlow interface {
	Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthSessionDTO, error)
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	photographerRepo repository.PhotographerRepository
	auditRepo        repository.AuditLogRepository
	tokenService     services.TokenService
	notificationSvc  services.NotificationService
	db               *gorm.DB
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(
	photographerRepo repository.PhotographerRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	notificationSvc services.NotificationService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		photographerRepo: photographerRepo,
		auditRepo:        auditRepo,
		tokenService:     tokenService,
		notificationSvc:  notificationSvc,
		db:               db,
	}
}

// Signup registers a new photographer account
func (af *AuthFlowImpl) Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	var photographer *models.Photographer

	resp, err := af.WithAuthTransaction(ctx, func(ctx context.Context) (*dto.AuthResponse, error) {
		existing, err := af.photographerRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		photographer = &models.Photographer{
			Email:        email,
			PasswordHash: string(passwordHash),
			FirstName:    request.FirstName,
			LastName:     request.LastName,
			BusinessName: request.BusinessName,
			Phone:        request.Phone,
			SiretNumber:  request.SiretNumber,
			IsActive:     utils.ToPtr(true),
		}

		if err := af.photographerRepo.Save(ctx, photographer); err != nil {
			return nil, err
		}

		session, err := af.issueSession(photographer.ID)
		if err != nil {
			return nil, err
		}

		return &dto.AuthResponse{
			Photographer: ToPhotographerInfo(*photographer),
			Session:      *session,
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Signup failed: %s", err.Error())
		_ = logAudit(ctx, af.auditRepo, AuditEvent{
			Action:       models.AuditActionSignup,
			ActorType:    models.ActorTypePhotographer,
			Description:  errMsg,
			Success:      false,
			ErrorMessage: &errMsg,
		}, metadata)
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	_ = logAudit(ctx, af.auditRepo, AuditEvent{
		PhotographerID: &photographer.ID,
		Action:         models.AuditActionSignup,
		ActorType:      models.ActorTypePhotographer,
		Description:    fmt.Sprintf("Photographer registered: %d", photographer.ID),
		Success:        true,
	}, metadata)

	// Welcome email is best effort
	go func() {
		_ = af.notificationSvc.SendEmail(email, "Bienvenue sur Focale", fmt.Sprintf("Bonjour %s, votre espace photographe est pret.", request.FirstName))
	}()

	return resp, nil
}

// Login authenticates a photographer with email and password
func (af *AuthFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	var photographer *models.Photographer

	resp, err := af.WithAuthTransaction(ctx, func(ctx context.Context) (*dto.AuthResponse, error) {
		var err error
		photographer, err = af.photographerRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if photographer == nil {
			return nil, ErrPhotographerNotFound
		}

		if !utils.IsTrue(photographer.IsActive) {
			return nil, ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(photographer.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		session, err := af.issueSession(photographer.ID)
		if err != nil {
			return nil, err
		}

		return &dto.AuthResponse{
			Photographer: ToPhotographerInfo(*photographer),
			Session:      *session,
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		var photographerID *uint
		if photographer != nil {
			photographerID = &photographer.ID
		}
		_ = logAudit(ctx, af.auditRepo, AuditEvent{
			PhotographerID: photographerID,
			Action:         models.AuditActionLoginFailed,
			ActorType:      models.ActorTypePhotographer,
			Description:    errMsg,
			Success:        false,
			ErrorMessage:   &errMsg,
		}, metadata)
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	_ = logAudit(ctx, af.auditRepo, AuditEvent{
		PhotographerID: &photographer.ID,
		Action:         models.AuditActionLoginSuccess,
		ActorType:      models.ActorTypePhotographer,
		Description:    fmt.Sprintf("Photographer logged in: %d", photographer.ID),
		Success:        true,
	}, metadata)

	return resp, nil
}

// RefreshToken exchanges a refresh token for a fresh session
func (af *AuthFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthSessionDTO, error) {
	claims, err := af.tokenService.ValidateToken(request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	photographer, err := af.photographerRepo.ByID(ctx, claims.PhotographerID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}
	if photographer == nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", ErrPhotographerNotFound)
	}
	if !utils.IsTrue(photographer.IsActive) {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", ErrAccountInactive)
	}

	accessToken, refreshToken, err := af.tokenService.RefreshToken(request.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	return &dto.AuthSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
		ExpiresAt:    utils.UTCNowAdd(utils.AccessTokenTTL),
	}, nil
}

// issueSession generates a token pair and wraps it for responses
func (af *AuthFlowImpl) issueSession(photographerID uint) (*dto.AuthSessionDTO, error) {
	accessToken, refreshToken, err := af.tokenService.GenerateTokens(photographerID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &dto.AuthSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
		ExpiresAt:    utils.UTCNowAdd(utils.AccessTokenTTL),
	}, nil
}

func (af *AuthFlowImpl) WithAuthTransaction(ctx context.Context, fn func(context.Context) (*dto.AuthResponse, error)) (*dto.AuthResponse, error) {
	var result *dto.AuthResponse
	var fnErr error

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
