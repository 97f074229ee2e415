package tests

import (
	"testing"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/app/services"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/focale-app/focale/repository"
	testingutil "github.com/focale-app/focale/testing"
	"github.com/focale-app/focale/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthFlow(t *testing.T, db *gorm.DB) businessflow.AuthFlow {
	tokenService, err := services.NewTokenService(
		15*time.Minute, 7*24*time.Hour, "focale-test", "focale-api",
		false, "", "", "test-secret-key-for-jwt-signing-32-chars",
	)
	require.NoError(t, err)

	return businessflow.NewAuthFlow(
		repository.NewPhotographerRepository(db),
		repository.NewAuditLogRepository(db),
		tokenService,
		services.NewNotificationService(services.NewMockEmailProvider()),
		db,
	)
}

func signupRequest(email string) *dto.SignupRequest {
	return &dto.SignupRequest{
		Email:           email,
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
		FirstName:       "Jeanne",
		LastName:        "Martin",
		BusinessName:    utils.ToPtr("Studio Lumière"),
	}
}

func TestAuthFlowSignup(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		t.Run("signup issues a session", func(t *testing.T) {
			response, err := flow.Signup(ctx, signupRequest("jeanne@studio.fr"), metadata)
			require.NoError(t, err)

			assert.Equal(t, "jeanne@studio.fr", response.Photographer.Email)
			assert.Equal(t, "Studio Lumière", response.Photographer.BusinessName)
			assert.True(t, utils.IsTrue(response.Photographer.IsActive))
			assert.NotEmpty(t, response.Session.AccessToken)
			assert.NotEmpty(t, response.Session.RefreshToken)
			assert.Equal(t, "Bearer", response.Session.TokenType)
		})

		t.Run("email is normalized", func(t *testing.T) {
			response, err := flow.Signup(ctx, signupRequest("  MIXED@Case.FR "), metadata)
			require.NoError(t, err)
			assert.Equal(t, "mixed@case.fr", response.Photographer.Email)
		})

		t.Run("duplicate email is rejected", func(t *testing.T) {
			_, err := flow.Signup(ctx, signupRequest("jeanne@studio.fr"), metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAuthFlowLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		_, err := flow.Signup(ctx, signupRequest("login@studio.fr"), metadata)
		require.NoError(t, err)

		t.Run("correct credentials", func(t *testing.T) {
			response, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    "login@studio.fr",
				Password: "SecurePass123!",
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, response.Session.AccessToken)
		})

		t.Run("wrong password", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    "login@studio.fr",
				Password: "WrongPass123!",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("unknown email", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.LoginRequest{
				Email:    "nobody@studio.fr",
				Password: "SecurePass123!",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPhotographerNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAuthFlowRefresh(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newAuthFlow(t, testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		signedUp, err := flow.Signup(ctx, signupRequest("refresh@studio.fr"), metadata)
		require.NoError(t, err)

		t.Run("refresh token yields a new session", func(t *testing.T) {
			session, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: signedUp.Session.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, session.AccessToken)
			assert.NotEmpty(t, session.RefreshToken)
		})

		t.Run("access token cannot be used to refresh", func(t *testing.T) {
			_, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: signedUp.Session.AccessToken,
			}, metadata)
			require.Error(t, err)
		})

		t.Run("garbage token is rejected", func(t *testing.T) {
			_, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: "not-a-jwt",
			}, metadata)
			require.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
