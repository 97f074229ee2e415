// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/focale-app/focale/models"
	testingutil "github.com/focale-app/focale/testing"
	"github.com/focale-app/focale/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestQuestionnaireTransitions(t *testing.T) {
	t.Run("draft can be validated", func(t *testing.T) {
		assert.True(t, models.CanQuestionnaireTransition(models.QuestionnaireStatusDraft, models.QuestionnaireStatusValidated))
	})

	t.Run("validation is one way", func(t *testing.T) {
		assert.False(t, models.CanQuestionnaireTransition(models.QuestionnaireStatusValidated, models.QuestionnaireStatusDraft))
		assert.False(t, models.CanQuestionnaireTransition(models.QuestionnaireStatusValidated, models.QuestionnaireStatusValidated))
	})

	t.Run("locked after validation", func(t *testing.T) {
		response := &models.QuestionnaireResponse{Status: models.QuestionnaireStatusValidated}
		assert.True(t, response.IsLocked())

		draft := &models.QuestionnaireResponse{Status: models.QuestionnaireStatusDraft}
		assert.False(t, draft.IsLocked())
	})
}

func TestContractTransitions(t *testing.T) {
	t.Run("allowed path is draft to pending to signed", func(t *testing.T) {
		assert.True(t, models.CanContractTransition(models.ContractStatusDraft, models.ContractStatusPendingSignature))
		assert.True(t, models.CanContractTransition(models.ContractStatusPendingSignature, models.ContractStatusSigned))
	})

	t.Run("no skipping and no going back", func(t *testing.T) {
		assert.False(t, models.CanContractTransition(models.ContractStatusDraft, models.ContractStatusSigned))
		assert.False(t, models.CanContractTransition(models.ContractStatusPendingSignature, models.ContractStatusDraft))
		assert.False(t, models.CanContractTransition(models.ContractStatusSigned, models.ContractStatusDraft))
		assert.False(t, models.CanContractTransition(models.ContractStatusSigned, models.ContractStatusPendingSignature))
	})

	t.Run("only drafts are regenerable", func(t *testing.T) {
		assert.True(t, (&models.Contract{Status: models.ContractStatusDraft}).IsRegenerable())
		assert.False(t, (&models.Contract{Status: models.ContractStatusPendingSignature}).IsRegenerable())
		assert.False(t, (&models.Contract{Status: models.ContractStatusSigned}).IsRegenerable())
	})

	t.Run("only pending contracts are signable", func(t *testing.T) {
		assert.False(t, (&models.Contract{Status: models.ContractStatusDraft}).IsSignable())
		assert.True(t, (&models.Contract{Status: models.ContractStatusPendingSignature}).IsSignable())
		assert.False(t, (&models.Contract{Status: models.ContractStatusSigned}).IsSignable())
	})
}

func TestClientLinkState(t *testing.T) {
	t.Run("no expiry means never expired", func(t *testing.T) {
		link := &models.ClientLink{}
		assert.False(t, link.IsExpired())
		assert.True(t, link.IsActive())
	})

	t.Run("past expiry", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		link := &models.ClientLink{ExpiresAt: &past}
		assert.True(t, link.IsExpired())
		assert.False(t, link.IsActive())
	})

	t.Run("revoked link is inactive even before expiry", func(t *testing.T) {
		future := time.Now().UTC().Add(time.Hour)
		link := &models.ClientLink{ExpiresAt: &future, IsRevoked: utils.ToPtr(true)}
		assert.False(t, link.IsExpired())
		assert.False(t, link.IsActive())
	})
}

func TestTemplateOwnership(t *testing.T) {
	photographerID := uint(5)

	t.Run("system templates are not editable", func(t *testing.T) {
		template := &models.ContractTemplate{IsSystem: utils.ToPtr(true)}
		assert.False(t, template.IsEditableBy(photographerID))
	})

	t.Run("owned templates are editable", func(t *testing.T) {
		template := &models.ContractTemplate{PhotographerID: &photographerID, IsSystem: utils.ToPtr(false)}
		assert.True(t, template.IsEditableBy(photographerID))
		assert.False(t, template.IsEditableBy(photographerID+1))
	})
}

func TestAuditLegalProof(t *testing.T) {
	assert.True(t, models.IsLegalProofAction(models.AuditActionContractSigned))
	assert.True(t, models.IsLegalProofAction(models.AuditActionContractValidated))
	assert.False(t, models.IsLegalProofAction(models.AuditActionLinkCreated))
	assert.False(t, models.IsLegalProofAction(models.AuditActionGalleryShown))
}

func TestPhotographer(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("CreatePhotographer", func(t *testing.T) {
			photographer, err := fixtures.CreateTestPhotographer()
			require.NoError(t, err)
			assert.NotZero(t, photographer.ID)
			assert.NotEqual(t, "", photographer.UUID.String())
			assert.True(t, utils.IsTrue(photographer.IsActive))
		})

		t.Run("PasswordHashing", func(t *testing.T) {
			photographer, err := fixtures.CreateTestPhotographer()
			require.NoError(t, err)

			assert.NotEmpty(t, photographer.PasswordHash)
			err = bcrypt.CompareHashAndPassword([]byte(photographer.PasswordHash), []byte("TestPass123!"))
			assert.NoError(t, err)
		})

		t.Run("DisplayName", func(t *testing.T) {
			photographer, err := fixtures.CreateTestPhotographer()
			require.NoError(t, err)
			assert.Equal(t, "Studio Lumière", photographer.DisplayName())

			photographer.BusinessName = nil
			assert.Equal(t, "Marie Dupont", photographer.DisplayName())
		})

		return nil
	})
	require.NoError(t, err)
}

func TestClientLinkPersistence(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		_, _, _, link, err := fixtures.CreateTestWorkflow()
		require.NoError(t, err)

		t.Run("TokenIsUnique", func(t *testing.T) {
			duplicate := &models.ClientLink{
				PhotographerID: link.PhotographerID,
				ClientID:       link.ClientID,
				EventTypeID:    link.EventTypeID,
				Token:          link.Token,
			}
			err := testDB.DB.Create(duplicate).Error
			assert.Error(t, err)
		})

		t.Run("OneQuestionnairePerLink", func(t *testing.T) {
			_, err := fixtures.CreateTestQuestionnaireResponse(link.ID, link.EventTypeID, models.QuestionnaireStatusDraft)
			require.NoError(t, err)

			_, err = fixtures.CreateTestQuestionnaireResponse(link.ID, link.EventTypeID, models.QuestionnaireStatusDraft)
			assert.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSignatureUniqueness(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		_, _, _, link, err := fixtures.CreateTestWorkflow()
		require.NoError(t, err)

		contract, err := fixtures.CreateTestContract(link.ID, nil, models.ContractStatusPendingSignature)
		require.NoError(t, err)

		_, err = fixtures.CreateTestSignature(contract.ID)
		require.NoError(t, err)

		// Same signer type on the same contract is rejected by the schema
		_, err = fixtures.CreateTestSignature(contract.ID)
		assert.Error(t, err)

		return nil
	})
	require.NoError(t, err)
}
