package tests

import (
	"testing"
	"time"

	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	testingutil "github.com/focale-app/focale/testing"
	"github.com/focale-app/focale/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLinkRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewClientLinkRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		_, client, eventType, link, err := fixtures.CreateTestWorkflow()
		require.NoError(t, err)

		t.Run("ByToken loads relations", func(t *testing.T) {
			found, err := repo.ByToken(ctx, link.Token)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, link.ID, found.ID)
			require.NotNil(t, found.Client)
			assert.Equal(t, client.ID, found.Client.ID)
			require.NotNil(t, found.EventType)
			assert.Equal(t, eventType.ID, found.EventType.ID)
		})

		t.Run("ByToken unknown token", func(t *testing.T) {
			found, err := repo.ByToken(ctx, "no-such-token")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("Revoke", func(t *testing.T) {
			require.NoError(t, repo.Revoke(ctx, link.ID, utils.UTCNow()))

			found, err := repo.ByID(ctx, link.ID)
			require.NoError(t, err)
			assert.True(t, utils.IsTrue(found.IsRevoked))
			assert.NotNil(t, found.RevokedAt)
		})

		t.Run("TouchLastAccessed", func(t *testing.T) {
			accessed := utils.UTCNow()
			require.NoError(t, repo.TouchLastAccessed(ctx, link.ID, accessed))

			found, err := repo.ByID(ctx, link.ID)
			require.NoError(t, err)
			require.NotNil(t, found.LastAccessedAt)
			assert.WithinDuration(t, accessed, *found.LastAccessedAt, time.Second)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestEventTypeRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewEventTypeRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		photographer, err := fixtures.CreateTestPhotographer()
		require.NoError(t, err)
		other, err := fixtures.CreateTestPhotographer()
		require.NoError(t, err)

		system, err := fixtures.CreateTestEventType("wedding")
		require.NoError(t, err)

		own := &models.EventType{
			PhotographerID: &photographer.ID,
			Name:           "drone",
			Label:          "Prises de vue drone",
			IsSystem:       utils.ToPtr(false),
		}
		require.NoError(t, repo.Save(ctx, own))

		foreign := &models.EventType{
			PhotographerID: &other.ID,
			Name:           "boudoir",
			Label:          "Boudoir",
			IsSystem:       utils.ToPtr(false),
		}
		require.NoError(t, repo.Save(ctx, foreign))

		t.Run("ListForPhotographer returns system plus own", func(t *testing.T) {
			rows, err := repo.ListForPhotographer(ctx, photographer.ID)
			require.NoError(t, err)

			ids := make([]uint, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.ID)
			}
			assert.Contains(t, ids, system.ID)
			assert.Contains(t, ids, own.ID)
			assert.NotContains(t, ids, foreign.ID)
		})

		t.Run("SystemByName", func(t *testing.T) {
			found, err := repo.SystemByName(ctx, "wedding")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, system.ID, found.ID)

			missing, err := repo.SystemByName(ctx, "drone")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestContractTemplateRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewContractTemplateRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		photographer, err := fixtures.CreateTestPhotographer()
		require.NoError(t, err)
		eventType, err := fixtures.CreateTestEventType("wedding")
		require.NoError(t, err)

		systemDefault := &models.ContractTemplate{
			Name:      "Contrat générique",
			Content:   "{{client_name}}",
			IsSystem:  utils.ToPtr(true),
			IsDefault: utils.ToPtr(true),
		}
		require.NoError(t, repo.Save(ctx, systemDefault))

		t.Run("system default used when tenant has none", func(t *testing.T) {
			found, err := repo.DefaultForEventType(ctx, photographer.ID, eventType.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, systemDefault.ID, found.ID)
		})

		t.Run("tenant default wins over system default", func(t *testing.T) {
			tenantDefault, err := fixtures.CreateTestTemplate(photographer.ID, true)
			require.NoError(t, err)

			found, err := repo.DefaultForEventType(ctx, photographer.ID, eventType.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, tenantDefault.ID, found.ID)
		})

		t.Run("event-scoped default wins over generic", func(t *testing.T) {
			scoped := &models.ContractTemplate{
				PhotographerID: &photographer.ID,
				EventTypeID:    &eventType.ID,
				Name:           "Contrat mariage",
				Content:        "{{client_name}}",
				IsSystem:       utils.ToPtr(false),
				IsDefault:      utils.ToPtr(true),
			}
			require.NoError(t, repo.Save(ctx, scoped))

			found, err := repo.DefaultForEventType(ctx, photographer.ID, eventType.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, scoped.ID, found.ID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestContractPDFPathUpdates(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewContractRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		_, _, _, link, err := fixtures.CreateTestWorkflow()
		require.NoError(t, err)

		contract, err := fixtures.CreateTestContract(link.ID, nil, models.ContractStatusSigned)
		require.NoError(t, err)

		// A render finishing late must only touch its path column, never the
		// row's lifecycle fields
		require.NoError(t, repo.SetDraftPDFPath(ctx, contract.ID, "/var/lib/focale/contracts/late-draft.pdf"))

		found, err := repo.ByID(ctx, contract.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ContractStatusSigned, found.Status)
		assert.NotNil(t, found.SignedAt)
		require.NotNil(t, found.DraftPDFPath)
		assert.Equal(t, "/var/lib/focale/contracts/late-draft.pdf", *found.DraftPDFPath)

		require.NoError(t, repo.SetSignedPDFPath(ctx, contract.ID, "/var/lib/focale/contracts/late-signed.pdf"))

		found, err = repo.ByID(ctx, contract.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ContractStatusSigned, found.Status)
		require.NotNil(t, found.SignedPDFPath)
		assert.Equal(t, "/var/lib/focale/contracts/late-signed.pdf", *found.SignedPDFPath)

		return nil
	})
	require.NoError(t, err)
}

func TestAuditLogRetention(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewAuditLogRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		photographer, err := fixtures.CreateTestPhotographer()
		require.NoError(t, err)

		oldDate := utils.UTCNow().AddDate(-4, 0, 0)

		// Two old entries: one ordinary, one legal proof
		ordinary, err := fixtures.CreateTestAuditLog(&photographer.ID, nil, models.AuditActionLinkCreated, true)
		require.NoError(t, err)
		proof, err := fixtures.CreateTestAuditLog(&photographer.ID, nil, models.AuditActionContractSigned, true)
		require.NoError(t, err)
		recent, err := fixtures.CreateTestAuditLog(&photographer.ID, nil, models.AuditActionLinkCreated, true)
		require.NoError(t, err)

		// Backdate the first two beyond the retention window
		require.NoError(t, testDB.DB.Model(&models.AuditLog{}).
			Where("id IN ?", []uint{ordinary.ID, proof.ID}).
			Update("created_at", oldDate).Error)

		cutoff := utils.UTCNow().AddDate(-3, 0, 0)
		removed, err := repo.DeleteOlderThan(ctx, cutoff, []string{
			models.AuditActionContractSigned,
			models.AuditActionContractValidated,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		var remaining []models.AuditLog
		require.NoError(t, testDB.DB.Find(&remaining).Error)

		ids := make([]uint, 0, len(remaining))
		for _, entry := range remaining {
			ids = append(ids, entry.ID)
		}
		assert.NotContains(t, ids, ordinary.ID)
		assert.Contains(t, ids, proof.ID)
		assert.Contains(t, ids, recent.ID)

		return nil
	})
	require.NoError(t, err)
}

func TestCustomVariableRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		repo := repository.NewCustomVariableRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		photographer, err := fixtures.CreateTestPhotographer()
		require.NoError(t, err)

		variable := &models.CustomVariable{
			PhotographerID: photographer.ID,
			Key:            "deposit_amount",
			Label:          "Montant de l'acompte",
			Value:          "500 €",
		}
		require.NoError(t, repo.Save(ctx, variable))

		t.Run("ByKey", func(t *testing.T) {
			found, err := repo.ByKey(ctx, photographer.ID, "deposit_amount")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "500 €", found.Value)
		})

		t.Run("keys are unique per photographer", func(t *testing.T) {
			duplicate := &models.CustomVariable{
				PhotographerID: photographer.ID,
				Key:            "deposit_amount",
				Label:          "Doublon",
				Value:          "600 €",
			}
			assert.Error(t, repo.Save(ctx, duplicate))
		})

		t.Run("another photographer can reuse the key", func(t *testing.T) {
			other, err := fixtures.CreateTestPhotographer()
			require.NoError(t, err)

			theirs := &models.CustomVariable{
				PhotographerID: other.ID,
				Key:            "deposit_amount",
				Label:          "Montant de l'acompte",
				Value:          "300 €",
			}
			assert.NoError(t, repo.Save(ctx, theirs))
		})

		return nil
	})
	require.NoError(t, err)
}
