package tests

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/app/services"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	testingutil "github.com/focale-app/focale/testing"
	"github.com/focale-app/focale/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPortalBaseURL = "https://app.focale.test"

// capturingNotifier records outgoing mail so tests can assert on side
// effects. Contract emails are sent from detached goroutines, hence the lock.
type capturingNotifier struct {
	mu   sync.Mutex
	sent []capturedEmail
}

type capturedEmail struct {
	To      string
	Subject string
}

func (n *capturingNotifier) SendEmail(email, subject, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, capturedEmail{To: email, Subject: subject})
	return nil
}

func (n *capturingNotifier) SendEmailWithAttachment(email, subject, message, attachmentPath string) error {
	return n.SendEmail(email, subject, message)
}

func (n *capturingNotifier) emails() []capturedEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]capturedEmail, len(n.sent))
	copy(out, n.sent)
	return out
}

// workflowFlows bundles every flow the portal scenario touches
type workflowFlows struct {
	link          businessflow.ClientLinkFlow
	questionnaire businessflow.QuestionnaireFlow
	contract      businessflow.ContractFlow
	gallery       businessflow.GalleryFlow
	portal        businessflow.PortalFlow
	pdfRenderer   *services.MockPDFRenderer
	notifier      *capturingNotifier
}

func newWorkflowFlows(db *gorm.DB) *workflowFlows {
	photographerRepo := repository.NewPhotographerRepository(db)
	clientRepo := repository.NewClientRepository(db)
	eventTypeRepo := repository.NewEventTypeRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	questionnaireRepo := repository.NewQuestionnaireResponseRepository(db)
	linkRepo := repository.NewClientLinkRepository(db)
	templateRepo := repository.NewContractTemplateRepository(db)
	variableRepo := repository.NewCustomVariableRepository(db)
	contractRepo := repository.NewContractRepository(db)
	signatureRepo := repository.NewSignatureRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	notificationSvc := &capturingNotifier{}
	pdfRenderer := services.NewMockPDFRenderer()

	questionnaireFlow := businessflow.NewQuestionnaireFlow(questionRepo, questionnaireRepo, eventTypeRepo, auditRepo, notificationSvc, db)
	contractFlow := businessflow.NewContractFlow(
		contractRepo, signatureRepo, templateRepo, variableRepo, linkRepo,
		photographerRepo, questionnaireRepo, auditRepo,
		pdfRenderer, notificationSvc, testPortalBaseURL, db,
	)
	galleryFlow := businessflow.NewGalleryFlow(galleryRepo, contractRepo, linkRepo, auditRepo, db)

	return &workflowFlows{
		link: businessflow.NewClientLinkFlow(
			linkRepo, clientRepo, eventTypeRepo, questionnaireRepo, contractRepo,
			galleryRepo, auditRepo,
			services.NewLinkTokenService(), services.NewRedisLinkCache(nil, 0),
			notificationSvc, testPortalBaseURL, db,
		),
		questionnaire: questionnaireFlow,
		contract:      contractFlow,
		gallery:       galleryFlow,
		portal: businessflow.NewPortalFlow(
			questionnaireRepo, contractRepo, galleryRepo, auditRepo,
			questionnaireFlow, contractFlow, galleryFlow, db,
		),
		pdfRenderer: pdfRenderer,
		notifier:    notificationSvc,
	}
}

func TestClientPortalWorkflow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flows := newWorkflowFlows(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		photographer, err := fixtures.CreateTestPhotographer()
		require.NoError(t, err)
		client, err := fixtures.CreateTestClient(photographer.ID)
		require.NoError(t, err)
		eventType, err := fixtures.CreateTestEventType("wedding")
		require.NoError(t, err)
		_, err = fixtures.CreateTestTemplate(photographer.ID, true)
		require.NoError(t, err)

		// Photographer creates the portal link
		eventDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
		created, err := flows.link.CreateLink(ctx, photographer.ID, &dto.CreateClientLinkRequest{
			ClientID:    client.ID,
			EventTypeID: eventType.ID,
			EventDate:   &eventDate,
		}, metadata)
		require.NoError(t, err)
		assert.NotEmpty(t, created.Token)
		assert.True(t, strings.HasPrefix(created.PortalURL, testPortalBaseURL))

		link, err := flows.link.ResolveToken(ctx, created.Token)
		require.NoError(t, err)
		require.NotNil(t, link)

		// Contract cannot be generated before the questionnaire is done
		_, err = flows.contract.GenerateContract(ctx, photographer.ID, link.ID, &dto.GenerateContractRequest{}, metadata)
		require.Error(t, err)
		assert.True(t, businessflow.IsQuestionnaireNotComplete(err))

		// Client saves a draft
		saved, err := flows.questionnaire.SaveDraft(ctx, link, &dto.SaveQuestionnaireDraftRequest{
			Responses: map[string]string{"event_location": "Paris", "style": "reportage"},
		}, metadata)
		require.NoError(t, err)
		assert.Equal(t, models.QuestionnaireStatusDraft, saved.Status)

		// Unknown keys are rejected
		_, err = flows.questionnaire.SaveDraft(ctx, link, &dto.SaveQuestionnaireDraftRequest{
			Responses: map[string]string{"not_a_question": "x"},
		}, metadata)
		require.Error(t, err)
		assert.True(t, businessflow.IsUnknownQuestionKey(err))

		// Client validates; the questionnaire locks
		validated, err := flows.questionnaire.Validate(ctx, link, metadata)
		require.NoError(t, err)
		assert.Equal(t, models.QuestionnaireStatusValidated, validated.Status)
		require.NotNil(t, validated.ValidatedAt)

		_, err = flows.questionnaire.SaveDraft(ctx, link, &dto.SaveQuestionnaireDraftRequest{
			Responses: map[string]string{"event_location": "Lyon"},
		}, metadata)
		require.Error(t, err)
		assert.True(t, businessflow.IsQuestionnaireLocked(err))

		// Photographer generates the contract from the default template
		contract, err := flows.contract.GenerateContract(ctx, photographer.ID, link.ID, &dto.GenerateContractRequest{}, metadata)
		require.NoError(t, err)
		assert.Equal(t, models.ContractStatusDraft, contract.Status)
		assert.Contains(t, contract.Content, client.FullName())
		assert.Contains(t, contract.Content, "Studio Lumière")
		assert.Contains(t, contract.Content, "20/06/2026")
		assert.NotContains(t, contract.Content, "{{")

		// Client cannot sign a draft
		signReq := &dto.SignContractRequest{
			SignerName: client.FullName(),
			ImageData:  "data:image/png;base64,iVBORw0KGgo=",
			Consent:    true,
		}
		_, err = flows.contract.SignContract(ctx, link, signReq, metadata)
		require.Error(t, err)
		assert.True(t, businessflow.IsContractNotSignable(err))

		// Photographer validates; content freezes
		pending, err := flows.contract.ValidateContract(ctx, photographer.ID, link.ID, metadata)
		require.NoError(t, err)
		assert.Equal(t, models.ContractStatusPendingSignature, pending.Status)
		require.NotNil(t, pending.ValidatedAt)

		_, err = flows.contract.GenerateContract(ctx, photographer.ID, link.ID, &dto.GenerateContractRequest{}, metadata)
		require.Error(t, err)
		assert.True(t, businessflow.IsContractNotRegenerable(err))

		// Gallery stays locked until the contract is signed
		_, err = flows.gallery.UpsertGallery(ctx, photographer.ID, &dto.UpsertGalleryRequest{
			ClientLinkID: link.ID,
			Title:        "Mariage Julie & Thomas",
			Photos:       []string{"photos/001.jpg", "photos/002.jpg"},
		})
		require.NoError(t, err)

		_, err = flows.gallery.SetVisibility(ctx, photographer.ID, link.ID, &dto.SetGalleryVisibilityRequest{Visible: true}, metadata)
		require.Error(t, err)
		assert.True(t, businessflow.IsContractNotSignedYet(err))

		// Client signs
		signed, err := flows.contract.SignContract(ctx, link, signReq, metadata)
		require.NoError(t, err)
		assert.Equal(t, models.ContractStatusSigned, signed.Status)
		require.NotNil(t, signed.SignedAt)
		require.Len(t, signed.Signatures, 1)
		assert.Equal(t, models.SignerTypeClient, signed.Signatures[0].SignerType)

		// Signing twice is rejected
		_, err = flows.contract.SignContract(ctx, link, signReq, metadata)
		require.Error(t, err)

		// Both PDFs render in the background with distinct paths
		assert.Eventually(t, func() bool {
			current, err := flows.contract.GetContract(ctx, photographer.ID, link.ID)
			if err != nil || current.DraftPDFPath == nil || current.SignedPDFPath == nil {
				return false
			}
			return *current.DraftPDFPath != *current.SignedPDFPath
		}, 5*time.Second, 50*time.Millisecond)

		// Gallery can now be revealed
		gallery, err := flows.gallery.SetVisibility(ctx, photographer.ID, link.ID, &dto.SetGalleryVisibilityRequest{Visible: true}, metadata)
		require.NoError(t, err)
		assert.True(t, utils.IsTrue(gallery.IsVisibleToClient))

		// Portal bootstrap reports the completed workflow
		bootstrap, err := flows.portal.Bootstrap(ctx, link)
		require.NoError(t, err)
		assert.Equal(t, string(businessflow.StateCompleted), bootstrap.WorkflowState)
		assert.True(t, bootstrap.GalleryVisible)

		return nil
	})
	require.NoError(t, err)
}

func TestLinkLifecycle(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flows := newWorkflowFlows(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		photographer, err := fixtures.CreateTestPhotographer()
		require.NoError(t, err)
		client, err := fixtures.CreateTestClient(photographer.ID)
		require.NoError(t, err)
		eventType, err := fixtures.CreateTestEventType("portrait")
		require.NoError(t, err)

		created, err := flows.link.CreateLink(ctx, photographer.ID, &dto.CreateClientLinkRequest{
			ClientID:    client.ID,
			EventTypeID: eventType.ID,
		}, metadata)
		require.NoError(t, err)

		t.Run("unknown token reads as not found", func(t *testing.T) {
			_, err := flows.link.ResolveToken(ctx, "definitely-not-a-token")
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkNotFound(err))
		})

		t.Run("revoked token is rejected with its own error", func(t *testing.T) {
			require.NoError(t, flows.link.RevokeLink(ctx, photographer.ID, created.Link.ID, metadata))

			_, err := flows.link.ResolveToken(ctx, created.Token)
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkRevoked(err))
		})

		t.Run("revoking twice is rejected", func(t *testing.T) {
			err := flows.link.RevokeLink(ctx, photographer.ID, created.Link.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkAlreadyRevoked(err))
		})

		t.Run("expired token is rejected", func(t *testing.T) {
			expired, err := flows.link.CreateLink(ctx, photographer.ID, &dto.CreateClientLinkRequest{
				ClientID:    client.ID,
				EventTypeID: eventType.ID,
			}, metadata)
			require.NoError(t, err)

			past := utils.UTCNow().Add(-time.Hour)
			require.NoError(t, testDB.DB.Model(&models.ClientLink{}).
				Where("id = ?", expired.Link.ID).
				Update("expires_at", past).Error)

			_, err = flows.link.ResolveToken(ctx, expired.Token)
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkExpired(err))
		})

		t.Run("another photographer cannot revoke the link", func(t *testing.T) {
			other, err := fixtures.CreateTestPhotographer()
			require.NoError(t, err)

			fresh, err := flows.link.CreateLink(ctx, photographer.ID, &dto.CreateClientLinkRequest{
				ClientID:    client.ID,
				EventTypeID: eventType.ID,
			}, metadata)
			require.NoError(t, err)

			err = flows.link.RevokeLink(ctx, other.ID, fresh.Link.ID, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsLinkNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPortalDataExport(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flows := newWorkflowFlows(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		photographer, err := fixtures.CreateTestPhotographer()
		require.NoError(t, err)
		client, err := fixtures.CreateTestClient(photographer.ID)
		require.NoError(t, err)
		eventType, err := fixtures.CreateTestEventType("portrait")
		require.NoError(t, err)

		created, err := flows.link.CreateLink(ctx, photographer.ID, &dto.CreateClientLinkRequest{
			ClientID:    client.ID,
			EventTypeID: eventType.ID,
		}, metadata)
		require.NoError(t, err)

		link, err := flows.link.ResolveToken(ctx, created.Token)
		require.NoError(t, err)

		first, err := flows.portal.ExportData(ctx, link, metadata)
		require.NoError(t, err)
		assert.Equal(t, client.FirstName, first.Client.FirstName)
		assert.Equal(t, eventType.Label, first.EventType)

		// The link's whole trail ships with the export; creation is already in it
		require.NotEmpty(t, first.AuditLogs)
		assert.Equal(t, models.AuditActionLinkCreated, first.AuditLogs[0].Action)

		// Each export appends exactly one data_exported entry, so the second
		// export sees the first one's row
		second, err := flows.portal.ExportData(ctx, link, metadata)
		require.NoError(t, err)
		assert.Len(t, second.AuditLogs, len(first.AuditLogs)+1)

		exported := 0
		for _, entry := range second.AuditLogs {
			if entry.Action == models.AuditActionDataExported {
				exported++
			}
		}
		assert.Equal(t, 1, exported)

		return nil
	})
	require.NoError(t, err)
}

func TestQuestionnaireValidation(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flows := newWorkflowFlows(testDB.DB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		photographer, _, _, rawLink, err := fixtures.CreateTestWorkflow()
		require.NoError(t, err)

		link, err := flows.link.ResolveToken(ctx, rawLink.Token)
		require.NoError(t, err)

		t.Run("validate without answers fails", func(t *testing.T) {
			_, err := flows.questionnaire.Validate(ctx, link, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsQuestionnaireNotFound(err) || businessflow.IsMissingRequiredAnswers(err))
		})

		t.Run("validate with required answer missing fails", func(t *testing.T) {
			// "style" is optional, "event_location" is required
			_, err := flows.questionnaire.SaveDraft(ctx, link, &dto.SaveQuestionnaireDraftRequest{
				Responses: map[string]string{"style": "reportage"},
			}, metadata)
			require.NoError(t, err)

			_, err = flows.questionnaire.Validate(ctx, link, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsMissingRequiredAnswers(err))
		})

		t.Run("select answers must match an option", func(t *testing.T) {
			_, err := flows.questionnaire.SaveDraft(ctx, link, &dto.SaveQuestionnaireDraftRequest{
				Responses: map[string]string{"event_location": "Paris", "style": "cubiste"},
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidAnswer(err))
		})

		t.Run("complete answers validate", func(t *testing.T) {
			_, err := flows.questionnaire.SaveDraft(ctx, link, &dto.SaveQuestionnaireDraftRequest{
				Responses: map[string]string{"event_location": "Paris", "style": "reportage"},
			}, metadata)
			require.NoError(t, err)

			result, err := flows.questionnaire.Validate(ctx, link, metadata)
			require.NoError(t, err)
			assert.Equal(t, models.QuestionnaireStatusValidated, result.Status)
		})

		t.Run("validation notifies the photographer", func(t *testing.T) {
			notified := false
			for _, email := range flows.notifier.emails() {
				if email.To == photographer.Email && email.Subject == "Questionnaire valide" {
					notified = true
				}
			}
			assert.True(t, notified)
		})

		return nil
	})
	require.NoError(t, err)
}
