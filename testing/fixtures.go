// Package testing provides test utilities and database setup for testing the studio management system
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mathrand "math/rand"
	"time"

	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/utils"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestPhotographer creates a photographer account with a known password
// ("TestPass123!") and a unique email.
func (tf *TestFixtures) CreateTestPhotographer() (*models.Photographer, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%09d", mathrand.Intn(900000000)+100000000)

	photographer := &models.Photographer{
		Email:        fmt.Sprintf("marie.dupont.%s@example.com", suffix),
		PasswordHash: string(hashedPassword),
		FirstName:    "Marie",
		LastName:     "Dupont",
		BusinessName: utils.ToPtr("Studio Lumière"),
		Phone:        utils.ToPtr("+33612345678"),
		SiretNumber:  utils.ToPtr("12345678901234"),
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(photographer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test photographer: %w", err)
	}

	return photographer, nil
}

// CreateTestClient creates a client record owned by the photographer
func (tf *TestFixtures) CreateTestClient(photographerID uint) (*models.Client, error) {
	suffix := mathrand.Intn(10000000)

	client := &models.Client{
		PhotographerID: photographerID,
		FirstName:      "Julie",
		LastName:       "Martin",
		Email:          utils.ToPtr(fmt.Sprintf("julie.martin.%d@example.com", suffix)),
		Phone:          utils.ToPtr("+33687654321"),
	}

	if err := tf.DB.DB.Create(client).Error; err != nil {
		return nil, fmt.Errorf("failed to create test client: %w", err)
	}

	return client, nil
}

// CreateTestEventType creates a system event type with a small questionnaire
func (tf *TestFixtures) CreateTestEventType(name string) (*models.EventType, error) {
	eventType := &models.EventType{
		Name:     name,
		Label:    name,
		IsSystem: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(eventType).Error; err != nil {
		return nil, fmt.Errorf("failed to create test event type: %w", err)
	}

	questions := []*models.Question{
		{
			EventTypeID: eventType.ID,
			Key:         "event_location",
			Label:       "Lieu de l'événement",
			FieldType:   "text",
			IsRequired:  utils.ToPtr(true),
			SortOrder:   1,
		},
		{
			EventTypeID: eventType.ID,
			Key:         "style",
			Label:       "Style souhaité",
			FieldType:   "select",
			Options:     pq.StringArray{"reportage", "posé", "mixte"},
			SortOrder:   2,
		},
	}
	for _, q := range questions {
		if err := tf.DB.DB.Create(q).Error; err != nil {
			return nil, fmt.Errorf("failed to create test question: %w", err)
		}
	}

	return eventType, nil
}

// GenerateSecureToken returns a URL-safe random token for link fixtures
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CreateTestLink creates an active client link wiring together a
// photographer, a client, and an event type
func (tf *TestFixtures) CreateTestLink(photographerID, clientID, eventTypeID uint) (*models.ClientLink, error) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate link token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(365 * 24 * time.Hour)
	eventDate := time.Now().UTC().Add(60 * 24 * time.Hour)

	link := &models.ClientLink{
		PhotographerID: photographerID,
		ClientID:       clientID,
		EventTypeID:    eventTypeID,
		Token:          token,
		EventDate:      &eventDate,
		ExpiresAt:      &expiresAt,
		IsRevoked:      utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test link: %w", err)
	}

	return link, nil
}

// CreateTestWorkflow creates a photographer, client, event type, and link in
// one call for tests that just need a resolvable portal link.
func (tf *TestFixtures) CreateTestWorkflow() (*models.Photographer, *models.Client, *models.EventType, *models.ClientLink, error) {
	photographer, err := tf.CreateTestPhotographer()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	client, err := tf.CreateTestClient(photographer.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	eventType, err := tf.CreateTestEventType(fmt.Sprintf("wedding_%d", mathrand.Intn(10000000)))
	if err != nil {
		return nil, nil, nil, nil, err
	}
	link, err := tf.CreateTestLink(photographer.ID, client.ID, eventType.ID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return photographer, client, eventType, link, nil
}

// CreateTestQuestionnaireResponse creates a response row in the given status
func (tf *TestFixtures) CreateTestQuestionnaireResponse(linkID, eventTypeID uint, status string) (*models.QuestionnaireResponse, error) {
	response := &models.QuestionnaireResponse{
		ClientLinkID: linkID,
		EventTypeID:  eventTypeID,
		Responses:    datatypes.JSONMap{"event_location": "Paris", "style": "reportage"},
		Status:       status,
	}
	if status == models.QuestionnaireStatusValidated {
		response.ValidatedAt = utils.ToPtr(time.Now().UTC())
	}

	if err := tf.DB.DB.Create(response).Error; err != nil {
		return nil, fmt.Errorf("failed to create test questionnaire response: %w", err)
	}

	return response, nil
}

// CreateTestTemplate creates a tenant-owned contract template
func (tf *TestFixtures) CreateTestTemplate(photographerID uint, isDefault bool) (*models.ContractTemplate, error) {
	template := &models.ContractTemplate{
		PhotographerID: &photographerID,
		Name:           "Contrat de test",
		Content:        "Contrat entre {{photographer_name}} et {{client_name}} pour le {{event_date}}.",
		IsSystem:       utils.ToPtr(false),
		IsDefault:      utils.ToPtr(isDefault),
	}

	if err := tf.DB.DB.Create(template).Error; err != nil {
		return nil, fmt.Errorf("failed to create test template: %w", err)
	}

	return template, nil
}

// CreateTestContract creates a contract for a link in the given status
func (tf *TestFixtures) CreateTestContract(linkID uint, templateID *uint, status string) (*models.Contract, error) {
	contract := &models.Contract{
		ClientLinkID: linkID,
		TemplateID:   templateID,
		Content:      "Contrat entre Studio Lumière et Julie Martin.",
		Status:       status,
	}

	now := time.Now().UTC()
	switch status {
	case models.ContractStatusPendingSignature:
		contract.ValidatedAt = &now
		contract.DraftPDFPath = utils.ToPtr("/tmp/contract-draft.pdf")
	case models.ContractStatusSigned:
		contract.ValidatedAt = &now
		contract.SignedAt = &now
		contract.DraftPDFPath = utils.ToPtr("/tmp/contract-draft.pdf")
		contract.SignedPDFPath = utils.ToPtr("/tmp/contract-signed.pdf")
	}

	if err := tf.DB.DB.Create(contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create test contract: %w", err)
	}

	return contract, nil
}

// CreateTestSignature creates a client signature on a contract
func (tf *TestFixtures) CreateTestSignature(contractID uint) (*models.Signature, error) {
	signature := &models.Signature{
		ContractID: contractID,
		SignerType: models.SignerTypeClient,
		SignerName: "Julie Martin",
		ImageData:  "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg==",
		SignedAt:   time.Now().UTC(),
		IPAddress:  utils.ToPtr("127.0.0.1"),
		UserAgent:  utils.ToPtr("Test User Agent"),
	}

	if err := tf.DB.DB.Create(signature).Error; err != nil {
		return nil, fmt.Errorf("failed to create test signature: %w", err)
	}

	return signature, nil
}

// CreateTestGallery creates a gallery for a link
func (tf *TestFixtures) CreateTestGallery(photographerID, linkID uint, visible bool) (*models.Gallery, error) {
	gallery := &models.Gallery{
		PhotographerID:    photographerID,
		ClientLinkID:      linkID,
		Title:             "Galerie de test",
		Photos:            pq.StringArray{"photos/001.jpg", "photos/002.jpg"},
		CoverPhoto:        utils.ToPtr("photos/001.jpg"),
		IsVisibleToClient: utils.ToPtr(visible),
	}
	if visible {
		gallery.VisibleSince = utils.ToPtr(time.Now().UTC())
	}

	if err := tf.DB.DB.Create(gallery).Error; err != nil {
		return nil, fmt.Errorf("failed to create test gallery: %w", err)
	}

	return gallery, nil
}

// CreateTestAuditLog creates an audit trail entry
func (tf *TestFixtures) CreateTestAuditLog(photographerID *uint, linkID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)

	audit := &models.AuditLog{
		PhotographerID: photographerID,
		ClientLinkID:   linkID,
		Action:         action,
		ActorType:      models.ActorTypePhotographer,
		Description:    &description,
		Success:        &success,
		IPAddress:      utils.ToPtr("127.0.0.1"),
		UserAgent:      utils.ToPtr("Test User Agent"),
	}

	if !success {
		audit.ErrorMessage = utils.ToPtr("Test failed action")
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}
