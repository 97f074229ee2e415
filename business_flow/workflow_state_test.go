package businessflow

import (
	"testing"

	"github.com/focale-app/focale/models"
	"github.com/stretchr/testify/assert"
)

func TestDeriveState(t *testing.T) {
	draftQuestionnaire := &models.QuestionnaireResponse{Status: models.QuestionnaireStatusDraft}
	validatedQuestionnaire := &models.QuestionnaireResponse{Status: models.QuestionnaireStatusValidated}
	draftContract := &models.Contract{Status: models.ContractStatusDraft}
	pendingContract := &models.Contract{Status: models.ContractStatusPendingSignature}
	signedContract := &models.Contract{Status: models.ContractStatusSigned}

	tests := []struct {
		name     string
		input    WorkflowInput
		expected WorkflowState
	}{
		{
			name:     "fresh link with nothing done",
			input:    WorkflowInput{},
			expected: StateQuestionnairePending,
		},
		{
			name:     "draft answers saved",
			input:    WorkflowInput{Questionnaire: draftQuestionnaire},
			expected: StateQuestionnaireInProgress,
		},
		{
			name:     "questionnaire validated, no contract yet",
			input:    WorkflowInput{Questionnaire: validatedQuestionnaire},
			expected: StateQuestionnaireValidated,
		},
		{
			name:     "contract still in draft",
			input:    WorkflowInput{Questionnaire: validatedQuestionnaire, Contract: draftContract},
			expected: StateContractDraft,
		},
		{
			name:     "contract sent for signature",
			input:    WorkflowInput{Questionnaire: validatedQuestionnaire, Contract: pendingContract},
			expected: StateSignaturePending,
		},
		{
			name:     "signed contract, gallery hidden",
			input:    WorkflowInput{Questionnaire: validatedQuestionnaire, Contract: signedContract},
			expected: StateGalleryPending,
		},
		{
			name: "gallery visible completes the workflow",
			input: WorkflowInput{
				Questionnaire:  validatedQuestionnaire,
				Contract:       signedContract,
				GalleryVisible: true,
			},
			expected: StateCompleted,
		},
		{
			name: "revoked wins over progress",
			input: WorkflowInput{
				LinkRevoked:    true,
				Questionnaire:  validatedQuestionnaire,
				Contract:       signedContract,
				GalleryVisible: true,
			},
			expected: StateRevoked,
		},
		{
			name: "revoked wins over expired",
			input: WorkflowInput{
				LinkRevoked: true,
				LinkExpired: true,
			},
			expected: StateRevoked,
		},
		{
			name: "expired wins over progress",
			input: WorkflowInput{
				LinkExpired:   true,
				Questionnaire: validatedQuestionnaire,
				Contract:      pendingContract,
			},
			expected: StateExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveState(tt.input))
		})
	}
}
