package businessflow

import "github.com/focale-app/focale/models"

// WorkflowState is the derived position of a client link in the workflow. It
// is never stored; it is computed from the underlying entities so it can
// never drift from them.
type WorkflowState string

const (
	StateRevoked                 WorkflowState = "revoked"
	StateExpired                 WorkflowState = "expired"
	StateQuestionnairePending    WorkflowState = "questionnaire_pending"
	StateQuestionnaireInProgress WorkflowState = "questionnaire_in_progress"
	StateQuestionnaireValidated  WorkflowState = "questionnaire_validated"
	StateContractDraft           WorkflowState = "contract_draft"
	StateSignaturePending        WorkflowState = "signature_pending"
	StateGalleryPending          WorkflowState = "gallery_pending"
	StateCompleted               WorkflowState = "completed"
)

// WorkflowInput is the snapshot the deriver works from. Nil fields mean the
// entity does not exist yet.
type WorkflowInput struct {
	LinkRevoked    bool
	LinkExpired    bool
	Questionnaire  *models.QuestionnaireResponse
	Contract       *models.Contract
	GalleryVisible bool
}

// DeriveState computes the workflow state for a link. Precedence is fixed:
// a dead link wins over everything, then the earliest incomplete step. A
// signed contract with a hidden gallery is gallery_pending even if the
// gallery row itself does not exist yet.
func DeriveState(in WorkflowInput) WorkflowState {
	if in.LinkRevoked {
		return StateRevoked
	}
	if in.LinkExpired {
		return StateExpired
	}

	if in.Questionnaire == nil {
		return StateQuestionnairePending
	}
	if in.Questionnaire.Status != models.QuestionnaireStatusValidated {
		return StateQuestionnaireInProgress
	}

	if in.Contract == nil {
		return StateQuestionnaireValidated
	}
	if in.Contract.Status == models.ContractStatusDraft {
		return StateContractDraft
	}
	if in.Contract.Status == models.ContractStatusPendingSignature {
		return StateSignaturePending
	}

	if !in.GalleryVisible {
		return StateGalleryPending
	}
	return StateCompleted
}
