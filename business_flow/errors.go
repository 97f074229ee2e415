// Package businessflow contains the core business logic and use cases for client workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account errors
	ErrPhotographerNotFound = errors.New("photographer not found")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrIncorrectPassword    = errors.New("incorrect password")
	ErrEmailAlreadyExists   = errors.New("email already exists")

	// Client errors
	ErrClientNotFound = errors.New("client not found")

	// Event type and question errors
	ErrEventTypeNotFound = errors.New("event type not found")
	ErrEventTypeReadOnly = errors.New("system event types cannot be modified")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrDuplicateKey      = errors.New("question key already exists for this event type")

	// Client link errors
	ErrLinkNotFound       = errors.New("client link not found")
	ErrLinkRevoked        = errors.New("client link has been revoked")
	ErrLinkExpired        = errors.New("client link has expired")
	ErrLinkAlreadyRevoked = errors.New("client link is already revoked")

	// Questionnaire errors
	ErrQuestionnaireNotFound    = errors.New("questionnaire response not found")
	ErrQuestionnaireLocked      = errors.New("questionnaire is validated and locked")
	ErrMissingRequiredAnswers   = errors.New("required questions are unanswered")
	ErrInvalidAnswer            = errors.New("answer does not match the question type")
	ErrUnknownQuestionKey       = errors.New("response references an unknown question key")
	ErrQuestionnaireNotComplete = errors.New("questionnaire must be validated first")

	// Template and variable errors
	ErrTemplateNotFound  = errors.New("contract template not found")
	ErrTemplateReadOnly  = errors.New("system templates cannot be modified directly")
	ErrVariableNotFound  = errors.New("custom variable not found")
	ErrDuplicateVariable = errors.New("custom variable key already exists")

	// Contract errors
	ErrContractNotFound       = errors.New("contract not found")
	ErrContractAlreadyExists  = errors.New("a contract already exists for this link")
	ErrContractNotRegenerable = errors.New("contract content is frozen and cannot be regenerated")
	ErrContractNotSignable    = errors.New("contract is not awaiting signature")
	ErrContractNotValidatable = errors.New("only draft contracts can be validated")
	ErrAlreadySigned          = errors.New("this party has already signed")

	// Gallery errors
	ErrGalleryNotFound      = errors.New("gallery not found")
	ErrGalleryNotVisible    = errors.New("gallery is not visible to the client")
	ErrContractNotSignedYet = errors.New("gallery cannot be shown before the contract is signed")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsPhotographerNotFound(err error) bool {
	return errors.Is(err, ErrPhotographerNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsClientNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound)
}

func IsEventTypeNotFound(err error) bool {
	return errors.Is(err, ErrEventTypeNotFound)
}

func IsEventTypeReadOnly(err error) bool {
	return errors.Is(err, ErrEventTypeReadOnly)
}

func IsQuestionNotFound(err error) bool {
	return errors.Is(err, ErrQuestionNotFound)
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

func IsLinkNotFound(err error) bool {
	return errors.Is(err, ErrLinkNotFound)
}

func IsLinkRevoked(err error) bool {
	return errors.Is(err, ErrLinkRevoked)
}

func IsLinkExpired(err error) bool {
	return errors.Is(err, ErrLinkExpired)
}

func IsLinkAlreadyRevoked(err error) bool {
	return errors.Is(err, ErrLinkAlreadyRevoked)
}

func IsQuestionnaireNotFound(err error) bool {
	return errors.Is(err, ErrQuestionnaireNotFound)
}

func IsQuestionnaireLocked(err error) bool {
	return errors.Is(err, ErrQuestionnaireLocked)
}

func IsMissingRequiredAnswers(err error) bool {
	return errors.Is(err, ErrMissingRequiredAnswers)
}

func IsInvalidAnswer(err error) bool {
	return errors.Is(err, ErrInvalidAnswer)
}

func IsUnknownQuestionKey(err error) bool {
	return errors.Is(err, ErrUnknownQuestionKey)
}

func IsQuestionnaireNotComplete(err error) bool {
	return errors.Is(err, ErrQuestionnaireNotComplete)
}

func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

func IsTemplateReadOnly(err error) bool {
	return errors.Is(err, ErrTemplateReadOnly)
}

func IsVariableNotFound(err error) bool {
	return errors.Is(err, ErrVariableNotFound)
}

func IsDuplicateVariable(err error) bool {
	return errors.Is(err, ErrDuplicateVariable)
}

func IsContractNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound)
}

func IsContractAlreadyExists(err error) bool {
	return errors.Is(err, ErrContractAlreadyExists)
}

func IsContractNotRegenerable(err error) bool {
	return errors.Is(err, ErrContractNotRegenerable)
}

func IsContractNotSignable(err error) bool {
	return errors.Is(err, ErrContractNotSignable)
}

func IsContractNotValidatable(err error) bool {
	return errors.Is(err, ErrContractNotValidatable)
}

func IsAlreadySigned(err error) bool {
	return errors.Is(err, ErrAlreadySigned)
}

func IsGalleryNotFound(err error) bool {
	return errors.Is(err, ErrGalleryNotFound)
}

func IsGalleryNotVisible(err error) bool {
	return errors.Is(err, ErrGalleryNotVisible)
}

func IsContractNotSignedYet(err error) bool {
	return errors.Is(err, ErrContractNotSignedYet)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
