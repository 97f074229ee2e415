package businessflow

import (
	"sync"
	"testing"

	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/utils"
	"github.com/stretchr/testify/assert"
)

type stubNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *stubNotifier) SendEmail(email, subject, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, email)
	return nil
}

func (n *stubNotifier) SendEmailWithAttachment(email, subject, message, attachmentPath string) error {
	return n.SendEmail(email, subject, message)
}

func (n *stubNotifier) recipients() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	copy(out, n.sent)
	return out
}

func TestContractNotifications(t *testing.T) {
	photographer := &models.Photographer{Email: "marie@studio.fr"}

	t.Run("contract ready email goes to the client", func(t *testing.T) {
		notifier := &stubNotifier{}
		cf := &ContractFlowImpl{notificationSvc: notifier, portalBaseURL: "https://app.focale.test"}

		cf.notifyContractReady(&models.ClientLink{
			Token:  "tok",
			Client: &models.Client{FirstName: "Julie", Email: utils.ToPtr("julie@example.com")},
		})
		assert.Equal(t, []string{"julie@example.com"}, notifier.recipients())
	})

	t.Run("client without email is skipped", func(t *testing.T) {
		notifier := &stubNotifier{}
		cf := &ContractFlowImpl{notificationSvc: notifier, portalBaseURL: "https://app.focale.test"}

		cf.notifyContractReady(&models.ClientLink{
			Token:  "tok",
			Client: &models.Client{FirstName: "Julie"},
		})
		cf.notifyContractReady(&models.ClientLink{Token: "tok"})
		assert.Empty(t, notifier.recipients())
	})

	t.Run("signature confirmation reaches both parties", func(t *testing.T) {
		notifier := &stubNotifier{}
		cf := &ContractFlowImpl{notificationSvc: notifier}

		cf.notifyContractSigned(&models.ClientLink{
			Client:       &models.Client{FirstName: "Julie", Email: utils.ToPtr("julie@example.com")},
			Photographer: photographer,
		})
		assert.Equal(t, []string{"julie@example.com", "marie@studio.fr"}, notifier.recipients())
	})

	t.Run("signature confirmation without client email still reaches the photographer", func(t *testing.T) {
		notifier := &stubNotifier{}
		cf := &ContractFlowImpl{notificationSvc: notifier}

		cf.notifyContractSigned(&models.ClientLink{
			Client:       &models.Client{FirstName: "Julie"},
			Photographer: photographer,
		})
		assert.Equal(t, []string{"marie@studio.fr"}, notifier.recipients())
	})
}
