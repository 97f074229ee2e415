package services

import (
	"fmt"
	"log"
	"strings"

	gomail "github.com/go-mail/mail"
)

// NotificationService handles sending notifications to clients and
// photographers. All sends are best effort; workflow state never depends on a
// notification going out.
type NotificationService interface {
	SendEmail(email, subject, message string) error
	SendEmailWithAttachment(email, subject, message, attachmentPath string) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
	SendEmailWithAttachment(email, subject, message, attachmentPath string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{
		emailProvider: emailProvider,
	}
}

// SendEmail sends an email to the specified email address
func (s *NotificationServiceImpl) SendEmail(email, subject, message string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	return s.emailProvider.SendEmail(email, subject, message)
}

// SendEmailWithAttachment sends an email with a file attached
func (s *NotificationServiceImpl) SendEmailWithAttachment(email, subject, message, attachmentPath string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	return s.emailProvider.SendEmailWithAttachment(email, subject, message, attachmentPath)
}

// SMTPEmailProvider sends mail through an SMTP relay
type SMTPEmailProvider struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
}

// NewSMTPEmailProvider creates an SMTP backed email provider
func NewSMTPEmailProvider(host string, port int, username, password, fromEmail, fromName string) EmailProvider {
	return &SMTPEmailProvider{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (p *SMTPEmailProvider) SendEmail(email, subject, message string) error {
	return p.send(email, subject, message, "")
}

func (p *SMTPEmailProvider) SendEmailWithAttachment(email, subject, message, attachmentPath string) error {
	return p.send(email, subject, message, attachmentPath)
}

func (p *SMTPEmailProvider) send(email, subject, message, attachmentPath string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.fromEmail, p.fromName)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", message)
	if attachmentPath != "" {
		m.Attach(attachmentPath)
	}

	d := gomail.NewDialer(p.host, p.port, p.username, p.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}

// MockEmailProvider logs instead of sending, for development and tests
type MockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(email, subject, message string) error {
	log.Printf("Email sent to %s [%s]: %s", email, subject, message)
	return nil
}

func (p *MockEmailProvider) SendEmailWithAttachment(email, subject, message, attachmentPath string) error {
	log.Printf("Email sent to %s [%s] with attachment %s: %s", email, subject, attachmentPath, message)
	return nil
}
