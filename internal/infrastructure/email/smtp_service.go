package email

// internal/infrastructure/email/smtp_service.go
import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"podcasthub-backend/pkg/logger"
)

type EmailService interface {
	SendContactMessage(ctx context.Context, msg ContactMessage) error
}

// SMTPConfig describes the relay and the team inbox receiving contact messages.
type SMTPConfig struct {
	Host  string
	Port  string
	From  string
	Inbox string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	inbox    string
	send     sendMailFunc
}

// NewSMTPEmailService sends unauthenticated mail through a local relay (MailHog in dev).
func NewSMTPEmailService(cfg SMTPConfig) EmailService {
	return &smtpEmailService{
		smtpAddr: cfg.Host + ":" + cfg.Port,
		smtpFrom: cfg.From,
		inbox:    cfg.Inbox,
		send:     smtp.SendMail,
	}
}

func (s *smtpEmailService) SendContactMessage(ctx context.Context, m ContactMessage) error {
	subject := fmt.Sprintf("New Contact Form Submission from %s", headerSafe(m.Name))
	body := fmt.Sprintf(`Name: %s
Email: %s

%s

This email was sent from the contact form on Podcast Hub.`, headerSafe(m.Name), headerSafe(m.Email), m.Message)

	// Sender là relay address; người gửi thật nằm trong Reply-To
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nReply-To: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, s.inbox, headerSafe(m.Email), subject, body))

	if err := s.send(s.smtpAddr, nil, s.smtpFrom, []string{s.inbox}, msg); err != nil {
		logger.Warn("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// headerSafe strips CR/LF so user input cannot inject extra headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
