package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"dentalcare-backend/internal/config"
)

// EmailRequest is one outgoing message.
type EmailRequest struct {
	To      []string
	Subject string
	Body    string
}

type EmailService interface {
	SendEmail(ctx context.Context, req EmailRequest) error
}

type smtpEmailService struct {
	addr string
	from string
}

// NewSMTPService sends plain-text mail through the configured relay.
// Pointed at mailpit in development.
func NewSMTPService(cfg config.SMTPConfig) EmailService {
	return &smtpEmailService{
		addr: cfg.Host + ":" + cfg.Port,
		from: cfg.From,
	}
}

func (s *smtpEmailService) SendEmail(ctx context.Context, req EmailRequest) error {
	if len(req.To) == 0 {
		log.Warn().Str("subject", req.Subject).Msg("Email has no recipients, skipping")
		return nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, strings.Join(req.To, ", "), req.Subject, req.Body))

	if err := smtp.SendMail(s.addr, nil, s.from, req.To, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// noopEmailService swallows messages. Tests and demo mode.
type noopEmailService struct{}

// NewNoopService returns an EmailService that logs instead of sending.
func NewNoopService() EmailService {
	return &noopEmailService{}
}

func (s *noopEmailService) SendEmail(ctx context.Context, req EmailRequest) error {
	log.Info().
		Strs("to", req.To).
		Str("subject", req.Subject).
		Msg("Email suppressed (noop mail service)")
	return nil
}
