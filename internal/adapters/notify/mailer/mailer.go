package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

var (
	ErrNotConfigured = errors.New("smtp not configured")
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	FromName  string
	FromEmail string
}

// Service manda las alertas de escalamiento por email (SMTP).
// Implementa notify.AlertSender.
type Service struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewService(cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.Username) == "" || strings.TrimSpace(cfg.Password) == "" {
		return nil, ErrNotConfigured
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	return &Service{
		cfg:    cfg,
		dialer: dialer,
	}, nil
}

// SendAlert manda un email HTML a un contacto familiar. El ctx no corta
// el envío (gomail no lo soporta); el timeout real es el del dialer SMTP.
func (s *Service) SendAlert(ctx context.Context, toEmail, subject, message string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return errors.New("recipient email required")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", alertTemplate(subject, message))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
