// Package logonly provee implementaciones de los puertos de notificación
// que solo escriben al log. Se usan cuando SMTP o Firebase no están
// configurados (dev local, tests de integración).
package logonly

import (
	"context"

	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/ports/notify"
)

type AlertSender struct {
	log logger.Logger
}

func NewAlertSender(log logger.Logger) *AlertSender {
	return &AlertSender{log: log}
}

func (s *AlertSender) SendAlert(ctx context.Context, toEmail, subject, message string) error {
	s.log.Info("alert email (log-only mode)", map[string]any{
		"to":      toEmail,
		"subject": subject,
		"message": message,
	})
	return nil
}

type PlatformNotifier struct {
	log logger.Logger
}

func NewPlatformNotifier(log logger.Logger) *PlatformNotifier {
	return &PlatformNotifier{log: log}
}

func (n *PlatformNotifier) Notify(ctx context.Context, userID string, notif notify.Notification) error {
	n.log.Info("local notification (log-only mode)", map[string]any{
		"user_id": userID,
		"title":   notif.Title,
		"body":    notif.Body,
		"tag":     notif.Tag,
	})
	return nil
}
