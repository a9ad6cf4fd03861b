package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/ports/notify"
)

// TokenSource resuelve los device tokens registrados para un usuario.
// Lo implementa el servicio de devices.
type TokenSource interface {
	TokensByUser(ctx context.Context, userID string) ([]string, error)
}

// Notifier manda notificaciones locales vía Firebase Cloud Messaging.
// Implementa notify.PlatformNotifier.
type Notifier struct {
	client *messaging.Client
	tokens TokenSource
	log    logger.Logger
}

func NewNotifier(ctx context.Context, credentialsPath string, tokens TokenSource, log logger.Logger) (*Notifier, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %w", err)
	}

	return &Notifier{
		client: client,
		tokens: tokens,
		log:    log,
	}, nil
}

// Notify entrega la notificación a todos los dispositivos del usuario.
// Un token inválido no corta el envío al resto; se devuelve error solo
// si ningún dispositivo la recibió.
func (n *Notifier) Notify(ctx context.Context, userID string, notif notify.Notification) error {
	tokens, err := n.tokens.TokensByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("error resolving device tokens: %w", err)
	}
	if len(tokens) == 0 {
		n.log.Warn("push skipped, user has no registered devices", map[string]any{
			"user_id": userID,
		})
		return nil
	}

	var lastErr error
	sent := 0
	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: notif.Title,
				Body:  notif.Body,
			},
			Data: map[string]string{
				"tag": notif.Tag,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					Sound:        "default",
					Priority:     messaging.PriorityHigh,
					ChannelID:    "medication_reminders",
					DefaultSound: true,
				},
			},
		}

		if _, err := n.client.Send(ctx, message); err != nil {
			lastErr = err
			n.log.Warn("push send failed for device", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
				"expired": messaging.IsRegistrationTokenNotRegistered(err),
			})
			continue
		}
		sent++
	}

	if sent == 0 && lastErr != nil {
		return fmt.Errorf("error sending push: %w", lastErr)
	}
	return nil
}
