package notify

import "context"

// AlertSender manda una alerta saliente (email) a un contacto familiar.
// Se invoca fire-and-forget desde el sweep de escalamiento: el error se
// loguea, nunca llega al usuario final de forma síncrona.
type AlertSender interface {
	SendAlert(ctx context.Context, toEmail, subject, message string) error
}

// Notification es una notificación de plataforma (push) best-effort.
type Notification struct {
	Title string
	Body  string

	// Tag colapsa notificaciones repetidas de la misma ocurrencia.
	Tag string
}

// PlatformNotifier muestra una notificación al usuario fuera de la app.
// Implementaciones sin configurar deben ser no-op, no error fatal.
type PlatformNotifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}
