package devices

import "time"

// DeviceToken es un token FCM registrado por el dispositivo del usuario.
// Un usuario puede tener varios (teléfono, tablet).
type DeviceToken struct {
	ID        string
	UserID    string
	Token     string
	Platform  string
	CreatedAt time.Time
}
