package devices

import "context"

type Repository interface {
	// Upsert por token: si el token ya existe se reasigna al usuario.
	Upsert(ctx context.Context, d DeviceToken) error
	ListByUser(ctx context.Context, userID string) ([]DeviceToken, error)
	DeleteByToken(ctx context.Context, token string) error
}
