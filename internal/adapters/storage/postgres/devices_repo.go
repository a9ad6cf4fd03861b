package postgres

import (
	"context"
	"database/sql"

	"medication-reminder/internal/domain/devices"
)

type DevicesRepo struct {
	db *sql.DB
}

func NewDevicesRepo(db *sql.DB) *DevicesRepo {
	return &DevicesRepo{db: db}
}

func (r *DevicesRepo) Upsert(ctx context.Context, d devices.DeviceToken) error {
	// El token es único: si ya existe se reasigna al usuario más reciente
	// conservando el id original de la fila.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO device_tokens (
			id, user_id, token, platform, created_at
		) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (token) DO UPDATE SET
			user_id  = EXCLUDED.user_id,
			platform = EXCLUDED.platform
	`,
		d.ID,
		d.UserID,
		d.Token,
		d.Platform,
		d.CreatedAt,
	)
	return err
}

func (r *DevicesRepo) ListByUser(ctx context.Context, userID string) ([]devices.DeviceToken, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, token, platform, created_at
		FROM device_tokens
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]devices.DeviceToken, 0)
	for rows.Next() {
		var d devices.DeviceToken
		if err := rows.Scan(&d.ID, &d.UserID, &d.Token, &d.Platform, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DevicesRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM device_tokens
		WHERE token = $1
	`, token)
	return err
}
