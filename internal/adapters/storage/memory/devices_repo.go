package memory

import (
	"context"
	"sort"
	"sync"

	"medication-reminder/internal/domain/devices"
)

type devicesRepo struct {
	mu      sync.RWMutex
	byToken map[string]devices.DeviceToken
}

func NewDevicesRepo() devices.Repository {
	return &devicesRepo{
		byToken: make(map[string]devices.DeviceToken),
	}
}

func (r *devicesRepo) Upsert(ctx context.Context, d devices.DeviceToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Si el token ya existía conservamos su ID original.
	if prev, ok := r.byToken[d.Token]; ok {
		d.ID = prev.ID
	}
	r.byToken[d.Token] = d
	return nil
}

func (r *devicesRepo) ListByUser(ctx context.Context, userID string) ([]devices.DeviceToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]devices.DeviceToken, 0)
	for _, d := range r.byToken {
		if d.UserID == userID {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *devicesRepo) DeleteByToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byToken, token)
	return nil
}
