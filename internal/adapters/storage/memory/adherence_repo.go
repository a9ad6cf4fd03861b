package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"medication-reminder/internal/domain/adherence"
)

// occurrenceKey replica la unicidad de storage:
// (medicamento, usuario, fecha-hora programada) → un solo registro.
type occurrenceKey struct {
	MedicationID string
	UserID       string
	ScheduledAt  int64 // unix, truncado al minuto
}

func keyFor(medicationID, userID string, scheduledAt time.Time) occurrenceKey {
	return occurrenceKey{
		MedicationID: medicationID,
		UserID:       userID,
		ScheduledAt:  scheduledAt.Truncate(time.Minute).Unix(),
	}
}

type adherenceRepo struct {
	mu    sync.RWMutex
	byKey map[occurrenceKey]adherence.Record
}

func NewAdherenceRepo() adherence.Repository {
	return &adherenceRepo{
		byKey: make(map[occurrenceKey]adherence.Record),
	}
}

func (r *adherenceRepo) Get(ctx context.Context, medicationID, userID string, scheduledAt time.Time) (adherence.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byKey[keyFor(medicationID, userID, scheduledAt)]
	if !ok {
		return adherence.Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *adherenceRepo) Upsert(ctx context.Context, rec adherence.Record, skipIfCompleted bool) (adherence.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyFor(rec.MedicationID, rec.UserID, rec.ScheduledAt)

	// Chequeo y escritura bajo el mismo lock: es el equivalente del
	// upsert condicional de Postgres, sin ventana entre leer y escribir.
	if current, ok := r.byKey[key]; ok {
		if skipIfCompleted && current.Terminal() {
			return current, nil
		}
		current.Status = rec.Status
		current.TakenAt = rec.TakenAt
		current.UpdatedAt = rec.UpdatedAt
		r.byKey[key] = current
		return current, nil
	}

	r.byKey[key] = rec
	return rec, nil
}

func (r *adherenceRepo) ListSince(ctx context.Context, userID string, since time.Time, statuses []adherence.Status) ([]adherence.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[adherence.Status]struct{}, len(statuses))
	for _, s := range statuses {
		want[s] = struct{}{}
	}

	out := make([]adherence.Record, 0)
	for _, rec := range r.byKey {
		if rec.UserID != userID {
			continue
		}
		if rec.ScheduledAt.Before(since) {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[rec.Status]; !ok {
				continue
			}
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})

	return out, nil
}

func (r *adherenceRepo) ListByUser(ctx context.Context, userID string, limit int) ([]adherence.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adherence.Record, 0)
	for _, rec := range r.byKey {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}

	// Más recientes primero (feed de dashboard).
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.After(out[j].ScheduledAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
