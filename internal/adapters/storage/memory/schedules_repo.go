package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"medication-reminder/internal/domain/schedules"
)

type schedulesRepo struct {
	mu   sync.RWMutex
	byID map[string]schedules.Schedule
}

func NewSchedulesRepo() schedules.Repository {
	return &schedulesRepo{
		byID: make(map[string]schedules.Schedule),
	}
}

func (r *schedulesRepo) Create(ctx context.Context, s schedules.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("schedule id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("schedule already exists")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *schedulesRepo) GetByID(ctx context.Context, id string) (schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return schedules.Schedule{}, ErrNotFound
	}
	return s, nil
}

func (r *schedulesRepo) ListByMedication(ctx context.Context, medicationID string) ([]schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Schedule, 0)
	for _, s := range r.byID {
		if s.MedicationID == medicationID {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TimeOfDay < out[j].TimeOfDay
	})

	return out, nil
}

func (r *schedulesRepo) ListActiveAt(ctx context.Context, timeOfDay string) ([]schedules.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedules.Schedule, 0)
	for _, s := range r.byID {
		if s.Active && s.TimeOfDay == timeOfDay {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *schedulesRepo) Deactivate(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.Active = false
	r.byID[id] = s
	return nil
}

func (r *schedulesRepo) DeactivateByMedication(ctx context.Context, medicationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.byID {
		if s.MedicationID == medicationID && s.Active {
			s.Active = false
			r.byID[id] = s
		}
	}
	return nil
}
